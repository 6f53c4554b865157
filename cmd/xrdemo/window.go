// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !js && !nogui

package main

import (
	"context"
	"fmt"

	"github.com/gogpu/xr/preview"
)

// window presents frames from a desktop window's update loop.
func (a *app) window(ctx context.Context) error {
	w := preview.NewWindow(a.presenter.Session(),
		preview.WithTitle(fmt.Sprintf("xrdemo: %s on %s", a.cfg.Mode, a.backend)),
		preview.WithScale(a.cfg.Scale),
		preview.WithRefreshRate(a.cfg.RefreshRate),
	)
	return w.Run(ctx)
}
