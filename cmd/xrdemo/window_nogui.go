// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !js && nogui

package main

import (
	"context"
	"errors"
)

func (a *app) window(context.Context) error {
	return errors.New("built without window support (nogui)")
}
