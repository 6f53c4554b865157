// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"context"
	"syscall/js"

	"github.com/gogpu/xr"
)

// System is navigator.xr. It implements xr.System.
type System struct {
	xr js.Value
}

// NewSystem returns the browser's XR system.
func NewSystem() (*System, error) {
	x := js.Global().Get("navigator").Get("xr")
	if x.IsUndefined() || x.IsNull() {
		return nil, ErrNoWebXR
	}
	return &System{xr: x}, nil
}

// IsSessionSupported implements xr.System. A rejected query reports false.
func (s *System) IsSessionSupported(ctx context.Context, mode xr.SessionMode) bool {
	v, err := await(ctx, s.xr.Call("isSessionSupported", mode.String()), nil)
	if err != nil {
		xr.Logger().Debug("webxr: support query failed", "mode", mode, "err", err)
		return false
	}
	return v.Truthy()
}

// RequestSession implements xr.System. The browser may show a permission
// prompt; the call blocks until it is answered. A session granted after
// ctx ended is ended right away, since nothing owns it.
func (s *System) RequestSession(ctx context.Context, mode xr.SessionMode) (hs xr.HostSession, err error) {
	defer catch(&err)
	v, err := await(ctx, s.xr.Call("requestSession", mode.String()), endOrphan(mode))
	if err != nil {
		return nil, err
	}
	return newSession(v, mode), nil
}

// endOrphan ends a session whose requester already gave up. The browser
// allows one immersive session, so leaving it open would fail every later
// request.
func endOrphan(mode xr.SessionMode) func(js.Value) {
	return func(v js.Value) {
		xr.Logger().Warn("webxr: ending session granted after the request was abandoned", "mode", mode)
		var err error
		defer func() {
			if err != nil {
				xr.Logger().Warn("webxr: end abandoned session", "err", err)
			}
		}()
		defer catch(&err)
		v.Call("end")
	}
}

var _ xr.System = (*System)(nil)
