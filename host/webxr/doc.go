// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webxr binds the session loop to the browser: navigator.xr for
// sessions and frames, a WebGL2 canvas context for drawing and
// XRWebGLLayer for the base layer. The browser bindings build only for
// js/wasm.
//
// Promise-returning calls (support query, session request,
// makeXRCompatible) block the calling goroutine until the browser settles
// them. They must not be called from inside a JS callback, which includes
// frame handlers.
//
//	sys, err := webxr.NewSystem()
//	rt, err := xr.Setup(ctx, sys, webxr.NewGraphics(), xr.WithFrameHandler(h))
package webxr
