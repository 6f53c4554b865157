// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package xr drives immersive XR sessions for the GoGPU ecosystem.
//
// # Overview
//
// xr owns the bootstrap sequence every immersive application repeats:
// negotiate a session with the host, create a graphics context that can
// present to it, install a composition layer as the session's render state
// and run a frame loop that re-arms itself once per compositor frame.
//
// # Quick Start
//
//	rt, err := xr.Setup(ctx, system, graphics,
//	    xr.WithMode(xr.ImmersiveVR),
//	    xr.WithSurface(xr.Surface{Name: "canvas", Width: 1600, Height: 800}),
//	    xr.WithFrameHandler(xr.FrameHandlerFunc(func(fc *xr.FrameContext) error {
//	        // draw into fc.Target, one viewport per eye
//	        return nil
//	    })),
//	)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//	<-rt.Loop.Done()
//
// # Hosts
//
// xr never talks to a device directly. The host XR runtime is injected as a
// [System] and the graphics API as a [GraphicsSystem]:
//   - host/sim: deterministic in-process host with a presentation clock
//   - host/webxr: browser host over navigator.xr (js/wasm only)
//   - backend/software: CPU pixmap draw targets
//   - backend/wgpu: WebGPU draw targets over gogpu/wgpu
//
// Around the core, scene draws the debug cube, metrics exports loop
// activity to Prometheus and preview shows a simulated headset in a
// desktop window.
//
// # Setup Ordering
//
// Setup always runs: query support, request session, create context, make it
// XR-compatible, build the base layer, install the render state, arm the
// loop. A failure after the session was granted ends the session.
//
// # Frame Loop
//
// The loop is a small state machine (Idle, Armed, Running, Ended). Each
// frame it resolves the base layer from the session's current render state,
// never from a cached reference, binds the compositor draw target and calls
// the [FrameHandler]. At most one frame request is outstanding at a time.
//
// # Thread Safety
//
// Hosts may deliver frame callbacks from their own goroutine. A FrameLoop
// serializes callbacks and may be stopped from any goroutine.
package xr
