// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr_test

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend/software"
	"github.com/gogpu/xr/host/sim"
)

var clearColor = color.RGBA{R: 25, G: 51, B: 76, A: 255}

func clearHandler(fc *xr.FrameContext) error {
	gc, ok := fc.Graphics.(*software.Context)
	if !ok {
		return errors.New("unexpected graphics context")
	}
	return gc.ClearViewports(fc.Viewports, clearColor)
}

func TestSimulatedSessionLifecycle(t *testing.T) {
	sys := sim.NewSystem(sim.WithFramebufferSize(64, 32))
	gs := software.New()

	rt, err := xr.Setup(context.Background(), sys, gs,
		xr.WithSurface(xr.Surface{Name: "canvas", Width: 64, Height: 32}),
		xr.WithDepthRange(0.001, 100),
		xr.WithFrameHandler(xr.FrameHandlerFunc(clearHandler)))
	if err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	host := sys.Active()
	if host == nil {
		t.Fatal("no active host session")
	}
	clock := sim.NewClock(host, 90)
	for i := 0; i < 10; i++ {
		if n := clock.Step(); n != 1 {
			t.Fatalf("step %d ran %d callbacks, want 1", i, n)
		}
	}

	if rt.Loop.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", rt.Loop.Frames())
	}
	if host.MaxPending() != 1 {
		t.Errorf("host saw %d pending requests at once, want 1", host.MaxPending())
	}
	rs, err := rt.Session.RenderState()
	if err != nil {
		t.Fatalf("RenderState() = %v", err)
	}
	if rs.DepthNear != 0.001 {
		t.Errorf("DepthNear = %g, want 0.001", rs.DepthNear)
	}

	target := host.BaseLayer().Target()
	gc := rt.Context.(*software.Context)
	if gc.Bound() != target {
		t.Error("bound target is not the layer framebuffer")
	}
	for _, x := range []int{1, 40} {
		if got := gc.Bound().GetPixel(x, 5); got != clearColor {
			t.Errorf("pixel (%d,5) = %v, want %v", x, got, clearColor)
		}
	}

	host.Disconnect(nil)
	if rt.Loop.State() != xr.LoopEnded {
		t.Fatalf("loop state = %v, want ended", rt.Loop.State())
	}
	if !errors.Is(rt.Loop.Err(), xr.ErrSessionEnded) || !errors.Is(rt.Loop.Err(), sim.ErrDisconnected) {
		t.Errorf("Err() = %v, want ErrSessionEnded wrapping the disconnect", rt.Loop.Err())
	}
	for i := 0; i < 5; i++ {
		clock.Step()
	}
	if host.Pending() != 0 || rt.Loop.Frames() != 10 {
		t.Errorf("frames continued after disconnect: pending %d frames %d", host.Pending(), rt.Loop.Frames())
	}
	if gc.Targets() != 0 {
		t.Errorf("framebuffers not released: %d", gc.Targets())
	}
}

func TestSimulatedIncompatibleContext(t *testing.T) {
	sys := sim.NewSystem()
	gs := software.New(software.WithXRCompatibilityError(errors.New("wrong adapter")))

	_, err := xr.Setup(context.Background(), sys, gs)
	if !errors.Is(err, xr.ErrIncompatibleContext) {
		t.Fatalf("Setup() = %v, want ErrIncompatibleContext", err)
	}
	if sys.Active() != nil {
		t.Error("session still active after incompatible context")
	}
}

func TestSimulatedStopAndRestart(t *testing.T) {
	sys := sim.NewSystem()
	n := xr.NewNegotiator(sys)

	rt, err := xr.Setup(context.Background(), sys, software.New(), xr.WithNegotiator(n), xr.WithMode(xr.Inline))
	if err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	sys.Active().Tick(0)
	if err := rt.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !errors.Is(rt.Loop.Err(), xr.ErrLoopStopped) {
		t.Errorf("Err() after Close = %v, want ErrLoopStopped", rt.Loop.Err())
	}

	rt2, err := xr.Setup(context.Background(), sys, software.New(), xr.WithNegotiator(n))
	if err != nil {
		t.Fatalf("Setup() after Close = %v", err)
	}
	defer rt2.Close()
	if rt2.Session.ID() == rt.Session.ID() {
		t.Error("new session reused the old ID")
	}
}
