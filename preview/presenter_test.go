// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package preview

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend/software"
	"github.com/gogpu/xr/host/sim"
)

var red = color.RGBA{R: 255, A: 255}

func setup(t *testing.T, gs xr.GraphicsSystem) (*sim.System, *xr.Runtime) {
	t.Helper()
	sys := sim.NewSystem(sim.WithFramebufferSize(16, 8))
	rt, err := xr.Setup(context.Background(), sys, gs,
		xr.WithFrameHandler(xr.FrameHandlerFunc(func(fc *xr.FrameContext) error {
			return fc.Graphics.(*software.Context).Clear(red)
		})))
	if err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return sys, rt
}

func TestPresenterStep(t *testing.T) {
	sys, rt := setup(t, software.New())
	p := NewPresenter(sys.Active(), 90)

	for i := 0; i < 4; i++ {
		if err := p.Step(context.Background()); err != nil {
			t.Fatalf("Step() = %v", err)
		}
	}
	if rt.Loop.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", rt.Loop.Frames())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Step(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Step(canceled) = %v, want context.Canceled", err)
	}

	p.Session().Disconnect(nil)
	if err := p.Step(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Step() after disconnect = %v, want ErrSessionClosed", err)
	}
}

func TestPresenterSnapshot(t *testing.T) {
	sys, _ := setup(t, software.New())
	p := NewPresenter(sys.Active(), 0)

	if w, h := p.FramebufferSize(1, 1); w != 16 || h != 8 {
		t.Errorf("FramebufferSize() = %dx%d, want 16x8", w, h)
	}
	if err := p.Step(context.Background()); err != nil {
		t.Fatalf("Step() = %v", err)
	}

	snap, ok := p.Snapshot(nil)
	if !ok {
		t.Fatal("Snapshot() reported no layer")
	}
	if got := snap.RGBAAt(3, 3); got != red {
		t.Errorf("pixel = %v, want %v", got, red)
	}
	again, _ := p.Snapshot(snap)
	if again != snap {
		t.Error("Snapshot() reallocated a same-size buffer")
	}
	if p.Clock().Interval() != sim.NewClock(p.Session(), sim.DefaultRefreshRate).Interval() {
		t.Error("zero refresh rate did not select the default")
	}
}

func TestPresenterSnapshotAfterSessionEnds(t *testing.T) {
	sys, rt := setup(t, software.New())
	p := NewPresenter(sys.Active(), 60)
	if err := p.Step(context.Background()); err != nil {
		t.Fatalf("Step() = %v", err)
	}

	p.Session().Disconnect(nil)
	if rt.Layer.(*sim.Layer).Target() != nil {
		t.Fatal("layer still holds its target after the session ended")
	}
	snap, ok := p.Snapshot(nil)
	if !ok {
		t.Fatal("Snapshot() after the session ended reported no framebuffer")
	}
	if got := snap.RGBAAt(0, 0); got != red {
		t.Errorf("pixel = %v, want the last presented frame %v", got, red)
	}
}

func TestPresenterSnapshotWithoutLayer(t *testing.T) {
	sys := sim.NewSystem()
	hs, err := sys.RequestSession(context.Background(), xr.Inline)
	if err != nil {
		t.Fatalf("RequestSession() = %v", err)
	}
	p := NewPresenter(hs.(*sim.Session), 60)
	if _, ok := p.Snapshot(nil); ok {
		t.Error("Snapshot() without a layer reported ok")
	}
	if w, h := p.FramebufferSize(3, 2); w != 3 || h != 2 {
		t.Errorf("FramebufferSize() = %dx%d, want fallback 3x2", w, h)
	}
}
