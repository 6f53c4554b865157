package software

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend"
	"github.com/gogpu/xr/render"
)

func newContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	gc, err := New(opts...).CreateContext(xr.Surface{Name: "test", Width: 64, Height: 32}, xr.ContextConfig{})
	if err != nil {
		t.Fatalf("CreateContext() = %v", err)
	}
	t.Cleanup(gc.Destroy)
	return gc.(*Context)
}

func TestRegistered(t *testing.T) {
	gs, err := backend.Get(backend.NameSoftware)
	if err != nil {
		t.Fatalf("backend.Get(software) = %v", err)
	}
	if _, ok := gs.(*System); !ok {
		t.Errorf("registered system is %T", gs)
	}
}

func TestMakeXRCompatible(t *testing.T) {
	c := newContext(t)
	if c.XRCompatible() {
		t.Fatal("new context already XR-compatible")
	}
	if err := c.MakeXRCompatible(context.Background()); err != nil {
		t.Fatalf("MakeXRCompatible() = %v", err)
	}
	if !c.XRCompatible() {
		t.Error("XRCompatible() = false after upgrade")
	}
}

func TestMakeXRCompatibleFailure(t *testing.T) {
	cause := errors.New("headset on another adapter")
	c := newContext(t, WithXRCompatibilityError(cause))
	if err := c.MakeXRCompatible(context.Background()); !errors.Is(err, cause) {
		t.Errorf("MakeXRCompatible() = %v, want %v", err, cause)
	}
	if c.XRCompatible() {
		t.Error("context XR-compatible after failure")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newContext(t).MakeXRCompatible(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("MakeXRCompatible(cancelled) = %v", err)
	}
}

func TestCreateError(t *testing.T) {
	cause := errors.New("no canvas")
	_, err := New(WithCreateError(cause)).CreateContext(xr.Surface{Width: 1, Height: 1}, xr.ContextConfig{})
	if !errors.Is(err, cause) {
		t.Errorf("CreateContext() = %v, want %v", err, cause)
	}
}

func TestBindAndClearViewports(t *testing.T) {
	c := newContext(t)
	if err := c.Clear(color.Black); !errors.Is(err, ErrNoTarget) {
		t.Errorf("Clear() without target = %v, want ErrNoTarget", err)
	}

	target, err := c.AllocateTarget(64, 32)
	if err != nil {
		t.Fatalf("AllocateTarget() = %v", err)
	}
	if err := c.BindDrawTarget(target); err != nil {
		t.Fatalf("BindDrawTarget() = %v", err)
	}

	vps := xr.StereoViewports(64, 32)
	if err := c.ClearViewports(vps[:1], color.RGBA{R: 255, A: 255}); err != nil {
		t.Fatalf("ClearViewports() = %v", err)
	}
	pt := c.Bound()
	if got := pt.GetPixel(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("left eye pixel = %v, want red", got)
	}
	if got := pt.GetPixel(40, 10); got != (color.RGBA{}) {
		t.Errorf("right eye pixel = %v, want untouched", got)
	}
}

type otherTarget struct{ render.PixmapTarget }

func TestBindForeignTarget(t *testing.T) {
	c := newContext(t)
	if err := c.BindDrawTarget(&otherTarget{}); !errors.Is(err, ErrForeignTarget) {
		t.Errorf("BindDrawTarget(foreign) = %v, want ErrForeignTarget", err)
	}
}

func TestTargetLifecycle(t *testing.T) {
	c := newContext(t)
	if _, err := c.AllocateTarget(0, 10); err == nil {
		t.Error("AllocateTarget(0, 10) succeeded")
	}
	a, _ := c.AllocateTarget(8, 8)
	b, _ := c.AllocateTarget(8, 8)
	_ = c.BindDrawTarget(a)
	if c.Targets() != 2 {
		t.Errorf("Targets() = %d, want 2", c.Targets())
	}
	c.ReleaseTarget(a)
	c.ReleaseTarget(b)
	if c.Targets() != 0 || c.Bound() != nil {
		t.Errorf("after release: targets %d bound %v", c.Targets(), c.Bound())
	}

	c.Destroy()
	c.Destroy()
	if !c.Destroyed() {
		t.Error("Destroyed() = false")
	}
	if _, err := c.AllocateTarget(8, 8); !errors.Is(err, ErrDestroyed) {
		t.Errorf("AllocateTarget() after Destroy = %v, want ErrDestroyed", err)
	}
}
