// Package software provides a CPU graphics system for XR sessions.
//
// Draw targets are render.PixmapTarget values. The context can allocate
// them for a compositor (it implements xr.TargetAllocator), so host/sim
// layers built on it present plain RGBA pixmaps.
//
// The package registers itself with the backend registry on import.
package software

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend"
	"github.com/gogpu/xr/render"
)

// Errors returned by software contexts.
var (
	// ErrDestroyed is returned by operations on a destroyed context.
	ErrDestroyed = errors.New("software: context destroyed")

	// ErrForeignTarget is returned when binding a target this backend
	// did not allocate.
	ErrForeignTarget = errors.New("software: target is not a pixmap target")

	// ErrNoTarget is returned when drawing without a bound target.
	ErrNoTarget = errors.New("software: no draw target bound")
)

func init() {
	backend.Register(backend.NameSoftware, func() (xr.GraphicsSystem, error) {
		return New(), nil
	})
}

// Option configures a System.
type Option func(*System)

// WithXRCompatibilityError makes MakeXRCompatible fail with err, simulating
// a context on an adapter that cannot present to the headset.
func WithXRCompatibilityError(err error) Option {
	return func(s *System) {
		s.compatErr = err
	}
}

// WithCreateError makes CreateContext fail with err.
func WithCreateError(err error) Option {
	return func(s *System) {
		s.createErr = err
	}
}

// System creates software contexts. It implements xr.GraphicsSystem.
type System struct {
	compatErr error
	createErr error
}

// New creates a software graphics system.
func New(opts ...Option) *System {
	s := &System{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateContext creates a context for surface. Any requested API is served
// by the CPU rasterizer.
func (s *System) CreateContext(surface xr.Surface, cfg xr.ContextConfig) (xr.GraphicsContext, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &Context{
		surface:   surface,
		cfg:       cfg,
		compatErr: s.compatErr,
		targets:   make(map[*render.PixmapTarget]struct{}),
	}, nil
}

// Context is a CPU graphics context.
type Context struct {
	surface   xr.Surface
	cfg       xr.ContextConfig
	compatErr error

	mu         sync.Mutex
	compatible bool
	destroyed  bool
	bound      *render.PixmapTarget
	targets    map[*render.PixmapTarget]struct{}
}

// API returns xr.APISoftware.
func (c *Context) API() xr.API { return xr.APISoftware }

// Surface returns the surface the context was created for.
func (c *Context) Surface() xr.Surface { return c.surface }

// MakeXRCompatible marks the context XR-compatible.
func (c *Context) MakeXRCompatible(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if c.compatErr != nil {
		return c.compatErr
	}
	c.compatible = true
	return nil
}

// XRCompatible reports whether MakeXRCompatible succeeded.
func (c *Context) XRCompatible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compatible
}

// BindDrawTarget makes t the destination of Clear and Bound.
func (c *Context) BindDrawTarget(t render.Target) error {
	pt, ok := t.(*render.PixmapTarget)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignTarget, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	c.bound = pt
	return nil
}

// Bound returns the bound target, nil if none.
func (c *Context) Bound() *render.PixmapTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound
}

// Clear fills the bound target with col.
func (c *Context) Clear(col color.Color) error {
	t, err := c.target()
	if err != nil {
		return err
	}
	t.Clear(col)
	return nil
}

// ClearViewports fills each viewport of the bound target with col.
func (c *Context) ClearViewports(viewports []xr.Viewport, col color.Color) error {
	t, err := c.target()
	if err != nil {
		return err
	}
	for _, vp := range viewports {
		t.ClearRect(vp.Rect(), col)
	}
	return nil
}

func (c *Context) target() (*render.PixmapTarget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, ErrDestroyed
	}
	if c.bound == nil {
		return nil, ErrNoTarget
	}
	return c.bound, nil
}

// AllocateTarget allocates a pixmap framebuffer. It implements
// xr.TargetAllocator.
func (c *Context) AllocateTarget(width, height int) (render.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("software: invalid target size %dx%d", width, height)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, ErrDestroyed
	}
	t := render.NewPixmapTarget(width, height)
	c.targets[t] = struct{}{}
	return t, nil
}

// ReleaseTarget releases a target from AllocateTarget.
func (c *Context) ReleaseTarget(t render.Target) {
	pt, ok := t.(*render.PixmapTarget)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.targets, pt)
	if c.bound == pt {
		c.bound = nil
	}
}

// Targets returns the number of live allocated targets.
func (c *Context) Targets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.targets)
}

// Destroy releases the context. Safe to call more than once.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.bound = nil
	clear(c.targets)
	xr.Logger().Debug("software: context destroyed", "surface", c.surface.Name)
}

// Destroyed reports whether Destroy was called.
func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

var (
	_ xr.GraphicsSystem  = (*System)(nil)
	_ xr.GraphicsContext = (*Context)(nil)
	_ xr.TargetAllocator = (*Context)(nil)
)
