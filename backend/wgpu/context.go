package wgpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend"
	"github.com/gogpu/xr/render"
)

func init() {
	backend.Register(backend.NameWGPU, func() (xr.GraphicsSystem, error) {
		return New(), nil
	})
}

// Option configures a System.
type Option func(*System)

// WithBackend selects the HAL backend, for example the software or
// vulkan HAL. Default is the noop HAL.
func WithBackend(b hal.Backend) Option {
	return func(s *System) {
		s.backend = b
	}
}

// WithFormat sets the framebuffer format. Default RGBA8Unorm.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(s *System) {
		s.format = f
	}
}

// System creates WebGPU contexts. It implements xr.GraphicsSystem.
type System struct {
	backend hal.Backend
	format  gputypes.TextureFormat
}

// New creates a WebGPU graphics system.
func New(opts ...Option) *System {
	s := &System{
		backend: noop.API{},
		format:  gputypes.TextureFormatRGBA8Unorm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateContext opens a device for surface.
func (s *System) CreateContext(surface xr.Surface, cfg xr.ContextConfig) (xr.GraphicsContext, error) {
	d, err := openDevice(s.backend)
	if err != nil {
		return nil, err
	}
	c := &Context{
		surface: surface,
		cfg:     cfg,
		format:  s.format,
		opened:  d,
		device:  d.device,
		queue:   d.queue,
		targets: make(map[*TextureTarget]struct{}),
		shaders: make(map[string]hal.ShaderModule),
	}
	xr.Logger().Debug("wgpu: device opened", "surface", surface.Name,
		"adapter", d.info.Name, "backend", s.backend.Variant(), "format", s.format)
	return c, nil
}

// Context is a WebGPU graphics context owning one HAL device.
type Context struct {
	surface xr.Surface
	cfg     xr.ContextConfig
	format  gputypes.TextureFormat

	mu         sync.Mutex
	opened     *halDevice
	device     hal.Device
	queue      hal.Queue
	compatible bool
	destroyed  bool
	bound      *TextureTarget
	targets    map[*TextureTarget]struct{}
	shaders    map[string]hal.ShaderModule
	mesh       *meshPipeline
}

// API returns xr.APIWebGPU.
func (c *Context) API() xr.API { return xr.APIWebGPU }

// MakeXRCompatible checks that the device's instance still exposes an
// adapter the compositor can present from.
func (c *Context) MakeXRCompatible(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if adapterCount(c.opened.instance) == 0 {
		return ErrNotXRCompatible
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

// BindDrawTarget makes t the target of DrawViewports and ClearViewports.
func (c *Context) BindDrawTarget(t render.Target) error {
	tt, ok := t.(*TextureTarget)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrDestroyed
	}
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignTarget, t)
	}
	if _, owned := c.targets[tt]; !owned {
		return ErrForeignTarget
	}
	c.bound = tt
	return nil
}

// Bound returns the bound target, nil if none.
func (c *Context) Bound() *TextureTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bound
}

// AllocateTarget creates a render-attachment texture. It implements
// xr.TargetAllocator.
func (c *Context) AllocateTarget(width, height int) (render.Target, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil, ErrDestroyed
	}
	t, err := newTextureTarget(c.device, width, height, c.format)
	if err != nil {
		return nil, err
	}
	c.targets[t] = struct{}{}
	return t, nil
}

// ReleaseTarget destroys a target from AllocateTarget.
func (c *Context) ReleaseTarget(t render.Target) {
	tt, ok := t.(*TextureTarget)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, owned := c.targets[tt]; !owned {
		return
	}
	delete(c.targets, tt)
	if c.bound == tt {
		c.bound = nil
	}
	tt.destroy(c.device)
}

// Targets returns the number of live allocated targets.
func (c *Context) Targets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.targets)
}

// Destroy releases every target, pipeline, shader module and the device.
// Safe to call more than once.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.bound = nil
	for t := range c.targets {
		t.destroy(c.device)
	}
	clear(c.targets)
	if c.mesh != nil {
		c.mesh.destroy(c.device)
		c.mesh = nil
	}
	for _, m := range c.shaders {
		c.device.DestroyShaderModule(m)
	}
	clear(c.shaders)
	c.opened.destroy()
	xr.Logger().Debug("wgpu: context destroyed", "surface", c.surface.Name)
}

// Device implements gpucontext.DeviceProvider. The value is the hal.Device.
func (c *Context) Device() gpucontext.Device { return c.device }

// Queue implements gpucontext.DeviceProvider. The value is the hal.Queue.
func (c *Context) Queue() gpucontext.Queue { return c.queue }

// Adapter implements gpucontext.DeviceProvider. The value is the hal.Adapter.
func (c *Context) Adapter() gpucontext.Adapter { return c.opened.adapter }

// AdapterInfo implements gpucontext.DeviceProvider.
func (c *Context) AdapterInfo() gpucontext.AdapterInfo { return providerInfo(c.opened.info) }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.format }

// HalDevice returns the hal.Device for renderers that accept a HAL provider.
func (c *Context) HalDevice() any { return c.device }

// HalQueue returns the hal.Queue for renderers that accept a HAL provider.
func (c *Context) HalQueue() any { return c.queue }

var (
	_ xr.GraphicsSystem         = (*System)(nil)
	_ xr.GraphicsContext        = (*Context)(nil)
	_ xr.TargetAllocator        = (*Context)(nil)
	_ gpucontext.DeviceProvider = (*Context)(nil)
)
