// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"fmt"

	"github.com/gogpu/xr/render"
)

// API identifies the graphics API behind a context.
type API int

const (
	// APIWebGL2 is a WebGL 2.0 context on a canvas.
	APIWebGL2 API = iota

	// APIWebGPU is a WebGPU device.
	APIWebGPU

	// APISoftware is a CPU rasterizer.
	APISoftware
)

// String returns the API name.
func (a API) String() string {
	switch a {
	case APIWebGL2:
		return "webgl2"
	case APIWebGPU:
		return "webgpu"
	case APISoftware:
		return "software"
	default:
		return fmt.Sprintf("API(%d)", int(a))
	}
}

// Surface is the drawable a graphics context is created for, the
// canvas-equivalent of the host.
type Surface struct {
	// Name identifies the surface, e.g. a canvas element ID.
	Name string

	// Width and Height are the surface size in pixels.
	Width  int
	Height int

	// Handle is an optional host-specific handle (js.Value for a canvas).
	Handle any
}

// ContextConfig configures graphics context creation.
type ContextConfig struct {
	API API

	// XRCompatible asks the host to create the context on an XR-capable
	// adapter up front. MakeXRCompatible is still required.
	XRCompatible bool

	Antialias bool
	Depth     bool
}

// GraphicsSystem creates graphics contexts.
//
// Implementations: backend/software, backend/wgpu, host/webxr.
type GraphicsSystem interface {
	CreateContext(surface Surface, cfg ContextConfig) (GraphicsContext, error)
}

// GraphicsContext is a rendering context that can present to an XR session.
type GraphicsContext interface {
	// API returns the graphics API of the context.
	API() API

	// MakeXRCompatible blocks until the host finished any GPU
	// re-initialization needed to present to XR.
	MakeXRCompatible(ctx context.Context) error

	// XRCompatible reports whether MakeXRCompatible succeeded.
	XRCompatible() bool

	// BindDrawTarget makes t the destination of subsequent drawing.
	BindDrawTarget(t render.Target) error

	// Destroy releases the context. Safe to call more than once.
	Destroy()
}

// TargetAllocator is implemented by contexts that can allocate
// framebuffers on behalf of a compositor.
type TargetAllocator interface {
	AllocateTarget(width, height int) (render.Target, error)
	ReleaseTarget(t render.Target)
}
