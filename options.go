// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Option configures Setup.
//
// Example:
//
//	rt, err := xr.Setup(ctx, system, graphics,
//	    xr.WithMode(xr.ImmersiveVR),
//	    xr.WithDepthRange(0.001, 100),
//	    xr.WithFrameHandler(handler))
type Option func(*setupOptions)

// setupOptions holds the Setup configuration.
type setupOptions struct {
	mode        SessionMode
	surface     Surface
	context     ContextConfig
	layer       LayerOptions
	renderState []RenderStateOption
	handler     FrameHandler
	observers   []LoopObserver
	tracer      trace.Tracer
	negotiator  *Negotiator
	noStart     bool
}

// Default surface used when WithSurface is not given.
const (
	DefaultSurfaceName   = "xr-canvas"
	DefaultSurfaceWidth  = 1600
	DefaultSurfaceHeight = 800
)

// defaultSetupOptions returns the default Setup options.
func defaultSetupOptions() setupOptions {
	return setupOptions{
		mode: ImmersiveVR,
		surface: Surface{
			Name:   DefaultSurfaceName,
			Width:  DefaultSurfaceWidth,
			Height: DefaultSurfaceHeight,
		},
		context: ContextConfig{
			API:          APIWebGL2,
			XRCompatible: true,
			Antialias:    true,
			Depth:        true,
		},
		tracer: otel.Tracer(tracerName),
	}
}

// WithMode sets the requested session mode. Default ImmersiveVR.
func WithMode(mode SessionMode) Option {
	return func(o *setupOptions) {
		o.mode = mode
	}
}

// WithSurface sets the drawable the graphics context is created for.
func WithSurface(s Surface) Option {
	return func(o *setupOptions) {
		o.surface = s
	}
}

// WithContextConfig sets the graphics context configuration.
func WithContextConfig(cfg ContextConfig) Option {
	return func(o *setupOptions) {
		o.context = cfg
	}
}

// WithLayerOptions sets the base layer options.
func WithLayerOptions(opts LayerOptions) Option {
	return func(o *setupOptions) {
		o.layer = opts
	}
}

// WithDepthRange overrides depth-near and depth-far of the installed
// render state.
func WithDepthRange(near, far float64) Option {
	return func(o *setupOptions) {
		o.renderState = append(o.renderState, WithDepthNear(near), WithDepthFar(far))
	}
}

// WithRenderStateOptions adds raw render state overrides.
func WithRenderStateOptions(opts ...RenderStateOption) Option {
	return func(o *setupOptions) {
		o.renderState = append(o.renderState, opts...)
	}
}

// WithFrameHandler sets the handler called once per frame.
func WithFrameHandler(h FrameHandler) Option {
	return func(o *setupOptions) {
		o.handler = h
	}
}

// WithObserver adds a frame loop observer, e.g. metrics.Collector.
func WithObserver(obs LoopObserver) Option {
	return func(o *setupOptions) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithTracer sets the tracer used for setup spans. Default is the global
// OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *setupOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithNegotiator shares a negotiator between Setup calls so only one
// session is open at a time.
func WithNegotiator(n *Negotiator) Option {
	return func(o *setupOptions) {
		o.negotiator = n
	}
}

// WithoutStart leaves the loop Idle; call Runtime.Loop.Start to arm it.
func WithoutStart() Option {
	return func(o *setupOptions) {
		o.noStart = true
	}
}
