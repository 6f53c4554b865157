// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"math"
	"time"

	"github.com/gogpu/xr/render"
)

// System is the host XR runtime.
//
// Implementations: host/sim (in-process), host/webxr (navigator.xr).
type System interface {
	// IsSessionSupported reports whether mode can run on this device.
	// It never fails: an unavailable mode is reported as false.
	IsSessionSupported(ctx context.Context, mode SessionMode) bool

	// RequestSession asks the host for a session. It blocks until the
	// user or host grants or refuses it.
	RequestSession(ctx context.Context, mode SessionMode) (HostSession, error)
}

// FrameRequestID identifies a pending frame callback in the host's table.
// Zero is never a valid ID.
type FrameRequestID uint32

// FrameCallback is invoked by the host once per compositor frame.
type FrameCallback func(f Frame)

// Frame is the token a host passes to a frame callback. It is only valid
// for the duration of that callback.
type Frame interface {
	// Index is the host's monotonically increasing frame number.
	Index() uint64

	// Time is the presentation timestamp relative to session start.
	Time() time.Duration
}

// HostSession is an active session as seen by the host.
//
// After the session ends, hosts stop delivering frame callbacks and
// every method except OnEnd returns or records ErrSessionEnded.
type HostSession interface {
	// RequestAnimationFrame schedules cb for the next compositor frame.
	RequestAnimationFrame(cb FrameCallback) FrameRequestID

	// CancelAnimationFrame removes a pending callback. Unknown IDs are ignored.
	CancelAnimationFrame(id FrameRequestID)

	// UpdateRenderState replaces the fields of the render state set in init.
	UpdateRenderState(init RenderStateInit) error

	// RenderState returns the render state frames are presented with.
	RenderState() RenderState

	// CreateLayer builds a composition layer bound to gc.
	CreateLayer(gc GraphicsContext, opts LayerOptions) (Layer, error)

	// OnEnd registers fn to run once when the session ends for any reason.
	// reason is nil for an explicit End.
	OnEnd(fn func(reason error))

	// End terminates the session.
	End() error
}

// Layer is a compositor-managed render target wrapper bound to a
// graphics context.
type Layer interface {
	// FramebufferSize returns the size of the compositor framebuffer.
	FramebufferSize() (width, height int)

	// DrawTarget returns the draw target for f. It fails with
	// ErrFrameExpired once the frame's callback has returned.
	DrawTarget(f Frame) (render.Target, error)
}

// LayerOptions configures base layer creation.
type LayerOptions struct {
	// FramebufferScale scales the recommended framebuffer size. Zero means 1.
	FramebufferScale float64

	// Antialias requests a multisampled framebuffer.
	Antialias bool
}

// RenderStateInit lists render state fields to replace. Nil fields keep
// their current value.
type RenderStateInit struct {
	BaseLayer Layer
	DepthNear *float64
	DepthFar  *float64
}

// Default depth range of a new session.
const (
	DefaultDepthNear = 0.1
	DefaultDepthFar  = 1000.0
)

// RenderState is the configuration a session presents frames with.
type RenderState struct {
	BaseLayer Layer
	DepthNear float64
	DepthFar  float64
}

// DefaultRenderState returns the render state of a freshly granted session.
func DefaultRenderState() RenderState {
	return RenderState{DepthNear: DefaultDepthNear, DepthFar: DefaultDepthFar}
}

// Apply returns rs with the fields set in init replaced.
// Hosts use it to implement UpdateRenderState.
func (rs RenderState) Apply(init RenderStateInit) (RenderState, error) {
	next := rs
	if init.BaseLayer != nil {
		next.BaseLayer = init.BaseLayer
	}
	if init.DepthNear != nil {
		next.DepthNear = *init.DepthNear
	}
	if init.DepthFar != nil {
		next.DepthFar = *init.DepthFar
	}
	if !ValidDepthRange(next.DepthNear, next.DepthFar) {
		return rs, ErrInvalidDepthRange
	}
	return next, nil
}

// ValidDepthRange reports whether near and far are finite with
// 0 < near < far.
func ValidDepthRange(near, far float64) bool {
	if math.IsInf(near, 0) || math.IsInf(far, 0) {
		return false
	}
	// NaN fails both comparisons.
	return near > 0 && far > near
}
