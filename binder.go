// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"fmt"
)

// CreateContext creates a graphics context for surface.
// Failures are wrapped with ErrContextCreationFailed.
func CreateContext(gs GraphicsSystem, surface Surface, cfg ContextConfig) (GraphicsContext, error) {
	if surface.Width <= 0 || surface.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid surface size %dx%d", ErrContextCreationFailed, surface.Width, surface.Height)
	}
	gc, err := gs.CreateContext(surface, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrContextCreationFailed, cfg.API, err)
	}
	if gc == nil {
		return nil, fmt.Errorf("%w: %s: no context returned", ErrContextCreationFailed, cfg.API)
	}
	Logger().Debug("xr: graphics context created", "api", cfg.API.String(), "surface", surface.Name,
		"width", surface.Width, "height", surface.Height)
	return gc, nil
}

// MakeXRCompatible upgrades gc so it can present to XR.
// Failures are wrapped with ErrIncompatibleContext; the caller must end
// the session and discard the context.
func MakeXRCompatible(ctx context.Context, gc GraphicsContext) error {
	if gc.XRCompatible() {
		return nil
	}
	if err := gc.MakeXRCompatible(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompatibleContext, err)
	}
	if !gc.XRCompatible() {
		return fmt.Errorf("%w: context still not XR-compatible", ErrIncompatibleContext)
	}
	return nil
}

// BuildLayer builds the composition layer for gc on s.
//
// The context must already be XR-compatible; calling BuildLayer earlier is
// a contract violation reported as ErrLayerCreationFailed.
func BuildLayer(s *Session, gc GraphicsContext, opts LayerOptions) (Layer, error) {
	if !s.Active() {
		return nil, fmt.Errorf("%w: %w", ErrLayerCreationFailed, ErrSessionEnded)
	}
	if !gc.XRCompatible() {
		return nil, fmt.Errorf("%w: context is not XR-compatible", ErrLayerCreationFailed)
	}
	layer, err := s.host.CreateLayer(gc, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayerCreationFailed, err)
	}
	if layer == nil {
		return nil, fmt.Errorf("%w: host returned no layer", ErrLayerCreationFailed)
	}
	w, h := layer.FramebufferSize()
	Logger().Debug("xr: base layer built", "session", s.ID(), "width", w, "height", h)
	return layer, nil
}

// RenderStateOption overrides a render state field on install.
type RenderStateOption func(*RenderStateInit)

// WithDepthNear overrides the near clip plane distance.
func WithDepthNear(near float64) RenderStateOption {
	return func(init *RenderStateInit) {
		init.DepthNear = &near
	}
}

// WithDepthFar overrides the far clip plane distance.
func WithDepthFar(far float64) RenderStateOption {
	return func(init *RenderStateInit) {
		init.DepthFar = &far
	}
}

// InstallRenderState installs layer as the session's base layer.
//
// It replaces the current render state in one host call, so frames after
// it see the new layer. Installing the same layer again is a no-op for
// the layer itself.
func InstallRenderState(s *Session, layer Layer, opts ...RenderStateOption) error {
	init := RenderStateInit{BaseLayer: layer}
	for _, opt := range opts {
		opt(&init)
	}
	if init.DepthNear != nil && init.DepthFar != nil &&
		!ValidDepthRange(*init.DepthNear, *init.DepthFar) {
		return fmt.Errorf("%w: near=%g far=%g", ErrInvalidDepthRange, *init.DepthNear, *init.DepthFar)
	}
	if err := s.UpdateRenderState(init); err != nil {
		return fmt.Errorf("xr: install render state: %w", err)
	}
	return nil
}
