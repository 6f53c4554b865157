// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gogpu/xr"

// Runtime is an established session with its bound context, base layer
// and frame loop.
type Runtime struct {
	Session *Session
	Context GraphicsContext
	Layer   Layer
	Loop    *FrameLoop
}

// Close stops the loop, ends the session and destroys the context.
func (r *Runtime) Close() error {
	r.Loop.Stop()
	err := r.Session.End()
	r.Context.Destroy()
	return err
}

// Setup runs the bootstrap sequence:
//
//	query support -> request session -> create context ->
//	make XR-compatible -> build layer -> install render state -> arm loop
//
// Errors wrap ErrUnsupportedMode, ErrSessionDenied, ErrContextCreationFailed,
// ErrIncompatibleContext or ErrLayerCreationFailed. Any failure after the
// session was granted ends the session and destroys the context, so no
// layer is ever built for a context that is not XR-compatible.
func Setup(ctx context.Context, system System, gs GraphicsSystem, opts ...Option) (*Runtime, error) {
	if system == nil || gs == nil {
		return nil, ErrNilHost
	}
	o := defaultSetupOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := o.negotiator
	if n == nil {
		n = NewNegotiator(system)
	}

	ctx, span := o.tracer.Start(ctx, "xr.Setup", trace.WithAttributes(
		attribute.String("xr.mode", o.mode.String()),
		attribute.String("xr.api", o.context.API.String()),
	))
	defer span.End()

	s := &setupRun{opts: &o}
	rt, err := s.run(ctx, n, gs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("xr.session", rt.Session.ID().String()))
	return rt, nil
}

type setupRun struct {
	opts *setupOptions

	session *Session
	gc      GraphicsContext
}

func (s *setupRun) run(ctx context.Context, n *Negotiator, gs GraphicsSystem) (*Runtime, error) {
	o := s.opts

	var supported bool
	s.stage(ctx, "xr.QuerySupport", func(ctx context.Context) error {
		supported = n.QuerySupport(ctx, o.mode)
		return nil
	})
	if !supported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, o.mode)
	}

	if err := s.stage(ctx, "xr.RequestSession", func(ctx context.Context) error {
		var err error
		s.session, err = n.RequestSession(ctx, o.mode)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.stage(ctx, "xr.CreateContext", func(context.Context) error {
		var err error
		s.gc, err = CreateContext(gs, o.surface, o.context)
		return err
	}); err != nil {
		return nil, s.rollback(err)
	}

	if err := s.stage(ctx, "xr.MakeXRCompatible", func(ctx context.Context) error {
		return MakeXRCompatible(ctx, s.gc)
	}); err != nil {
		return nil, s.rollback(err)
	}

	var layer Layer
	if err := s.stage(ctx, "xr.BuildLayer", func(context.Context) error {
		var err error
		layer, err = BuildLayer(s.session, s.gc, o.layer)
		return err
	}); err != nil {
		return nil, s.rollback(err)
	}

	if err := s.stage(ctx, "xr.InstallRenderState", func(context.Context) error {
		return InstallRenderState(s.session, layer, o.renderState...)
	}); err != nil {
		return nil, s.rollback(err)
	}

	loop := NewFrameLoop(s.session, s.gc, o.handler, o.observers...)
	if !o.noStart {
		if err := s.stage(ctx, "xr.StartLoop", func(context.Context) error {
			return loop.Start()
		}); err != nil {
			return nil, s.rollback(err)
		}
	}

	return &Runtime{
		Session: s.session,
		Context: s.gc,
		Layer:   layer,
		Loop:    loop,
	}, nil
}

// stage runs fn inside a child span.
func (s *setupRun) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.opts.tracer.Start(ctx, name)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// rollback ends the session and destroys the context after a failed stage.
func (s *setupRun) rollback(cause error) error {
	if s.gc != nil {
		s.gc.Destroy()
		s.gc = nil
	}
	if s.session != nil {
		if err := s.session.End(); err != nil {
			Logger().Warn("xr: ending session after failed setup", "session", s.session.ID(), "err", err)
			return errors.Join(cause, err)
		}
	}
	return cause
}
