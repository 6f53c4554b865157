// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package preview shows a simulated headset's framebuffer in a desktop
// window. The window's update loop is the session's presentation clock:
// one tick per update at the configured refresh rate.
package preview

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/gogpu/xr/host/sim"
	"github.com/gogpu/xr/render"
)

// ErrSessionClosed is returned by Step once the session has ended.
var ErrSessionClosed = errors.New("preview: session ended")

// Presenter ticks a simulated session and snapshots its base layer.
//
// It keeps the last CPU framebuffer it saw, so the final frame can still
// be saved after the session ended and released its layer.
type Presenter struct {
	session *sim.Session
	clock   *sim.Clock

	mu   sync.Mutex
	last *render.PixmapTarget
}

// NewPresenter creates a presenter ticking s at hz frames per second.
func NewPresenter(s *sim.Session, hz int) *Presenter {
	p := &Presenter{session: s, clock: sim.NewClock(s, hz)}
	p.framebuffer()
	return p
}

// Session returns the presented session.
func (p *Presenter) Session() *sim.Session { return p.session }

// Clock returns the presentation clock.
func (p *Presenter) Clock() *sim.Clock { return p.clock }

// Step presents one frame.
func (p *Presenter) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.session.Ended() {
		return ErrSessionClosed
	}
	p.clock.Step()
	return nil
}

// FramebufferSize returns the base layer size, or fallback dimensions
// before a layer is installed.
func (p *Presenter) FramebufferSize(fallbackW, fallbackH int) (int, int) {
	if l := p.session.BaseLayer(); l != nil {
		return l.FramebufferSize()
	}
	return fallbackW, fallbackH
}

// Snapshot copies the base layer's pixels into dst, reallocating it when
// the size changed. Once the session has ended it copies the last frame
// presented. It reports false when there is no CPU-readable framebuffer.
func (p *Presenter) Snapshot(dst *image.RGBA) (*image.RGBA, bool) {
	src := p.framebuffer()
	if src == nil {
		return dst, false
	}
	return src.CopyTo(dst), true
}

// framebuffer returns the current CPU framebuffer, or the last one seen
// if the layer is gone.
func (p *Presenter) framebuffer() *render.PixmapTarget {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l := p.session.BaseLayer(); l != nil {
		if t := l.Target(); t != nil {
			p.last, _ = t.(*render.PixmapTarget)
		}
	}
	return p.last
}
