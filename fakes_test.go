// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/xr/render"
)

// fakeFrame is a frame token that expires when its tick returns.
type fakeFrame struct {
	index   uint64
	t       time.Duration
	expired atomic.Bool
}

func (f *fakeFrame) Index() uint64       { return f.index }
func (f *fakeFrame) Time() time.Duration { return f.t }

// fakeHost is a HostSession driven manually by tick.
type fakeHost struct {
	mu         sync.Mutex
	next       FrameRequestID
	pending    map[FrameRequestID]FrameCallback
	order      []FrameRequestID
	rs         RenderState
	ended      bool
	onEnd      []func(error)
	frame      uint64
	requests   int
	maxPending int
	cancels    []FrameRequestID
	layers     int

	// immediate delivers the next n requests synchronously.
	immediate int
	// beforeRequest runs at the start of RequestAnimationFrame, unlocked.
	beforeRequest func()
	layerErr      error
	endErr        error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		pending: make(map[FrameRequestID]FrameCallback),
		rs:      DefaultRenderState(),
	}
}

func (h *fakeHost) newFrameLocked() *fakeFrame {
	h.frame++
	return &fakeFrame{index: h.frame, t: time.Duration(h.frame) * 11 * time.Millisecond}
}

func (h *fakeHost) RequestAnimationFrame(cb FrameCallback) FrameRequestID {
	if fn := h.beforeRequest; fn != nil {
		fn()
	}
	h.mu.Lock()
	h.next++
	id := h.next
	h.requests++
	if h.ended {
		h.mu.Unlock()
		return id
	}
	if h.immediate > 0 {
		h.immediate--
		f := h.newFrameLocked()
		h.mu.Unlock()
		cb(f)
		f.expired.Store(true)
		return id
	}
	h.pending[id] = cb
	h.order = append(h.order, id)
	if len(h.pending) > h.maxPending {
		h.maxPending = len(h.pending)
	}
	h.mu.Unlock()
	return id
}

func (h *fakeHost) CancelAnimationFrame(id FrameRequestID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancels = append(h.cancels, id)
	delete(h.pending, id)
}

// tick runs every callback pending when it starts and returns how many ran.
func (h *fakeHost) tick() int {
	h.mu.Lock()
	if h.ended {
		h.mu.Unlock()
		return 0
	}
	ids := h.order
	h.order = nil
	cbs := make([]FrameCallback, 0, len(ids))
	for _, id := range ids {
		if cb, ok := h.pending[id]; ok {
			delete(h.pending, id)
			cbs = append(cbs, cb)
		}
	}
	f := h.newFrameLocked()
	h.mu.Unlock()

	for _, cb := range cbs {
		cb(f)
	}
	f.expired.Store(true)
	return len(cbs)
}

func (h *fakeHost) pendingCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *fakeHost) requestCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests
}

func (h *fakeHost) UpdateRenderState(init RenderStateInit) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ended {
		return ErrSessionEnded
	}
	next, err := h.rs.Apply(init)
	if err != nil {
		return err
	}
	h.rs = next
	return nil
}

func (h *fakeHost) RenderState() RenderState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rs
}

func (h *fakeHost) CreateLayer(gc GraphicsContext, opts LayerOptions) (Layer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layers++
	if h.layerErr != nil {
		return nil, h.layerErr
	}
	return newFakeLayer(64, 32), nil
}

func (h *fakeHost) OnEnd(fn func(reason error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEnd = append(h.onEnd, fn)
}

func (h *fakeHost) End() error {
	h.finish(nil)
	return h.endErr
}

// disconnect ends the session from the host side.
func (h *fakeHost) disconnect(reason error) {
	h.finish(reason)
}

func (h *fakeHost) finish(reason error) {
	h.mu.Lock()
	if h.ended {
		h.mu.Unlock()
		return
	}
	h.ended = true
	h.pending = make(map[FrameRequestID]FrameCallback)
	h.order = nil
	fns := h.onEnd
	h.mu.Unlock()
	for _, fn := range fns {
		fn(reason)
	}
}

// fakeLayer hands out one pixmap target per frame.
type fakeLayer struct {
	target *render.PixmapTarget
}

func newFakeLayer(w, h int) *fakeLayer {
	return &fakeLayer{target: render.NewPixmapTarget(w, h)}
}

func (l *fakeLayer) FramebufferSize() (int, int) {
	return l.target.Width(), l.target.Height()
}

func (l *fakeLayer) DrawTarget(f Frame) (render.Target, error) {
	if ff, ok := f.(*fakeFrame); ok && ff.expired.Load() {
		return nil, ErrFrameExpired
	}
	return l.target, nil
}

// fakeContext is a GraphicsContext with scriptable XR compatibility.
type fakeContext struct {
	mu         sync.Mutex
	compatible bool
	makeErr    error
	stubborn   bool // MakeXRCompatible succeeds without effect
	makeCalls  int
	destroyed  int
	bound      render.Target
	binds      int
}

func (c *fakeContext) API() API { return APISoftware }

func (c *fakeContext) MakeXRCompatible(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.makeCalls++
	if c.makeErr != nil {
		return c.makeErr
	}
	if !c.stubborn {
		c.compatible = true
	}
	return nil
}

func (c *fakeContext) XRCompatible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compatible
}

func (c *fakeContext) BindDrawTarget(t render.Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = t
	c.binds++
	return nil
}

func (c *fakeContext) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed++
}

// fakeSystem grants fakeHost sessions.
type fakeSystem struct {
	mu        sync.Mutex
	supported map[SessionMode]bool
	host      *fakeHost
	denyErr   error
	queries   int
	requests  int
}

func newFakeSystem(modes ...SessionMode) *fakeSystem {
	sys := &fakeSystem{supported: make(map[SessionMode]bool), host: newFakeHost()}
	for _, m := range modes {
		sys.supported[m] = true
	}
	return sys
}

func (s *fakeSystem) IsSessionSupported(ctx context.Context, mode SessionMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	return s.supported[mode]
}

func (s *fakeSystem) RequestSession(ctx context.Context, mode SessionMode) (HostSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if s.denyErr != nil {
		return nil, s.denyErr
	}
	h := s.host
	if h == nil || h.ended {
		h = newFakeHost()
		s.host = h
	}
	return h, nil
}

// fakeGraphics creates fakeContexts.
type fakeGraphics struct {
	ctx     *fakeContext
	err     error
	creates int
}

func (g *fakeGraphics) CreateContext(surface Surface, cfg ContextConfig) (GraphicsContext, error) {
	g.creates++
	if g.err != nil {
		return nil, g.err
	}
	if g.ctx == nil {
		g.ctx = &fakeContext{}
	}
	return g.ctx, nil
}

// recordingObserver records loop events.
type recordingObserver struct {
	mu          sync.Mutex
	transitions []LoopState
	rendered    int
	endErr      error
	endCalls    int
}

func (o *recordingObserver) LoopTransition(from, to LoopState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, to)
}

func (o *recordingObserver) FrameRendered(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rendered++
}

func (o *recordingObserver) LoopEnded(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endErr = err
	o.endCalls++
}

var errDisconnected = errors.New("headset disconnected")

// newTestSession returns an active session with a layer installed.
func newTestSession(mode SessionMode) (*Session, *fakeHost, *fakeContext, Layer) {
	host := newFakeHost()
	s := NewSession(host, mode)
	gc := &fakeContext{compatible: true}
	layer := newFakeLayer(64, 32)
	if err := InstallRenderState(s, layer); err != nil {
		panic(err)
	}
	return s, host, gc, layer
}
