// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package webxr

import (
	"fmt"
	"sync"
	"sync/atomic"
	"syscall/js"
	"time"

	"github.com/gogpu/xr"
)

// Frame wraps the XRFrame passed to a frame callback.
type Frame struct {
	session *Session
	index   uint64
	t       time.Duration
	js      js.Value
	expired atomic.Bool
}

// Index implements xr.Frame.
func (f *Frame) Index() uint64 { return f.index }

// Time implements xr.Frame. It is relative to the session's first frame.
func (f *Frame) Time() time.Duration { return f.t }

// Value returns the underlying XRFrame. It is only valid during the
// callback.
func (f *Frame) Value() js.Value { return f.js }

// Session wraps an XRSession. It implements xr.HostSession.
type Session struct {
	js   js.Value
	mode xr.SessionMode

	mu        sync.Mutex
	callbacks map[xr.FrameRequestID]js.Func
	rs        xr.RenderState
	ended     bool
	onEnd     []func(error)
	endEvent  js.Func
	frames    uint64
	origin    float64
	hasOrigin bool
}

func newSession(v js.Value, mode xr.SessionMode) *Session {
	s := &Session{
		js:        v,
		mode:      mode,
		callbacks: make(map[xr.FrameRequestID]js.Func),
		rs:        xr.DefaultRenderState(),
	}
	s.endEvent = js.FuncOf(func(js.Value, []js.Value) any {
		s.finish(ErrEndedByHost)
		return nil
	})
	v.Call("addEventListener", "end", s.endEvent)
	return s
}

// Mode returns the mode the session was granted in.
func (s *Session) Mode() xr.SessionMode { return s.mode }

// Value returns the underlying XRSession.
func (s *Session) Value() js.Value { return s.js }

// RequestAnimationFrame implements xr.HostSession. It returns 0 once the
// session has ended.
func (s *Session) RequestAnimationFrame(cb xr.FrameCallback) xr.FrameRequestID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return 0
	}

	var id xr.FrameRequestID
	var fn js.Func
	fn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		f, ok := s.frameFor(id, args)
		fn.Release()
		if !ok {
			return nil
		}
		cb(f)
		f.expired.Store(true)
		return nil
	})
	id = xr.FrameRequestID(s.js.Call("requestAnimationFrame", fn).Int())
	s.callbacks[id] = fn
	return id
}

// frameFor removes id from the table and builds its frame.
func (s *Session) frameFor(id xr.FrameRequestID, args []js.Value) (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.callbacks[id]; !ok || s.ended {
		return nil, false
	}
	delete(s.callbacks, id)

	ms := arg0(args).Float()
	if !s.hasOrigin {
		s.origin, s.hasOrigin = ms, true
	}
	s.frames++
	var xrFrame js.Value
	if len(args) > 1 {
		xrFrame = args[1]
	}
	return &Frame{
		session: s,
		index:   s.frames,
		t:       time.Duration((ms - s.origin) * float64(time.Millisecond)),
		js:      xrFrame,
	}, true
}

// CancelAnimationFrame implements xr.HostSession.
func (s *Session) CancelAnimationFrame(id xr.FrameRequestID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn, ok := s.callbacks[id]
	if !ok {
		return
	}
	delete(s.callbacks, id)
	if !s.ended {
		s.js.Call("cancelAnimationFrame", int(id))
	}
	fn.Release()
}

// UpdateRenderState implements xr.HostSession.
func (s *Session) UpdateRenderState(init xr.RenderStateInit) (err error) {
	defer catch(&err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return xr.ErrSessionEnded
	}
	next, err := s.rs.Apply(init)
	if err != nil {
		return err
	}

	dict := map[string]any{
		"depthNear": next.DepthNear,
		"depthFar":  next.DepthFar,
	}
	if init.BaseLayer != nil {
		l, ok := init.BaseLayer.(*Layer)
		if !ok || l.session != s {
			return fmt.Errorf("%w: %T", ErrForeignLayer, init.BaseLayer)
		}
		dict["baseLayer"] = l.js
	}
	s.js.Call("updateRenderState", dict)
	s.rs = next
	return nil
}

// RenderState implements xr.HostSession. The browser applies updates at
// the next frame; this returns the last state requested.
func (s *Session) RenderState() xr.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rs
}

// CreateLayer implements xr.HostSession with an XRWebGLLayer.
func (s *Session) CreateLayer(gc xr.GraphicsContext, opts xr.LayerOptions) (layer xr.Layer, err error) {
	defer catch(&err)
	c, ok := gc.(*Context)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignContext, gc)
	}
	if !c.XRCompatible() {
		return nil, ErrIncompatible
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, xr.ErrSessionEnded
	}

	init := map[string]any{"antialias": opts.Antialias}
	if opts.FramebufferScale > 0 {
		init["framebufferScaleFactor"] = opts.FramebufferScale
	}
	v := js.Global().Get("XRWebGLLayer").New(s.js, c.gl, init)
	xr.Logger().Debug("webxr: layer created",
		"width", v.Get("framebufferWidth").Int(), "height", v.Get("framebufferHeight").Int())
	return &Layer{session: s, js: v}, nil
}

// OnEnd implements xr.HostSession.
func (s *Session) OnEnd(fn func(reason error)) {
	s.mu.Lock()
	if !s.ended {
		s.onEnd = append(s.onEnd, fn)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	fn(nil)
}

// End implements xr.HostSession. The listeners run immediately; the
// browser's end promise is not awaited so End is safe inside a frame
// callback.
func (s *Session) End() (err error) {
	defer catch(&err)
	s.mu.Lock()
	ended := s.ended
	s.mu.Unlock()
	if ended {
		return nil
	}
	s.js.Call("end")
	s.finish(nil)
	return nil
}

func (s *Session) finish(reason error) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	for id, fn := range s.callbacks {
		delete(s.callbacks, id)
		fn.Release()
	}
	fns := s.onEnd
	s.onEnd = nil
	s.mu.Unlock()

	s.js.Call("removeEventListener", "end", s.endEvent)
	s.endEvent.Release()
	xr.Logger().Info("webxr: session ended", "mode", s.mode, "frames", s.frames, "reason", reason)
	for _, fn := range fns {
		fn(reason)
	}
}

var _ xr.HostSession = (*Session)(nil)
