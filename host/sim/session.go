package sim

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/xr"
)

// Frame is the token passed to frame callbacks. It expires when the tick
// that created it returns.
type Frame struct {
	session *Session
	index   uint64
	t       time.Duration
	expired atomic.Bool
}

// Index returns the frame number, starting at 1.
func (f *Frame) Index() uint64 { return f.index }

// Time returns the presentation time relative to session start.
func (f *Frame) Time() time.Duration { return f.t }

// Session is a simulated session. It implements xr.HostSession.
type Session struct {
	system *System
	mode   xr.SessionMode
	done   chan struct{}

	mu        sync.Mutex
	nextID    xr.FrameRequestID
	callbacks map[xr.FrameRequestID]xr.FrameCallback
	order     []xr.FrameRequestID
	rs        xr.RenderState
	layers    []*Layer
	ended     bool
	reason    error
	onEnd     []func(error)
	frames    uint64
	maxQueued int
}

func newSession(sys *System, mode xr.SessionMode) *Session {
	return &Session{
		system:    sys,
		mode:      mode,
		done:      make(chan struct{}),
		callbacks: make(map[xr.FrameRequestID]xr.FrameCallback),
		rs:        xr.DefaultRenderState(),
	}
}

// Mode returns the session mode.
func (s *Session) Mode() xr.SessionMode { return s.mode }

// Done returns a channel closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// RequestAnimationFrame adds cb to the pending table. After the session
// ended the returned ID never fires.
func (s *Session) RequestAnimationFrame(cb xr.FrameCallback) xr.FrameRequestID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if s.nextID == 0 {
		s.nextID = 1
	}
	id := s.nextID
	if s.ended {
		return id
	}
	s.callbacks[id] = cb
	s.order = append(s.order, id)
	s.maxQueued = max(s.maxQueued, len(s.callbacks))
	return id
}

// CancelAnimationFrame removes id from the pending table.
func (s *Session) CancelAnimationFrame(id xr.FrameRequestID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.callbacks, id)
}

// Pending returns how many callbacks wait for the next tick.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}

// MaxPending returns the largest pending table size seen.
func (s *Session) MaxPending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxQueued
}

// Frames returns how many ticks delivered at least one callback.
func (s *Session) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Tick presents one frame at time t: it runs every callback pending when
// the tick starts, in request order, and returns how many ran.
func (s *Session) Tick(t time.Duration) int {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return 0
	}
	ids := s.order
	s.order = nil
	cbs := make([]xr.FrameCallback, 0, len(ids))
	for _, id := range ids {
		if cb, ok := s.callbacks[id]; ok {
			delete(s.callbacks, id)
			cbs = append(cbs, cb)
		}
	}
	if len(cbs) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.frames++
	f := &Frame{session: s, index: s.frames, t: t}
	s.mu.Unlock()

	defer f.expired.Store(true)
	for _, cb := range cbs {
		cb(f)
	}
	return len(cbs)
}

// UpdateRenderState applies init to the render state.
func (s *Session) UpdateRenderState(init xr.RenderStateInit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return xr.ErrSessionEnded
	}
	if init.BaseLayer != nil {
		l, ok := init.BaseLayer.(*Layer)
		if !ok || l.session != s {
			return ErrForeignLayer
		}
	}
	next, err := s.rs.Apply(init)
	if err != nil {
		return err
	}
	s.rs = next
	return nil
}

// RenderState returns the current render state.
func (s *Session) RenderState() xr.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rs
}

// BaseLayer returns the installed base layer, nil if none.
func (s *Session) BaseLayer() *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, _ := s.rs.BaseLayer.(*Layer)
	return l
}

// CreateLayer allocates a framebuffer through gc at the recommended size
// scaled by opts.FramebufferScale.
func (s *Session) CreateLayer(gc xr.GraphicsContext, opts xr.LayerOptions) (xr.Layer, error) {
	if !gc.XRCompatible() {
		return nil, ErrIncompatible
	}
	alloc, ok := gc.(xr.TargetAllocator)
	if !ok {
		return nil, ErrNoAllocator
	}
	scale := opts.FramebufferScale
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(float64(s.system.width)*scale))
	h := max(1, int(float64(s.system.height)*scale))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, xr.ErrSessionEnded
	}
	target, err := alloc.AllocateTarget(w, h)
	if err != nil {
		return nil, err
	}
	l := &Layer{session: s, alloc: alloc, target: target, opts: opts}
	s.layers = append(s.layers, l)
	return l, nil
}

// OnEnd registers fn to run when the session ends.
func (s *Session) OnEnd(fn func(reason error)) {
	s.mu.Lock()
	if s.ended {
		reason := s.reason
		s.mu.Unlock()
		fn(reason)
		return
	}
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// End ends the session at the application's request.
func (s *Session) End() error {
	s.finish(nil)
	return nil
}

// Disconnect ends the session from the device side, as when the user takes
// the headset off. A nil reason is reported as ErrDisconnected.
func (s *Session) Disconnect(reason error) {
	if reason == nil {
		reason = ErrDisconnected
	}
	s.finish(reason)
}

// Ended reports whether the session ended.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Session) finish(reason error) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.reason = reason
	clear(s.callbacks)
	s.order = nil
	layers := slices.Clone(s.layers)
	s.layers = nil
	fns := s.onEnd
	s.onEnd = nil
	close(s.done)
	s.mu.Unlock()

	for _, l := range layers {
		l.release()
	}
	s.system.release(s)
	xr.Logger().Debug("sim: session finished", "mode", s.mode.String(), "reason", reason)
	for _, fn := range fns {
		fn(reason)
	}
}

var _ xr.HostSession = (*Session)(nil)
