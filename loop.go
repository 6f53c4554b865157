// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/xr/render"
)

// LoopState is the state of a FrameLoop.
//
// Transitions:
//
//	Idle -> Armed -> Running -> Armed ... -> Ended
//	Idle, Armed -> Ended (Stop, session end)
type LoopState int32

const (
	// LoopIdle means no frame was requested yet.
	LoopIdle LoopState = iota

	// LoopArmed means exactly one frame callback is pending with the host.
	LoopArmed

	// LoopRunning means the frame callback is executing.
	LoopRunning

	// LoopEnded is terminal. No further frames are requested.
	LoopEnded
)

// String returns the state name.
func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopArmed:
		return "armed"
	case LoopRunning:
		return "running"
	case LoopEnded:
		return "ended"
	default:
		return fmt.Sprintf("LoopState(%d)", int(s))
	}
}

// FrameHandler draws one frame.
type FrameHandler interface {
	DrawFrame(fc *FrameContext) error
}

// FrameHandlerFunc adapts a function to FrameHandler.
type FrameHandlerFunc func(fc *FrameContext) error

// DrawFrame calls f(fc).
func (f FrameHandlerFunc) DrawFrame(fc *FrameContext) error { return f(fc) }

// FrameContext is what a FrameHandler gets for one Running invocation.
// None of it may be retained after DrawFrame returns.
type FrameContext struct {
	Frame       Frame
	Session     *Session
	Graphics    GraphicsContext
	RenderState RenderState

	// Target is the compositor draw target for this frame, already bound
	// on Graphics.
	Target render.Target

	// Viewports holds one viewport per view, left eye first.
	Viewports []Viewport

	// Delta is the time since the previous frame, zero on the first one.
	Delta time.Duration

	stop bool
}

// Stop ends the loop after this frame instead of re-arming it.
func (fc *FrameContext) Stop() { fc.stop = true }

// LoopObserver receives frame loop events. Observers are called with the
// loop's lock held and must not call back into the loop.
type LoopObserver interface {
	LoopTransition(from, to LoopState)
	FrameRendered(d time.Duration)
	LoopEnded(err error)
}

// FrameLoop drives a self re-arming frame callback for one session.
//
// The loop owns a single slot with the outstanding FrameRequestID; the
// callback re-registers itself through the loop, never through a captured
// reference to its own closure. The base layer is resolved from the
// session's current render state on every frame.
type FrameLoop struct {
	session   *Session
	gc        GraphicsContext
	handler   FrameHandler
	observers []LoopObserver

	mu       sync.Mutex
	state    LoopState
	pending  FrameRequestID
	gen      uint64
	stopping bool
	err      error
	frames   uint64
	lastTime time.Duration
	hasLast  bool
	done     chan struct{}
}

// NewFrameLoop creates an Idle loop. The loop ends when s ends.
func NewFrameLoop(s *Session, gc GraphicsContext, h FrameHandler, observers ...LoopObserver) *FrameLoop {
	l := &FrameLoop{
		session:   s,
		gc:        gc,
		handler:   h,
		observers: observers,
		done:      make(chan struct{}),
	}
	s.OnEnd(l.sessionEnded)
	return l
}

// State returns the current loop state.
func (l *FrameLoop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frames returns the number of frames drawn successfully.
func (l *FrameLoop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Pending returns the outstanding frame request, zero if none.
func (l *FrameLoop) Pending() FrameRequestID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Err returns why the loop ended: ErrLoopStopped, ErrSessionEnded or
// the frame error. It is nil until the loop ends.
func (l *FrameLoop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Done returns a channel closed when the loop reaches LoopEnded.
func (l *FrameLoop) Done() <-chan struct{} { return l.done }

// Wait blocks until the loop ends or ctx is done.
func (l *FrameLoop) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start requests the first frame. Only one of several concurrent calls
// succeeds; the others return ErrLoopStarted.
func (l *FrameLoop) Start() error {
	return l.arm(LoopIdle)
}

// Stop ends the loop. An Armed loop cancels its pending request; a Running
// loop finishes the current frame and does not re-arm.
func (l *FrameLoop) Stop() {
	l.mu.Lock()
	var cancel FrameRequestID
	switch l.state {
	case LoopIdle:
		l.endLocked(ErrLoopStopped)
	case LoopArmed:
		cancel = l.pending
		l.pending = 0
		l.endLocked(ErrLoopStopped)
	case LoopRunning:
		l.stopping = true
	}
	l.mu.Unlock()

	l.session.CancelAnimationFrame(cancel)
}

// arm requests the next frame if the loop is still in state from. The
// state becomes Armed before the host is called so a host delivering the
// frame right away is not mistaken for a stale delivery. A request that
// does not end up in the pending slot is cancelled.
func (l *FrameLoop) arm(from LoopState) error {
	l.mu.Lock()
	if l.state != from {
		err := ErrLoopStarted
		if l.state == LoopEnded && !l.session.Active() {
			err = ErrSessionEnded
		}
		l.mu.Unlock()
		return err
	}
	if l.stopping {
		l.endLocked(ErrLoopStopped)
		l.mu.Unlock()
		return nil
	}
	l.gen++
	gen := l.gen
	l.pending = 0
	l.setStateLocked(LoopArmed)
	l.mu.Unlock()

	id, err := l.session.RequestAnimationFrame(l.onFrame)

	l.mu.Lock()
	var cancel FrameRequestID
	switch {
	case err != nil:
		if l.state != LoopEnded {
			l.endLocked(l.sessionErr(err))
		}
	case l.state == LoopArmed && l.gen == gen:
		l.pending = id
		l.session.log().Debug("xr: frame armed", "request", id)
	default:
		cancel = id
	}
	l.mu.Unlock()

	l.session.CancelAnimationFrame(cancel)
	return nil
}

// onFrame is the callback registered with the host.
func (l *FrameLoop) onFrame(f Frame) {
	l.mu.Lock()
	if l.state != LoopArmed {
		state := l.state
		l.mu.Unlock()
		Logger().Warn("xr: ignoring stale frame callback", "frame", f.Index(), "state", state.String())
		return
	}
	l.pending = 0
	l.setStateLocked(LoopRunning)
	var delta time.Duration
	if l.hasLast {
		delta = f.Time() - l.lastTime
	}
	l.lastTime, l.hasLast = f.Time(), true
	l.mu.Unlock()

	start := time.Now()
	fc, err := l.runFrame(f, delta)
	elapsed := time.Since(start)

	l.mu.Lock()
	switch {
	case err != nil:
		Logger().Warn("xr: frame failed, ending loop", "frame", f.Index(), "err", err)
		l.endLocked(err)
	default:
		l.frames++
		for _, o := range l.observers {
			o.FrameRendered(elapsed)
		}
		switch {
		case l.state == LoopEnded:
		case !l.session.Active():
			l.endLocked(l.sessionErr(l.session.Err()))
		case fc.stop || l.stopping:
			l.endLocked(ErrLoopStopped)
		}
	}
	ended := l.state == LoopEnded
	l.mu.Unlock()

	if !ended {
		_ = l.arm(LoopRunning)
	}
}

// runFrame resolves the base layer from the current render state, binds
// the frame's draw target and calls the handler.
func (l *FrameLoop) runFrame(f Frame, delta time.Duration) (fc *FrameContext, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: frame %d: %v", ErrFramePanic, f.Index(), r)
		}
	}()

	rs, err := l.session.RenderState()
	if err != nil {
		return nil, l.sessionErr(l.session.Err())
	}
	if rs.BaseLayer == nil {
		return nil, ErrNoBaseLayer
	}
	target, err := rs.BaseLayer.DrawTarget(f)
	if err != nil {
		return nil, fmt.Errorf("xr: frame %d: draw target: %w", f.Index(), err)
	}
	if err := l.gc.BindDrawTarget(target); err != nil {
		return nil, fmt.Errorf("xr: frame %d: bind draw target: %w", f.Index(), err)
	}

	fc = &FrameContext{
		Frame:       f,
		Session:     l.session,
		Graphics:    l.gc,
		RenderState: rs,
		Target:      target,
		Viewports:   ViewportsFor(l.session.Mode(), target.Width(), target.Height()),
		Delta:       delta,
	}
	if l.handler != nil {
		if err := l.handler.DrawFrame(fc); err != nil {
			return fc, fmt.Errorf("xr: frame %d: %w", f.Index(), err)
		}
	}
	return fc, nil
}

// sessionEnded is registered with Session.OnEnd.
func (l *FrameLoop) sessionEnded(reason error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case LoopIdle, LoopArmed:
		// The host drops pending callbacks of an ended session.
		l.pending = 0
		l.endLocked(l.sessionErr(reason))
	case LoopRunning:
		l.stopping = true
	}
}

func (l *FrameLoop) sessionErr(reason error) error {
	if reason == nil {
		return ErrSessionEnded
	}
	if errors.Is(reason, ErrSessionEnded) {
		return reason
	}
	return fmt.Errorf("%w: %w", ErrSessionEnded, reason)
}

func (l *FrameLoop) setStateLocked(s LoopState) {
	from := l.state
	l.state = s
	for _, o := range l.observers {
		o.LoopTransition(from, s)
	}
}

func (l *FrameLoop) endLocked(err error) {
	if l.state == LoopEnded {
		return
	}
	l.setStateLocked(LoopEnded)
	l.err = err
	close(l.done)
	for _, o := range l.observers {
		o.LoopEnded(err)
	}
	l.session.log().Info("xr: frame loop ended", "frames", l.frames, "reason", err)
}
