// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SessionState is the externally observable lifetime of a session.
type SessionState int32

const (
	// SessionActive means the host presents frames for the session.
	SessionActive SessionState = iota

	// SessionEnded is terminal: the user exited, the device disconnected
	// or End was called.
	SessionEnded
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "active"
	case SessionEnded:
		return "ended"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Session is an active immersive session.
//
// Every operation checks the session state first; once the session ended
// they return ErrSessionEnded. Session is safe for concurrent use.
type Session struct {
	id   uuid.UUID
	mode SessionMode
	host HostSession

	mu        sync.Mutex
	state     SessionState
	reason    error
	listeners []func(reason error)
	done      chan struct{}
}

// NewSession wraps a session granted by a host. Most code gets sessions
// from Negotiator.RequestSession instead.
func NewSession(host HostSession, mode SessionMode) *Session {
	s := &Session{
		id:   uuid.New(),
		mode: mode,
		host: host,
		done: make(chan struct{}),
	}
	host.OnEnd(s.ended)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Mode returns the mode the session was requested with.
func (s *Session) Mode() SessionMode { return s.mode }

// Host returns the underlying host session.
func (s *Session) Host() HostSession { return s.host }

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether the session has not ended.
func (s *Session) Active() bool {
	return s.State() == SessionActive
}

// Done returns a channel closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns why the session ended, nil while active or after an explicit End.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// RenderState returns the session's current render state, read from the host.
func (s *Session) RenderState() (RenderState, error) {
	if !s.Active() {
		return RenderState{}, ErrSessionEnded
	}
	return s.host.RenderState(), nil
}

// UpdateRenderState replaces the fields of the render state set in init.
func (s *Session) UpdateRenderState(init RenderStateInit) error {
	if !s.Active() {
		return ErrSessionEnded
	}
	return s.host.UpdateRenderState(init)
}

// RequestAnimationFrame schedules cb for the next compositor frame.
func (s *Session) RequestAnimationFrame(cb FrameCallback) (FrameRequestID, error) {
	if !s.Active() {
		return 0, ErrSessionEnded
	}
	return s.host.RequestAnimationFrame(cb), nil
}

// CancelAnimationFrame removes a pending frame callback.
func (s *Session) CancelAnimationFrame(id FrameRequestID) {
	if id == 0 || !s.Active() {
		return
	}
	s.host.CancelAnimationFrame(id)
}

// OnEnd registers fn to run once when the session ends. If the session
// already ended, fn runs immediately.
func (s *Session) OnEnd(fn func(reason error)) {
	s.mu.Lock()
	if s.state == SessionEnded {
		reason := s.reason
		s.mu.Unlock()
		fn(reason)
		return
	}
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// End terminates the session. Ending an ended session is a no-op.
func (s *Session) End() error {
	if !s.Active() {
		return nil
	}
	err := s.host.End()
	s.ended(nil)
	if err != nil {
		return fmt.Errorf("xr: end session: %w", err)
	}
	return nil
}

// ended moves the session to SessionEnded and notifies listeners once.
func (s *Session) ended(reason error) {
	s.mu.Lock()
	if s.state == SessionEnded {
		s.mu.Unlock()
		return
	}
	s.state = SessionEnded
	s.reason = reason
	listeners := s.listeners
	s.listeners = nil
	close(s.done)
	s.mu.Unlock()

	s.log().Info("xr: session ended", "reason", reason)
	for _, fn := range listeners {
		fn(reason)
	}
}
