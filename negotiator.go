// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"context"
	"fmt"
	"sync"
)

// Negotiator asks the host for support and sessions.
//
// It keeps at most one session open: requesting another while the previous
// one is active fails with ErrSessionActive.
type Negotiator struct {
	system System

	mu     sync.Mutex
	active *Session
}

// NewNegotiator creates a negotiator for the given host system.
func NewNegotiator(system System) *Negotiator {
	return &Negotiator{system: system}
}

// QuerySupport reports whether mode can run on this device.
// It never fails; an unavailable mode is reported as false.
func (n *Negotiator) QuerySupport(ctx context.Context, mode SessionMode) bool {
	ok := n.system.IsSessionSupported(ctx, mode)
	Logger().Debug("xr: support query", "mode", mode.String(), "supported", ok)
	return ok
}

// RequestSession asks the host for a session in mode.
//
// A refusal, a host timeout or a cancelled ctx all surface as
// ErrSessionDenied. The request is never retried.
func (n *Negotiator) RequestSession(ctx context.Context, mode SessionMode) (*Session, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.active != nil && n.active.Active() {
		return nil, ErrSessionActive
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionDenied, err)
	}

	host, err := n.system.RequestSession(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionDenied, err)
	}
	if host == nil {
		return nil, fmt.Errorf("%w: host returned no session", ErrSessionDenied)
	}

	s := NewSession(host, mode)
	n.active = s
	Logger().Info("xr: session granted", "session", s.ID(), "mode", mode.String())
	return s, nil
}

// Active returns the currently active session, or nil.
func (n *Negotiator) Active() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active != nil && !n.active.Active() {
		n.active = nil
	}
	return n.active
}
