// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import (
	"errors"
	"testing"
)

func TestSessionEnd(t *testing.T) {
	host := newFakeHost()
	s := NewSession(host, ImmersiveVR)

	if !s.Active() || s.State() != SessionActive {
		t.Fatalf("new session state = %v, want active", s.State())
	}

	var calls int
	s.OnEnd(func(reason error) {
		calls++
		if reason != nil {
			t.Errorf("explicit End reason = %v, want nil", reason)
		}
	})

	if err := s.End(); err != nil {
		t.Fatalf("End() = %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("second End() = %v", err)
	}
	if calls != 1 {
		t.Errorf("OnEnd listener ran %d times, want 1", calls)
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after End")
	}
	if s.State() != SessionEnded {
		t.Errorf("State() = %v, want ended", s.State())
	}
}

func TestSessionEndedOperations(t *testing.T) {
	host := newFakeHost()
	s := NewSession(host, ImmersiveVR)
	host.disconnect(errDisconnected)

	if !errors.Is(s.Err(), errDisconnected) {
		t.Errorf("Err() = %v, want %v", s.Err(), errDisconnected)
	}
	if _, err := s.RenderState(); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("RenderState() err = %v, want ErrSessionEnded", err)
	}
	if err := s.UpdateRenderState(RenderStateInit{}); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("UpdateRenderState() err = %v, want ErrSessionEnded", err)
	}
	if _, err := s.RequestAnimationFrame(func(Frame) {}); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("RequestAnimationFrame() err = %v, want ErrSessionEnded", err)
	}
	if host.requestCount() != 0 {
		t.Errorf("host got %d frame requests after end", host.requestCount())
	}

	var got error
	s.OnEnd(func(reason error) { got = reason })
	if !errors.Is(got, errDisconnected) {
		t.Errorf("late OnEnd reason = %v, want %v", got, errDisconnected)
	}
}

func TestSessionEndHostError(t *testing.T) {
	host := newFakeHost()
	host.endErr = errors.New("compositor busy")
	s := NewSession(host, Inline)

	if err := s.End(); err == nil {
		t.Fatal("End() = nil, want host error")
	}
	if s.Active() {
		t.Error("session still active after failed End")
	}
}

func TestSessionUniqueIDs(t *testing.T) {
	a := NewSession(newFakeHost(), ImmersiveVR)
	b := NewSession(newFakeHost(), ImmersiveVR)
	if a.ID() == b.ID() {
		t.Errorf("sessions share ID %v", a.ID())
	}
}

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		s    SessionState
		want string
	}{
		{SessionActive, "active"},
		{SessionEnded, "ended"},
		{SessionState(7), "SessionState(7)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}
