package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/xr"
)

// Errors returned by the simulated host.
var (
	// ErrUnsupported is returned when requesting a mode the device lacks.
	ErrUnsupported = errors.New("sim: session mode not supported")

	// ErrBusy is returned when a session is requested while another is active.
	ErrBusy = errors.New("sim: another session is active")

	// ErrNoAllocator is returned by CreateLayer when the graphics context
	// cannot allocate framebuffers.
	ErrNoAllocator = errors.New("sim: graphics context cannot allocate framebuffers")

	// ErrIncompatible is returned by CreateLayer for a context that is not
	// XR-compatible.
	ErrIncompatible = errors.New("sim: graphics context is not XR-compatible")

	// ErrForeignLayer is returned when installing a layer built by another session.
	ErrForeignLayer = errors.New("sim: layer belongs to another session")

	// ErrDisconnected is the end reason of Session.Disconnect(nil).
	ErrDisconnected = errors.New("sim: device disconnected")
)

// Default recommended framebuffer size: two 800x800 eyes side by side.
const (
	DefaultFramebufferWidth  = 1600
	DefaultFramebufferHeight = 800
)

// Option configures a System.
type Option func(*System)

// WithModes sets the supported session modes. Default inline and immersive-vr.
func WithModes(modes ...xr.SessionMode) Option {
	return func(s *System) {
		s.modes = make(map[xr.SessionMode]bool, len(modes))
		for _, m := range modes {
			s.modes[m] = true
		}
	}
}

// WithDenial makes every session request fail with err, as if the user
// dismissed the permission prompt.
func WithDenial(err error) Option {
	return func(s *System) {
		s.denyErr = err
		s.denyLeft = -1
	}
}

// WithDeniedRequests makes the first n session requests fail with err, as
// if the user dismissed the prompt n times before accepting.
func WithDeniedRequests(n int, err error) Option {
	return func(s *System) {
		s.denyErr = err
		s.denyLeft = n
	}
}

// WithPromptDelay delays session grants by d. A request whose context ends
// first fails with the context error.
func WithPromptDelay(d time.Duration) Option {
	return func(s *System) {
		s.delay = d
	}
}

// WithFramebufferSize sets the recommended framebuffer size of layers.
func WithFramebufferSize(width, height int) Option {
	return func(s *System) {
		s.width, s.height = width, height
	}
}

// System is a simulated XR device. It implements xr.System.
type System struct {
	modes   map[xr.SessionMode]bool
	denyErr error
	delay   time.Duration
	width   int
	height  int

	mu       sync.Mutex
	active   *Session
	requests int
	denyLeft int // <0 denies every request
}

// NewSystem creates a simulated device.
func NewSystem(opts ...Option) *System {
	s := &System{
		modes:  map[xr.SessionMode]bool{xr.Inline: true, xr.ImmersiveVR: true},
		width:  DefaultFramebufferWidth,
		height: DefaultFramebufferHeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsSessionSupported reports whether mode is in the support table.
func (s *System) IsSessionSupported(ctx context.Context, mode xr.SessionMode) bool {
	if ctx.Err() != nil {
		return false
	}
	return s.modes[mode]
}

// RequestSession grants a session unless the mode is unsupported, another
// session is active or the system denies requests.
func (s *System) RequestSession(ctx context.Context, mode xr.SessionMode) (xr.HostSession, error) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if !s.modes[mode] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mode)
	}
	if err := s.denial(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrBusy
	}
	sess := newSession(s, mode)
	s.active = sess
	return sess, nil
}

// denial returns the error the next request is refused with, if any.
func (s *System) denial() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.denyErr == nil:
		return nil
	case s.denyLeft < 0:
		return s.denyErr
	case s.denyLeft > 0:
		s.denyLeft--
		return s.denyErr
	}
	return nil
}

// Active returns the active session, nil if none.
func (s *System) Active() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Requests returns how many sessions were requested.
func (s *System) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *System) release(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == sess {
		s.active = nil
	}
}

var _ xr.System = (*System)(nil)
