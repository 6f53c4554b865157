// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import "errors"

// Setup errors. Each is returned wrapped, test with errors.Is.
var (
	// ErrUnsupportedMode is returned when the host reports that the
	// requested session mode is not available. No session is requested.
	ErrUnsupportedMode = errors.New("xr: session mode not supported")

	// ErrSessionDenied is returned when the host refuses or times out a
	// session request. It is never retried automatically.
	ErrSessionDenied = errors.New("xr: session request denied")

	// ErrContextCreationFailed is returned when the graphics system cannot
	// create a context for the requested configuration.
	ErrContextCreationFailed = errors.New("xr: graphics context creation failed")

	// ErrIncompatibleContext is returned when a context cannot be made
	// XR-compatible. It is fatal to the session.
	ErrIncompatibleContext = errors.New("xr: graphics context is not XR-compatible")

	// ErrLayerCreationFailed is returned when a base layer cannot be built.
	// With correct call ordering this indicates a programming error.
	ErrLayerCreationFailed = errors.New("xr: base layer creation failed")
)

// Session and loop errors.
var (
	// ErrSessionEnded is returned by operations on a session that has ended.
	ErrSessionEnded = errors.New("xr: session has ended")

	// ErrSessionActive is returned when a second session is requested while
	// one is still active.
	ErrSessionActive = errors.New("xr: a session is already active")

	// ErrInvalidDepthRange is returned when depth-near/far are not 0 < near < far.
	ErrInvalidDepthRange = errors.New("xr: invalid depth range")

	// ErrNoBaseLayer is recorded by the frame loop when the session's current
	// render state has no base layer.
	ErrNoBaseLayer = errors.New("xr: render state has no base layer")

	// ErrFrameExpired is returned when a frame is used after its callback returned.
	ErrFrameExpired = errors.New("xr: frame is no longer valid")

	// ErrLoopStarted is returned by Start on a loop that already left Idle.
	ErrLoopStarted = errors.New("xr: frame loop already started")

	// ErrLoopStopped is recorded when the loop ends through Stop.
	ErrLoopStopped = errors.New("xr: frame loop stopped")

	// ErrFramePanic wraps a panic recovered from a frame handler.
	ErrFramePanic = errors.New("xr: frame handler panicked")

	// ErrNilHost is returned when Setup receives a nil System or GraphicsSystem.
	ErrNilHost = errors.New("xr: nil host system")
)
