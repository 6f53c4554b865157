package wgpu

import "errors"

// Errors returned by WebGPU contexts.
var (
	// ErrDestroyed is returned by operations on a destroyed context.
	ErrDestroyed = errors.New("wgpu: context destroyed")

	// ErrForeignTarget is returned when binding a target this context did
	// not allocate.
	ErrForeignTarget = errors.New("wgpu: target was not allocated by this context")

	// ErrNoTarget is returned when recording a pass without a bound target.
	ErrNoTarget = errors.New("wgpu: no draw target bound")

	// ErrFrameIncomplete is returned when the device went idle without
	// completing a submitted frame.
	ErrFrameIncomplete = errors.New("wgpu: submitted frame did not complete")

	// ErrNotXRCompatible is returned when no adapter can present to XR.
	ErrNotXRCompatible = errors.New("wgpu: no XR-capable adapter")
)
