// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webxr

import (
	"context"
	"sync"
)

// handoff passes one promise settlement to a single waiting goroutine. If
// the waiter gave up first, a successful late value goes to orphan instead
// so that whatever the browser granted anyway can be released.
type handoff[T any] struct {
	ch     chan result[T]
	orphan func(T)

	mu      sync.Mutex
	done    bool
	waiting bool
}

type result[T any] struct {
	v   T
	err error
}

func newHandoff[T any](orphan func(T)) *handoff[T] {
	return &handoff[T]{ch: make(chan result[T], 1), orphan: orphan, waiting: true}
}

// settle records the outcome. Only the first call counts.
func (h *handoff[T]) settle(v T, err error) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	if h.waiting {
		h.ch <- result[T]{v: v, err: err}
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	if err == nil && h.orphan != nil {
		h.orphan(v)
	}
}

// wait returns the settlement, or ctx.Err() if ctx ends first. A result
// that settled before the waiter gave up is still returned.
func (h *handoff[T]) wait(ctx context.Context) (T, error) {
	select {
	case r := <-h.ch:
		return r.v, r.err
	case <-ctx.Done():
	}

	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		r := <-h.ch
		return r.v, r.err
	}
	h.waiting = false
	h.mu.Unlock()
	var zero T
	return zero, ctx.Err()
}

// abandoned reports whether wait gave up before the settlement arrived.
func (h *handoff[T]) abandoned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.waiting
}
