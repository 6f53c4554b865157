// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webxr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestHandoffSettledBeforeWait(t *testing.T) {
	h := newHandoff[string](func(string) { t.Error("orphan called for a delivered value") })
	h.settle("session", nil)
	h.settle("second", nil)

	v, err := h.wait(context.Background())
	if err != nil || v != "session" {
		t.Errorf("wait() = %q, %v, want the first settlement", v, err)
	}
	if h.abandoned() {
		t.Error("abandoned() = true after delivery")
	}
}

func TestHandoffRejection(t *testing.T) {
	denied := errors.New("NotAllowedError")
	h := newHandoff[string](nil)
	go h.settle("", denied)

	if _, err := h.wait(context.Background()); !errors.Is(err, denied) {
		t.Errorf("wait() = %v, want the rejection", err)
	}
}

func TestHandoffLateValueIsOrphaned(t *testing.T) {
	var orphaned []string
	h := newHandoff(func(v string) { orphaned = append(orphaned, v) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("wait() = %v, want context.Canceled", err)
	}
	if !h.abandoned() {
		t.Error("abandoned() = false after the waiter gave up")
	}

	h.settle("late session", nil)
	h.settle("again", nil)
	if len(orphaned) != 1 || orphaned[0] != "late session" {
		t.Errorf("orphaned = %v, want the late session once", orphaned)
	}
}

func TestHandoffLateRejectionIsDropped(t *testing.T) {
	h := newHandoff(func(string) { t.Error("orphan called for a rejection") })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = h.wait(ctx)
	h.settle("", errors.New("AbortError"))
}

// Every granted value is either returned to the waiter or orphaned,
// never both and never neither.
func TestHandoffSettleRacesCancel(t *testing.T) {
	for i := 0; i < 500; i++ {
		var orphaned atomic.Int32
		h := newHandoff(func(int) { orphaned.Add(1) })
		ctx, cancel := context.WithCancel(context.Background())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.settle(i, nil)
		}()
		go func() {
			defer wg.Done()
			cancel()
		}()
		_, err := h.wait(ctx)
		wg.Wait()

		returned := err == nil
		if returned == (orphaned.Load() == 1) {
			t.Fatalf("iteration %d: returned %v orphaned %d", i, returned, orphaned.Load())
		}
	}
}
