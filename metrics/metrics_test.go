// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/backend/software"
	"github.com/gogpu/xr/host/sim"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"stopped", xr.ErrLoopStopped, ReasonStopped},
		{"session ended", xr.ErrSessionEnded, ReasonSessionEnded},
		{"disconnected", fmt.Errorf("%w: %w", xr.ErrSessionEnded, sim.ErrDisconnected), ReasonSessionEnded},
		{"handler error", errors.New("boom"), ReasonError},
		{"panic", fmt.Errorf("%w: frame 3", xr.ErrFramePanic), ReasonError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestLoopMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoopMetrics(reg)

	m.LoopTransition(xr.LoopIdle, xr.LoopArmed)
	m.LoopTransition(xr.LoopArmed, xr.LoopRunning)
	m.FrameRendered(4 * time.Millisecond)
	m.LoopTransition(xr.LoopRunning, xr.LoopArmed)

	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("armed", "running")); got != 1 {
		t.Errorf("armed->running = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.State); got != float64(xr.LoopArmed) {
		t.Errorf("loop_state = %g, want %d", got, xr.LoopArmed)
	}
	if got := testutil.ToFloat64(m.Frames); got != 1 {
		t.Errorf("frames_total = %g, want 1", got)
	}

	m.LoopEnded(xr.ErrLoopStopped)
	want := `
# HELP xr_loop_ended_total Frame loops ended by reason
# TYPE xr_loop_ended_total counter
xr_loop_ended_total{reason="stopped"} 1
`
	if err := testutil.CollectAndCompare(m.Ended, strings.NewReader(want)); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(m.FrameDuration); n != 1 {
		t.Errorf("frame_duration_seconds series = %d, want 1", n)
	}
}

func TestLoopMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewLoopMetrics(reg)
	defer func() {
		if recover() == nil {
			t.Error("second registration on the same registry did not panic")
		}
	}()
	NewLoopMetrics(reg)
}

func TestLoopMetricsSimulatedSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoopMetrics(reg)
	sys := sim.NewSystem(sim.WithFramebufferSize(32, 16))

	rt, err := xr.Setup(context.Background(), sys, software.New(), xr.WithObserver(m))
	if err != nil {
		t.Fatalf("Setup() = %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	clock := sim.NewClock(sys.Active(), sim.DefaultRefreshRate)
	for i := 0; i < 3; i++ {
		clock.Step()
	}
	sys.Active().Disconnect(nil)

	if got := testutil.ToFloat64(m.Frames); got != 3 {
		t.Errorf("frames_total = %g, want 3", got)
	}
	if got := testutil.ToFloat64(m.Transitions.WithLabelValues("running", "armed")); got != 3 {
		t.Errorf("running->armed = %g, want 3", got)
	}
	if got := testutil.ToFloat64(m.Ended.WithLabelValues(ReasonSessionEnded)); got != 1 {
		t.Errorf("loop_ended_total{session_ended} = %g, want 1", got)
	}
	if got := testutil.ToFloat64(m.State); got != float64(xr.LoopEnded) {
		t.Errorf("loop_state = %g, want ended", got)
	}
	if err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP xr_frames_total Frames rendered without error
# TYPE xr_frames_total counter
xr_frames_total 3
`), "xr_frames_total"); err != nil {
		t.Error(err)
	}
}
