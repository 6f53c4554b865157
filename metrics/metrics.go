// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exports frame loop activity as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewLoopMetrics(reg)
//	rt, err := xr.Setup(ctx, system, gs, xr.WithObserver(m))
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogpu/xr"
)

const namespace = "xr"

// End reasons reported in the reason label of loop_ended_total.
const (
	ReasonStopped      = "stopped"
	ReasonSessionEnded = "session_ended"
	ReasonError        = "error"
)

// frameBuckets spans 1ms to ~0.5s, covering 72-120Hz frame budgets.
var frameBuckets = prometheus.ExponentialBuckets(0.001, 2, 10)

// LoopMetrics is an xr.LoopObserver recording transitions, frame times
// and how loops end.
type LoopMetrics struct {
	Transitions   *prometheus.CounterVec
	Frames        prometheus.Counter
	FrameDuration prometheus.Histogram
	State         prometheus.Gauge
	Ended         *prometheus.CounterVec
}

// NewLoopMetrics creates the collectors and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewLoopMetrics(reg prometheus.Registerer) *LoopMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &LoopMetrics{
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_transitions_total",
				Help:      "Frame loop state transitions by source and target state",
			},
			[]string{"from", "to"},
		),
		Frames: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames rendered without error",
			},
		),
		FrameDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_duration_seconds",
				Help:      "Time spent in the frame handler",
				Buckets:   frameBuckets,
			},
		),
		State: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loop_state",
				Help:      "Current frame loop state (0 idle, 1 armed, 2 running, 3 ended)",
			},
		),
		Ended: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loop_ended_total",
				Help:      "Frame loops ended by reason",
			},
			[]string{"reason"},
		),
	}
}

// LoopTransition implements xr.LoopObserver.
func (m *LoopMetrics) LoopTransition(from, to xr.LoopState) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
	m.State.Set(float64(to))
}

// FrameRendered implements xr.LoopObserver.
func (m *LoopMetrics) FrameRendered(d time.Duration) {
	m.Frames.Inc()
	m.FrameDuration.Observe(d.Seconds())
}

// LoopEnded implements xr.LoopObserver.
func (m *LoopMetrics) LoopEnded(err error) {
	m.Ended.WithLabelValues(Reason(err)).Inc()
}

// Reason classifies a loop's terminal error.
func Reason(err error) string {
	switch {
	case errors.Is(err, xr.ErrLoopStopped):
		return ReasonStopped
	case errors.Is(err, xr.ErrSessionEnded):
		return ReasonSessionEnded
	default:
		return ReasonError
	}
}

var _ xr.LoopObserver = (*LoopMetrics)(nil)
