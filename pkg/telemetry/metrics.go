// Package telemetry exports frame pipeline metrics to Prometheus.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/trellis/pkg/ui/diff"
)

const namespace = "trellis"

// FrameMetrics counts what the render loop does each frame. A nil
// *FrameMetrics discards every observation.
type FrameMetrics struct {
	Frames        prometheus.Counter
	Patches       *prometheus.CounterVec
	Writes        prometheus.Counter
	Cells         prometheus.Counter
	FrameDuration prometheus.Histogram
	Dropped       prometheus.Counter
	FatalErrors   *prometheus.CounterVec
}

// NewFrameMetrics registers the frame metrics on reg. Pass
// prometheus.NewRegistry() in tests to keep registrations isolated.
func NewFrameMetrics(reg prometheus.Registerer) *FrameMetrics {
	f := promauto.With(reg)
	return &FrameMetrics{
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames run through diff, layout, paint and flush.",
		}),
		Patches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patches_total",
			Help:      "Tree patches applied, by operation.",
		}, []string{"op"}),
		Writes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Styled terminal write runs emitted by flush.",
		}),
		Cells: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_written_total",
			Help:      "Terminal columns rewritten by flush.",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time from diff to flush.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages rejected because the loop queue was full.",
		}),
		FatalErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fatal_errors_total",
			Help:      "Errors that stopped the render loop, by code.",
		}, []string{"code"}),
	}
}

// ObserveFrame records one completed frame.
func (m *FrameMetrics) ObserveFrame(patches []diff.Patch, writes, cells int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Frames.Inc()
	for op, n := range diff.Counts(patches) {
		m.Patches.WithLabelValues(op.String()).Add(float64(n))
	}
	m.Writes.Add(float64(writes))
	m.Cells.Add(float64(cells))
	m.FrameDuration.Observe(elapsed.Seconds())
}

// MessageDropped counts a message the loop could not accept.
func (m *FrameMetrics) MessageDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

// Fatal counts an error that stopped the loop.
func (m *FrameMetrics) Fatal(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.FatalErrors.WithLabelValues(code).Inc()
}
