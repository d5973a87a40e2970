//go:build !tinygo

// Package metrics exports loop statistics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"macropad/kbd"
)

const namespace = "macropad"

// Module is a kbd.Module that records one sample per iteration, measured
// from its own before_scan to its own after_output. Registered first, the
// sample covers every module's before_scan, the scan, process_event,
// after_scan, before_output and the output sink, but not the after_output
// hooks of modules registered after it.
type Module struct {
	kbd.Base

	ticks     prometheus.Counter
	events    *prometheus.CounterVec
	latency   prometheus.Histogram
	suspended prometheus.Gauge

	now   func() time.Time
	start time.Time
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Module, error) {
	m := &Module{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "iterations_total",
			Help:      "Completed loop iterations",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keys",
			Name:      "events_total",
			Help:      "Key events delivered to the output sink",
		}, []string{"state"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "iteration_seconds",
			Help:      "Time from before_scan to after_output",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		suspended: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "power",
			Name:      "suspended",
			Help:      "1 while the keyboard is in power-save",
		}),
		now: time.Now,
	}
	for _, c := range []prometheus.Collector{m.ticks, m.events, m.latency, m.suspended} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Module) Name() string { return "metrics" }

func (m *Module) BeforeScan(*kbd.State) error {
	m.start = m.now()
	return nil
}

func (m *Module) BeforeOutput(st *kbd.State) error {
	for _, ev := range st.Pending {
		if ev.Pressed {
			m.events.WithLabelValues("press").Inc()
		} else {
			m.events.WithLabelValues("release").Inc()
		}
	}
	return nil
}

func (m *Module) AfterOutput(*kbd.State) error {
	m.ticks.Inc()
	if !m.start.IsZero() {
		m.latency.Observe(m.now().Sub(m.start).Seconds())
	}
	return nil
}

func (m *Module) OnSuspend(*kbd.State) error {
	m.suspended.Set(1)
	return nil
}

func (m *Module) OnResume(*kbd.State) error {
	m.suspended.Set(0)
	return nil
}
