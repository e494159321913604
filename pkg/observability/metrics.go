package observability

import (
	"context"

	"github.com/aretw0/fieldline/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tracer collectors.
type Metrics struct {
	Traces   *prometheus.CounterVec
	Steps    prometheus.Counter
	Rejected prometheus.Counter
	Points   prometheus.Histogram
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldline_traces_total",
				Help: "Finished traces by termination reason",
			},
			[]string{"reason"},
		),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldline_steps_total",
			Help: "Accepted integration steps",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldline_rejected_steps_total",
			Help: "Trial steps rejected by error control",
		}),
		Points: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldline_trace_points",
			Help:    "Points returned per trace",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "fieldline_trace_duration_seconds",
			Help: "Wall time per trace",
		}),
	}
	for _, c := range []prometheus.Collector{m.Traces, m.Steps, m.Rejected, m.Points, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns tracer hooks that update m.
func (m *Metrics) Hooks() domain.TraceHooks {
	return domain.TraceHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
			m.Rejected.Add(float64(e.Rejected))
		},
		OnTerminate: func(_ context.Context, e *domain.TerminateEvent) {
			m.Traces.WithLabelValues(string(e.Reason)).Inc()
			m.Points.Observe(float64(e.Points))
			m.Duration.Observe(e.Duration)
		},
	}
}
