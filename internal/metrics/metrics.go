// Package metrics exposes prometheus instrumentation for the contact flow.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"portfolio-contact/internal/contact"
)

const namespace = "portfolio_contact"

type Metrics struct {
	Submissions    *prometheus.CounterVec
	RelayDuration  *prometheus.HistogramVec
	ActiveSessions prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Settled relay attempts by status and failure kind.",
		}, []string{"status", "failure"}),
		RelayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_duration_seconds",
			Help:      "Time spent waiting for the relay.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Contact sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.Submissions, m.RelayDuration, m.ActiveSessions)
	return m
}

// Recorder counts attempts and forwards them to next, which may be nil.
func (m *Metrics) Recorder(next contact.Recorder) contact.Recorder {
	return &recorder{m: m, next: next}
}

type recorder struct {
	m    *Metrics
	next contact.Recorder
}

func (r *recorder) Record(ctx context.Context, a contact.Attempt) error {
	failure := string(a.Failure)
	if failure == "" {
		failure = "none"
	}
	r.m.Submissions.WithLabelValues(string(a.Status), failure).Inc()
	r.m.RelayDuration.WithLabelValues(string(a.Status)).Observe(a.Duration.Seconds())
	if r.next == nil {
		return nil
	}
	return r.next.Record(ctx, a)
}
