// Package metrics records Prometheus metrics for seed runs.
//
// A seed run is a batch job, so nothing is scraped; the collected metrics
// are pushed to a Pushgateway when PUSHGATEWAY_URL is configured:
//
//	m := metrics.New()
//	m.RecordRows("recipe", 3)
//	m.RecordRun(metrics.OutcomeSuccess, time.Since(start))
//	_ = m.Push(ctx, config.PushgatewayURL())
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "recipe_manager"
	subsystem = "seed"

	// JobName is the Pushgateway job label for seed runs.
	JobName = "recipe_manager_seed"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SeedMetrics holds the collectors for one process. A nil *SeedMetrics is
// valid and records nothing.
type SeedMetrics struct {
	registry *prometheus.Registry

	// RowsCreated counts rows inserted, by entity ("category" | "recipe" | "ingredient").
	RowsCreated *prometheus.CounterVec

	// Runs counts completed runs by outcome.
	Runs *prometheus.CounterVec

	// Duration is how long the last run took.
	Duration prometheus.Gauge

	// LastSuccess is the unix time of the last successful run.
	LastSuccess prometheus.Gauge
}

// New creates SeedMetrics on a private registry.
func New() *SeedMetrics {
	m := &SeedMetrics{
		registry: prometheus.NewRegistry(),
		RowsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rows_created_total",
			Help:      "Rows inserted by the seeder.",
		}, []string{"entity"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Seed runs by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Duration of the last seed run in seconds.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful seed run.",
		}),
	}

	m.registry.MustRegister(m.RowsCreated, m.Runs, m.Duration, m.LastSuccess)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *SeedMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRows adds n created rows for entity.
func (m *SeedMetrics) RecordRows(entity string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsCreated.WithLabelValues(entity).Add(float64(n))
}

// RecordRun records the outcome and duration of a run.
func (m *SeedMetrics) RecordRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Duration.Set(d.Seconds())
	if outcome == OutcomeSuccess {
		m.LastSuccess.SetToCurrentTime()
	}
}

// Push sends the collected metrics to the Pushgateway at url, replacing the
// previous push for JobName. An empty url is a no-op.
func (m *SeedMetrics) Push(ctx context.Context, url string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, JobName).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push: %w", err)
	}
	return nil
}
