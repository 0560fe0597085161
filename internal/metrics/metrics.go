// Package metrics exposes Prometheus instrumentation for the approval engine.
package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"redline/internal/db"
)

var (
	requestsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redline_requests_created_total",
			Help: "Approval requests created, by change kind",
		},
		[]string{"change_kind"},
	)

	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redline_decisions_total",
			Help: "Decisions recorded, by decision value and decider",
		},
		[]string{"decision", "decider"},
	)

	requestsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redline_requests_expired_total",
			Help: "Pending requests flipped to expired by the sweep",
		},
	)

	rollbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "redline_rollbacks_total",
			Help: "Documents rolled back to a prior version",
		},
	)

	pendingBacklogDesc = prometheus.NewDesc(
		"redline_pending_requests",
		"Approval requests currently pending",
		nil,
		nil,
	)
)

// PendingCollector is a custom Prometheus collector that reads the pending
// backlog from the database on each scrape.
type PendingCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *PendingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pendingBacklogDesc
}

// Collect queries the database for the pending count and emits it as a gauge.
func (c *PendingCollector) Collect(ch chan<- prometheus.Metric) {
	var count int64
	err := c.db.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM approval_requests WHERE status = 'pending'").Scan(&count)
	if err != nil {
		slog.Error("failed to collect pending request metric", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(pendingBacklogDesc, prometheus.GaugeValue, float64(count))
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(requestsCreated, decisions, requestsExpired, rollbacks)
		prometheus.MustRegister(&PendingCollector{db: database})
	})
}

// RecordRequestCreated increments the created counter for a change kind.
func RecordRequestCreated(changeKind string) {
	requestsCreated.WithLabelValues(changeKind).Inc()
}

// RecordDecision increments the decision counter. decider is "human" or "rule".
func RecordDecision(decision, decider string) {
	decisions.WithLabelValues(decision, decider).Inc()
}

// RecordExpired adds the sweep's count to the expired counter.
func RecordExpired(count int64) {
	requestsExpired.Add(float64(count))
}

// RecordRollback increments the rollback counter.
func RecordRollback() {
	rollbacks.Inc()
}
