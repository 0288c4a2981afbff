package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowshare_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flowshare_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VoteOperations counts vote ledger operations by target and action.
	// The "outcome" label distinguishes applied facts from idempotent no-ops.
	VoteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowshare_vote_operations_total",
		Help: "Total vote ledger operations by target, action and outcome",
	}, []string{"target", "action", "outcome"})

	// CacheLookups counts cache-aside lookups by key class and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowshare_cache_lookups_total",
		Help: "Total cache-aside lookups by key class and result",
	}, []string{"class", "result"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordVote increments the vote operations counter.
func RecordVote(target, action string, applied bool) {
	outcome := "applied"
	if !applied {
		outcome = "noop"
	}
	VoteOperations.WithLabelValues(target, action, outcome).Inc()
}
