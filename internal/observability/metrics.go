package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

var (
	// AuthAttempts counts signup and signin outcomes.
	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "askly_auth_attempts_total",
		Help: "Total number of signup and signin attempts by outcome",
	}, []string{"operation", "outcome"})

	// OwnershipDenials counts mutations rejected because the caller is not the owner.
	OwnershipDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "askly_ownership_denials_total",
		Help: "Total number of mutations rejected by the ownership check",
	}, []string{"resource"})

	// RateLimitRejections counts requests turned away by the Redis rate limiter.
	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "askly_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "askly_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "askly_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// NewRegistry returns a registry holding the application and runtime collectors.
// Each server gets its own so tests can build many servers in one process.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AuthAttempts,
		OwnershipDenials,
		RateLimitRejections,
		RedisErrorRate,
		DatabaseQueryLatency,
	)
	return reg
}

// NewHTTPMetrics builds the fiber request metrics middleware on reg.
func NewHTTPMetrics(reg *prometheus.Registry) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.NewWithRegistry(reg, ServiceName, "askly", "http", nil)
}

const queryStartKey = "askly:query_start"

// RegisterGormMetrics records DatabaseQueryLatency for every gorm operation on db.
func RegisterGormMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			DatabaseQueryLatency.WithLabelValues(operation, tx.Statement.Table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("askly:metrics_before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("askly:metrics_after_create", after("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("askly:metrics_before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("askly:metrics_after_query", after("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("askly:metrics_before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("askly:metrics_after_update", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("askly:metrics_before_delete", before); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("askly:metrics_after_delete", after("delete"))
}
