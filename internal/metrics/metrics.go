// Package metrics provides centralized Prometheus metrics registry for the evaluation pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	StakesComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "stakes_computed_total",
		Help:      "Total number of stake computations",
	})
	StakeRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "stake_rejections_total",
		Help:      "Total number of zero stakes by guardrail",
	}, []string{"reason"})
	RecommendationsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "recommendations_saved_total",
		Help:      "Total number of stake recommendations persisted",
	})
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "cache_requests_total",
		Help:      "Total number of analysis cache lookups by cache and result",
	}, []string{"cache", "result"})
	RateLimitRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by the sliding window limiter",
	}, []string{"limiter"})
	UpstreamFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "upstream_failures_total",
		Help:      "Total number of failed upstream calls by provider",
	}, []string{"provider"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "edgecast",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of upstream circuit breaker trips",
	})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edgecast",
		Name:      "cache_hit_ratio",
		Help:      "Analysis cache hit ratio by cache",
	}, []string{"cache"})
)

// Histogram metrics
var (
	EvaluationCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "edgecast",
		Name:      "evaluation_cycle_duration_seconds",
		Help:      "Duration of evaluation cycles in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	StakeFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "edgecast",
		Name:      "stake_fraction",
		Help:      "Distribution of non-zero recommended stake fractions",
		Buckets:   []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(StakesComputedTotal)
		registry.MustRegister(StakeRejectionsTotal)
		registry.MustRegister(RecommendationsSavedTotal)
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(RateLimitRejectionsTotal)
		registry.MustRegister(UpstreamFailuresTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(CacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(EvaluationCycleDuration)
		registry.MustRegister(StakeFraction)

		// Register backtest metrics
		registry.MustRegister(PredictionsResolvedTotal)
		registry.MustRegister(BacktestBrierScore)
		registry.MustRegister(BacktestCompoundedROI)
		registry.MustRegister(BacktestAccuracy)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordStake records a computed stake and, when zero, the guardrail that produced it.
func RecordStake(stake float64, rejection string) {
	StakesComputedTotal.Inc()
	if rejection != "" {
		StakeRejectionsTotal.WithLabelValues(rejection).Inc()
		return
	}
	StakeFraction.Observe(stake)
}

// RecordRecommendationSaved records a persisted recommendation.
func RecordRecommendationSaved() {
	RecommendationsSavedTotal.Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// UpdateCacheHitRatio updates the hit ratio gauge for a cache.
func UpdateCacheHitRatio(cache string, ratio float64) {
	CacheHitRatio.WithLabelValues(cache).Set(ratio)
}

// RecordRateLimitRejection records a limiter rejection.
func RecordRateLimitRejection(limiter string) {
	RateLimitRejectionsTotal.WithLabelValues(limiter).Inc()
}

// RecordUpstreamFailure records a failed upstream call.
func RecordUpstreamFailure(provider string) {
	UpstreamFailuresTotal.WithLabelValues(provider).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordEvaluationCycle records evaluation cycle duration.
func RecordEvaluationCycle(durationSeconds float64) {
	EvaluationCycleDuration.Observe(durationSeconds)
}
