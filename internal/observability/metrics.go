package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ranking computation outcomes used as metric labels.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	rankingComputations   *prometheus.CounterVec
	rankingSeconds        prometheus.Histogram
	rankingParticipants   prometheus.Histogram
	judgeResultsProcessed *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		rankingComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ranking_computations_total",
			Help: "Event ranking computations by outcome.",
		}, []string{"outcome"})

		rankingSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranking_computation_seconds",
			Help:    "Time spent loading and ranking an event.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		})

		rankingParticipants = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranking_participants",
			Help:    "Number of participants ranked per computation.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		})

		judgeResultsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "judge_results_processed_total",
			Help: "Judge callbacks processed by resulting submission status.",
		}, []string{"status"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			rankingComputations,
			rankingSeconds,
			rankingParticipants,
			judgeResultsProcessed,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// RankingComputations counts ranking computations by outcome.
func RankingComputations() *prometheus.CounterVec {
	RegisterMetrics()
	return rankingComputations
}

// RankingLatency exposes the ranking computation histogram.
func RankingLatency() prometheus.Histogram {
	RegisterMetrics()
	return rankingSeconds
}

// RankingParticipants exposes the participants-per-ranking histogram.
func RankingParticipants() prometheus.Histogram {
	RegisterMetrics()
	return rankingParticipants
}

// JudgeResultsProcessed counts processed judge callbacks.
func JudgeResultsProcessed() *prometheus.CounterVec {
	RegisterMetrics()
	return judgeResultsProcessed
}
