package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	scansTotal             *prometheus.CounterVec
	identifyDuration       prometheus.Histogram
	identifyComparisons    prometheus.Histogram
	identifyOutcomesTotal  *prometheus.CounterVec
	rosterCacheLookupTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for API and
// identification observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendance_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		scansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_scans_total",
			Help: "Total number of kiosk scans by mode and outcome.",
		}, []string{"mode", "outcome"})

		identifyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_identify_duration_seconds",
			Help:    "Duration of gallery identification scans.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		identifyComparisons = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_identify_comparisons",
			Help:    "Template comparisons performed per identification scan.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})

		identifyOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_identify_outcomes_total",
			Help: "Identification scans by outcome.",
		}, []string{"outcome"})

		rosterCacheLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_roster_cache_lookups_total",
			Help: "Roster cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			scansTotal, identifyDuration, identifyComparisons,
			identifyOutcomesTotal, rosterCacheLookupTotal,
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

// ScansTotal exposes the counter for kiosk scan outcomes.
func ScansTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return scansTotal
}

// IdentifyDuration exposes the identification duration histogram.
func IdentifyDuration() prometheus.Histogram {
	RegisterMetrics()
	return identifyDuration
}

// IdentifyComparisons exposes the per-scan comparison count histogram.
func IdentifyComparisons() prometheus.Histogram {
	RegisterMetrics()
	return identifyComparisons
}

// IdentifyOutcomes exposes the counter for identification outcomes.
func IdentifyOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return identifyOutcomesTotal
}

// RosterCacheLookups exposes the counter for roster cache hits and misses.
func RosterCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return rosterCacheLookupTotal
}
