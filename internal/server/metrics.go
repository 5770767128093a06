package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sells-group/script-analytics/internal/model"
)

// Metrics are the Prometheus collectors exported on /metrics.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	analyses     *prometheus.CounterVec
	qualityScore *prometheus.HistogramVec
}

// NewMetrics registers the server collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "script_analytics_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "script_analytics_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "script_analytics_analyses_total",
			Help: "Completed script analyses by variant and confidence level.",
		}, []string{"variant", "confidence"}),
		qualityScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "script_analytics_quality_score",
			Help:    "Overall quality score of analyzed scripts.",
			Buckets: prometheus.LinearBuckets(10, 10, 9),
		}, []string{"framework"}),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.analyses,
		m.qualityScore,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeAnalysis(v model.Variant, a *model.ScriptAnalysis) {
	m.analyses.WithLabelValues(string(v), string(a.ConfidenceLevel)).Inc()
	m.qualityScore.WithLabelValues(string(v.Framework())).Observe(float64(a.OverallQualityScore))
}
