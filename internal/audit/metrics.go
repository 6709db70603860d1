package audit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus collectors for audits.
type Metrics struct {
	Registry          *prometheus.Registry
	AuditsTotal       *prometheus.CounterVec
	AuditDuration     *prometheus.HistogramVec
	AnalyzerFailures  *prometheus.CounterVec
	MultiPageFallback *prometheus.CounterVec
	PagesFetchedTotal *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	audits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoaudit_audits_total",
			Help: "Total audits run, by audit type and outcome.",
		},
		[]string{"type", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seoaudit_audit_duration_seconds",
			Help:    "Wall-clock duration of completed audits.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160, 300},
		},
		[]string{"type"},
	)
	analyzerFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoaudit_analyzer_failures_total",
			Help: "Category analyzers that failed and were downgraded to a zero score.",
		},
		[]string{"category"},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoaudit_multipage_fallbacks_total",
			Help: "Multi-page audits that fell back to the homepage report, by failing stage.",
		},
		[]string{"stage"},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seoaudit_pages_fetched_total",
			Help: "Selected pages fetched during multi-page audits.",
		},
		[]string{"result"},
	)

	registry.MustRegister(audits, duration, analyzerFailures, fallbacks, pages)

	return &Metrics{
		Registry:          registry,
		AuditsTotal:       audits,
		AuditDuration:     duration,
		AnalyzerFailures:  analyzerFailures,
		MultiPageFallback: fallbacks,
		PagesFetchedTotal: pages,
	}
}

// IncAudit counts a finished audit.
func (m *Metrics) IncAudit(auditType, outcome string) {
	if m == nil {
		return
	}
	m.AuditsTotal.WithLabelValues(auditType, outcome).Inc()
}

// ObserveAudit records an audit duration.
func (m *Metrics) ObserveAudit(auditType string, d time.Duration) {
	if m == nil {
		return
	}
	m.AuditDuration.WithLabelValues(auditType).Observe(d.Seconds())
}

// IncAnalyzerFailure counts a failed category analyzer.
func (m *Metrics) IncAnalyzerFailure(category string) {
	if m == nil {
		return
	}
	m.AnalyzerFailures.WithLabelValues(category).Inc()
}

// IncFallback counts a multi-page fallback at stage.
func (m *Metrics) IncFallback(stage string) {
	if m == nil {
		return
	}
	m.MultiPageFallback.WithLabelValues(stage).Inc()
}

// AddPagesFetched counts selected page fetch outcomes.
func (m *Metrics) AddPagesFetched(ok, failed int) {
	if m == nil {
		return
	}
	m.PagesFetchedTotal.WithLabelValues("ok").Add(float64(ok))
	m.PagesFetchedTotal.WithLabelValues("failed").Add(float64(failed))
}
