package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"talentlink/internal/disclosure"
	pkgaudit "talentlink/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for the disclosure pipeline.
type Metrics struct {
	Decisions        *prometheus.CounterVec
	AuditFailures    *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentlink_disclosure_decisions_total",
			Help: "Field visibility decisions by field and basis",
		}, []string{"field", "basis"}),
		AuditFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentlink_disclosure_audit_failures_total",
			Help: "Audit entries that could not be written after a response was projected",
		}, []string{"action"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentlink_disclosure_pipeline_duration_seconds",
			Help:    "Time to load, decide and project a view",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveDecision(d disclosure.Decision) {
	if m == nil {
		return
	}
	for field, fd := range d.Fields() {
		m.Decisions.WithLabelValues(string(field), string(fd.Basis)).Inc()
	}
}

func (m *Metrics) IncAuditFailure(action pkgaudit.Action) {
	if m == nil {
		return
	}
	m.AuditFailures.WithLabelValues(string(action)).Inc()
}

func (m *Metrics) ObservePipelineDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(operation).Observe(seconds)
}
