package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "talentlink/pkg/platform/audit"
)

// Metrics are registered on the default registry; create them once per process.
type Metrics struct {
	appended *prometheus.CounterVec
	failed   *prometheus.CounterVec
	latency  prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		appended: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentlink_audit_entries_appended_total",
			Help: "Audit entries persisted, by action and category",
		}, []string{"action", "category"}),
		failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentlink_audit_append_failures_total",
			Help: "Audit entries the store rejected, by action and category",
		}, []string{"action", "category"}),
		latency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentlink_audit_append_duration_seconds",
			Help:    "Latency of a successful audit append",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func (m *Metrics) persisted(action audit.Action, took time.Duration) {
	if m == nil {
		return
	}
	m.appended.WithLabelValues(string(action), string(action.Category())).Inc()
	m.latency.Observe(took.Seconds())
}

func (m *Metrics) persistFailed(action audit.Action) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(string(action), string(action.Category())).Inc()
}
