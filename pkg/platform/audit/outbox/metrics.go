package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the outbox relay.
type Metrics struct {
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
	BreakerSkips    prometheus.Counter
	BreakerState    prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentlink_audit_outbox_published_total",
			Help: "Total number of audit outbox records published to Kafka",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentlink_audit_outbox_publish_failures_total",
			Help: "Total number of failed outbox relay batches",
		}),
		BreakerSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentlink_audit_outbox_breaker_skips_total",
			Help: "Total number of relay ticks skipped because the circuit breaker was open",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "talentlink_audit_outbox_breaker_state",
			Help: "Current relay circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) AddPublished(n int) {
	if m == nil {
		return
	}
	m.Published.Add(float64(n))
}

func (m *Metrics) IncPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}

func (m *Metrics) IncBreakerSkips() {
	if m == nil {
		return
	}
	m.BreakerSkips.Inc()
}

func (m *Metrics) SetBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
