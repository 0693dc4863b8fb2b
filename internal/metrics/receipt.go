package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReceiptMetrics records receipt generation and print outcomes.
type ReceiptMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewReceiptMetrics(reg prometheus.Registerer) *ReceiptMetrics {
	if reg == nil {
		return &ReceiptMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_outcomes_total",
		Help: "Receipt jobs by document kind and resulting status.",
	}, []string{"kind", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "receipt_job_duration_seconds",
		Help:    "Duration of receipt render and print jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(outcomes, duration)
	return &ReceiptMetrics{outcomes: outcomes, duration: duration}
}

func (m *ReceiptMetrics) IncOutcome(kind, status string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(status)).Inc()
}

func (m *ReceiptMetrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}
