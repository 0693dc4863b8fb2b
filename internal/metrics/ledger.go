package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts inventory ledger mutations.
type LedgerMetrics struct {
	mutations *prometheus.CounterVec
	units     *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	clamped   prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "Committed-or-attempted stock mutations by movement type.",
	}, []string{"type"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_units_total",
		Help: "Units moved through the ledger by movement type.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rejections_total",
		Help: "Stock mutations rejected by the ledger.",
	}, []string{"reason"})
	clamped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_clamped_total",
		Help: "Purchase reversals clamped at zero stock.",
	})
	reg.MustRegister(mutations, units, rejected, clamped)
	return &LedgerMetrics{mutations: mutations, units: units, rejected: rejected, clamped: clamped}
}

// ObserveMutation records one mutation of qty units.
func (m *LedgerMetrics) ObserveMutation(movementType string, qty int) {
	if m == nil || m.mutations == nil {
		return
	}
	label := normalizeLabel(movementType)
	m.mutations.WithLabelValues(label).Inc()
	m.units.WithLabelValues(label).Add(float64(qty))
}

// IncRejected records a refused mutation (insufficient stock, unknown item).
func (m *LedgerMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *LedgerMetrics) IncClamped() {
	if m == nil || m.clamped == nil {
		return
	}
	m.clamped.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
