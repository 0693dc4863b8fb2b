package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_NilSafe(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("sale", 3)
		m.IncRejected("insufficient_stock")
		m.IncClamped()
	})
	assert.NotPanics(t, func() {
		NewLedgerMetrics(nil).ObserveMutation("sale", 1)
	})
}

func TestLedgerMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)
	m.ObserveMutation("sale", 4)
	m.ObserveMutation("", 1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var units float64
	for _, f := range families {
		if f.GetName() != "ledger_units_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			units += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 5.0, units)
}

func TestReceiptMetrics_NilSafe(t *testing.T) {
	var m *ReceiptMetrics
	assert.NotPanics(t, func() { m.IncOutcome("sale", "printed") })
}
