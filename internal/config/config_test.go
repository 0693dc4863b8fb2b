package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, "lp", cfg.PrintCommand)
	assert.Equal(t, "X80mmY297mm", cfg.PrintMedia)
	assert.Equal(t, "FCFA", cfg.Company.Currency)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesCompany(t *testing.T) {
	t.Setenv("COMPANY_NAME", "Boutique Mouegne")
	t.Setenv("COMPANY_TAX_NUMBER", "M0123456789")
	t.Setenv("LOW_STOCK_THRESHOLD", "2")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Boutique Mouegne", cfg.Company.Name)
	assert.Equal(t, "M0123456789", cfg.Company.TaxNumber)
	assert.Equal(t, 2, cfg.LowStockThreshold)
	assert.True(t, cfg.IsProduction())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
