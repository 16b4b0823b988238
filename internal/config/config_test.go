package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                    "",
		"REDIS_URL":               "",
		"SNAPSHOT_TTL":            "",
		"RATE_LIMIT_MAX":          "",
		"PROFIT_DEFAULT_TAX_RATE": "",
		"PROFIT_DEFAULT_SHIPPING": "",
		"PROFIT_RATES_FILE":       "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, 720*time.Hour, cfg.SnapshotTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, int64(1<<20), cfg.BodyLimitBytes)
	require.False(t, cfg.ProfitDefaultTaxRate.Valid)

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	require.Equal(t, "21", engineCfg.Tax.Rate("Atlantis").String())
	require.Equal(t, "5.95", engineCfg.DefaultShippingPerUnit.String())
}

func TestLoadProfitOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PROFIT_DEFAULT_TAX_RATE": "9",
		"PROFIT_DEFAULT_SHIPPING": "3.5",
		"PROFIT_RATES_FILE":       "",
	})
	require.NoError(t, err)

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	require.Equal(t, "9", engineCfg.Tax.Rate("Atlantis").String())
	require.Equal(t, "19", engineCfg.Tax.Rate("Duitsland").String())
	require.Equal(t, "3.5", engineCfg.DefaultShippingPerUnit.String())
}

func TestLoadRejectsBadAmounts(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"PROFIT_DEFAULT_TAX_RATE": "-1"})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{"PROFIT_DEFAULT_SHIPPING": "abc"})
	require.Error(t, err)
}

const ratesYAML = `
default_tax_rate: 20
default_shipping_per_unit: 4.5
tax_rates:
  Nederland: 21
  Luxemburg: 17
shipping:
  fallback: EU
  rules:
    Nederland:
      standard_cost: 3.95
      free_shipping_threshold: 40
      heavy_item_cost: 7.5
      heavy_item_weight_limit_grams: 2000
    EU:
      standard_cost: 14.5
`

func TestEngineConfigFromRatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ratesYAML), 0o600))

	cfg, err := config.LoadForTests(map[string]string{
		"PROFIT_RATES_FILE":       path,
		"PROFIT_DEFAULT_TAX_RATE": "",
		"PROFIT_DEFAULT_SHIPPING": "",
	})
	require.NoError(t, err)

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	require.Equal(t, "17", engineCfg.Tax.Rate("Luxemburg").String())
	// table replaced as a whole, so Duitsland now uses the file fallback
	require.Equal(t, "20", engineCfg.Tax.Rate("Duitsland").String())
	require.Equal(t, "4.5", engineCfg.DefaultShippingPerUnit.String())

	rule := engineCfg.Shipping.Rule("Nederland")
	require.Equal(t, "3.95", rule.StandardCost.String())
	require.Equal(t, "40", rule.FreeShippingThreshold.Decimal.String())
	require.Equal(t, 2000, *rule.HeavyItemWeightLimitGrams)
	require.Equal(t, "14.5", engineCfg.Shipping.Rule("Belgium").StandardCost.String())
	require.False(t, engineCfg.Shipping.Rule("Belgium").FreeShippingThreshold.Valid)
}

func TestParseRatesValidation(t *testing.T) {
	tests := map[string]string{
		"negative":       "tax_rates:\n  Nederland: -1\n",
		"not a number":   "default_tax_rate: twenty\n",
		"unknown key":    "default_vat: 21\n",
		"no fallback":    "shipping:\n  fallback: EU\n  rules:\n    Nederland:\n      standard_cost: 1\n",
		"heavy half set": "shipping:\n  rules:\n    EU:\n      standard_cost: 1\n      heavy_item_cost: 2\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseRates(strings.NewReader(doc))
			require.Error(t, err)
		})
	}

	rf, err := config.ParseRates(strings.NewReader(""))
	require.NoError(t, err)
	require.Nil(t, rf.Shipping)
}

func TestLoadRatesMissingFile(t *testing.T) {
	_, err := config.LoadRates(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
