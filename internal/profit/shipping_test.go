package profit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

func TestShippingFreeThresholdBeatsHeavyOverride(t *testing.T) {
	table := profit.DefaultShippingTable()
	quote, err := table.Quote("Nederland", 1500, dec("60"))
	require.NoError(t, err)
	require.True(t, quote.FreeShipping)
	require.True(t, quote.Cost.IsZero())
	require.True(t, quote.ThresholdApplied.Valid)
	requireDecimal(t, "50", quote.ThresholdApplied.Decimal)
	requireDecimal(t, "0", quote.AmountForFreeShipping.Decimal)
}

func TestShippingQuotePaths(t *testing.T) {
	limit := 1000
	table := profit.NewShippingTable(map[string]profit.ShippingRule{
		"Nederland": {
			StandardCost:              dec("4.95"),
			FreeShippingThreshold:     decimal.NewNullDecimal(dec("50")),
			HeavyItemCost:             decimal.NewNullDecimal(dec("8.95")),
			HeavyItemWeightLimitGrams: &limit,
		},
		"EU": {StandardCost: dec("12.95"), FreeShippingThreshold: decimal.NewNullDecimal(dec("100"))},
	}, "EU")

	tests := []struct {
		name          string
		country       string
		weight        int
		value         string
		cost          string
		free          bool
		threshold     string
		untilFreeShip string
	}{
		{"heavy below threshold", "Nederland", 1500, "30", "8.95", false, "", "20"},
		{"exactly at weight limit is standard", "Nederland", 1000, "30", "4.95", false, "50", "20"},
		{"standard", "Nederland", 200, "49.99", "4.95", false, "50", "0.01"},
		{"threshold is inclusive", "Nederland", 200, "50", "0", true, "50", "0"},
		{"unknown country uses fallback", "Atlantis", 5000, "99", "12.95", false, "100", "1"},
		{"fallback free shipping", "Atlantis", 5000, "150", "0", true, "100", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quote, err := table.Quote(tc.country, tc.weight, dec(tc.value))
			require.NoError(t, err)
			requireDecimal(t, tc.cost, quote.Cost)
			require.Equal(t, tc.free, quote.FreeShipping)
			if tc.threshold == "" {
				require.False(t, quote.ThresholdApplied.Valid)
			} else {
				require.True(t, quote.ThresholdApplied.Valid)
				requireDecimal(t, tc.threshold, quote.ThresholdApplied.Decimal)
			}
			requireDecimal(t, tc.untilFreeShip, quote.AmountForFreeShipping.Decimal)
		})
	}
}

func TestShippingRuleWithoutThreshold(t *testing.T) {
	table := profit.NewShippingTable(map[string]profit.ShippingRule{
		"Nowhere": {StandardCost: dec("3")},
	}, "Nowhere")
	quote, err := table.Quote("Elsewhere", 10, dec("1000"))
	require.NoError(t, err)
	requireDecimal(t, "3", quote.Cost)
	require.False(t, quote.FreeShipping)
	require.False(t, quote.ThresholdApplied.Valid)
	require.False(t, quote.AmountForFreeShipping.Valid)
}

func TestShippingRejectsNegativeInputs(t *testing.T) {
	engine := profit.NewEngine(profit.DefaultConfig())
	_, err := engine.ShippingQuote("Nederland", -1, dec("10"))
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
	_, err = engine.ShippingQuote("Nederland", 10, dec("-10"))
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
}
