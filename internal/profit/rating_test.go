package profit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

func TestClassify(t *testing.T) {
	tests := map[string]profit.Rating{
		"72.5":  profit.RatingExcellent,
		"50":    profit.RatingExcellent,
		"49.99": profit.RatingGood,
		"30":    profit.RatingGood,
		"15":    profit.RatingAverage,
		"5":     profit.RatingLow,
		"4.99":  profit.RatingLoss,
		"0":     profit.RatingLoss,
		"-12":   profit.RatingLoss,
	}
	for margin, want := range tests {
		require.Equal(t, want, profit.Classify(dec(margin)), margin)
	}
}

func TestFormatEUR(t *testing.T) {
	require.Equal(t, "€ 49,50", profit.FormatEUR(dec("49.5")))
	require.Equal(t, "€ 10,40", profit.FormatEUR(dec("10.395")))
	require.Equal(t, "€ 0,00", profit.FormatEUR(dec("0")))
	require.Equal(t, "31,6%", profit.FormatPercent(dec("31.62626")))
	require.Equal(t, "€ 1.234,56", profit.FormatEUR(dec("1234.555")))
	require.Equal(t, "€ -15,50", profit.FormatEUR(dec("-15.5")))
	require.Equal(t, "€ 0,00", profit.FormatEUR(dec("-0.004")))
	require.Equal(t, "-2.963,2%", profit.FormatPercent(dec("-2963.15")))
}

func TestFormatEURKeepsEveryDigit(t *testing.T) {
	require.Equal(t, "€ 12.345.678.901.234,57", profit.FormatEUR(dec("12345678901234.565")))
	require.Equal(t, "€ 123.456.789.012.345.678.901,23", profit.FormatEUR(dec("123456789012345678901.23")))
}
