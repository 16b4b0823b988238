package profit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

func TestBreakEvenAnalysis(t *testing.T) {
	a, err := profit.BreakEven(profit.BreakEvenInput{
		MonthlyFixedCosts:     dec("6000"),
		MonthlyAdSpend:        dec("1000"),
		GrossMarginPercentage: dec("35"),
		RevenueToDate:         dec("10000"),
		DaysIntoMonth:         15,
	})
	require.NoError(t, err)
	requireDecimal(t, "7000", a.TotalMonthlyCosts)
	requireDecimal(t, "20000", a.BreakEvenRevenueMonthly)
	requireDecimal(t, "657.03", a.BreakEvenRevenueDaily.Round(2))
	requireDecimal(t, "20293.33", a.ProjectedRevenue.Round(2))
	requireDecimal(t, "101.5", a.Progress.Round(1))
	requireDecimal(t, "293.33", a.SurplusDeficit.Round(2))
}

func TestBreakEvenWithoutMargin(t *testing.T) {
	a, err := profit.BreakEven(profit.BreakEvenInput{
		MonthlyFixedCosts:     dec("500"),
		GrossMarginPercentage: decimal.Zero,
		RevenueToDate:         dec("100"),
		DaysIntoMonth:         1,
	})
	require.NoError(t, err)
	require.True(t, a.BreakEvenRevenueMonthly.IsZero())
	require.True(t, a.Progress.IsZero())
}

func TestBreakEvenRejectsDays(t *testing.T) {
	for _, days := range []int{0, 32, -1} {
		_, err := profit.BreakEven(profit.BreakEvenInput{DaysIntoMonth: days})
		var argErr *profit.ArgumentError
		require.ErrorAs(t, err, &argErr)
		require.Equal(t, "days_into_month", argErr.Field)
	}
}
