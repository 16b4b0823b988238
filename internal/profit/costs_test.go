package profit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

func TestAllocateFixedCost(t *testing.T) {
	tests := []struct {
		name   string
		cost   profit.FixedCost
		days   int
		expect string
	}{
		{"monthly", profit.FixedCost{Name: "Rent", Amount: dec("3044"), Cycle: profit.CycleMonthly}, 30, "3000"},
		{"quarterly", profit.FixedCost{Name: "Accountant", Amount: dec("9131"), Cycle: profit.CycleQuarterly}, 10, "1000"},
		{"yearly", profit.FixedCost{Name: "Insurance", Amount: dec("36525"), Cycle: profit.CycleYearly}, 1, "100"},
		{"one off is charged in full", profit.FixedCost{Name: "Logo", Amount: dec("250"), Cycle: profit.CycleOneOff}, 3, "250"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := profit.AllocateFixedCost(tc.cost, tc.days)
			require.NoError(t, err)
			requireDecimal(t, tc.expect, got)
		})
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	got, err := profit.MonthlyEquivalent(profit.FixedCost{Amount: dec("300"), Cycle: profit.CycleQuarterly})
	require.NoError(t, err)
	requireDecimal(t, "100", got)

	got, err = profit.MonthlyEquivalent(profit.FixedCost{Amount: dec("1200"), Cycle: profit.CycleYearly})
	require.NoError(t, err)
	requireDecimal(t, "100", got)

	got, err = profit.MonthlyEquivalent(profit.FixedCost{Amount: dec("49"), Cycle: profit.CycleMonthly})
	require.NoError(t, err)
	requireDecimal(t, "49", got)
}

func TestAllocateFixedCostsTotals(t *testing.T) {
	alloc, err := profit.AllocateFixedCosts([]profit.FixedCost{
		{Name: "Rent", Amount: dec("3044"), Cycle: profit.CycleMonthly},
		{Name: "Shopify", Amount: dec("913.1"), Cycle: profit.CycleQuarterly},
	}, 30)
	require.NoError(t, err)
	require.Len(t, alloc.Items, 2)
	require.Equal(t, 30, alloc.Days)
	requireDecimal(t, "3000", alloc.Items[0].Allocated)
	requireDecimal(t, "300", alloc.Items[1].Allocated)
	requireDecimal(t, "3300", alloc.Total)
	// 3044 + 913.1/3
	requireDecimal(t, "3348.37", alloc.MonthlyTotal.Round(2))
}

func TestAllocateFixedCostsRejectsBadInput(t *testing.T) {
	_, err := profit.AllocateFixedCosts(nil, 0)
	require.ErrorIs(t, err, profit.ErrInvalidArgument)

	_, err = profit.AllocateFixedCosts([]profit.FixedCost{
		{Name: "Rent", Amount: dec("10"), Cycle: profit.CycleMonthly},
		{Name: "Mystery", Amount: dec("10"), Cycle: "weekly"},
	}, 7)
	var argErr *profit.ArgumentError
	require.ErrorAs(t, err, &argErr)
	require.Equal(t, "fixed_costs[1].billing_cycle", argErr.Field)

	_, err = profit.AllocateFixedCost(profit.FixedCost{Amount: dec("-1"), Cycle: profit.CycleMonthly}, 7)
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
}
