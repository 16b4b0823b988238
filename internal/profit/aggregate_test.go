package profit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

func TestCustomerLifetimeProfit(t *testing.T) {
	c, err := profit.Customer(profit.CustomerInput{
		TotalSpent:                  dec("500"),
		AverageMarginPercentage:     dec("35"),
		AverageShippingCostPerOrder: dec("5.95"),
		TotalOrders:                 3,
	})
	require.NoError(t, err)
	requireDecimal(t, "500", c.TotalSpent)
	requireDecimal(t, "175", c.GrossProfit)
	requireDecimal(t, "17.85", c.ShippingCosts)
	requireDecimal(t, "157.15", c.RealProfit)
	requireDecimal(t, "52.38", c.ProfitPerOrder.Round(2))
	requireDecimal(t, "31.43", c.MarginAfterShipping.Round(2))
}

func TestCustomerWithoutOrders(t *testing.T) {
	c, err := profit.Customer(profit.CustomerInput{
		TotalSpent:                  decimal.Zero,
		AverageMarginPercentage:     dec("35"),
		AverageShippingCostPerOrder: dec("5.95"),
	})
	require.NoError(t, err)
	require.True(t, c.ProfitPerOrder.IsZero())
	require.True(t, c.MarginAfterShipping.IsZero())
}

func TestCustomerRejectsNegatives(t *testing.T) {
	_, err := profit.Customer(profit.CustomerInput{TotalSpent: dec("-1")})
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
	_, err = profit.Customer(profit.CustomerInput{TotalOrders: -1})
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
}

func TestMonthlyApproximation(t *testing.T) {
	p, err := profit.Monthly(profit.MonthlyInput{
		Revenue:                     dec("50000"),
		MarginPercentage:            dec("35"),
		FixedCosts:                  dec("11825"),
		AdSpend:                     dec("800"),
		AverageShippingCostPerOrder: dec("5.95"),
		OrderCount:                  100,
	})
	require.NoError(t, err)
	requireDecimal(t, "17500", p.GrossProfit)
	requireDecimal(t, "595", p.ShippingCosts)
	requireDecimal(t, "4280", p.NetProfit)
	requireDecimal(t, "8.56", p.ProfitMarginPercentage)
	requireDecimal(t, "13220", p.BreakEvenRevenue)
	requireDecimal(t, "65", p.CostBreakdown.COGSPercentage)
	requireDecimal(t, "23.65", p.CostBreakdown.FixedCostsPercentage)
	requireDecimal(t, "1.6", p.CostBreakdown.AdSpendPercentage)
	requireDecimal(t, "1.19", p.CostBreakdown.ShippingPercentage)
}

func TestMonthlyZeroRevenue(t *testing.T) {
	p, err := profit.Monthly(profit.MonthlyInput{FixedCosts: dec("100")})
	require.NoError(t, err)
	requireDecimal(t, "-100", p.NetProfit)
	require.True(t, p.ProfitMarginPercentage.IsZero())
	require.True(t, p.CostBreakdown.FixedCostsPercentage.IsZero())
}

func TestMonthlyRejectsNegatives(t *testing.T) {
	_, err := profit.Monthly(profit.MonthlyInput{AdSpend: dec("-5")})
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
	_, err = profit.Monthly(profit.MonthlyInput{OrderCount: -2})
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
}

func TestPeriodFromExactOrders(t *testing.T) {
	engine := profit.NewEngine(profit.DefaultConfig())
	first, err := engine.Order([]profit.OrderLine{
		{ProductName: "Shirt", Quantity: 2, UnitPrice: dec("30"), PurchasePrice: dec("10")},
		{ProductName: "Cap", Quantity: 1, UnitPrice: dec("20"), PurchasePrice: dec("8")},
	}, "Nederland")
	require.NoError(t, err)
	second, err := engine.Order([]profit.OrderLine{
		{ProductName: "Mug", Quantity: 4, UnitPrice: dec("12.5"), PurchasePrice: dec("3"), ShippingCost: decimal.NewNullDecimal(dec("1"))},
	}, "Duitsland")
	require.NoError(t, err)

	p, err := profit.Period([]profit.Breakdown{first.Summary, second.Summary}, dec("10"), dec("5"))
	require.NoError(t, err)

	requireDecimal(t, "130", p.Revenue)
	requireDecimal(t, "90", p.GrossProfit)
	requireDecimal(t, "26.3", p.TaxAmount)
	requireDecimal(t, "21.85", p.ShippingCosts)
	// (17.35 + 24.5) - 10 - 5
	requireDecimal(t, "26.85", p.NetProfit)
	requireDecimal(t, "36.85", p.BreakEvenRevenue)
	expectedNet := first.Summary.Profit.Add(second.Summary.Profit).Sub(dec("15"))
	require.True(t, expectedNet.Equal(p.NetProfit))
}

func TestPeriodEmpty(t *testing.T) {
	p, err := profit.Period(nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.True(t, p.Revenue.IsZero())
	require.True(t, p.ProfitMarginPercentage.IsZero())

	_, err = profit.Period(nil, dec("-1"), decimal.Zero)
	require.ErrorIs(t, err, profit.ErrInvalidArgument)
}
