package profit

import "github.com/shopspring/decimal"

// BreakEvenInput describes the cost base and current month performance.
type BreakEvenInput struct {
	MonthlyFixedCosts     decimal.Decimal `json:"monthly_fixed_costs"`
	MonthlyAdSpend        decimal.Decimal `json:"monthly_ad_spend"`
	GrossMarginPercentage decimal.Decimal `json:"gross_margin_percentage"`
	RevenueToDate         decimal.Decimal `json:"revenue_to_date"`
	DaysIntoMonth         int             `json:"days_into_month"`
}

// BreakEvenAnalysis is the margin-aware break-even position of the current month.
type BreakEvenAnalysis struct {
	MonthlyFixedCosts       decimal.Decimal `json:"monthly_fixed_costs"`
	MonthlyAdSpend          decimal.Decimal `json:"monthly_ad_spend"`
	TotalMonthlyCosts       decimal.Decimal `json:"total_monthly_costs"`
	GrossMarginPercentage   decimal.Decimal `json:"gross_margin_percentage"`
	BreakEvenRevenueMonthly decimal.Decimal `json:"break_even_revenue_monthly"`
	BreakEvenRevenueDaily   decimal.Decimal `json:"break_even_revenue_daily"`
	RevenueToDate           decimal.Decimal `json:"revenue_to_date"`
	DaysIntoMonth           int             `json:"days_into_month"`
	ProjectedRevenue        decimal.Decimal `json:"projected_monthly_revenue"`
	Progress                decimal.Decimal `json:"break_even_progress"`
	SurplusDeficit          decimal.Decimal `json:"surplus_deficit"`
}

// BreakEven solves the revenue at which gross margin covers fixed costs and ad spend,
// and projects the current month linearly from revenue to date. A non-positive margin
// can never break even and yields a zero break-even revenue.
func BreakEven(in BreakEvenInput) (BreakEvenAnalysis, error) {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"monthly_fixed_costs", in.MonthlyFixedCosts},
		{"monthly_ad_spend", in.MonthlyAdSpend},
		{"revenue_to_date", in.RevenueToDate},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return BreakEvenAnalysis{}, err
		}
	}
	if in.DaysIntoMonth < 1 || in.DaysIntoMonth > 31 {
		return BreakEvenAnalysis{}, invalid("days_into_month", "must be between 1 and 31")
	}

	costs := in.MonthlyFixedCosts.Add(in.MonthlyAdSpend)
	breakEven := decimal.Zero
	if in.GrossMarginPercentage.IsPositive() {
		breakEven = costs.Div(in.GrossMarginPercentage.Shift(-2))
	}
	projected := in.RevenueToDate.Mul(daysPerMonth).Div(decimal.NewFromInt(int64(in.DaysIntoMonth)))

	return BreakEvenAnalysis{
		MonthlyFixedCosts:       in.MonthlyFixedCosts,
		MonthlyAdSpend:          in.MonthlyAdSpend,
		TotalMonthlyCosts:       costs,
		GrossMarginPercentage:   in.GrossMarginPercentage,
		BreakEvenRevenueMonthly: breakEven,
		BreakEvenRevenueDaily:   breakEven.Div(daysPerMonth),
		RevenueToDate:           in.RevenueToDate,
		DaysIntoMonth:           in.DaysIntoMonth,
		ProjectedRevenue:        projected,
		Progress:                percentOf(projected, breakEven),
		SurplusDeficit:          projected.Sub(breakEven),
	}, nil
}
