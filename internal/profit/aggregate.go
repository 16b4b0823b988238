package profit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomerInput feeds the flat-margin lifetime approximation used when per-line
// detail is unavailable.
type CustomerInput struct {
	TotalSpent                  decimal.Decimal `json:"total_spent"`
	AverageMarginPercentage     decimal.Decimal `json:"average_margin_percentage"`
	AverageShippingCostPerOrder decimal.Decimal `json:"average_shipping_cost_per_order"`
	TotalOrders                 int             `json:"total_orders"`
}

// CustomerProfit is the lifetime profit estimate of a customer.
type CustomerProfit struct {
	TotalSpent          decimal.Decimal `json:"total_spent"`
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	ShippingCosts       decimal.Decimal `json:"shipping_costs"`
	RealProfit          decimal.Decimal `json:"real_profit"`
	ProfitPerOrder      decimal.Decimal `json:"profit_per_order"`
	MarginAfterShipping decimal.Decimal `json:"margin_after_shipping"`
}

// Customer estimates lifetime profit from a flat margin. Tax is assumed to be netted
// into AverageMarginPercentage already; callers must not subtract it again.
func Customer(in CustomerInput) (CustomerProfit, error) {
	if err := nonNegative("total_spent", in.TotalSpent); err != nil {
		return CustomerProfit{}, err
	}
	if err := nonNegative("average_margin_percentage", in.AverageMarginPercentage); err != nil {
		return CustomerProfit{}, err
	}
	if err := nonNegative("average_shipping_cost_per_order", in.AverageShippingCostPerOrder); err != nil {
		return CustomerProfit{}, err
	}
	if in.TotalOrders < 0 {
		return CustomerProfit{}, invalid("total_orders", "must not be negative")
	}

	orders := decimal.NewFromInt(int64(in.TotalOrders))
	gross := in.TotalSpent.Mul(in.AverageMarginPercentage).Shift(-2)
	shipping := in.AverageShippingCostPerOrder.Mul(orders)
	realProfit := gross.Sub(shipping)

	perOrder := decimal.Zero
	if in.TotalOrders > 0 {
		perOrder = realProfit.Div(orders)
	}
	return CustomerProfit{
		TotalSpent:          in.TotalSpent,
		GrossProfit:         gross,
		ShippingCosts:       shipping,
		RealProfit:          realProfit,
		ProfitPerOrder:      perOrder,
		MarginAfterShipping: percentOf(realProfit, in.TotalSpent),
	}, nil
}

// MonthlyInput feeds the flat-margin period approximation.
type MonthlyInput struct {
	Revenue                     decimal.Decimal `json:"revenue"`
	MarginPercentage            decimal.Decimal `json:"margin_percentage"`
	FixedCosts                  decimal.Decimal `json:"fixed_costs"`
	AdSpend                     decimal.Decimal `json:"ad_spend"`
	AverageShippingCostPerOrder decimal.Decimal `json:"average_shipping_cost_per_order"`
	OrderCount                  int             `json:"order_count"`
}

// CostBreakdown expresses each cost bucket as a percentage of revenue.
type CostBreakdown struct {
	COGSPercentage       decimal.Decimal `json:"cogs_percentage"`
	FixedCostsPercentage decimal.Decimal `json:"fixed_costs_percentage"`
	AdSpendPercentage    decimal.Decimal `json:"ad_spend_percentage"`
	ShippingPercentage   decimal.Decimal `json:"shipping_percentage"`
	TaxPercentage        decimal.Decimal `json:"tax_percentage"`
}

// PeriodProfit is the profit of a period after period-wide costs.
type PeriodProfit struct {
	Revenue                decimal.Decimal `json:"revenue"`
	GrossProfit            decimal.Decimal `json:"gross_profit"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	FixedCosts             decimal.Decimal `json:"fixed_costs"`
	AdSpend                decimal.Decimal `json:"ad_spend"`
	ShippingCosts          decimal.Decimal `json:"shipping_costs"`
	NetProfit              decimal.Decimal `json:"net_profit"`
	ProfitMarginPercentage decimal.Decimal `json:"profit_margin_percentage"`
	BreakEvenRevenue       decimal.Decimal `json:"break_even_revenue"`
	CostBreakdown          CostBreakdown   `json:"cost_breakdown"`
}

// Monthly approximates a period from a flat gross margin.
//
// BreakEvenRevenue is fixed costs plus ad spend plus shipping: the revenue at which
// gross margin alone would cover every non-COGS cost. It ignores how COGS scales with
// revenue and is a planning heuristic, not a break-even solve; see BreakEven for the
// margin-aware figure.
func Monthly(in MonthlyInput) (PeriodProfit, error) {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"revenue", in.Revenue},
		{"margin_percentage", in.MarginPercentage},
		{"fixed_costs", in.FixedCosts},
		{"ad_spend", in.AdSpend},
		{"average_shipping_cost_per_order", in.AverageShippingCostPerOrder},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return PeriodProfit{}, err
		}
	}
	if in.OrderCount < 0 {
		return PeriodProfit{}, invalid("order_count", "must not be negative")
	}

	gross := in.Revenue.Mul(in.MarginPercentage).Shift(-2)
	shipping := in.AverageShippingCostPerOrder.Mul(decimal.NewFromInt(int64(in.OrderCount)))
	net := gross.Sub(in.FixedCosts).Sub(in.AdSpend).Sub(shipping)

	return PeriodProfit{
		Revenue:                in.Revenue,
		GrossProfit:            gross,
		TaxAmount:              decimal.Zero,
		FixedCosts:             in.FixedCosts,
		AdSpend:                in.AdSpend,
		ShippingCosts:          shipping,
		NetProfit:              net,
		ProfitMarginPercentage: percentOf(net, in.Revenue),
		BreakEvenRevenue:       in.FixedCosts.Add(in.AdSpend).Add(shipping),
		CostBreakdown: CostBreakdown{
			COGSPercentage:       hundred.Sub(in.MarginPercentage),
			FixedCostsPercentage: percentOf(in.FixedCosts, in.Revenue),
			AdSpendPercentage:    percentOf(in.AdSpend, in.Revenue),
			ShippingPercentage:   percentOf(shipping, in.Revenue),
			TaxPercentage:        decimal.Zero,
		},
	}, nil
}

// Period totals exact order breakdowns and subtracts period-wide fixed costs and ad
// spend. GrossProfit is revenue minus COGS; NetProfit is the summed line profit
// (already net of shipping and tax) minus fixed costs and ad spend. BreakEvenRevenue
// uses the same heuristic as Monthly.
func Period(orders []Breakdown, fixedCosts, adSpend decimal.Decimal) (PeriodProfit, error) {
	if err := nonNegative("fixed_costs", fixedCosts); err != nil {
		return PeriodProfit{}, err
	}
	if err := nonNegative("ad_spend", adSpend); err != nil {
		return PeriodProfit{}, err
	}
	total := zeroBreakdown()
	for _, o := range orders {
		total = total.Add(o)
	}
	net := total.Profit.Sub(fixedCosts).Sub(adSpend)

	return PeriodProfit{
		Revenue:                total.Revenue,
		GrossProfit:            total.Revenue.Sub(total.PurchaseCost),
		TaxAmount:              total.TaxAmount,
		FixedCosts:             fixedCosts,
		AdSpend:                adSpend,
		ShippingCosts:          total.ShippingCost,
		NetProfit:              net,
		ProfitMarginPercentage: percentOf(net, total.Revenue),
		BreakEvenRevenue:       fixedCosts.Add(adSpend).Add(total.ShippingCost),
		CostBreakdown: CostBreakdown{
			COGSPercentage:       percentOf(total.PurchaseCost, total.Revenue),
			FixedCostsPercentage: percentOf(fixedCosts, total.Revenue),
			AdSpendPercentage:    percentOf(adSpend, total.Revenue),
			ShippingPercentage:   percentOf(total.ShippingCost, total.Revenue),
			TaxPercentage:        percentOf(total.TaxAmount, total.Revenue),
		},
	}, nil
}

// OrderInput is one order of a period.
type OrderInput struct {
	Country string      `json:"country" validate:"required"`
	Lines   []OrderLine `json:"lines" validate:"dive"`
}

// PeriodFromOrders computes every order exactly and then the period over their
// summaries.
func (e *Engine) PeriodFromOrders(orders []OrderInput, fixedCosts, adSpend decimal.Decimal) (PeriodProfit, error) {
	summaries := make([]Breakdown, 0, len(orders))
	for i, o := range orders {
		b, err := e.Order(o.Lines, o.Country)
		if err != nil {
			return PeriodProfit{}, prefixField(fmt.Sprintf("orders[%d]", i), err)
		}
		summaries = append(summaries, b.Summary)
	}
	return Period(summaries, fixedCosts, adSpend)
}
