package profit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BillingCycle is how often a fixed cost is invoiced.
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
	CycleOneOff    BillingCycle = "one_off"
)

// Average days per billing cycle used when pro-rating over a period.
var (
	daysPerMonth   = decimal.RequireFromString("30.44")
	daysPerQuarter = decimal.RequireFromString("91.31")
	daysPerYear    = decimal.RequireFromString("365.25")
)

// Valid reports whether c is a known cycle.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleYearly, CycleOneOff:
		return true
	}
	return false
}

// FixedCost is a recurring business expense such as rent, software or salaries.
type FixedCost struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Cycle    BillingCycle    `json:"billing_cycle"`
}

func (c FixedCost) validate() error {
	if err := nonNegative("amount", c.Amount); err != nil {
		return err
	}
	if !c.Cycle.Valid() {
		return invalid("billing_cycle", fmt.Sprintf("unknown billing cycle %q", c.Cycle))
	}
	return nil
}

// AllocateFixedCost pro-rates cost over a period of days. One-off costs are charged
// in full.
func AllocateFixedCost(cost FixedCost, days int) (decimal.Decimal, error) {
	if err := cost.validate(); err != nil {
		return decimal.Zero, err
	}
	if days < 1 {
		return decimal.Zero, invalid("days", "must be at least 1")
	}
	d := decimal.NewFromInt(int64(days))
	switch cost.Cycle {
	case CycleMonthly:
		return cost.Amount.Mul(d).Div(daysPerMonth), nil
	case CycleQuarterly:
		return cost.Amount.Mul(d).Div(daysPerQuarter), nil
	case CycleYearly:
		return cost.Amount.Mul(d).Div(daysPerYear), nil
	default:
		return cost.Amount, nil
	}
}

// MonthlyEquivalent normalises cost to a monthly amount.
func MonthlyEquivalent(cost FixedCost) (decimal.Decimal, error) {
	if err := cost.validate(); err != nil {
		return decimal.Zero, err
	}
	switch cost.Cycle {
	case CycleQuarterly:
		return cost.Amount.Div(decimal.NewFromInt(3)), nil
	case CycleYearly:
		return cost.Amount.Div(decimal.NewFromInt(12)), nil
	default:
		return cost.Amount, nil
	}
}

// AllocatedCost is one fixed cost pro-rated over a period.
type AllocatedCost struct {
	FixedCost
	Allocated decimal.Decimal `json:"allocated"`
	Monthly   decimal.Decimal `json:"monthly_equivalent"`
}

// FixedCostAllocation is the pro-rated fixed cost of a period.
type FixedCostAllocation struct {
	Days         int             `json:"days"`
	Items        []AllocatedCost `json:"items"`
	Total        decimal.Decimal `json:"total"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
}

// AllocateFixedCosts pro-rates every cost over days and totals the result.
func AllocateFixedCosts(costs []FixedCost, days int) (FixedCostAllocation, error) {
	if days < 1 {
		return FixedCostAllocation{}, invalid("days", "must be at least 1")
	}
	out := FixedCostAllocation{
		Days:         days,
		Items:        make([]AllocatedCost, 0, len(costs)),
		Total:        decimal.Zero,
		MonthlyTotal: decimal.Zero,
	}
	for i, cost := range costs {
		allocated, err := AllocateFixedCost(cost, days)
		if err != nil {
			return FixedCostAllocation{}, prefixField(fmt.Sprintf("fixed_costs[%d]", i), err)
		}
		monthly, err := MonthlyEquivalent(cost)
		if err != nil {
			return FixedCostAllocation{}, prefixField(fmt.Sprintf("fixed_costs[%d]", i), err)
		}
		out.Items = append(out.Items, AllocatedCost{FixedCost: cost, Allocated: allocated, Monthly: monthly})
		out.Total = out.Total.Add(allocated)
		out.MonthlyTotal = out.MonthlyTotal.Add(monthly)
	}
	return out, nil
}
