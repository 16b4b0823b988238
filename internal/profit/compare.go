package profit

import "github.com/shopspring/decimal"

// Change is the movement of one figure between two periods.
type Change struct {
	Absolute   decimal.Decimal `json:"absolute"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Comparison holds two periods and the changes between them.
type Comparison struct {
	Current  PeriodProfit `json:"current_period"`
	Previous PeriodProfit `json:"previous_period"`
	Changes  struct {
		Revenue     Change `json:"revenue"`
		GrossProfit Change `json:"gross_profit"`
		NetProfit   Change `json:"net_profit"`
	} `json:"changes"`
}

// Compare computes period-over-period changes. Revenue and gross profit changes are
// relative to a positive previous value; net profit, which may be negative, is
// relative to its magnitude. A zero base yields a zero percentage.
func Compare(current, previous PeriodProfit) Comparison {
	c := Comparison{Current: current, Previous: previous}
	c.Changes.Revenue = change(current.Revenue, previous.Revenue, false)
	c.Changes.GrossProfit = change(current.GrossProfit, previous.GrossProfit, false)
	c.Changes.NetProfit = change(current.NetProfit, previous.NetProfit, true)
	return c
}

func change(current, previous decimal.Decimal, signed bool) Change {
	diff := current.Sub(previous)
	base := previous
	if signed {
		base = previous.Abs()
	}
	return Change{Absolute: diff, Percentage: percentOf(diff, base)}
}
