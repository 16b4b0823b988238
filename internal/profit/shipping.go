package profit

import "github.com/shopspring/decimal"

// ShippingRule describes how one destination is charged.
type ShippingRule struct {
	StandardCost              decimal.Decimal
	FreeShippingThreshold     decimal.NullDecimal
	HeavyItemCost             decimal.NullDecimal
	HeavyItemWeightLimitGrams *int
}

// ShippingQuote is the outcome of a shipping lookup.
type ShippingQuote struct {
	Country               string              `json:"country"`
	Cost                  decimal.Decimal     `json:"cost"`
	FreeShipping          bool                `json:"free_shipping"`
	ThresholdApplied      decimal.NullDecimal `json:"threshold_applied"`
	AmountForFreeShipping decimal.NullDecimal `json:"amount_for_free_shipping"`
}

func defaultShippingRules() map[string]ShippingRule {
	heavyLimit := 1000
	nl := ShippingRule{
		StandardCost:              decimal.RequireFromString("4.95"),
		FreeShippingThreshold:     decimal.NewNullDecimal(decimal.NewFromInt(50)),
		HeavyItemCost:             decimal.NewNullDecimal(decimal.RequireFromString("8.95")),
		HeavyItemWeightLimitGrams: &heavyLimit,
	}
	be := ShippingRule{
		StandardCost:          decimal.RequireFromString("6.95"),
		FreeShippingThreshold: decimal.NewNullDecimal(decimal.NewFromInt(75)),
	}
	de := ShippingRule{
		StandardCost:          decimal.RequireFromString("9.95"),
		FreeShippingThreshold: decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	eu := ShippingRule{
		StandardCost:          decimal.RequireFromString("12.95"),
		FreeShippingThreshold: decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	return map[string]ShippingRule{
		"Nederland":   nl,
		"Netherlands": nl,
		"België":      be,
		"Belgium":     be,
		"Duitsland":   de,
		"Germany":     de,
		"EU":          eu,
	}
}

// ShippingTable resolves shipping rules per country with a generic fallback.
type ShippingTable struct {
	rules    map[string]ShippingRule
	fallback ShippingRule
}

// NewShippingTable copies rules. The rule stored under fallbackCountry becomes the
// fallback; when it is absent the fallback charges nothing.
func NewShippingTable(rules map[string]ShippingRule, fallbackCountry string) ShippingTable {
	copied := make(map[string]ShippingRule, len(rules))
	for country, rule := range rules {
		copied[country] = rule
	}
	return ShippingTable{rules: copied, fallback: copied[fallbackCountry]}
}

// DefaultShippingTable returns the built-in rules with EU as the fallback.
func DefaultShippingTable() ShippingTable {
	return NewShippingTable(defaultShippingRules(), FallbackCountry)
}

// Rule returns the rule applied to country.
func (t ShippingTable) Rule(country string) ShippingRule {
	if rule, ok := t.rules[country]; ok {
		return rule
	}
	return t.fallback
}

// Quote prices a shipment. The free-shipping threshold is evaluated before the
// heavy-item override, so a heavy order above the threshold still ships free.
func (t ShippingTable) Quote(country string, totalWeightGrams int, orderValue decimal.Decimal) (ShippingQuote, error) {
	if totalWeightGrams < 0 {
		return ShippingQuote{}, invalid("total_weight_grams", "must not be negative")
	}
	if err := nonNegative("order_value", orderValue); err != nil {
		return ShippingQuote{}, err
	}
	rule := t.Rule(country)
	quote := ShippingQuote{Country: country}

	if rule.FreeShippingThreshold.Valid {
		threshold := rule.FreeShippingThreshold.Decimal
		remaining := decimal.Max(decimal.Zero, threshold.Sub(orderValue))
		quote.AmountForFreeShipping = decimal.NewNullDecimal(remaining)
		if orderValue.GreaterThanOrEqual(threshold) {
			quote.Cost = decimal.Zero
			quote.FreeShipping = true
			quote.ThresholdApplied = decimal.NewNullDecimal(threshold)
			return quote, nil
		}
	}

	if rule.HeavyItemCost.Valid && rule.HeavyItemWeightLimitGrams != nil && totalWeightGrams > *rule.HeavyItemWeightLimitGrams {
		quote.Cost = rule.HeavyItemCost.Decimal
		return quote, nil
	}

	quote.Cost = rule.StandardCost
	quote.ThresholdApplied = rule.FreeShippingThreshold
	return quote, nil
}
