package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

// amount is a non-negative decimal read from a YAML scalar without a float detour.
type amount struct {
	decimal.Decimal
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a decimal number", node.Line, node.Value)
	}
	if d.IsNegative() {
		return fmt.Errorf("line %d: %s must not be negative", node.Line, node.Value)
	}
	a.Decimal = d
	return nil
}

// RatesFile is the on-disk shape of PROFIT_RATES_FILE.
type RatesFile struct {
	DefaultTaxRate         *amount            `yaml:"default_tax_rate"`
	DefaultShippingPerUnit *amount            `yaml:"default_shipping_per_unit"`
	TaxRates               map[string]amount  `yaml:"tax_rates"`
	Shipping               *ShippingRatesFile `yaml:"shipping"`
}

// ShippingRatesFile lists shipping rules per country.
type ShippingRatesFile struct {
	Fallback string                      `yaml:"fallback"`
	Rules    map[string]ShippingRuleFile `yaml:"rules"`
}

// ShippingRuleFile is one country's shipping rule.
type ShippingRuleFile struct {
	StandardCost              amount  `yaml:"standard_cost"`
	FreeShippingThreshold     *amount `yaml:"free_shipping_threshold"`
	HeavyItemCost             *amount `yaml:"heavy_item_cost"`
	HeavyItemWeightLimitGrams *int    `yaml:"heavy_item_weight_limit_grams"`
}

// LoadRates reads and validates a YAML rates file.
func LoadRates(path string) (*RatesFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rates file: %w", err)
	}
	defer f.Close()
	return ParseRates(f)
}

// ParseRates decodes a rates document. Unknown keys are rejected so typos do not
// silently fall back to built-in rates.
func ParseRates(r io.Reader) (*RatesFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rf RatesFile
	if err := dec.Decode(&rf); err != nil {
		if errors.Is(err, io.EOF) {
			return &rf, nil
		}
		return nil, fmt.Errorf("parse rates file: %w", err)
	}
	if rf.Shipping != nil {
		if rf.Shipping.Fallback == "" {
			rf.Shipping.Fallback = profit.FallbackCountry
		}
		if _, ok := rf.Shipping.Rules[rf.Shipping.Fallback]; !ok && len(rf.Shipping.Rules) > 0 {
			return nil, fmt.Errorf("parse rates file: shipping fallback %q has no rule", rf.Shipping.Fallback)
		}
		for country, rule := range rf.Shipping.Rules {
			if rule.HeavyItemWeightLimitGrams != nil && *rule.HeavyItemWeightLimitGrams < 0 {
				return nil, fmt.Errorf("parse rates file: %s heavy_item_weight_limit_grams must not be negative", country)
			}
			if (rule.HeavyItemCost == nil) != (rule.HeavyItemWeightLimitGrams == nil) {
				return nil, fmt.Errorf("parse rates file: %s heavy item cost and weight limit must be set together", country)
			}
		}
	}
	return &rf, nil
}

// Apply overlays the file on base. Listed tax rates and shipping rules replace
// the corresponding built-in tables as a whole.
func (rf *RatesFile) Apply(base profit.Config) profit.Config {
	out := base
	fallbackRate := base.Tax.Fallback()
	if rf.DefaultTaxRate != nil {
		fallbackRate = rf.DefaultTaxRate.Decimal
	}
	rates := base.Tax.Rates()
	if len(rf.TaxRates) > 0 {
		rates = make(map[string]decimal.Decimal, len(rf.TaxRates))
		for country, rate := range rf.TaxRates {
			rates[country] = rate.Decimal
		}
	}
	out.Tax = profit.NewTaxTable(rates, fallbackRate)

	if rf.DefaultShippingPerUnit != nil {
		out.DefaultShippingPerUnit = rf.DefaultShippingPerUnit.Decimal
	}
	if rf.Shipping != nil && len(rf.Shipping.Rules) > 0 {
		rules := make(map[string]profit.ShippingRule, len(rf.Shipping.Rules))
		for country, r := range rf.Shipping.Rules {
			rule := profit.ShippingRule{
				StandardCost:              r.StandardCost.Decimal,
				HeavyItemWeightLimitGrams: r.HeavyItemWeightLimitGrams,
			}
			if r.FreeShippingThreshold != nil {
				rule.FreeShippingThreshold = decimal.NewNullDecimal(r.FreeShippingThreshold.Decimal)
			}
			if r.HeavyItemCost != nil {
				rule.HeavyItemCost = decimal.NewNullDecimal(r.HeavyItemCost.Decimal)
			}
			rules[country] = rule
		}
		out.Shipping = profit.NewShippingTable(rules, rf.Shipping.Fallback)
	}
	return out
}
