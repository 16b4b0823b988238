package profit

import "github.com/shopspring/decimal"

// FallbackCountry is the generic jurisdiction used when a country is not listed.
const FallbackCountry = "EU"

// DefaultTaxRate is applied to unrecognised countries unless configured otherwise.
var DefaultTaxRate = decimal.NewFromInt(21)

var defaultTaxRates = map[string]decimal.Decimal{
	"Nederland":   decimal.NewFromInt(21),
	"Netherlands": decimal.NewFromInt(21),
	"België":      decimal.NewFromInt(21),
	"Belgium":     decimal.NewFromInt(21),
	"Duitsland":   decimal.NewFromInt(19),
	"Germany":     decimal.NewFromInt(19),
	"Frankrijk":   decimal.NewFromInt(20),
	"France":      decimal.NewFromInt(20),
	"EU":          decimal.NewFromInt(20),
}

// TaxTable maps country names to VAT percentages. The zero value resolves every
// country to zero; build tables with NewTaxTable or DefaultTaxTable.
type TaxTable struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewTaxTable copies rates so later changes to the caller's map are not observed.
func NewTaxTable(rates map[string]decimal.Decimal, fallback decimal.Decimal) TaxTable {
	copied := make(map[string]decimal.Decimal, len(rates))
	for country, rate := range rates {
		copied[country] = rate
	}
	return TaxTable{rates: copied, fallback: fallback}
}

// DefaultTaxTable returns the built-in rates with the 21% fallback.
func DefaultTaxTable() TaxTable {
	return NewTaxTable(defaultTaxRates, DefaultTaxRate)
}

// Rate resolves the tax percentage for country. Matching is exact and case-sensitive.
func (t TaxTable) Rate(country string) decimal.Decimal {
	if rate, ok := t.rates[country]; ok {
		return rate
	}
	return t.fallback
}

// Lookup resolves country and reports whether it is listed.
func (t TaxTable) Lookup(country string) (decimal.Decimal, bool) {
	rate, ok := t.rates[country]
	if !ok {
		return t.fallback, false
	}
	return rate, true
}

// Fallback returns the rate used for unknown countries.
func (t TaxTable) Fallback() decimal.Decimal { return t.fallback }

// Rates returns a copy of the configured country rates.
func (t TaxTable) Rates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.rates))
	for country, rate := range t.rates {
		out[country] = rate
	}
	return out
}
