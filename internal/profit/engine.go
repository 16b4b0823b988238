// Package profit is the single source of truth for profit and cost attribution.
// Every figure is derived with exact decimal arithmetic; rounding to cents is left to
// presentation (see FormatEUR).
package profit

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DefaultShippingPerUnit is charged for order lines that carry no shipping cost.
var DefaultShippingPerUnit = decimal.RequireFromString("5.95")

// Config bundles the lookup tables used by an Engine.
type Config struct {
	Tax                    TaxTable
	Shipping               ShippingTable
	DefaultShippingPerUnit decimal.Decimal
}

// DefaultConfig returns the built-in tables.
func DefaultConfig() Config {
	return Config{
		Tax:                    DefaultTaxTable(),
		Shipping:               DefaultShippingTable(),
		DefaultShippingPerUnit: DefaultShippingPerUnit,
	}
}

// Engine applies the profit formulas against a fixed set of lookup tables. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	tax             TaxTable
	shipping        ShippingTable
	defaultShipping decimal.Decimal
}

// NewEngine builds an engine from cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		tax:             cfg.Tax,
		shipping:        cfg.Shipping,
		defaultShipping: cfg.DefaultShippingPerUnit,
	}
}

// TaxRate resolves the VAT percentage for country. It never fails.
func (e *Engine) TaxRate(country string) decimal.Decimal {
	return e.tax.Rate(country)
}

// TaxTable exposes the engine's tax table.
func (e *Engine) TaxTable() TaxTable { return e.tax }

// ShippingQuote prices a shipment to country.
func (e *Engine) ShippingQuote(country string, totalWeightGrams int, orderValue decimal.Decimal) (ShippingQuote, error) {
	return e.shipping.Quote(country, totalWeightGrams, orderValue)
}

// DefaultShipping is the per-unit shipping applied to lines without a shipping cost.
func (e *Engine) DefaultShipping() decimal.Decimal { return e.defaultShipping }

// ProductCost holds the catalogue figures of one product.
type ProductCost struct {
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	WeightGrams   int             `json:"weight_grams"`
}

// Validate rejects negative prices and weights. A selling price below the purchase
// price is a valid loss-making product.
func (p ProductCost) Validate() error {
	if err := nonNegative("selling_price", p.SellingPrice); err != nil {
		return err
	}
	if err := nonNegative("purchase_price", p.PurchasePrice); err != nil {
		return err
	}
	if err := nonNegative("shipping_cost", p.ShippingCost); err != nil {
		return err
	}
	if p.WeightGrams < 0 {
		return invalid("weight_grams", "must not be negative")
	}
	return nil
}

// LineInput carries the per-unit figures of a single line.
type LineInput struct {
	SellingPrice   decimal.Decimal
	PurchasePrice  decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxRatePercent decimal.Decimal
	Quantity       int
}

// LineInputFor builds a LineInput from a catalogue product.
func LineInputFor(p ProductCost, taxRatePercent decimal.Decimal, quantity int) LineInput {
	return LineInput{
		SellingPrice:   p.SellingPrice,
		PurchasePrice:  p.PurchasePrice,
		ShippingCost:   p.ShippingCost,
		TaxRatePercent: taxRatePercent,
		Quantity:       quantity,
	}
}

// Breakdown is the profit attribution of a line, an order or a sum of orders.
// Revenue always equals PurchaseCost + ShippingCost + TaxAmount + Profit.
type Breakdown struct {
	Revenue                decimal.Decimal `json:"revenue"`
	PurchaseCost           decimal.Decimal `json:"purchase_cost"`
	ShippingCost           decimal.Decimal `json:"shipping_cost"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	Profit                 decimal.Decimal `json:"profit"`
	ProfitMarginPercentage decimal.Decimal `json:"profit_margin_percentage"`
}

// Add returns the element-wise sum of b and o with the margin recomputed from the sums.
func (b Breakdown) Add(o Breakdown) Breakdown {
	sum := Breakdown{
		Revenue:      b.Revenue.Add(o.Revenue),
		PurchaseCost: b.PurchaseCost.Add(o.PurchaseCost),
		ShippingCost: b.ShippingCost.Add(o.ShippingCost),
		TaxAmount:    b.TaxAmount.Add(o.TaxAmount),
		Profit:       b.Profit.Add(o.Profit),
	}
	sum.ProfitMarginPercentage = percentOf(sum.Profit, sum.Revenue)
	return sum
}

// Line computes the profit of quantity units. Tax is VAT levied on gross revenue,
// not on the margin.
func Line(in LineInput) (Breakdown, error) {
	if in.Quantity < 1 {
		return Breakdown{}, invalid("quantity", "must be at least 1")
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"selling_price", in.SellingPrice},
		{"purchase_price", in.PurchasePrice},
		{"shipping_cost", in.ShippingCost},
		{"tax_rate", in.TaxRatePercent},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return Breakdown{}, err
		}
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	revenue := in.SellingPrice.Mul(qty)
	purchase := in.PurchasePrice.Mul(qty)
	shipping := in.ShippingCost.Mul(qty)
	tax := revenue.Mul(in.TaxRatePercent).Shift(-2)
	profit := revenue.Sub(purchase).Sub(shipping).Sub(tax)

	return Breakdown{
		Revenue:                revenue,
		PurchaseCost:           purchase,
		ShippingCost:           shipping,
		TaxAmount:              tax,
		Profit:                 profit,
		ProfitMarginPercentage: percentOf(profit, revenue),
	}, nil
}

// OrderLine is one line of an order as supplied by the order store.
type OrderLine struct {
	ProductName   string              `json:"product_name"`
	Quantity      int                 `json:"quantity"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	PurchasePrice decimal.Decimal     `json:"purchase_price"`
	ShippingCost  decimal.NullDecimal `json:"shipping_cost"`
}

// LineBreakdown is the attribution of one order line.
type LineBreakdown struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Breakdown
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`
	TaxPerUnit    decimal.Decimal `json:"tax_per_unit"`
}

// OrderBreakdown is the attribution of a full order.
type OrderBreakdown struct {
	Country       string          `json:"country"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Summary       Breakdown       `json:"summary"`
	ItemBreakdown []LineBreakdown `json:"item_breakdown"`
}

// Order computes every line with the destination's tax rate and sums the results.
// The summary margin is derived from the summed profit and revenue, never averaged
// across lines. An empty order yields a zero summary.
func (e *Engine) Order(lines []OrderLine, country string) (OrderBreakdown, error) {
	rate := e.TaxRate(country)
	out := OrderBreakdown{
		Country:       country,
		TaxRate:       rate,
		Summary:       zeroBreakdown(),
		ItemBreakdown: make([]LineBreakdown, 0, len(lines)),
	}
	for i, line := range lines {
		shipping := e.defaultShipping
		if line.ShippingCost.Valid {
			shipping = line.ShippingCost.Decimal
		}
		b, err := Line(LineInput{
			SellingPrice:   line.UnitPrice,
			PurchasePrice:  line.PurchasePrice,
			ShippingCost:   shipping,
			TaxRatePercent: rate,
			Quantity:       line.Quantity,
		})
		if err != nil {
			return OrderBreakdown{}, prefixField(fmt.Sprintf("lines[%d]", i), err)
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		out.ItemBreakdown = append(out.ItemBreakdown, LineBreakdown{
			ProductName:   line.ProductName,
			Quantity:      line.Quantity,
			Breakdown:     b,
			ProfitPerUnit: b.Profit.Div(qty),
			TaxPerUnit:    b.TaxAmount.Div(qty),
		})
		out.Summary = out.Summary.Add(b)
	}
	return out, nil
}

func zeroBreakdown() Breakdown {
	return Breakdown{
		Revenue:                decimal.Zero,
		PurchaseCost:           decimal.Zero,
		ShippingCost:           decimal.Zero,
		TaxAmount:              decimal.Zero,
		Profit:                 decimal.Zero,
		ProfitMarginPercentage: decimal.Zero,
	}
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func prefixField(prefix string, err error) error {
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return &ArgumentError{Field: prefix + "." + ae.Field, Reason: ae.Reason}
	}
	return err
}
