package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/RonnieMoneymaker/2.2-sub001/internal/profit"
)

var funcs = template.FuncMap{
	"eur":    profit.FormatEUR,
	"pct":    profit.FormatPercent,
	"rating": profit.Classify,
	"opt": func(d decimal.NullDecimal) string {
		if !d.Valid {
			return "-"
		}
		return profit.FormatEUR(d.Decimal)
	},
}

var templates = template.Must(template.New("report").Funcs(funcs).Parse(`
{{- define "line" -}}
Revenue         {{ eur .Revenue }}
Purchase cost   {{ eur .PurchaseCost }}
Shipping        {{ eur .ShippingCost }}
Tax             {{ eur .TaxAmount }}
Profit          {{ eur .Profit }}
Margin          {{ pct .ProfitMarginPercentage }} ({{ rating .ProfitMarginPercentage }})
{{ end -}}

{{- define "order" -}}
Country         {{ .Country }} ({{ pct .TaxRate }} VAT)
{{ range .ItemBreakdown -}}
  {{ .Quantity }} x {{ .ProductName }}: profit {{ eur .Profit }}, {{ eur .ProfitPerUnit }} per unit
{{ end -}}
{{ template "line" .Summary }}
{{- end -}}

{{- define "customer" -}}
Total spent     {{ eur .TotalSpent }}
Gross profit    {{ eur .GrossProfit }}
Shipping        {{ eur .ShippingCosts }}
Real profit     {{ eur .RealProfit }}
Per order       {{ eur .ProfitPerOrder }}
Margin          {{ pct .MarginAfterShipping }} ({{ rating .MarginAfterShipping }})
{{ end -}}

{{- define "period" -}}
Revenue         {{ eur .Revenue }}
Gross profit    {{ eur .GrossProfit }}
Tax             {{ eur .TaxAmount }}
Fixed costs     {{ eur .FixedCosts }}
Ad spend        {{ eur .AdSpend }}
Shipping        {{ eur .ShippingCosts }}
Net profit      {{ eur .NetProfit }}
Margin          {{ pct .ProfitMarginPercentage }} ({{ rating .ProfitMarginPercentage }})
Break-even      {{ eur .BreakEvenRevenue }}
{{ end -}}

{{- define "tax" -}}
{{ .Country }}: {{ pct .Rate }}{{ if not .Known }} (default rate){{ end }}
{{ end -}}

{{- define "shipping" -}}
Country         {{ .Country }}
Cost            {{ eur .Cost }}
Free shipping   {{ if .FreeShipping }}yes{{ else }}no{{ end }}
Threshold       {{ opt .ThresholdApplied }}
Until free      {{ opt .AmountForFreeShipping }}
{{ end -}}

{{- define "break-even" -}}
Monthly costs   {{ eur .TotalMonthlyCosts }}
Break-even      {{ eur .BreakEvenRevenueMonthly }} per month, {{ eur .BreakEvenRevenueDaily }} per day
Projected       {{ eur .ProjectedRevenue }}
Progress        {{ pct .Progress }}
Surplus         {{ eur .SurplusDeficit }}
{{ end -}}
`))

// reporter writes results either through a named template or as JSON.
type reporter struct {
	out  io.Writer
	json bool
}

func (r reporter) write(name string, v any) error {
	if r.json {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if err := templates.ExecuteTemplate(r.out, name, v); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

type taxReport struct {
	Country string          `json:"country"`
	Rate    decimal.Decimal `json:"rate"`
	Known   bool            `json:"known"`
}
