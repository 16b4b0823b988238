package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// decimalValue is a flag holding an exact amount. NaN and infinities are rejected
// by the decimal parser.
type decimalValue struct{ d *decimal.Decimal }

func (v decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*v.d = d
	return nil
}

func (decimalValue) Type() string { return "decimal" }

// optionalDecimal is a decimal flag that remembers whether it was given.
type optionalDecimal struct{ d *decimal.NullDecimal }

func (v optionalDecimal) String() string {
	if v.d == nil || !v.d.Valid {
		return ""
	}
	return v.d.Decimal.String()
}

func (v optionalDecimal) Set(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*v.d = decimal.NewNullDecimal(d)
	return nil
}

func (optionalDecimal) Type() string { return "decimal" }
