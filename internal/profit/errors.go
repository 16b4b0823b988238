package profit

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is the only error kind produced by the engine. It is returned
// (wrapped in an *ArgumentError) for negative, non-finite or out of range inputs
// and for quantities below one.
var ErrInvalidArgument = errors.New("profit: invalid argument")

// ArgumentError names the input that was rejected.
type ArgumentError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("profit: invalid argument %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidArgument).
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// InvalidField reports the rejected input and why.
func (e *ArgumentError) InvalidField() (field, reason string) { return e.Field, e.Reason }

func invalid(field, reason string) error {
	return &ArgumentError{Field: field, Reason: reason}
}

// Inputs are limited to amounts below 10^15 with at most 20 decimals so that no
// single value can blow up the arithmetic that follows.
const (
	maxIntegerDigits  = 15
	maxFractionDigits = 20
)

// bounded inspects only the coefficient and exponent of v, never its value, so a
// hostile exponent costs nothing to reject.
func bounded(field string, v decimal.Decimal) error {
	exp := v.Exponent()
	if exp < -maxFractionDigits || exp > maxIntegerDigits {
		return invalid(field, "out of range")
	}
	if v.IsZero() {
		return nil
	}
	if v.NumDigits()+int(exp) > maxIntegerDigits {
		return invalid(field, "out of range")
	}
	return nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if err := bounded(field, v); err != nil {
		return err
	}
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

// FromFloat converts a float input into a decimal, rejecting NaN, infinities and
// values outside the accepted range. The services decode decimals directly; this is
// the entry point for library callers that hold float64 figures.
func FromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, invalid(field, "must be a finite number")
	}
	d := decimal.NewFromFloat(v)
	if err := bounded(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
