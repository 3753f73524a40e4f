// Package money provides the fixed-point amount type used for all
// monetary values. Amounts are integer cents with two decimal places;
// no float64 representation is permitted anywhere in amount handling.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in cents (EUR, 2 decimal places).
type Amount int64

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string like "1234.56" into an Amount.
// It rejects values with more than two decimal places.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	return Amount(d.Mul(hundred).IntPart()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return a
}

// Decimal returns the amount as a two-decimal decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount with two decimal places, e.g. "1234.56".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Cents returns the raw value in cents.
func (a Amount) Cents() int64 { return int64(a) }

// Abs returns the magnitude of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}

	return a
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a decimal string ("100.00") or a bare
// JSON number (100.0 is rejected if it carries sub-cent precision).
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
