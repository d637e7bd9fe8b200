package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount carries.
const Scale = 4

// maxIntegerDigits bounds the magnitude FromDecimal will expand; every
// in-range Amount has at most 15 integer digits.
const maxIntegerDigits = 20

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrOutOfRange    = errors.New("amount out of range")
)

// Amount is a fixed-point value counted in units of 0.0001.
// Balances only ever add and subtract whole units, so sums are exact.
type Amount int64

// Parse reads a decimal string and rounds it half away from zero to Scale digits.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	a, err := FromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, s)
	}
	return a, nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts d to an Amount, rounding to Scale digits.
// The magnitude is checked before rounding so extreme exponents are never
// expanded into big integers.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsZero() {
		return 0, nil
	}

	// |d| lies in [10^(magnitude-1), 10^magnitude).
	magnitude := int64(d.Exponent()) + int64(d.NumDigits())
	switch {
	case magnitude > maxIntegerDigits:
		return 0, ErrOutOfRange
	case magnitude < -Scale:
		return 0, nil
	}

	units := d.Round(Scale).Shift(Scale).BigInt()
	if !units.IsInt64() {
		return 0, ErrOutOfRange
	}
	return Amount(units.Int64()), nil
}

// Decimal returns the exact decimal value of a.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders a with exactly Scale fractional digits, e.g. "1.5000".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

func (a Amount) IsPositive() bool { return a > 0 }

func (a Amount) IsNegative() bool { return a < 0 }
