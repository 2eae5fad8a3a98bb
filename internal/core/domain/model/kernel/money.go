package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"foodorders/internal/pkg/errs"
)

// Money is a value object representing a monetary amount with exact
// two-digit decimal precision. Amounts are stored as an integer number of
// cents, so sums and per-item subtotals never accumulate floating-point
// error.
//
// The zero value is a valid amount of 0.00. Money is immutable; arithmetic
// methods return new values.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates a Money from an integer number of cents.
// Negative amounts are rejected: nothing in the order lifecycle produces a
// negative price.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// ParseMoney parses a decimal string such as "12.99" or "7" into a Money.
// At most two fractional digits are accepted.
func ParseMoney(s string) (Money, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	if units < 0 || strings.HasPrefix(whole, "-") {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%q is negative", s))
	}

	cents := units * 100
	if frac != "" {
		if len(frac) > 2 {
			return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
				fmt.Errorf("%q has more than two fractional digits", s))
		}
		fracValue, fracErr := strconv.ParseInt(frac, 10, 64)
		if fracErr != nil || fracValue < 0 {
			return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
				fmt.Errorf("%q has an invalid fractional part", s))
		}
		if len(frac) == 1 {
			fracValue *= 10
		}
		cents += fracValue
	}

	return Money{cents: cents}, nil
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// MultiplyBy returns the amount multiplied by a non-negative quantity.
func (m Money) MultiplyBy(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// IsEqual reports whether two amounts are the same.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String renders the amount with exactly two fractional digits, e.g. "19.99".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// MarshalJSON renders the amount as a plain JSON number with two fractional
// digits, matching the wire format consumed by notification clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
