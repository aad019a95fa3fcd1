// Package money provides the monetary primitives shared by the checkout
// engine: an immutable Amount value and the closed set of VAT rates.
package money

import "github.com/shopspring/decimal"

// Amount is an immutable monetary value. Every arithmetic operation returns
// a new Amount and leaves its operands untouched. Negative values are
// accepted; domain validation is the caller's responsibility.
type Amount struct {
	v decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount { return Amount{} }

// FromDecimal wraps an exact decimal value.
func FromDecimal(d decimal.Decimal) Amount { return Amount{v: d} }

// FromInt returns an amount of n whole currency units.
func FromInt(n int64) Amount { return Amount{v: decimal.NewFromInt(n)} }

// FromFloat converts a float, keeping the shortest exact representation.
func FromFloat(f float64) Amount { return Amount{v: decimal.NewFromFloat(f)} }

// FromString parses a decimal string such as "29.90".
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{v: d}, nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{v: a.v.Add(b.v)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{v: a.v.Sub(b.v)} }

// MulInt scales the amount by an integer factor, e.g. a line quantity.
func (a Amount) MulInt(n int) Amount {
	return Amount{v: a.v.Mul(decimal.NewFromInt(int64(n)))}
}

// Scale multiplies the amount by an arbitrary decimal factor, e.g. a VAT
// rate or a discount fraction.
func (a Amount) Scale(f decimal.Decimal) Amount { return Amount{v: a.v.Mul(f)} }

// Cmp compares a and b, returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(b.v) }

// Equal reports value equality; 1.5 and 1.50 are equal.
func (a Amount) Equal(b Amount) bool { return a.v.Equal(b.v) }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.v.LessThan(b.v) }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.v.GreaterThan(b.v) }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a.v.IsNegative() }

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.v }

// String renders the amount with exactly two decimal digits regardless of
// magnitude. No locale-dependent grouping is applied.
func (a Amount) String() string { return a.v.StringFixed(2) }
