// Package discount implements the pluggable discount strategies applied to
// a sale, together with the read-only database contract they consult.
//
// The database hands back two distinct kinds of values: absolute currency
// amounts (item discounts) and bare fractions of the total (total and
// customer discounts). The Fraction type keeps the two from being silently
// confused.
package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// ErrNilItems reports a contract violation: a nil item list is not a
// meaningful "no items" case.
var ErrNilItems = errors.New("discount: item list must not be nil")

// Fraction is a multiplier applied to a total, e.g. 0.10 for a 10%
// discount. It is deliberately not a money.Amount.
type Fraction struct {
	v decimal.Decimal
}

// ZeroFraction is the no-discount multiplier.
func ZeroFraction() Fraction { return Fraction{} }

// FractionFromDecimal wraps an exact decimal multiplier.
func FractionFromDecimal(d decimal.Decimal) Fraction { return Fraction{v: d} }

// FractionFromFloat converts a float multiplier such as 0.05.
func FractionFromFloat(f float64) Fraction {
	return Fraction{v: decimal.NewFromFloat(f)}
}

// IsZero reports whether the fraction grants no discount.
func (f Fraction) IsZero() bool { return f.v.IsZero() }

// Decimal returns the underlying multiplier.
func (f Fraction) Decimal() decimal.Decimal { return f.v }

// ApplyTo returns the fraction's share of the given amount.
func (f Fraction) ApplyTo(a money.Amount) money.Amount { return a.Scale(f.v) }

func (f Fraction) String() string { return f.v.String() }

// Database is the read-only lookup collaborator behind the strategies.
type Database interface {
	// FromItems returns an absolute amount to subtract, derived from the
	// registered item lines. A nil slice is a contract violation and
	// yields ErrNilItems.
	FromItems(ctx context.Context, items []sale.Snapshot) (money.Amount, error)
	// FromTotal returns a fractional rate depending on the running total:
	// zero at or below the policy threshold, the policy rate above it.
	FromTotal(ctx context.Context, total money.Amount) (Fraction, error)
	// FromCustomer returns the fractional rate granted to a customer.
	// Blank or unknown identifiers resolve to zero without failing.
	FromCustomer(ctx context.Context, customerID string) (Fraction, error)
}
