package simulated

import (
	"context"

	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// LoyalCustomerID is the one customer the demo discount database knows.
const LoyalCustomerID = "123"

var _ discount.Database = (*DiscountDatabase)(nil)

// DiscountDatabase is an in-memory discount rule set: a flat amount per
// registered line, a percentage once the total strictly exceeds a
// threshold, and a personal percentage for the loyal customer.
type DiscountDatabase struct {
	perLine      money.Amount
	threshold    money.Amount
	totalRate    discount.Fraction
	customerRate discount.Fraction
}

// NewDiscountDatabase builds the demo rule set: 5.00 off per line, 10% off
// totals strictly over 500.00, and 5% off for the loyal customer.
func NewDiscountDatabase() *DiscountDatabase {
	return &DiscountDatabase{
		perLine:      money.FromInt(5),
		threshold:    money.FromInt(500),
		totalRate:    discount.FractionFromFloat(0.10),
		customerRate: discount.FractionFromFloat(0.05),
	}
}

// FromItems grants the flat per-line amount once for every distinct line,
// regardless of quantity.
func (d *DiscountDatabase) FromItems(ctx context.Context, items []sale.Snapshot) (money.Amount, error) {
	if items == nil {
		return money.Amount{}, discount.ErrNilItems
	}
	return d.perLine.MulInt(len(items)), nil
}

// FromTotal grants the total rate when the total strictly exceeds the
// threshold, and the zero fraction otherwise.
func (d *DiscountDatabase) FromTotal(ctx context.Context, total money.Amount) (discount.Fraction, error) {
	if total.GreaterThan(d.threshold) {
		return d.totalRate, nil
	}
	return discount.ZeroFraction(), nil
}

// FromCustomer grants the personal rate to the loyal customer and the zero
// fraction to everyone else.
func (d *DiscountDatabase) FromCustomer(ctx context.Context, customerID string) (discount.Fraction, error) {
	if customerID == LoyalCustomerID {
		return d.customerRate, nil
	}
	return discount.ZeroFraction(), nil
}
