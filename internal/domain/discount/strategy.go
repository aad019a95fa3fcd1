package discount

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

var (
	_ sale.DiscountStrategy = (*ItemBased)(nil)
	_ sale.DiscountStrategy = (*TotalBased)(nil)
	_ sale.DiscountStrategy = (*CustomerBased)(nil)
	_ sale.DiscountStrategy = (*Composite)(nil)
)

// ItemBased asks the database for an absolute discount over the sale's
// current item lines.
type ItemBased struct {
	db Database
}

// NewItemBased returns an item-based strategy backed by db.
func NewItemBased(db Database) *ItemBased {
	return &ItemBased{db: db}
}

func (s *ItemBased) DiscountOn(ctx context.Context, sl *sale.Sale) (money.Amount, error) {
	amount, err := s.db.FromItems(ctx, sl.Lines())
	if err != nil {
		return money.Amount{}, errors.Wrap(err, "item discount lookup")
	}
	return amount, nil
}

// TotalBased reinterprets the database's percentage-or-zero answer as a
// multiplier of the pre-discount total, not an absolute amount.
type TotalBased struct {
	db Database
}

// NewTotalBased returns a total-threshold strategy backed by db.
func NewTotalBased(db Database) *TotalBased {
	return &TotalBased{db: db}
}

func (s *TotalBased) DiscountOn(ctx context.Context, sl *sale.Sale) (money.Amount, error) {
	total := sl.TotalPrice()
	frac, err := s.db.FromTotal(ctx, total)
	if err != nil {
		return money.Amount{}, errors.Wrap(err, "total discount lookup")
	}
	return frac.ApplyTo(total), nil
}

// CustomerBased contributes zero unless both the strategy and the sale
// carry a customer identifier. The lookup uses the identifier stamped on
// the sale.
type CustomerBased struct {
	customerID string
	db         Database
}

// NewCustomerBased returns a customer strategy for the given identifier.
func NewCustomerBased(customerID string, db Database) *CustomerBased {
	return &CustomerBased{customerID: customerID, db: db}
}

func (s *CustomerBased) DiscountOn(ctx context.Context, sl *sale.Sale) (money.Amount, error) {
	if s.customerID == "" || sl.CustomerID() == "" {
		return money.Zero(), nil
	}
	total := sl.TotalPrice()
	frac, err := s.db.FromCustomer(ctx, sl.CustomerID())
	if err != nil {
		return money.Amount{}, errors.Wrap(err, "customer discount lookup")
	}
	return frac.ApplyTo(total), nil
}

// Composite sums the contributions of an ordered list of child strategies
// against the same sale snapshot. Contributions are not mutually exclusive
// and are not normalized; the sum may exceed the sale total. An empty
// composite contributes zero.
type Composite struct {
	children []sale.DiscountStrategy
}

// NewComposite returns a composite over the given children, evaluated in
// order.
func NewComposite(children ...sale.DiscountStrategy) *Composite {
	return &Composite{children: children}
}

func (s *Composite) DiscountOn(ctx context.Context, sl *sale.Sale) (money.Amount, error) {
	total := money.Zero()
	for _, child := range s.children {
		d, err := child.DiscountOn(ctx, sl)
		if err != nil {
			return money.Amount{}, err
		}
		total = total.Add(d)
	}
	return total, nil
}
