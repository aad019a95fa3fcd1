// Package sale implements the transactional aggregate at the heart of the
// checkout engine: an ordered set of item lines, a pluggable discount, a
// single payment, and the revenue observers notified when that payment
// settles.
package sale

import (
	"context"
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/pos-engine/internal/domain/money"
)

// UnboundedQuantity is the sentinel quantity treated as "large but valid":
// a registration with this quantity bypasses the non-positive overflow
// check.
const UnboundedQuantity = math.MaxInt

// RevenueObserver is notified exactly once per settled payment with the
// realized revenue (the total price after discount).
type RevenueObserver interface {
	NewRevenue(ctx context.Context, amount money.Amount) error
}

// DiscountStrategy computes a discount against the current state of a sale.
// Implementations must not mutate the sale.
type DiscountStrategy interface {
	DiscountOn(ctx context.Context, s *Sale) (money.Amount, error)
}

// Sale is one in-progress transaction. It is exclusively owned by a single
// register session and is not safe for concurrent use.
type Sale struct {
	id         string
	startedAt  time.Time
	lines      []*Line
	customerID string
	discount   money.Amount
	payment    *money.Amount
	observers  []RevenueObserver
}

// New starts a fresh, empty sale stamped with the current time.
func New() *Sale {
	return &Sale{
		id:        uuid.New().String(),
		startedAt: time.Now(),
	}
}

// ID returns the sale identifier.
func (s *Sale) ID() string { return s.id }

// StartedAt returns the time the sale was opened.
func (s *Sale) StartedAt() time.Time { return s.startedAt }

// SetCustomerID stamps the sale with a customer identifier, enabling
// customer-based discounts.
func (s *Sale) SetCustomerID(id string) { s.customerID = id }

// CustomerID returns the customer identifier, or "" when anonymous.
func (s *Sale) CustomerID() string { return s.customerID }

func (s *Sale) findLine(id string) *Line {
	for _, l := range s.lines {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// AddItem registers quantity units of the given item. A zero quantity, or
// one whose resulting line quantity would be non-positive, is rejected with
// *InvalidQuantityError unless the quantity is the UnboundedQuantity
// sentinel. When the identifier is already registered the existing line's
// quantity grows by quantity; otherwise a new line is appended. This is the
// sole rejection point for the quantity invariant: later IncreaseQuantity
// and SetQuantity calls on the line do not re-validate.
func (s *Sale) AddItem(info ItemInfo, quantity int) (Snapshot, error) {
	if quantity == 0 {
		return Snapshot{}, &InvalidQuantityError{ItemID: info.ID, Quantity: quantity}
	}

	line := s.findLine(info.ID)
	resulting := quantity
	if line != nil {
		resulting = line.Quantity() + quantity
	}
	if resulting <= 0 && quantity != UnboundedQuantity {
		return Snapshot{}, &InvalidQuantityError{ItemID: info.ID, Quantity: quantity}
	}

	if line != nil {
		line.IncreaseQuantity(quantity)
		return line.Snapshot(), nil
	}

	line = newLine(info, quantity)
	s.lines = append(s.lines, line)
	return line.Snapshot(), nil
}

// IncreaseQuantity adds delta units to an already registered line. The
// identifier must be present and delta must be strictly positive.
func (s *Sale) IncreaseQuantity(id string, delta int) (Snapshot, error) {
	line := s.findLine(id)
	if line == nil {
		return Snapshot{}, &ItemNotInSaleError{ItemID: id}
	}
	if delta <= 0 {
		return Snapshot{}, &InvalidQuantityError{ItemID: id, Quantity: delta}
	}
	line.IncreaseQuantity(delta)
	return line.Snapshot(), nil
}

// HasItem reports whether the identifier is registered in this sale.
func (s *Sale) HasItem(id string) bool { return s.findLine(id) != nil }

// ItemByID returns a snapshot of the line with the given identifier.
func (s *Sale) ItemByID(id string) (Snapshot, bool) {
	line := s.findLine(id)
	if line == nil {
		return Snapshot{}, false
	}
	return line.Snapshot(), true
}

// Lines returns snapshots of all lines in registration order.
func (s *Sale) Lines() []Snapshot {
	snaps := make([]Snapshot, len(s.lines))
	for i, l := range s.lines {
		snaps[i] = l.Snapshot()
	}
	return snaps
}

// TotalPrice is the sum of all line totals including VAT. It is recomputed
// on every call and always reflects live line state.
func (s *Sale) TotalPrice() money.Amount {
	total := money.Zero()
	for _, l := range s.lines {
		total = total.Add(l.Total())
	}
	return total
}

// TotalVAT is the sum of all lines' tax portions.
func (s *Sale) TotalVAT() money.Amount {
	total := money.Zero()
	for _, l := range s.lines {
		total = total.Add(l.VAT())
	}
	return total
}

// Discount returns the last computed discount, zero by default.
func (s *Sale) Discount() money.Amount { return s.discount }

// TotalAfterDiscount is the total price minus the current discount. It is
// not clamped at zero: a discount exceeding the total yields a negative
// result.
func (s *Sale) TotalAfterDiscount() money.Amount {
	return s.TotalPrice().Sub(s.discount)
}

// CalculateDiscounts replaces the sale's discount wholesale with the
// strategy's result. A nil strategy resets the discount to zero.
func (s *Sale) CalculateDiscounts(ctx context.Context, strategy DiscountStrategy) error {
	if strategy == nil {
		s.discount = money.Zero()
		return nil
	}
	d, err := strategy.DiscountOn(ctx, s)
	if err != nil {
		return errors.Wrap(err, "evaluate discount strategy")
	}
	s.discount = d
	return nil
}

// Settled reports whether a payment has been recorded.
func (s *Sale) Settled() bool { return s.payment != nil }

// Pay validates and records the payment, then notifies every revenue
// observer in registration order with the settled total after discount.
// A settled sale cannot be paid again. Observer failures are isolated from
// each other and returned joined as *NotificationError; the payment stays
// recorded even when observers fail.
func (s *Sale) Pay(ctx context.Context, amount money.Amount) error {
	if s.payment != nil {
		return ErrAlreadySettled
	}
	required := s.TotalAfterDiscount()
	if amount.LessThan(required) {
		return &InsufficientPaymentError{Paid: amount, Required: required}
	}
	s.payment = &amount

	var errs []error
	for _, o := range s.observers {
		if err := o.NewRevenue(ctx, required); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &NotificationError{Errs: errs}
	}
	return nil
}

// Change is the difference between the recorded payment and the total after
// discount. It fails with ErrNotSettled before a payment is recorded.
func (s *Sale) Change() (money.Amount, error) {
	if s.payment == nil {
		return money.Amount{}, ErrNotSettled
	}
	return s.payment.Sub(s.TotalAfterDiscount()), nil
}

// AddRevenueObserver appends an observer. Observers are notified in
// registration order; there is no de-duplication and no removal.
func (s *Sale) AddRevenueObserver(o RevenueObserver) {
	s.observers = append(s.observers, o)
}
