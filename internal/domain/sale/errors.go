package sale

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/pos-engine/internal/domain/money"
)

// Sentinel errors for sale settlement.
var (
	// ErrAlreadySettled is returned when Pay is called on a settled sale.
	ErrAlreadySettled = errors.New("sale already settled")
	// ErrNotSettled is returned when settlement data is requested before
	// a payment has been recorded.
	ErrNotSettled = errors.New("no payment recorded")
)

// InvalidQuantityError indicates a registration or increase with a quantity
// the sale rejects.
type InvalidQuantityError struct {
	ItemID   string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for item %s", e.Quantity, e.ItemID)
}

// ItemNotInSaleError indicates the identifier has not been registered in
// this sale.
type ItemNotInSaleError struct {
	ItemID string
}

func (e *ItemNotInSaleError) Error() string {
	return fmt.Sprintf("item %s not found in sale", e.ItemID)
}

// InsufficientPaymentError indicates the tendered amount is less than the
// total price after discount.
type InsufficientPaymentError struct {
	Paid     money.Amount
	Required money.Amount
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment %s is less than the total price %s", e.Paid, e.Required)
}

// NotificationError aggregates failures from revenue observers. A failing
// observer never prevents later observers from running, and the payment that
// triggered the notifications stays recorded regardless.
type NotificationError struct {
	Errs []error
}

func (e *NotificationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("revenue observers failed: %s", strings.Join(msgs, "; "))
}

func (e *NotificationError) Unwrap() []error { return e.Errs }
