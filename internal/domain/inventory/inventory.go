// Package inventory defines the contract to the external inventory system.
package inventory

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// ErrBackendUnavailable reports an outage of the inventory backend. It is
// distinct from a missing item so callers can choose different remediation
// (alert and retry vs. re-scan).
var ErrBackendUnavailable = errors.New("inventory backend unavailable")

// ItemNotFoundError indicates the identifier is unknown to the inventory.
type ItemNotFoundError struct {
	ID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found in inventory", e.ID)
}

// Item is a catalog record as known to the inventory system.
type Item struct {
	ID          string
	Name        string
	Description string
	UnitPrice   money.Amount
	Rate        money.VATRate
	InStock     int
}

// System is the external inventory collaborator.
type System interface {
	// Lookup resolves an item identifier to its catalog record. Unknown
	// identifiers yield *ItemNotFoundError; backend outages yield
	// ErrBackendUnavailable.
	Lookup(ctx context.Context, id string) (*Item, error)
	// ApplyStockDelta decrements stock levels for every line of a
	// completed sale.
	ApplyStockDelta(ctx context.Context, summary sale.Summary) error
}
