// Package simulated contains in-memory stand-ins for the external systems
// a register talks to: inventory, discount database, accounting, register
// balance and receipt printer. They let the terminal run without any
// external infrastructure.
package simulated

import (
	"context"
	"strings"

	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// BackendFailureID is the identifier that simulates an inventory database
// outage, matched case-insensitively.
const BackendFailureID = "DBFAIL"

var _ inventory.System = (*Inventory)(nil)

// Inventory is an in-memory catalog seeded with a small demo assortment.
type Inventory struct {
	items map[string]inventory.Item
}

// NewInventory builds the seeded catalog.
func NewInventory() *Inventory {
	items := []inventory.Item{
		{
			ID:          "1",
			Name:        "BigWheel Oatmeal",
			Description: "BigWheel Oatmeal 500 ml",
			UnitPrice:   money.FromFloat(29.90),
			Rate:        money.VAT6,
			InStock:     20,
		},
		{
			ID:          "2",
			Name:        "YouGoGo Blueberry",
			Description: "YouGoGo Blueberry 240 g",
			UnitPrice:   money.FromFloat(14.90),
			Rate:        money.VAT6,
			InStock:     20,
		},
		{
			ID:          "3",
			Name:        "Luxury Bread",
			Description: "Just a normal bread",
			UnitPrice:   money.FromFloat(49.90),
			Rate:        money.VAT12,
			InStock:     20,
		},
		{
			ID:          "4",
			Name:        "Golden Apple",
			Description: "It's a golden one",
			UnitPrice:   money.FromFloat(149.90),
			Rate:        money.VAT25,
			InStock:     20,
		},
	}

	inv := &Inventory{items: make(map[string]inventory.Item, len(items))}
	for _, it := range items {
		inv.items[it.ID] = it
	}
	return inv
}

// Lookup returns a copy of the catalog item with the given identifier. The
// BackendFailureID identifier simulates an unreachable backend.
func (i *Inventory) Lookup(ctx context.Context, id string) (*inventory.Item, error) {
	if strings.EqualFold(id, BackendFailureID) {
		return nil, inventory.ErrBackendUnavailable
	}
	item, ok := i.items[id]
	if !ok {
		return nil, &inventory.ItemNotFoundError{ID: id}
	}
	return &item, nil
}

// ApplyStockDelta reduces stock levels by the quantities of a concluded
// sale.
func (i *Inventory) ApplyStockDelta(ctx context.Context, summary sale.Summary) error {
	for _, sold := range summary.Items {
		item, ok := i.items[sold.ID]
		if !ok {
			return &inventory.ItemNotFoundError{ID: sold.ID}
		}
		item.InStock -= sold.Quantity
		i.items[sold.ID] = item
	}
	return nil
}

// InStock reports the current stock level for an identifier, zero when
// unknown.
func (i *Inventory) InStock(id string) int {
	return i.items[id].InStock
}
