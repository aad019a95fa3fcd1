package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

const (
	getItemSQL = `SELECT id, name, description, unit_price, vat_rate, in_stock
		FROM items WHERE id = $1`

	decrementStockSQL = `UPDATE items SET in_stock = in_stock - $2 WHERE id = $1`
)

var _ inventory.System = (*InventoryRepository)(nil)

// InventoryRepository implements inventory.System backed by PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns an InventoryRepository that uses the given
// pool.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// Lookup returns the catalog item with the given identifier.
func (r *InventoryRepository) Lookup(ctx context.Context, id string) (*inventory.Item, error) {
	rows, err := r.pool.Query(ctx, getItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting item %q: %w: %w", id, inventory.ErrBackendUnavailable, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &inventory.ItemNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("getting item %q: %w", id, err)
	}
	return &item, nil
}

// ApplyStockDelta decrements stock levels for every line of a concluded
// sale.
func (r *InventoryRepository) ApplyStockDelta(ctx context.Context, summary sale.Summary) error {
	for _, it := range summary.Items {
		if _, err := r.pool.Exec(ctx, decrementStockSQL, it.ID, it.Quantity); err != nil {
			return fmt.Errorf("decrementing stock for %q: %w", it.ID, err)
		}
	}
	return nil
}

func scanItem(row pgx.CollectableRow) (inventory.Item, error) {
	var (
		item  inventory.Item
		price decimal.Decimal
		rate  int64
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &rate, &item.InStock)
	item.UnitPrice = money.FromDecimal(price)
	item.Rate = money.VATRate(rate)
	return item, err
}
