package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

const insertRevenueEventSQL = `INSERT INTO revenue_events (id, amount)
	VALUES ($1, $2)`

var _ sale.RevenueObserver = (*RevenueLedger)(nil)

// RevenueLedger persists every settled revenue amount as a row in the
// revenue_events table.
type RevenueLedger struct {
	pool *pgxpool.Pool
}

// NewRevenueLedger returns a RevenueLedger that uses the given pool.
func NewRevenueLedger(pool *pgxpool.Pool) *RevenueLedger {
	return &RevenueLedger{pool: pool}
}

// NewRevenue inserts one revenue event.
func (r *RevenueLedger) NewRevenue(ctx context.Context, amount money.Amount) error {
	id := uuid.New().String()
	if _, err := r.pool.Exec(ctx, insertRevenueEventSQL, id, amount.Decimal()); err != nil {
		return fmt.Errorf("inserting revenue event %q: %w", id, err)
	}
	return nil
}
