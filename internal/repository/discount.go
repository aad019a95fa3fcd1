package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

const (
	sumItemDiscountsSQL = `SELECT COALESCE(SUM(d.amount * q.quantity), 0)
		FROM item_discounts d
		JOIN unnest($1::text[], $2::int[]) AS q(item_id, quantity) ON q.item_id = d.item_id`

	getTotalDiscountRateSQL = `SELECT rate FROM total_discount_rules
		WHERE threshold < $1 ORDER BY threshold DESC LIMIT 1`

	getCustomerDiscountRateSQL = `SELECT rate FROM customer_discounts WHERE customer_id = $1`
)

var _ discount.Database = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Database backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given
// pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// FromItems sums per-unit discount amounts for every discounted item in the
// snapshot, weighted by quantity. Items with no discount row contribute
// nothing.
func (r *DiscountRepository) FromItems(ctx context.Context, items []sale.Snapshot) (money.Amount, error) {
	if items == nil {
		return money.Amount{}, discount.ErrNilItems
	}
	if len(items) == 0 {
		return money.Zero(), nil
	}

	ids := make([]string, len(items))
	quantities := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
		quantities[i] = it.Quantity
	}

	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx, sumItemDiscountsSQL, ids, quantities).Scan(&sum)
	if err != nil {
		return money.Amount{}, fmt.Errorf("summing item discounts: %w", err)
	}
	return money.FromDecimal(sum), nil
}

// FromTotal returns the discount fraction of the highest threshold rule the
// total strictly exceeds, or the zero fraction when no rule matches.
func (r *DiscountRepository) FromTotal(ctx context.Context, total money.Amount) (discount.Fraction, error) {
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, getTotalDiscountRateSQL, total.Decimal()).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return discount.ZeroFraction(), nil
		}
		return discount.Fraction{}, fmt.Errorf("getting total discount rate: %w", err)
	}
	return discount.FractionFromDecimal(rate), nil
}

// FromCustomer returns the personal discount fraction for the given
// customer, or the zero fraction for unknown customers.
func (r *DiscountRepository) FromCustomer(ctx context.Context, customerID string) (discount.Fraction, error) {
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, getCustomerDiscountRateSQL, customerID).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return discount.ZeroFraction(), nil
		}
		return discount.Fraction{}, fmt.Errorf("getting customer discount rate: %w", err)
	}
	return discount.FractionFromDecimal(rate), nil
}
