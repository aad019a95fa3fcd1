//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/repository

func setupPool(t *testing.T) *InventoryRepository {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))

	_, err = pool.Exec(ctx, `INSERT INTO items (id, name, description, unit_price, vat_rate, in_stock)
		VALUES ('it-1', 'Oatmeal', '', 29.90, 6, 20)
		ON CONFLICT (id) DO UPDATE SET in_stock = 20`)
	require.NoError(t, err)

	return NewInventoryRepository(pool)
}

func TestInventoryRepository_Lookup(t *testing.T) {
	repo := setupPool(t)

	item, err := repo.Lookup(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", item.Name)
	assert.True(t, money.FromFloat(29.90).Equal(item.UnitPrice))
	assert.Equal(t, money.VAT6, item.Rate)
}

func TestInventoryRepository_LookupNotFound(t *testing.T) {
	repo := setupPool(t)

	_, err := repo.Lookup(context.Background(), "no-such-item")

	var nfErr *inventory.ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestDiscountRepository_UnknownCustomerGetsZero(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, RunMigrations(ctx, pool))

	repo := NewDiscountRepository(pool)

	frac, err := repo.FromCustomer(ctx, "no-such-customer")
	require.NoError(t, err)
	assert.True(t, frac.IsZero())

	_, err = repo.FromItems(ctx, nil)
	require.ErrorIs(t, err, discount.ErrNilItems)

	got, err := repo.FromItems(ctx, []sale.Snapshot{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
