package simulated

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

func TestInventoryLookup(t *testing.T) {
	inv := NewInventory()

	item, err := inv.Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "BigWheel Oatmeal", item.Name)
	assert.True(t, money.FromFloat(29.90).Equal(item.UnitPrice))
	assert.Equal(t, money.VAT6, item.Rate)
}

func TestInventoryLookup_ReturnsCopies(t *testing.T) {
	inv := NewInventory()

	first, err := inv.Lookup(context.Background(), "1")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := inv.Lookup(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "BigWheel Oatmeal", second.Name)
}

func TestInventoryLookup_UnknownItem(t *testing.T) {
	inv := NewInventory()

	_, err := inv.Lookup(context.Background(), "999")

	var nfErr *inventory.ItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "999", nfErr.ID)
}

func TestInventoryLookup_BackendFailure(t *testing.T) {
	inv := NewInventory()

	_, err := inv.Lookup(context.Background(), "DBFAIL")
	require.ErrorIs(t, err, inventory.ErrBackendUnavailable)

	_, err = inv.Lookup(context.Background(), "dbfail")
	require.ErrorIs(t, err, inventory.ErrBackendUnavailable, "identifier matches case-insensitively")
}

func TestInventoryApplyStockDelta(t *testing.T) {
	inv := NewInventory()
	s := sale.New()
	item, err := inv.Lookup(context.Background(), "1")
	require.NoError(t, err)
	_, err = s.AddItem(sale.ItemInfo{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Rate:      item.Rate,
	}, 3)
	require.NoError(t, err)

	require.NoError(t, inv.ApplyStockDelta(context.Background(), s.Summary()))
	assert.Equal(t, 17, inv.InStock("1"))
}

func TestDiscountFromItems_PerDistinctLine(t *testing.T) {
	db := NewDiscountDatabase()

	got, err := db.FromItems(context.Background(), []sale.Snapshot{
		{ItemInfo: sale.ItemInfo{ID: "1"}, Quantity: 4},
		{ItemInfo: sale.ItemInfo{ID: "2"}, Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, money.FromInt(10).Equal(got), "quantity does not change the per-line amount")
}

func TestDiscountFromItems_NilItems(t *testing.T) {
	db := NewDiscountDatabase()

	_, err := db.FromItems(context.Background(), nil)
	require.ErrorIs(t, err, discount.ErrNilItems)
}

func TestDiscountFromTotal_ThresholdIsExclusive(t *testing.T) {
	db := NewDiscountDatabase()
	ctx := context.Background()

	frac, err := db.FromTotal(ctx, money.FromInt(600))
	require.NoError(t, err)
	assert.True(t, money.FromInt(60).Equal(frac.ApplyTo(money.FromInt(600))))

	frac, err = db.FromTotal(ctx, money.FromFloat(499.99))
	require.NoError(t, err)
	assert.True(t, frac.IsZero())

	frac, err = db.FromTotal(ctx, money.FromInt(500))
	require.NoError(t, err)
	assert.True(t, frac.IsZero(), "a total of exactly 500 earns nothing")
}

func TestDiscountFromCustomer(t *testing.T) {
	db := NewDiscountDatabase()
	ctx := context.Background()

	frac, err := db.FromCustomer(ctx, LoyalCustomerID)
	require.NoError(t, err)
	assert.True(t, money.FromInt(5).Equal(frac.ApplyTo(money.FromInt(100))))

	frac, err = db.FromCustomer(ctx, "456")
	require.NoError(t, err)
	assert.True(t, frac.IsZero())
}

func TestRegisterAccumulate(t *testing.T) {
	r := NewRegister(money.FromInt(1000))

	require.NoError(t, r.Accumulate(context.Background(), money.FromFloat(318.50)))
	require.NoError(t, r.Accumulate(context.Background(), money.FromFloat(81.50)))

	assert.True(t, money.FromInt(1400).Equal(r.Balance()))
}

func TestPrinterLayout(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	err := p.Print(context.Background(), sale.Receipt{
		SaleID:    "s-1",
		Timestamp: time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC),
		Items: []sale.Snapshot{
			{
				ItemInfo:     sale.ItemInfo{ID: "1", Name: "BigWheel Oatmeal"},
				Quantity:     2,
				PriceWithVAT: money.FromFloat(31.69),
				Total:        money.FromFloat(63.38),
			},
		},
		TotalPrice:         money.FromFloat(63.38),
		TotalVAT:           money.FromFloat(3.59),
		Discount:           money.FromInt(5),
		TotalAfterDiscount: money.FromFloat(58.38),
		Paid:               money.FromInt(100),
		Change:             money.FromFloat(41.62),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Time of sale: 2026-03-14 15:09")
	assert.Contains(t, out, "BigWheel Oatmeal 2 x 31.69 63.38")
	assert.Contains(t, out, "Total: 63.38")
	assert.Contains(t, out, "Discount: -5.00")
	assert.Contains(t, out, "Total after discount: 58.38")
	assert.Contains(t, out, "Cash: 100.00")
	assert.Contains(t, out, "Change: 41.62")
}
