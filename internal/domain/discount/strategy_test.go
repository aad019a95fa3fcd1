package discount

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// --- Mock implementations ---

type mockDatabase struct {
	itemDiscount   money.Amount
	itemErr        error
	totalFraction  Fraction
	totalErr       error
	customerRates  map[string]Fraction
	customerErr    error
	lastCustomerID string
}

func (m *mockDatabase) FromItems(_ context.Context, items []sale.Snapshot) (money.Amount, error) {
	if items == nil {
		return money.Amount{}, ErrNilItems
	}
	return m.itemDiscount, m.itemErr
}

func (m *mockDatabase) FromTotal(_ context.Context, _ money.Amount) (Fraction, error) {
	return m.totalFraction, m.totalErr
}

func (m *mockDatabase) FromCustomer(_ context.Context, customerID string) (Fraction, error) {
	m.lastCustomerID = customerID
	if m.customerErr != nil {
		return Fraction{}, m.customerErr
	}
	rate, ok := m.customerRates[customerID]
	if !ok {
		return ZeroFraction(), nil
	}
	return rate, nil
}

// --- Helpers ---

func saleWithItems(t *testing.T, totalPrice int64) *sale.Sale {
	t.Helper()
	s := sale.New()
	_, err := s.AddItem(sale.ItemInfo{
		ID:        "1",
		Name:      "flat item",
		UnitPrice: money.FromInt(totalPrice), // VAT rate zero keeps the total flat
	}, 1)
	require.NoError(t, err)
	return s
}

// --- Tests ---

func TestFractionApplyTo(t *testing.T) {
	f := FractionFromFloat(0.10)

	assert.True(t, money.FromInt(50).Equal(f.ApplyTo(money.FromInt(500))))
	assert.True(t, ZeroFraction().IsZero())
	assert.False(t, f.IsZero())
}

func TestItemBased(t *testing.T) {
	db := &mockDatabase{itemDiscount: money.FromInt(15)}
	s := saleWithItems(t, 100)

	got, err := NewItemBased(db).DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, money.FromInt(15).Equal(got))
}

func TestItemBased_DatabaseError(t *testing.T) {
	db := &mockDatabase{itemErr: errors.New("db down")}
	s := saleWithItems(t, 100)

	_, err := NewItemBased(db).DiscountOn(context.Background(), s)
	require.Error(t, err)
}

func TestTotalBased(t *testing.T) {
	db := &mockDatabase{totalFraction: FractionFromFloat(0.10)}
	s := saleWithItems(t, 600)

	got, err := NewTotalBased(db).DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, money.FromInt(60).Equal(got))
}

func TestCustomerBased_KnownCustomer(t *testing.T) {
	db := &mockDatabase{customerRates: map[string]Fraction{
		"123": FractionFromFloat(0.05),
	}}
	s := saleWithItems(t, 200)
	s.SetCustomerID("123")

	got, err := NewCustomerBased("123", db).DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, money.FromInt(10).Equal(got))
	assert.Equal(t, "123", db.lastCustomerID)
}

func TestCustomerBased_AnonymousSaleSkipsLookup(t *testing.T) {
	db := &mockDatabase{customerRates: map[string]Fraction{
		"123": FractionFromFloat(0.05),
	}}
	s := saleWithItems(t, 200)

	got, err := NewCustomerBased("123", db).DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Empty(t, db.lastCustomerID)
}

func TestCustomerBased_UnknownCustomer(t *testing.T) {
	db := &mockDatabase{}
	s := saleWithItems(t, 200)
	s.SetCustomerID("999")

	got, err := NewCustomerBased("999", db).DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestComposite_SumsChildrenInOrder(t *testing.T) {
	db := &mockDatabase{
		itemDiscount:  money.FromFloat(5),
		totalFraction: FractionFromFloat(0.05),
		customerRates: map[string]Fraction{"123": FractionFromFloat(0.05)},
	}
	s := saleWithItems(t, 150)
	s.SetCustomerID("123")

	composite := NewComposite(
		NewCustomerBased("123", db),
		NewItemBased(db),
		NewTotalBased(db),
	)

	// 150*0.05 + 5 + 150*0.05 = 20
	got, err := composite.DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, money.FromInt(20).Equal(got))
}

func TestComposite_Empty(t *testing.T) {
	s := saleWithItems(t, 150)

	got, err := NewComposite().DiscountOn(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestComposite_ChildErrorAborts(t *testing.T) {
	db := &mockDatabase{itemErr: errors.New("db down")}
	s := saleWithItems(t, 150)

	_, err := NewComposite(NewItemBased(db), NewTotalBased(db)).DiscountOn(context.Background(), s)
	require.Error(t, err)
}
