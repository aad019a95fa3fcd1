package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xenking/pos-engine/internal/domain/money"
)

func testItem(id string, price float64, rate money.VATRate) ItemInfo {
	return ItemInfo{
		ID:          id,
		Name:        "item " + id,
		Description: "test item " + id,
		UnitPrice:   money.FromFloat(price),
		Rate:        rate,
	}
}

func TestLineDerivedValues(t *testing.T) {
	line := newLine(testItem("1", 100, money.VAT6), 3)

	assert.True(t, money.FromInt(106).Equal(line.PriceWithVAT()))
	assert.True(t, money.FromInt(318).Equal(line.Total()))
	assert.True(t, money.FromInt(18).Equal(line.VAT()))
}

func TestLineRecomputesAfterQuantityChange(t *testing.T) {
	line := newLine(testItem("1", 100, money.VAT6), 1)
	assert.True(t, money.FromInt(106).Equal(line.Total()))

	line.IncreaseQuantity(2)
	assert.True(t, money.FromInt(318).Equal(line.Total()))

	line.SetQuantity(1)
	assert.True(t, money.FromInt(106).Equal(line.Total()))
}

func TestLineUnguardedMutations(t *testing.T) {
	line := newLine(testItem("1", 100, money.VAT6), 2)

	line.IncreaseQuantity(-5)
	assert.Equal(t, -3, line.Quantity())
	assert.True(t, line.Total().IsNegative())
}

func TestLineSnapshot(t *testing.T) {
	line := newLine(testItem("4", 149.90, money.VAT25), 2)
	snap := line.Snapshot()

	assert.Equal(t, "4", snap.ID)
	assert.Equal(t, 2, snap.Quantity)
	assert.True(t, money.FromFloat(187.375).Equal(snap.PriceWithVAT))
	assert.True(t, money.FromFloat(374.75).Equal(snap.Total))
	assert.True(t, money.FromFloat(74.95).Equal(snap.VAT))
}
