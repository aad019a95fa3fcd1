package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	a := FromFloat(29.90)
	b := FromFloat(14.90)

	assert.True(t, FromFloat(44.80).Equal(a.Add(b)))
	assert.True(t, FromFloat(15.00).Equal(a.Sub(b)))
	assert.True(t, FromFloat(89.70).Equal(a.MulInt(3)))
}

func TestAmountImmutable(t *testing.T) {
	a := FromInt(10)
	_ = a.Add(FromInt(5))
	_ = a.MulInt(7)

	assert.True(t, FromInt(10).Equal(a))
}

func TestAmountScale(t *testing.T) {
	a := FromInt(200)
	scaled := a.Scale(decimal.RequireFromString("0.06"))

	assert.True(t, FromInt(12).Equal(scaled))
}

func TestAmountEqualIgnoresTrailingZeros(t *testing.T) {
	a, err := FromString("1.5")
	require.NoError(t, err)
	b, err := FromString("1.50")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestAmountFromStringInvalid(t *testing.T) {
	_, err := FromString("not-a-number")
	require.Error(t, err)
}

func TestAmountComparisons(t *testing.T) {
	assert.True(t, FromInt(1).LessThan(FromInt(2)))
	assert.True(t, FromInt(2).GreaterThan(FromInt(1)))
	assert.True(t, Zero().IsZero())
	assert.True(t, FromInt(5).Sub(FromInt(9)).IsNegative())
}

func TestAmountStringFixedTwoDigits(t *testing.T) {
	assert.Equal(t, "29.90", FromFloat(29.9).String())
	assert.Equal(t, "0.00", Zero().String())
	assert.Equal(t, "-4.50", FromFloat(-4.5).String())
}

func TestVATRate(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.06").Equal(VAT6.Rate()))
	assert.True(t, decimal.RequireFromString("0.12").Equal(VAT12.Rate()))
	assert.True(t, decimal.RequireFromString("0.25").Equal(VAT25.Rate()))

	assert.True(t, VAT25.Valid())
	assert.False(t, VATRate(19).Valid())
	assert.Equal(t, "6%", VAT6.String())
}
