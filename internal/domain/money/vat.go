package money

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// VATRate is a value-added tax rate in whole percent. Only the declared
// constants are valid rates; the zero value is not.
type VATRate int64

const (
	// VAT6 is the reduced 6% rate (groceries).
	VAT6 VATRate = 6
	// VAT12 is the intermediate 12% rate (foodstuffs).
	VAT12 VATRate = 12
	// VAT25 is the standard 25% rate.
	VAT25 VATRate = 25
)

var hundred = decimal.NewFromInt(100)

// Rate returns the fractional form of the rate, e.g. 0.06 for VAT6.
func (r VATRate) Rate() decimal.Decimal {
	return decimal.NewFromInt(int64(r)).Div(hundred)
}

// Percent returns the rate in whole percent, e.g. 6 for VAT6.
func (r VATRate) Percent() int64 { return int64(r) }

// Valid reports whether r is one of the declared rates.
func (r VATRate) Valid() bool {
	switch r {
	case VAT6, VAT12, VAT25:
		return true
	default:
		return false
	}
}

func (r VATRate) String() string {
	return strconv.FormatInt(int64(r), 10) + "%"
}
