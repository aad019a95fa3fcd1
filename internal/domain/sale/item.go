package sale

import "github.com/xenking/pos-engine/internal/domain/money"

// ItemInfo carries the catalog data needed to open a new line in a sale.
type ItemInfo struct {
	ID          string
	Name        string
	Description string
	UnitPrice   money.Amount
	Rate        money.VATRate
}

// Line is one product entry within a sale. Quantity mutations at this level
// are intentionally unguarded; the Sale enforces the quantity invariant at
// registration time.
type Line struct {
	info     ItemInfo
	quantity int
}

func newLine(info ItemInfo, quantity int) *Line {
	return &Line{info: info, quantity: quantity}
}

// ID returns the line's item identifier.
func (l *Line) ID() string { return l.info.ID }

// Quantity returns the current number of units on the line.
func (l *Line) Quantity() int { return l.quantity }

// IncreaseQuantity adds delta to the quantity. Negative deltas are allowed
// and can drive the quantity negative.
func (l *Line) IncreaseQuantity(delta int) { l.quantity += delta }

// SetQuantity overwrites the quantity directly.
func (l *Line) SetQuantity(q int) { l.quantity = q }

// PriceWithVAT is the unit price including VAT, recomputed on every call so
// it always reflects the current price and rate.
func (l *Line) PriceWithVAT() money.Amount {
	return l.info.UnitPrice.Add(l.info.UnitPrice.Scale(l.info.Rate.Rate()))
}

// Total is the line total including VAT for the current quantity.
func (l *Line) Total() money.Amount {
	return l.PriceWithVAT().MulInt(l.quantity)
}

// VAT is the tax portion of the line total for the current quantity.
func (l *Line) VAT() money.Amount {
	return l.info.UnitPrice.Scale(l.info.Rate.Rate()).MulInt(l.quantity)
}

// Snapshot returns an immutable view of the line including derived values.
func (l *Line) Snapshot() Snapshot {
	return Snapshot{
		ItemInfo:     l.info,
		Quantity:     l.quantity,
		PriceWithVAT: l.PriceWithVAT(),
		Total:        l.Total(),
		VAT:          l.VAT(),
	}
}

// Snapshot is an immutable view of a line at a point in time.
type Snapshot struct {
	ItemInfo
	Quantity     int
	PriceWithVAT money.Amount
	Total        money.Amount
	VAT          money.Amount
}
