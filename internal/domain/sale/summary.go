package sale

import (
	"time"

	"github.com/xenking/pos-engine/internal/domain/money"
)

// Summary is an immutable view of the sale's items and totals, consumed by
// the inventory and accounting collaborators.
type Summary struct {
	SaleID     string
	Items      []Snapshot
	LineCount  int
	TotalPrice money.Amount
	TotalVAT   money.Amount
}

// Receipt extends Summary with settlement details for printing.
type Receipt struct {
	SaleID             string
	Timestamp          time.Time
	Items              []Snapshot
	LineCount          int
	TotalPrice         money.Amount
	TotalVAT           money.Amount
	Discount           money.Amount
	TotalAfterDiscount money.Amount
	Paid               money.Amount
	Change             money.Amount
}

// Summary builds a snapshot of the sale's current items and totals. The
// item count equals the number of distinct registered identifiers, not the
// number of units.
func (s *Sale) Summary() Summary {
	return Summary{
		SaleID:     s.id,
		Items:      s.Lines(),
		LineCount:  len(s.lines),
		TotalPrice: s.TotalPrice(),
		TotalVAT:   s.TotalVAT(),
	}
}

// Receipt builds the full settlement snapshot. It fails with ErrNotSettled
// before a payment has been recorded.
func (s *Sale) Receipt() (Receipt, error) {
	change, err := s.Change()
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{
		SaleID:             s.id,
		Timestamp:          s.startedAt,
		Items:              s.Lines(),
		LineCount:          len(s.lines),
		TotalPrice:         s.TotalPrice(),
		TotalVAT:           s.TotalVAT(),
		Discount:           s.discount,
		TotalAfterDiscount: s.TotalAfterDiscount(),
		Paid:               *s.payment,
		Change:             change,
	}, nil
}
