package simulated

import (
	"context"
	"fmt"
	"io"

	"github.com/go-faster/errors"

	"github.com/xenking/pos-engine/internal/checkout"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

var _ checkout.ReceiptPrinter = (*Printer)(nil)

// Printer renders receipts as plain text onto an io.Writer, normally the
// terminal's stdout.
type Printer struct {
	out io.Writer
}

// NewPrinter builds a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print writes the receipt in the store's fixed text layout.
func (p *Printer) Print(ctx context.Context, r sale.Receipt) error {
	var b []byte
	b = fmt.Appendf(b, "------------------ Begin receipt ------------------\n")
	b = fmt.Appendf(b, "Time of sale: %s\n\n", r.Timestamp.Format("2006-01-02 15:04"))

	for _, it := range r.Items {
		b = fmt.Appendf(b, "%s %d x %s %s\n", it.Name, it.Quantity, it.PriceWithVAT, it.Total)
	}

	b = fmt.Appendf(b, "\nTotal: %s\n", r.TotalPrice)
	b = fmt.Appendf(b, "Discount: -%s\n", r.Discount)
	b = fmt.Appendf(b, "Total after discount: %s\n", r.TotalAfterDiscount)
	b = fmt.Appendf(b, "VAT: %s\n\n", r.TotalVAT)
	b = fmt.Appendf(b, "Cash: %s\n", r.Paid)
	b = fmt.Appendf(b, "Change: %s\n", r.Change)
	b = fmt.Appendf(b, "------------------- End receipt -------------------\n")

	if _, err := p.out.Write(b); err != nil {
		return errors.Wrap(err, "write receipt")
	}
	return nil
}
