// Package revenue holds the observers notified when a sale settles: a
// structured-log observer and an append-only file ledger that survives
// restarts.
package revenue

import (
	"context"

	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

var _ sale.RevenueObserver = (*LogObserver)(nil)

// LogObserver logs each revenue event together with the running total it
// has seen since construction.
type LogObserver struct {
	lg    *zap.Logger
	total money.Amount
}

// NewLogObserver builds a LogObserver starting from a zero running total.
func NewLogObserver(lg *zap.Logger) *LogObserver {
	return &LogObserver{lg: lg, total: money.Zero()}
}

// NewRevenue records the amount into the running total and logs both.
func (o *LogObserver) NewRevenue(ctx context.Context, amount money.Amount) error {
	o.total = o.total.Add(amount)
	o.lg.Info("revenue recorded",
		zap.Stringer("amount", amount),
		zap.Stringer("running_total", o.total),
	)
	return nil
}

// Total returns the running total accumulated so far.
func (o *LogObserver) Total() money.Amount { return o.total }
