package simulated

import (
	"context"

	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/checkout"
	"github.com/xenking/pos-engine/internal/domain/money"
)

var (
	_ checkout.RegisterLedger = (*Register)(nil)
	_ checkout.AccountingSink = (*Accounting)(nil)
)

// Register tracks the cash balance of one physical register.
type Register struct {
	balance money.Amount
}

// NewRegister opens a register with the given starting balance.
func NewRegister(initial money.Amount) *Register {
	return &Register{balance: initial}
}

// Accumulate adds a realized sale total to the balance.
func (r *Register) Accumulate(ctx context.Context, total money.Amount) error {
	r.balance = r.balance.Add(total)
	return nil
}

// Balance returns the current register balance.
func (r *Register) Balance() money.Amount { return r.balance }

// Accounting stands in for the store's bookkeeping system. Payments are
// only logged.
type Accounting struct {
	lg *zap.Logger
}

// NewAccounting builds the logging accounting sink.
func NewAccounting(lg *zap.Logger) *Accounting {
	return &Accounting{lg: lg}
}

// RecordPayment logs the settled payment amount.
func (a *Accounting) RecordPayment(ctx context.Context, amount money.Amount) error {
	a.lg.Info("accounting updated", zap.Stringer("payment", amount))
	return nil
}
