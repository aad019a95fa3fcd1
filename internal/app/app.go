// Package app wires the terminal together: configuration, backends,
// revenue observers and the checkout controller.
package app

import (
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/checkout"
	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
	"github.com/xenking/pos-engine/internal/repository"
	"github.com/xenking/pos-engine/internal/revenue"
	"github.com/xenking/pos-engine/internal/simulated"
)

// Run creates all dependencies and drives one register session. It is the
// single wiring point for the terminal.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	var (
		inv       inventory.System
		discounts discount.Database
		observers []sale.RevenueObserver
	)

	if cfg.DatabaseURL != "" {
		lg.Info("using postgres backends")

		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := repository.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		inv = repository.NewInventoryRepository(pool)
		discounts = repository.NewDiscountRepository(pool)
		observers = append(observers, repository.NewRevenueLedger(pool))
	} else {
		lg.Info("using simulated backends")
		inv = simulated.NewInventory()
		discounts = simulated.NewDiscountDatabase()
	}

	fileLedger, err := revenue.NewFileLedger(cfg.LedgerPath)
	if err != nil {
		return errors.Wrap(err, "open revenue ledger")
	}
	observers = append(observers,
		fileLedger,
		revenue.NewLogObserver(lg.Named("revenue")),
	)

	receiptOut := io.Writer(os.Stdout)
	if cfg.ReceiptOut != "" {
		f, err := os.OpenFile(cfg.ReceiptOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "open receipt output")
		}
		defer f.Close()
		receiptOut = f
	}

	register := simulated.NewRegister(money.FromInt(int64(cfg.RegisterBalance)))

	ctrl, err := checkout.New(checkout.Config{
		Inventory:      inv,
		Discounts:      discounts,
		Accounting:     simulated.NewAccounting(lg.Named("accounting")),
		Register:       register,
		Printer:        simulated.NewPrinter(receiptOut),
		Logger:         lg.Named("checkout"),
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create checkout controller")
	}
	for _, o := range observers {
		ctrl.AddRevenueObserver(o)
	}

	if err := runSession(ctx, lg, ctrl, cfg.CustomerID); err != nil {
		return errors.Wrap(err, "run session")
	}

	lg.Info("register closed", zap.Stringer("balance", register.Balance()))
	return nil
}
