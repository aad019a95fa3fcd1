package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/checkout"
	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// runSession drives one scripted cashier session: items are scanned
// (including a repeated one, an unknown identifier and one that trips a
// backend outage), a discount is requested, and the sale is settled with
// cash.
func runSession(ctx context.Context, lg *zap.Logger, ctrl *checkout.Controller, customerID string) error {
	ctrl.InitiateSale()

	scans := []string{"1", "1", "2", "3", "4", "1", "999", "DBFAIL"}
	for _, id := range scans {
		snap, err := ctrl.RegisterItem(ctx, id)
		if err != nil {
			var notFound *inventory.ItemNotFoundError
			switch {
			case errors.As(err, &notFound):
				lg.Warn("unknown item identifier, ask the customer to rescan",
					zap.String("item_id", id))
			case errors.Is(err, inventory.ErrBackendUnavailable):
				lg.Warn("inventory backend unreachable, skipping item",
					zap.String("item_id", id), zap.Error(err))
			default:
				return errors.Wrapf(err, "register item %q", id)
			}
			continue
		}

		total, err := ctrl.RunningTotal()
		if err != nil {
			return errors.Wrap(err, "running total")
		}
		vat, err := ctrl.RunningVAT()
		if err != nil {
			return errors.Wrap(err, "running vat")
		}
		lg.Info("item registered",
			zap.String("item_id", snap.ID),
			zap.String("name", snap.Name),
			zap.Int("quantity", snap.Quantity),
			zap.Stringer("running_total", total),
			zap.Stringer("running_vat", vat),
		)
	}

	if err := ctrl.ApplyDiscount(ctx, customerID); err != nil {
		lg.Warn("no discounts applied", zap.Error(err))
	}

	total, err := ctrl.EndSale()
	if err != nil {
		return errors.Wrap(err, "end sale")
	}
	disc, err := ctrl.RunningDiscount()
	if err != nil {
		return errors.Wrap(err, "running discount")
	}
	lg.Info("sale ended",
		zap.Stringer("total_after_discount", total),
		zap.Stringer("discount", disc),
	)

	payment := total.Add(money.FromInt(100))
	conclusion, err := ctrl.ConcludeSale(ctx, payment)
	if err != nil {
		var notify *sale.NotificationError
		if !errors.As(err, &notify) {
			return errors.Wrap(err, "conclude sale")
		}
		lg.Warn("some revenue observers failed", zap.Error(notify))
	}

	lg.Info("sale settled",
		zap.Stringer("paid", payment),
		zap.Stringer("change", conclusion.Change),
	)
	return nil
}
