// Package checkout orchestrates the sale lifecycle against the external
// inventory, accounting, register and printer collaborators.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/domain/discount"
	"github.com/xenking/pos-engine/internal/domain/inventory"
	"github.com/xenking/pos-engine/internal/domain/money"
	"github.com/xenking/pos-engine/internal/domain/sale"
)

// AccountingSink receives each settled payment amount. Fire and forget:
// the controller never reads anything back.
type AccountingSink interface {
	RecordPayment(ctx context.Context, amount money.Amount) error
}

// RegisterLedger accumulates realized sale totals into a running balance.
type RegisterLedger interface {
	Accumulate(ctx context.Context, total money.Amount) error
}

// ReceiptPrinter renders a receipt for the customer.
type ReceiptPrinter interface {
	Print(ctx context.Context, receipt sale.Receipt) error
}

// ErrNoActiveSale is returned when an operation requires a sale that has
// not been initiated.
var ErrNoActiveSale = errors.New("no active sale: call InitiateSale first")

// Config carries the collaborators a Controller is built from. Inventory,
// Discounts, Accounting, Register and Printer are required; the rest
// default sensibly.
type Config struct {
	Inventory  inventory.System
	Discounts  discount.Database
	Accounting AccountingSink
	Register   RegisterLedger
	Printer    ReceiptPrinter

	Logger         *zap.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Controller drives one register session: it owns the current sale, the
// active discount strategy, and the revenue observers carried across sale
// boundaries. It is not safe for concurrent use; one Controller serves one
// register.
type Controller struct {
	inventory  inventory.System
	discounts  discount.Database
	accounting AccountingSink
	register   RegisterLedger
	printer    ReceiptPrinter

	lg      *zap.Logger
	tracer  trace.Tracer
	metrics *metrics

	observers []sale.RevenueObserver
	strategy  sale.DiscountStrategy
	sale      *sale.Sale
}

// New validates the configuration and returns a ready Controller.
func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Inventory == nil:
		return nil, errors.New("checkout: inventory system is required")
	case cfg.Discounts == nil:
		return nil, errors.New("checkout: discount database is required")
	case cfg.Accounting == nil:
		return nil, errors.New("checkout: accounting sink is required")
	case cfg.Register == nil:
		return nil, errors.New("checkout: register ledger is required")
	case cfg.Printer == nil:
		return nil, errors.New("checkout: receipt printer is required")
	}

	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	m, err := newMetrics(mp)
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}

	return &Controller{
		inventory:  cfg.Inventory,
		discounts:  cfg.Discounts,
		accounting: cfg.Accounting,
		register:   cfg.Register,
		printer:    cfg.Printer,
		lg:         lg,
		tracer:     tp.Tracer("pos-engine/checkout"),
		metrics:    m,
	}, nil
}

// InitiateSale starts a fresh sale and re-attaches every registered revenue
// observer to it, so observers registered before a sale survive sale
// boundaries. Any previously active discount strategy is cleared.
func (c *Controller) InitiateSale() {
	c.sale = sale.New()
	c.strategy = nil
	for _, o := range c.observers {
		c.sale.AddRevenueObserver(o)
	}
	c.lg.Info("sale initiated", zap.String("sale_id", c.sale.ID()))
}

// RegisterItem scans one unit of the given identifier into the current
// sale. An identifier already in the sale has its quantity increased by
// one; otherwise the item is resolved through the inventory system, whose
// typed not-found and backend-failure errors propagate unchanged. While a
// discount strategy is active it is re-evaluated after every registration
// so running totals stay current.
func (c *Controller) RegisterItem(ctx context.Context, id string) (sale.Snapshot, error) {
	if c.sale == nil {
		return sale.Snapshot{}, ErrNoActiveSale
	}
	ctx, span := c.tracer.Start(ctx, "checkout.RegisterItem",
		trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	var (
		snap sale.Snapshot
		err  error
	)
	if c.sale.HasItem(id) {
		snap, err = c.sale.IncreaseQuantity(id, 1)
		if err != nil {
			return sale.Snapshot{}, err
		}
	} else {
		item, lookupErr := c.inventory.Lookup(ctx, id)
		if lookupErr != nil {
			return sale.Snapshot{}, lookupErr
		}
		snap, err = c.sale.AddItem(sale.ItemInfo{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Rate:        item.Rate,
		}, 1)
		if err != nil {
			return sale.Snapshot{}, err
		}
	}

	if c.strategy != nil {
		if err := c.sale.CalculateDiscounts(ctx, c.strategy); err != nil {
			return sale.Snapshot{}, err
		}
	}

	c.metrics.itemsRegistered.Add(ctx, 1)
	return snap, nil
}

// ApplyDiscount installs the composite customer/item/total strategy for the
// given customer, stamps the customer identifier on the sale, and evaluates
// the strategy immediately.
func (c *Controller) ApplyDiscount(ctx context.Context, customerID string) error {
	if c.sale == nil {
		return ErrNoActiveSale
	}
	strategy := discount.NewComposite(
		discount.NewCustomerBased(customerID, c.discounts),
		discount.NewItemBased(c.discounts),
		discount.NewTotalBased(c.discounts),
	)
	c.strategy = strategy
	c.sale.SetCustomerID(customerID)
	return c.sale.CalculateDiscounts(ctx, strategy)
}

// EndSale finalizes the registration phase and returns the total price
// after discount without mutating the sale.
func (c *Controller) EndSale() (money.Amount, error) {
	if c.sale == nil {
		return money.Amount{}, ErrNoActiveSale
	}
	return c.sale.TotalAfterDiscount(), nil
}

// Conclusion is the outcome of a settled sale.
type Conclusion struct {
	Change  money.Amount
	Receipt sale.Receipt
}

// ConcludeSale settles the payment and forwards the outcome to the register
// ledger, accounting, inventory and printer collaborators, in that fixed
// order. Collaborator failures are logged and do not abort later steps or
// roll back earlier ones. When revenue observers fail during settlement the
// returned error is a *sale.NotificationError and the Conclusion is still
// valid: the sale is settled and every collaborator was updated.
func (c *Controller) ConcludeSale(ctx context.Context, payment money.Amount) (Conclusion, error) {
	if c.sale == nil {
		return Conclusion{}, ErrNoActiveSale
	}
	ctx, span := c.tracer.Start(ctx, "checkout.ConcludeSale")
	defer span.End()

	payErr := c.sale.Pay(ctx, payment)
	if payErr != nil {
		var notifyErr *sale.NotificationError
		if !errors.As(payErr, &notifyErr) {
			return Conclusion{}, payErr
		}
	}

	total := c.sale.TotalAfterDiscount()
	change, err := c.sale.Change()
	if err != nil {
		return Conclusion{}, err
	}
	summary := c.sale.Summary()
	receipt, err := c.sale.Receipt()
	if err != nil {
		return Conclusion{}, err
	}

	if err := c.register.Accumulate(ctx, total); err != nil {
		c.lg.Error("register update failed",
			zap.String("sale_id", summary.SaleID), zap.Error(err))
	}
	if err := c.accounting.RecordPayment(ctx, payment); err != nil {
		c.lg.Error("accounting update failed",
			zap.String("sale_id", summary.SaleID), zap.Error(err))
	}
	if err := c.inventory.ApplyStockDelta(ctx, summary); err != nil {
		c.lg.Error("inventory update failed",
			zap.String("sale_id", summary.SaleID), zap.Error(err))
	}
	if err := c.printer.Print(ctx, receipt); err != nil {
		c.lg.Error("receipt printing failed",
			zap.String("sale_id", summary.SaleID), zap.Error(err))
	}

	c.metrics.salesSettled.Add(ctx, 1)
	c.metrics.revenue.Add(ctx, total.Decimal().InexactFloat64())
	c.lg.Info("sale concluded",
		zap.String("sale_id", summary.SaleID),
		zap.Stringer("total", total),
		zap.Stringer("change", change),
	)

	return Conclusion{Change: change, Receipt: receipt}, payErr
}

// RunningTotal is the live total price including VAT for all items
// registered so far.
func (c *Controller) RunningTotal() (money.Amount, error) {
	if c.sale == nil {
		return money.Amount{}, ErrNoActiveSale
	}
	return c.sale.TotalPrice(), nil
}

// RunningVAT is the live total VAT for all items registered so far.
func (c *Controller) RunningVAT() (money.Amount, error) {
	if c.sale == nil {
		return money.Amount{}, ErrNoActiveSale
	}
	return c.sale.TotalVAT(), nil
}

// RunningDiscount is the discount as last evaluated for the current sale.
func (c *Controller) RunningDiscount() (money.Amount, error) {
	if c.sale == nil {
		return money.Amount{}, ErrNoActiveSale
	}
	return c.sale.Discount(), nil
}

// AddRevenueObserver registers an observer for the current sale, if any,
// and for every future sale started by this controller.
func (c *Controller) AddRevenueObserver(o sale.RevenueObserver) {
	c.observers = append(c.observers, o)
	if c.sale != nil {
		c.sale.AddRevenueObserver(o)
	}
}
