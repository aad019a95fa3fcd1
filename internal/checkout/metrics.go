package checkout

import (
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	itemsRegistered metric.Int64Counter
	salesSettled    metric.Int64Counter
	revenue         metric.Float64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter("pos-engine/checkout")

	itemsRegistered, err := meter.Int64Counter("checkout.items.registered",
		metric.WithDescription("Item registrations accepted into a sale"))
	if err != nil {
		return nil, errors.Wrap(err, "items counter")
	}
	salesSettled, err := meter.Int64Counter("checkout.sales.settled",
		metric.WithDescription("Sales settled with a payment"))
	if err != nil {
		return nil, errors.Wrap(err, "sales counter")
	}
	revenue, err := meter.Float64Counter("checkout.revenue.total",
		metric.WithDescription("Realized revenue after discount"))
	if err != nil {
		return nil, errors.Wrap(err, "revenue counter")
	}

	return &metrics{
		itemsRegistered: itemsRegistered,
		salesSettled:    salesSettled,
		revenue:         revenue,
	}, nil
}
