// Command store-seed runs migrations and loads the item catalog and
// discount rules into PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-engine/internal/repository"
)

type itemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     int             `json:"vat_rate"`
	InStock     int             `json:"in_stock"`
}

const (
	upsertItemSQL = `INSERT INTO items (id, name, description, unit_price, vat_rate, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			unit_price = EXCLUDED.unit_price,
			vat_rate = EXCLUDED.vat_rate,
			in_stock = EXCLUDED.in_stock`

	upsertItemDiscountSQL = `INSERT INTO item_discounts (item_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (item_id) DO UPDATE SET amount = EXCLUDED.amount`

	upsertTotalRuleSQL = `INSERT INTO total_discount_rules (threshold, rate)
		VALUES ($1, $2)
		ON CONFLICT (threshold) DO UPDATE SET rate = EXCLUDED.rate`

	upsertCustomerDiscountSQL = `INSERT INTO customer_discounts (customer_id, rate)
		VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET rate = EXCLUDED.rate`
)

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedDiscountRules(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discount rules")
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var items []itemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("upserting items", slog.Int("count", len(items)))

	for _, it := range items {
		_, err := pool.Exec(ctx, upsertItemSQL,
			it.ID, it.Name, it.Description, it.UnitPrice, it.VATRate, it.InStock,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert item %s", it.ID)
		}

		slog.Info("upserted item", slog.String("id", it.ID), slog.String("name", it.Name))
	}

	return nil
}

func seedDiscountRules(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding discount rules")

	itemDiscounts := map[string]decimal.Decimal{
		"1": decimal.NewFromInt(5),
		"2": decimal.NewFromInt(5),
		"3": decimal.NewFromInt(5),
		"4": decimal.NewFromInt(5),
	}
	for id, amount := range itemDiscounts {
		if _, err := pool.Exec(ctx, upsertItemDiscountSQL, id, amount); err != nil {
			return errors.Wrapf(err, "upsert item discount %s", id)
		}
	}

	if _, err := pool.Exec(ctx, upsertTotalRuleSQL,
		decimal.NewFromInt(500), decimal.NewFromFloat(0.10),
	); err != nil {
		return errors.Wrap(err, "upsert total discount rule")
	}

	if _, err := pool.Exec(ctx, upsertCustomerDiscountSQL,
		"123", decimal.NewFromFloat(0.05),
	); err != nil {
		return errors.Wrap(err, "upsert customer discount")
	}

	slog.Info("discount rules seeded")
	return nil
}
