// Command loyalty-ingest mines the loyalty program's gzipped ledger
// exports for recurring customers and grants them the personal discount
// rate. The exports are far too large to hold in memory, so membership is
// approximated with one bloom filter per file and verified in a second
// pass: a customer counts as recurring when it appears in two or more
// exports.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/pos-engine/internal/repository"
)

const (
	bloomCapacity = 120_000_000
	bloomFPR      = 0.001
	numFiles      = 3
	progressEvery = 10_000_000
	minIDLen      = 3
	maxIDLen      = 24
)

const upsertCustomerDiscountSQL = `INSERT INTO customer_discounts (customer_id, rate)
	VALUES ($1, $2)
	ON CONFLICT (customer_id) DO UPDATE SET rate = EXCLUDED.rate`

// fileResult holds candidate customer IDs found in a single file during
// pass 2.
type fileResult struct {
	candidates map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
		rate        float64
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing ledgerN.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Float64Var(&rate, "rate", 0.05, "discount rate granted to recurring customers")
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

	if err := run(ctx, dataDir, databaseURL, rate); err != nil {
		slog.Error("loyalty ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("loyalty ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string, rate float64) error {
	files := make([]string, numFiles)
	for i := range numFiles {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("ledger%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: Build bloom filters concurrently.
	slog.Info("pass 1: building bloom filters", slog.Int("files", numFiles))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	// Pass 2: Find customers appearing in 2+ files.
	slog.Info("pass 2: finding recurring customers")

	recurring, err := findRecurringCustomers(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find recurring customers")
	}

	slog.Info("recurring customers found", slog.Int("count", len(recurring)))

	if len(recurring) == 0 {
		slog.Info("no customers to grant")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := grantDiscounts(ctx, pool, recurring, rate); err != nil {
		return errors.Wrap(err, "grant discounts")
	}

	return nil
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(id string) {
			if len(id) >= minIDLen && len(id) <= maxIDLen {
				filter.AddString(id)
				count++
				if count%progressEvery == 0 {
					slog.Info("pass 1 progress",
						slog.Int("file", idx+1),
						slog.Uint64("ids", count),
					)
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_ids", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findRecurringCustomers re-streams each file and checks IDs against OTHER
// files' bloom filters. A customer is recurring if it appears in 2 or more
// files.
func findRecurringCustomers(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]string, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge bitmasks from all files.
	merged := make(map[string]uint)
	for _, r := range results {
		for id, mask := range r.candidates {
			merged[id] |= mask
		}
	}

	// Keep customers appearing in 2+ files.
	var recurring []string
	for id, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			recurring = append(recurring, id)
		}
	}

	return recurring, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		candidates := make(map[string]uint)
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(id string) {
			if len(id) < minIDLen || len(id) > maxIDLen {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("ids", count),
				)
			}

			// Check if this ID appears in any OTHER file's bloom filter.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(id) {
					candidates[id] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_ids", count),
			slog.Int("candidates", len(candidates)),
		)

		results[idx] = fileResult{candidates: candidates}
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(id string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// grantDiscounts upserts the personal discount rate for every recurring
// customer.
func grantDiscounts(ctx context.Context, pool *pgxpool.Pool, customers []string, rate float64) error {
	slog.Info("granting discounts", slog.Int("count", len(customers)))

	value := decimal.NewFromFloat(rate)
	for i, id := range customers {
		if _, err := pool.Exec(ctx, upsertCustomerDiscountSQL, id, value); err != nil {
			return errors.Wrapf(err, "upsert customer discount %s", id)
		}

		if (i+1)%100 == 0 || i+1 == len(customers) {
			slog.Info("grant progress", slog.Int("granted", i+1), slog.Int("total", len(customers)))
		}
	}

	return nil
}
