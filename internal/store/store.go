package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shareef6907/BahrainNights-sub004/internal/event"
	"github.com/shareef6907/BahrainNights-sub004/internal/logger"
	"github.com/shareef6907/BahrainNights-sub004/internal/metrics"
)

const (
	// Source tags every row this pipeline owns.
	Source = "platinumlist"

	upsertBatchSize     = 50
	deactivateBatchSize = 100
)

// eventColumns is the column list the upsert writes, in placeholder order.
var eventColumns = []string{
	"title", "description", "price", "price_currency", "image_url",
	"cover_url", "venue", "location", "category", "slug", "source",
	"source_url", "affiliate_url", "external_id", "start_date", "end_date",
	"start_time", "is_active", "last_scraped_at", "updated_at",
}

// db is the slice of pgxpool.Pool the repository uses; tests substitute a
// fake.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository implements the sync engine against PostgreSQL
type Repository struct {
	db   db
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed repository
func NewRepository(ctx context.Context, connString string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: pool, pool: pool}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// UpsertEvents writes the scraped records in fixed-size batches using
// insert-or-update keyed on source_url. A failing batch is logged and its
// rows excluded from the returned count; the next batch still runs.
func (r *Repository) UpsertEvents(ctx context.Context, records []*event.ScrapedEvent) int {
	total := 0

	for _, batch := range chunkRecords(records, upsertBatchSize) {
		query, args := buildUpsertQuery(batch)

		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			logger.Error("Upsert batch failed", logger.Fields{
				"batch_size": len(batch),
			}, err)
			continue
		}

		written := int(tag.RowsAffected())
		total += written
		metrics.RowsUpserted.Add(float64(written))
	}

	return total
}

// DeactivateStale flips is_active to false on every previously-active row
// whose source_url is absent from the latest scrape. Failing to load the
// active set is fatal; individual update batches are isolated like the
// upsert batches. No other column is touched.
func (r *Repository) DeactivateStale(ctx context.Context, scrapedURLs []string) (int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT source_url FROM events WHERE source = $1 AND is_active = true`, Source)
	if err != nil {
		return 0, fmt.Errorf("failed to load active events: %w", err)
	}

	active := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan active event: %w", err)
		}
		active = append(active, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read active events: %w", err)
	}

	stale := staleURLs(active, scrapedURLs)
	if len(stale) == 0 {
		return 0, nil
	}

	total := 0
	for _, batch := range chunkStrings(stale, deactivateBatchSize) {
		tag, err := r.db.Exec(ctx,
			`UPDATE events SET is_active = false WHERE source = $1 AND source_url = ANY($2)`,
			Source, batch)
		if err != nil {
			logger.Error("Deactivation batch failed", logger.Fields{
				"batch_size": len(batch),
			}, err)
			continue
		}

		deactivated := int(tag.RowsAffected())
		total += deactivated
		metrics.RowsDeactivated.Add(float64(deactivated))
	}

	return total, nil
}

// staleURLs computes the active URLs missing from the latest scrape.
func staleURLs(active, scraped []string) []string {
	seen := make(map[string]bool, len(scraped))
	for _, u := range scraped {
		seen[u] = true
	}

	stale := make([]string, 0)
	for _, u := range active {
		if !seen[u] {
			stale = append(stale, u)
		}
	}
	return stale
}

// chunkRecords splits records into batches of at most size.
func chunkRecords(records []*event.ScrapedEvent, size int) [][]*event.ScrapedEvent {
	batches := make([][]*event.ScrapedEvent, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// chunkStrings splits urls into batches of at most size.
func chunkStrings(urls []string, size int) [][]string {
	batches := make([][]string, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := start + size
		if end > len(urls) {
			end = len(urls)
		}
		batches = append(batches, urls[start:end])
	}
	return batches
}

// buildUpsertQuery renders a multi-row insert with conflict resolution on
// source_url. Every non-key column is overwritten on conflict so later
// scrapes win.
func buildUpsertQuery(batch []*event.ScrapedEvent) (string, []any) {
	valueRows := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*len(eventColumns))
	argPos := 1

	now := time.Now().UTC()
	for _, rec := range batch {
		placeholders := make([]string, len(eventColumns))
		for i := range eventColumns {
			placeholders[i] = fmt.Sprintf("$%d", argPos)
			argPos++
		}
		valueRows = append(valueRows, "("+strings.Join(placeholders, ", ")+")")

		args = append(args,
			rec.Title, rec.Description, rec.Price, rec.PriceCurrency,
			rec.ImageURL, rec.CoverURL, rec.Venue, rec.Location,
			rec.Category, event.SlugForKey(rec.Title), Source,
			rec.OriginalURL, rec.AffiliateURL, rec.ExternalID,
			rec.StartDate, rec.EndDate, rec.StartTime, true, now, now,
		)
	}

	updates := make([]string, 0, len(eventColumns))
	for _, col := range eventColumns {
		if col == "source_url" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}

	query := fmt.Sprintf(
		"INSERT INTO events (%s) VALUES %s ON CONFLICT (source_url) DO UPDATE SET %s",
		strings.Join(eventColumns, ", "),
		strings.Join(valueRows, ", "),
		strings.Join(updates, ", "),
	)
	return query, args
}
