// Package store reconciles scraped events against the PostgreSQL events
// table. Writes are idempotent upserts keyed on source_url, applied in
// fixed-size batches with per-batch failure isolation; a separate staleness
// pass deactivates previously-active rows that disappeared from the latest
// scrape without touching any other column.
package store
