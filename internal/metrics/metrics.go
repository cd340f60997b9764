// Package metrics exposes Prometheus counters for the scraper pipeline and
// an optional /metrics listener for runs supervised by a scheduler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scraper_pages_fetched_total",
		Help: "Total number of pages navigated to, labelled by page kind.",
	}, []string{"kind"})

	PageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scraper_page_failures_total",
		Help: "Total number of per-page navigation or extraction failures.",
	}, []string{"kind"})

	EventsScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_events_scraped_total",
		Help: "Total number of detail pages that produced a usable event.",
	})

	AssetsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scraper_assets_stored_total",
		Help: "Total number of images ingested to object storage, labelled by kind.",
	}, []string{"kind"})

	RowsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_rows_upserted_total",
		Help: "Total number of event rows written by the sync engine.",
	})

	RowsDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_rows_deactivated_total",
		Help: "Total number of stale event rows flipped to inactive.",
	})
)

// Serve starts a background /metrics listener on addr. Errors are ignored
// beyond the returned server handle; the listener lives until the process
// exits.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
