package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shareef6907/BahrainNights-sub004/internal/assets"
	"github.com/shareef6907/BahrainNights-sub004/internal/browser"
	"github.com/shareef6907/BahrainNights-sub004/internal/config"
	"github.com/shareef6907/BahrainNights-sub004/internal/crawler"
	"github.com/shareef6907/BahrainNights-sub004/internal/event"
	"github.com/shareef6907/BahrainNights-sub004/internal/logger"
	"github.com/shareef6907/BahrainNights-sub004/internal/metrics"
	"github.com/shareef6907/BahrainNights-sub004/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagAffiliateCode  string
	flagBaseOrigin     string
	flagConversionRate float64
	flagRequestDelay   time.Duration
	flagMaxRetries     int
	flagDatabaseURL    string
	flagMetricsAddr    string
	flagHeadless       bool
	flagFormat         string
	flagVerbose        bool
)

// NewRootCmd creates the root command. Flag defaults come from the
// environment-backed config so every knob is overridable either way.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "events-scraper",
		Short: "Scrape Platinumlist Bahrain events into the events database",
		Long: `Runs the full event ingestion pipeline: discovers event URLs across
the category listing pages, extracts each detail page, ingests images into
object storage, upserts the results, and deactivates events that have
disappeared from the site.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, cfg)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flagAffiliateCode, "affiliate-code", cfg.AffiliateCode, "Affiliate code embedded in derived event URLs")
	cmd.Flags().StringVar(&flagBaseOrigin, "base-origin", cfg.BaseOrigin, "Origin of the target site")
	cmd.Flags().Float64Var(&flagConversionRate, "conversion-rate", cfg.ConversionRate, "USD to BHD conversion rate")
	cmd.Flags().DurationVar(&flagRequestDelay, "request-delay", cfg.RequestDelay, "Delay applied after every page navigation")
	cmd.Flags().IntVar(&flagMaxRetries, "max-retries", cfg.MaxRetries, "Retry budget for image fetches")
	cmd.Flags().StringVar(&flagDatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string (or env: DATABASE_URL)")
	cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus listen address, empty disables")
	cmd.Flags().BoolVar(&flagHeadless, "headless", cfg.Headless, "Run the browser headless")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, cfg *config.Config) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	// Fold flag overrides back into the run config
	cfg.AffiliateCode = flagAffiliateCode
	cfg.BaseOrigin = flagBaseOrigin
	cfg.ConversionRate = flagConversionRate
	cfg.RequestDelay = flagRequestDelay
	cfg.MaxRetries = flagMaxRetries
	cfg.DatabaseURL = flagDatabaseURL
	cfg.MetricsAddr = flagMetricsAddr
	cfg.Headless = flagHeadless

	result := RunPipeline(cmd.Context(), cfg)

	if err := WriteOutput(os.Stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("scrape run failed: %s", strings.Join(result.Errors, "; "))
	}
	return nil
}

// RunPipeline executes the full pipeline and captures the outcome. Fatal
// failures surface in the result rather than as a panic; per-page and
// per-batch failures have already been absorbed downstream.
func RunPipeline(ctx context.Context, cfg *config.Config) *RunResult {
	start := time.Now()
	result := &RunResult{Errors: make([]string, 0)}

	defer func() {
		result.Duration = time.Since(start).Round(time.Millisecond).String()
	}()

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
	}

	repo, err := store.NewRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	defer repo.Close()

	session, err := browser.NewChromeSession(ctx, cfg.Headless)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	defer session.Close()

	events, err := crawler.New(session, newAssetIngester(cfg), cfg).Run(ctx)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.TotalScraped = len(events)

	result.TotalUpserted = repo.UpsertEvents(ctx, events)

	deactivated, err := repo.DeactivateStale(ctx, scrapedURLs(events))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.TotalDeactivated = deactivated

	result.Success = true

	logger.Info("Scrape run complete", logger.Fields{
		"scraped":     result.TotalScraped,
		"upserted":    result.TotalUpserted,
		"deactivated": result.TotalDeactivated,
	})

	return result
}

// newAssetIngester builds the asset pipeline when storage is configured.
// A missing or broken storage configuration degrades to a nil ingester,
// which keeps remote image URLs; it does not block the run.
func newAssetIngester(cfg *config.Config) crawler.AssetIngester {
	if cfg.StorageEndpoint == "" {
		return nil
	}

	pipeline, err := assets.New(cfg)
	if err != nil {
		logger.Error("Asset storage unavailable, keeping remote image URLs", logger.Fields{
			"endpoint": cfg.StorageEndpoint,
		}, err)
		return nil
	}
	return pipeline
}

// scrapedURLs collects the natural keys of the scraped batch for the
// staleness pass.
func scrapedURLs(events []*event.ScrapedEvent) []string {
	urls := make([]string, 0, len(events))
	for _, evt := range events {
		urls = append(urls, evt.OriginalURL)
	}
	return urls
}
