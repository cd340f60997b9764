package crawler

import (
	"context"
	"time"

	"github.com/shareef6907/BahrainNights-sub004/internal/assets"
	"github.com/shareef6907/BahrainNights-sub004/internal/browser"
	"github.com/shareef6907/BahrainNights-sub004/internal/config"
	"github.com/shareef6907/BahrainNights-sub004/internal/event"
	"github.com/shareef6907/BahrainNights-sub004/internal/extract"
	"github.com/shareef6907/BahrainNights-sub004/internal/logger"
	"github.com/shareef6907/BahrainNights-sub004/internal/metrics"
)

// Category is one listing endpoint on the target site. Categories are
// crawled in declaration order.
type Category struct {
	Name string
	Path string
}

// Categories is the fixed set of listing pages one run traverses.
var Categories = []Category{
	{"concerts", "/concerts"},
	{"nightlife", "/nightlife"},
	{"comedy", "/comedy"},
	{"theatre", "/theatre"},
	{"sports", "/sports"},
	{"family", "/kids-family"},
	{"festivals", "/festivals"},
	{"things-to-do", "/things-to-do"},
}

const (
	// Settle times after navigation, before the DOM snapshot is taken.
	listingSettle = 3 * time.Second
	detailSettle  = 2 * time.Second

	// Listing pages lazy-load cards on scroll.
	scrollCycles = 5
	scrollStep   = 1000
	scrollSettle = 500 * time.Millisecond
)

// AssetIngester is the slice of the asset pipeline the crawler drives.
// A nil ingester leaves the remote image URLs on the scraped events.
type AssetIngester interface {
	Fetch(ctx context.Context, remoteURL string) []byte
	Store(ctx context.Context, data []byte, slug string, kind assets.ImageKind) assets.StoreResult
}

// Crawler sequences listing discovery and detail extraction over a single
// browser session. Everything runs sequentially: one page, one navigation
// at a time, a fixed delay after each.
type Crawler struct {
	session browser.Session
	ingest  AssetIngester
	cfg     *config.Config
	sleep   func(time.Duration)
}

// New creates a crawler bound to an open browser session.
func New(session browser.Session, ingest AssetIngester, cfg *config.Config) *Crawler {
	return &Crawler{
		session: session,
		ingest:  ingest,
		cfg:     cfg,
		sleep:   time.Sleep,
	}
}

// claim records which category first discovered a URL. Later categories
// never reassign it.
type claim struct {
	url      string
	category Category
}

// Run executes one full crawl: every category's listing page, then every
// discovered detail page. Per-page failures are logged and skipped; Run
// only fails on context cancellation.
func (c *Crawler) Run(ctx context.Context) ([]*event.ScrapedEvent, error) {
	claims := c.discover(ctx)

	logger.Info("Discovery complete", logger.Fields{
		"urls": len(claims),
	})

	events := make([]*event.ScrapedEvent, 0, len(claims))
	for _, cl := range claims {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		evt := c.scrapeDetail(ctx, cl)
		if evt != nil {
			events = append(events, evt)
			metrics.EventsScraped.Inc()
		}
	}

	return events, nil
}

// discover walks the category listing pages in order and folds the
// discovered URLs into an accumulator. The first category claiming a URL
// keeps it.
func (c *Crawler) discover(ctx context.Context) []claim {
	claimed := make(map[string]bool)
	claims := make([]claim, 0)

	for _, cat := range Categories {
		urls := c.scrapeListing(ctx, cat)
		for _, u := range urls {
			if claimed[u] {
				continue
			}
			claimed[u] = true
			claims = append(claims, claim{url: u, category: cat})
		}
	}

	return claims
}

// scrapeListing navigates one category page, scrolls to trigger lazy
// loading, and extracts candidate event URLs. Any failure resolves to an
// empty set; a broken category page must not abort the run.
func (c *Crawler) scrapeListing(ctx context.Context, cat Category) []string {
	listingURL := c.cfg.BaseOrigin + cat.Path

	metrics.PagesFetched.WithLabelValues("listing").Inc()
	if err := c.session.Navigate(ctx, listingURL, listingSettle); err != nil {
		logger.Error("Listing navigation failed", logger.Fields{
			"category": cat.Name,
			"url":      listingURL,
		}, err)
		metrics.PageFailures.WithLabelValues("listing").Inc()
		c.pause()
		return nil
	}

	for i := 0; i < scrollCycles; i++ {
		if err := c.session.Scroll(ctx, scrollStep, scrollSettle); err != nil {
			logger.Warn("Scroll failed", logger.Fields{"category": cat.Name})
			break
		}
	}

	html, err := c.session.HTML(ctx)
	if err != nil {
		logger.Error("Listing snapshot failed", logger.Fields{"category": cat.Name}, err)
		metrics.PageFailures.WithLabelValues("listing").Inc()
		c.pause()
		return nil
	}

	urls, err := extract.ListingURLs(html, c.cfg.BaseOrigin)
	if err != nil {
		logger.Error("Listing extraction failed", logger.Fields{"category": cat.Name}, err)
		metrics.PageFailures.WithLabelValues("listing").Inc()
		c.pause()
		return nil
	}

	logger.Info("Listing page scraped", logger.Fields{
		"category": cat.Name,
		"urls":     len(urls),
	})

	c.pause()
	return urls
}

// scrapeDetail navigates one detail page, extracts the event, and ingests
// its images. Returns nil when the page fails or has no recoverable title.
func (c *Crawler) scrapeDetail(ctx context.Context, cl claim) *event.ScrapedEvent {
	metrics.PagesFetched.WithLabelValues("detail").Inc()
	if err := c.session.Navigate(ctx, cl.url, detailSettle); err != nil {
		logger.Error("Detail navigation failed", logger.Fields{"url": cl.url}, err)
		metrics.PageFailures.WithLabelValues("detail").Inc()
		c.pause()
		return nil
	}

	html, err := c.session.HTML(ctx)
	if err != nil {
		logger.Error("Detail snapshot failed", logger.Fields{"url": cl.url}, err)
		metrics.PageFailures.WithLabelValues("detail").Inc()
		c.pause()
		return nil
	}

	evt, err := extract.Detail(html, cl.url, extract.DetailOptions{
		CategoryHint:   cl.category.Path,
		AffiliateCode:  c.cfg.AffiliateCode,
		ConversionRate: c.cfg.ConversionRate,
	})
	if err != nil {
		logger.Error("Detail extraction failed", logger.Fields{"url": cl.url}, err)
		metrics.PageFailures.WithLabelValues("detail").Inc()
		c.pause()
		return nil
	}
	if evt == nil {
		logger.Warn("Detail page rejected, no title", logger.Fields{"url": cl.url})
		c.pause()
		return nil
	}

	c.ingestImages(ctx, evt)

	c.pause()
	return evt
}

// ingestImages uploads the event's images to durable storage and swaps the
// remote URLs for the derived ones. Failed ingestion keeps the remote URL.
func (c *Crawler) ingestImages(ctx context.Context, evt *event.ScrapedEvent) {
	if c.ingest == nil {
		return
	}

	slug := event.SlugForKey(evt.Title)

	evt.ImageURL = c.ingestOne(ctx, evt.ImageURL, slug, assets.KindThumbnail)
	evt.CoverURL = c.ingestOne(ctx, evt.CoverURL, slug, assets.KindCover)
}

// ingestOne fetches and stores a single image, returning the durable URL
// on success and the original remote URL otherwise.
func (c *Crawler) ingestOne(ctx context.Context, remoteURL *string, slug string, kind assets.ImageKind) *string {
	if remoteURL == nil {
		return nil
	}

	data := c.ingest.Fetch(ctx, *remoteURL)
	if data == nil {
		return remoteURL
	}

	result := c.ingest.Store(ctx, data, slug, kind)
	if result.Status != assets.StatusStoredPendingTransform {
		return remoteURL
	}

	metrics.AssetsStored.WithLabelValues(string(kind)).Inc()
	return &result.URL
}

// pause applies the fixed inter-request delay after a navigation. It runs
// on every exit path that follows a navigation attempt, successful or not.
func (c *Crawler) pause() {
	c.sleep(c.cfg.RequestDelay)
}
