package event

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// TargetCurrency is the currency every scraped price is normalized to.
const TargetCurrency = "BHD"

// DefaultLocation is used when a detail page exposes no usable location text.
const DefaultLocation = "Bahrain"

// ScrapedEvent represents a single event extracted from one detail page.
// It is created in one extraction call and never mutated afterwards; the
// sync engine is its only consumer.
type ScrapedEvent struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	PriceCurrency string   `json:"price_currency"`
	ImageURL      *string  `json:"image_url"`
	CoverURL      *string  `json:"cover_url"`
	Venue         *string  `json:"venue"`
	Location      *string  `json:"location"`
	Category      string   `json:"category"`
	OriginalURL   string   `json:"original_url"`
	AffiliateURL  string   `json:"affiliate_url"`
	ExternalID    *int64   `json:"external_id"`
	StartDate     *string  `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	StartTime     *string  `json:"start_time"`
}

// eventIDPattern matches the numeric identifier segment of an event URL,
// e.g. "/event-tickets/103422/some-show". Attraction pages share the same
// path prefix but carry no numeric segment, which is how they get excluded.
var eventIDPattern = regexp.MustCompile(`/event-tickets/(\d+)`)

// IsEventURL reports whether a URL points at a real event detail page
// rather than a non-numeric attraction page under the same prefix.
func IsEventURL(rawURL string) bool {
	return eventIDPattern.MatchString(rawURL)
}

// ExtractExternalID pulls the numeric event identifier out of a detail URL.
// Returns nil when the URL carries no numeric segment.
func ExtractExternalID(rawURL string) *int64 {
	matches := eventIDPattern.FindStringSubmatch(rawURL)
	if matches == nil {
		return nil
	}
	id, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// AffiliateURL builds the tracked redirect URL for an event page. Pure
// function of the original URL and the affiliate code, no I/O.
func AffiliateURL(originalURL, affiliateCode string) string {
	return fmt.Sprintf("https://platinumlist.net/affiliate/redirect?aff=%s&target=%s",
		affiliateCode, url.QueryEscape(originalURL))
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// Slugify normalizes a title into a URL-safe slug: lowercase, strip
// punctuation, collapse whitespace and hyphen runs. Idempotent.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SlugForKey is the persistence-facing variant of Slugify, truncated so the
// slug fits storage keys and database column limits.
func SlugForKey(s string) string {
	slug := Slugify(s)
	if len(slug) > 100 {
		slug = slug[:100]
	}
	return strings.Trim(slug, "-")
}

// ConvertPrice applies a linear currency conversion and rounds to 2 decimal
// places. Used when a page quotes USD instead of the target currency.
func ConvertPrice(amount, rate float64) float64 {
	converted := amount * rate
	return float64(int64(converted*100+0.5)) / 100
}
