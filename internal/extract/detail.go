package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shareef6907/BahrainNights-sub004/internal/event"
)

// DetailOptions carries the per-run knobs the detail extractor needs.
type DetailOptions struct {
	// CategoryHint is the listing page URL the event was discovered under.
	CategoryHint string
	// AffiliateCode feeds the derived affiliate URL.
	AffiliateCode string
	// ConversionRate converts USD prices to the target currency.
	ConversionRate float64
}

// Detail extracts a ScrapedEvent from one rendered detail page. The seven
// field extractions are independent and best-effort; only a missing title
// rejects the page, in which case Detail returns (nil, nil).
func Detail(html, pageURL string, opts DetailOptions) (*event.ScrapedEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing detail HTML: %w", err)
	}

	title := extractTitle(doc)
	if title == "" {
		return nil, nil
	}

	fullText := doc.Find("body").Text()

	description := extractDescription(doc)
	price := extractPrice(fullText, opts.ConversionRate)
	imageURL, coverURL := extractImages(doc)
	venue := extractVenue(doc)
	location := extractLocation(doc)
	startDateRaw, endDateRaw := extractDates(doc, fullText, doc.Find("title").First().Text())
	startTime := extractTime(fullText)

	if location == nil {
		loc := event.DefaultLocation
		location = &loc
	}

	desc := ""
	if description != nil {
		desc = *description
	}

	evt := &event.ScrapedEvent{
		Title:         title,
		Description:   description,
		Price:         price,
		PriceCurrency: event.TargetCurrency,
		ImageURL:      imageURL,
		CoverURL:      coverURL,
		Venue:         venue,
		Location:      location,
		Category:      event.ResolveCategory(opts.CategoryHint, title, desc),
		OriginalURL:   pageURL,
		AffiliateURL:  event.AffiliateURL(pageURL, opts.AffiliateCode),
		ExternalID:    event.ExtractExternalID(pageURL),
		StartDate:     normalizeDatePtr(startDateRaw),
		EndDate:       normalizeDatePtr(endDateRaw),
		StartTime:     startTime,
	}

	return evt, nil
}

// normalizeDatePtr runs the ISO date normalizer and maps failures to nil.
func normalizeDatePtr(raw string) *string {
	iso := event.NormalizeDate(raw)
	if iso == "" {
		return nil
	}
	return &iso
}

// extractTitle returns the first heading element's trimmed text.
func extractTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}

// extractPrice tries an ordered list of price patterns against the page
// text. First match wins; a USD match is converted to the target currency
// at the configured rate and rounded to 2 decimal places.
func extractPrice(fullText string, rate float64) *float64 {
	for _, strategy := range priceStrategies {
		matches := strategy.pattern.FindStringSubmatch(fullText)
		if matches == nil {
			continue
		}

		amount, err := strconv.ParseFloat(matches[1], 64)
		if err != nil {
			continue
		}

		if strategy.currency == "USD" {
			amount = event.ConvertPrice(amount, rate)
		}
		return &amount
	}
	return nil
}

// extractDescription evaluates the description selectors in priority order
// and accepts the first element whose text is long enough to be a real
// description and free of boilerplate.
func extractDescription(doc *goquery.Document) *string {
	var result *string

	for _, selector := range descriptionSelectors {
		doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) < 50 || len(text) >= 3000 {
				return true
			}

			lower := strings.ToLower(text)
			for _, junk := range descriptionDenylist {
				if strings.Contains(lower, junk) {
					return true
				}
			}

			result = &text
			return false
		})

		if result != nil {
			break
		}
	}

	return result
}

// extractImages scans img elements under the site's upload path, skipping
// logos and icons. The first qualifying image is the primary image, the
// second is the cover; any further images are ignored.
func extractImages(doc *goquery.Document) (imageURL, coverURL *string) {
	found := make([]string, 0, 2)

	doc.Find("img").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			src, _ = sel.Attr("data-src")
		}
		if src == "" || !strings.Contains(src, "/upload") {
			return true
		}
		if strings.Contains(src, "logo") || strings.Contains(src, "icon") {
			return true
		}

		found = append(found, src)
		return len(found) < 2
	})

	if len(found) > 0 {
		imageURL = &found[0]
	}
	if len(found) > 1 {
		coverURL = &found[1]
	}
	return imageURL, coverURL
}

// extractVenue returns the text of the first anchor pointing at a venue
// detail page.
func extractVenue(doc *goquery.Document) *string {
	text := strings.TrimSpace(doc.Find(`a[href*="/venue"]`).First().Text())
	if text == "" {
		return nil
	}
	return &text
}

// extractLocation returns the first address-like element whose text looks
// like a human-readable place rather than a link or chrome.
func extractLocation(doc *goquery.Document) *string {
	var result *string

	doc.Find(locationSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= 5 || len(text) >= 200 || strings.Contains(text, "http") {
			return true
		}
		result = &text
		return false
	})

	return result
}

// extractDates recovers provisional start/end date strings. Three stages:
//
// Strategy 1: site-specific "Tue 13 Jan - Sat 17 Jan" range (no year in the
// source text); the assumed year comes from a 4-digit pattern in the
// document title, else the current year.
//
// Strategy 2: generic "13 Jan 2026" / "Jan 13, 2026" patterns scanned in
// order; the first two distinct matches become start and end.
//
// Strategy 3: a datetime attribute on any date/time-classed element, used
// only as an override when no start date was found yet.
//
// The returned strings are provisional; the caller runs the ISO normalizer.
func extractDates(doc *goquery.Document, fullText, pageTitle string) (startRaw, endRaw string) {
	assumedYear := time.Now().Year()
	if m := yearPattern.FindString(pageTitle); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			assumedYear = y
		}
	}

	// Strategy 1: weekday + day + month range
	if matches := dayMonthRangePattern.FindStringSubmatch(fullText); matches != nil {
		startRaw = fmt.Sprintf("%s %s %d", matches[1], matches[2], assumedYear)
		if matches[3] != "" {
			endRaw = fmt.Sprintf("%s %s %d", matches[3], matches[4], assumedYear)
		}
		return startRaw, endRaw
	}

	// Strategy 2: generic dated patterns, first two distinct matches
	var found []string
	for _, pattern := range genericDatePatterns {
		for _, m := range pattern.FindAllString(fullText, -1) {
			if len(found) > 0 && found[0] == m {
				continue
			}
			found = append(found, m)
			if len(found) == 2 {
				break
			}
		}
		if len(found) == 2 {
			break
		}
	}
	if len(found) > 0 {
		startRaw = found[0]
	}
	if len(found) > 1 {
		endRaw = found[1]
	}

	// Strategy 3: datetime attribute override for a still-missing start
	if startRaw == "" {
		doc.Find(datetimeSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if dt, ok := sel.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				startRaw = strings.TrimSpace(dt)
				return false
			}
			return true
		})
	}

	return startRaw, endRaw
}

// extractTime tries the clock patterns in order and returns the first
// match, with any "starts at" / "doors open at" prefix stripped.
func extractTime(fullText string) *string {
	for _, strategy := range timeStrategies {
		matches := strategy.FindStringSubmatch(fullText)
		if matches == nil {
			continue
		}
		t := strings.TrimSpace(matches[len(matches)-1])
		return &t
	}
	return nil
}
