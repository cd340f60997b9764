package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shareef6907/BahrainNights-sub004/internal/event"
)

// eventPathMarker is the path fragment every event and attraction page
// shares on the target site.
const eventPathMarker = "/event-tickets"

// transactionalMarkers exclude checkout-flow anchors that also carry the
// event path fragment.
var transactionalMarkers = []string{"/cart", "/purchase", "/checkout", "/basket"}

// ListingURLs extracts candidate event detail URLs from one rendered
// listing page. Relative hrefs are resolved against origin, transactional
// links are skipped, and the result is filtered to URLs carrying a numeric
// event identifier (attraction pages share the path prefix but have none).
// The returned slice is de-duplicated in first-seen order.
func ListingURLs(html, origin string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}

	seen := make(map[string]bool)
	urls := make([]string, 0)

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !strings.Contains(href, eventPathMarker) {
			return
		}

		for _, marker := range transactionalMarkers {
			if strings.Contains(href, marker) {
				return
			}
		}

		// Resolve relative hrefs against the configured origin
		if strings.HasPrefix(href, "/") {
			href = strings.TrimRight(origin, "/") + href
		}

		// Numeric identifier filter separates true events from
		// attraction pages
		if !event.IsEventURL(href) {
			return
		}

		if !seen[href] {
			seen[href] = true
			urls = append(urls, href)
		}
	})

	return urls, nil
}
