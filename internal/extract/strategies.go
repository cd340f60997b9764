package extract

import "regexp"

const monthAlternation = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`
const weekdayAlternation = `Mon|Tue|Wed|Thu|Fri|Sat|Sun`

// priceStrategy pairs a price pattern with the currency it quotes.
type priceStrategy struct {
	pattern  *regexp.Regexp
	currency string
}

// priceStrategies is checked in order; the first matching pattern wins.
// Dollar prices are converted to the target currency by the caller.
var priceStrategies = []priceStrategy{
	{regexp.MustCompile(`(?i)(?:price\s+from|starting\s+from|from)\s+(?:BHD|BD)\s*(\d+(?:\.\d+)?)`), "BHD"},
	{regexp.MustCompile(`(?i)(?:price\s+from|starting\s+from|from)\s+(\d+(?:\.\d+)?)\s*(?:BHD|BD)\b`), "BHD"},
	{regexp.MustCompile(`(?i)(?:BHD|BD)\s*(\d+(?:\.\d+)?)`), "BHD"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:BHD|BD)\b`), "BHD"},
	{regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`), "USD"},
}

// descriptionSelectors is evaluated in priority order; the first element
// passing the length and denylist checks wins across the whole list.
var descriptionSelectors = []string{
	`[itemprop="description"]`,
	`.event-description`,
	`.event-details__description`,
	`#description`,
	`.description`,
	`.event-about`,
	`.about`,
	`article p`,
}

// descriptionDenylist rejects navigation chrome, legal footer text, and
// encoded markup artifacts that slip through broad selectors. Matched
// against lowercased text.
var descriptionDenylist = []string{
	"privacy policy",
	"terms and conditions",
	"terms of use",
	"all rights reserved",
	"cookie",
	"sign in",
	"log in",
	"my account",
	"newsletter",
	"&lt;",
	"&amp;",
	"javascript",
}

// locationSelector matches address-like elements on the detail page.
const locationSelector = `.address, .location, .venue-address, [class*="address"], [class*="location"], [class*="venue"]`

// datetimeSelector matches date/time-classed elements carrying a machine
// readable datetime attribute.
const datetimeSelector = `time[datetime], [class*="date"][datetime], [class*="time"][datetime]`

var (
	// yearPattern finds a 4-digit year in the page title.
	yearPattern = regexp.MustCompile(`\b20\d{2}\b`)

	// dayMonthRangePattern matches the site's yearless date format, e.g.
	// "Tue 13 Jan - Sat 17 Jan" or a single "Tue 13 Jan".
	dayMonthRangePattern = regexp.MustCompile(
		`(?i)\b(?:` + weekdayAlternation + `)[a-z]*\s+(\d{1,2})\s+(` + monthAlternation + `)[a-z]*` +
			`(?:\s*[-–]\s*(?:` + weekdayAlternation + `)[a-z]*\s+(\d{1,2})\s+(` + monthAlternation + `)[a-z]*)?`)

	// genericDatePatterns are the fallback full-date formats, scanned in
	// order; the first two distinct matches become start and end dates.
	genericDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:` + monthAlternation + `)[a-z]*\.?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(?:` + monthAlternation + `)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	}
)

// timeStrategies is checked in order against the page text; the last
// capture group of the first match is the start time, which strips any
// "starts at" / "doors open at" prefix.
var timeStrategies = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:AM|PM))\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s*(?:AM|PM))\b`),
	regexp.MustCompile(`(?i)(?:starts?\s+at|doors?\s+open\s+at)\s*(\d{1,2}:\d{2}\s*(?:AM|PM))`),
}
