package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	// Already-ISO strings pass through with any time component dropped.
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

	// "13 Jan 2026", "Jan 13 2026", "January 13, 2026" and similar.
	monthNamePattern = regexp.MustCompile(`(?i)(?:(\d{1,2})\s+)?(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s*(\d{1,2})?,?\s*(\d{4})`)
)

// NormalizeDate converts a raw extracted date string into an ISO 8601 date
// (YYYY-MM-DD). Returns "" when no strategy can recover a date; it never
// panics on malformed input.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Strategy 1: already ISO, truncate to the date part
	if matches := isoDatePattern.FindStringSubmatch(raw); matches != nil {
		return fmt.Sprintf("%s-%s-%s", matches[1], matches[2], matches[3])
	}

	// Strategy 2: month-name extraction with explicit year
	if matches := monthNamePattern.FindStringSubmatch(raw); matches != nil {
		month := monthNumbers[strings.ToLower(matches[2][:3])]

		// Day may precede or follow the month name
		day := 0
		if matches[1] != "" {
			day, _ = strconv.Atoi(matches[1])
		} else if matches[3] != "" {
			day, _ = strconv.Atoi(matches[3])
		}
		year, _ := strconv.Atoi(matches[4])

		if day >= 1 && day <= 31 && year > 0 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}

	// Strategy 3: generic parsing, rejecting results more than a year in
	// the past (ambiguous strings otherwise resolve to stale years)
	for _, layout := range []string{"2 January 2006", "January 2, 2006", "2 Jan 2006", "Jan 2, 2006", "02/01/2006", "2006/01/02"} {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Year() < time.Now().Year()-1 {
			return ""
		}
		return t.Format("2006-01-02")
	}

	return ""
}
