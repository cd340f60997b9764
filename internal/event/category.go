package event

import "strings"

// DefaultCategory is the bucket for events nothing else claims.
const DefaultCategory = "things-to-do"

// urlCategoryMapping maps URL path fragments of the listing page an event
// was discovered under to a category. Checked before any keyword matching;
// order matters, first match wins.
var urlCategoryMapping = []struct {
	fragment string
	category string
}{
	{"concerts", "concerts"},
	{"nightlife", "nightlife"},
	{"comedy", "comedy"},
	{"festival", "festivals"},
	{"sports", "sports"},
	{"theatre", "theatre"},
	{"theater", "theatre"},
	{"kids", "family"},
	{"family", "family"},
	{"dining", "dining"},
	{"brunch", "dining"},
}

// categoryKeywords maps categories to keywords matched against the combined
// title and description text. Order matters, first match wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"concerts", []string{"concert", "live music", "dj ", "band", "orchestra", "singer"}},
	{"nightlife", []string{"nightclub", "club night", "party", "ladies night"}},
	{"comedy", []string{"comedy", "stand-up", "stand up", "comedian"}},
	{"festivals", []string{"festival", "carnival"}},
	{"sports", []string{"match", "race", "tournament", "grand prix", "football", "padel"}},
	{"theatre", []string{"theatre", "theater", "play", "musical", "ballet", "opera"}},
	{"family", []string{"kids", "children", "family", "circus"}},
	{"dining", []string{"brunch", "dinner", "buffet", "iftar"}},
}

// ResolveCategory picks the category for a scraped event. The listing page
// the URL was discovered under (categoryHint) takes precedence over keyword
// matching on the page text; an unresolvable event lands in the default
// bucket rather than carrying an empty category.
func ResolveCategory(categoryHint, title, description string) string {
	hint := strings.ToLower(categoryHint)
	for _, m := range urlCategoryMapping {
		if strings.Contains(hint, m.fragment) {
			return m.category
		}
	}

	text := strings.ToLower(title + " " + description)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(text, kw) {
				return ck.category
			}
		}
	}

	return DefaultCategory
}
