package extract

import (
	"os"
	"testing"
)

const testOrigin = "https://bahrain.platinumlist.net"

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture %s: %v", name, err)
	}
	return string(data)
}

func TestListingURLs(t *testing.T) {
	html := loadFixture(t, "listing_page.html")

	urls, err := ListingURLs(html, testOrigin)
	if err != nil {
		t.Fatalf("ListingURLs failed: %v", err)
	}

	expected := []string{
		testOrigin + "/event-tickets/103422/desert-sound-festival",
		testOrigin + "/event-tickets/98811/amr-diab-live",
		testOrigin + "/event-tickets/104005/stand-up-night",
	}

	if len(urls) != len(expected) {
		t.Fatalf("expected %d URLs, got %d: %v", len(expected), len(urls), urls)
	}
	for i, want := range expected {
		if urls[i] != want {
			t.Errorf("url[%d] = %q, expected %q", i, urls[i], want)
		}
	}
}

func TestListingURLsFilters(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "non-numeric attraction page",
			html: `<a href="/event-tickets/indoor-skydiving">x</a>`,
		},
		{
			name: "cart link",
			html: `<a href="/event-tickets/103422/x/cart">x</a>`,
		},
		{
			name: "purchase link",
			html: `<a href="/event-tickets/103422/x/purchase">x</a>`,
		},
		{
			name: "unrelated path",
			html: `<a href="/attractions/water-park">x</a>`,
		},
		{
			name: "empty href",
			html: `<a href="">x</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls, err := ListingURLs("<html><body>"+tt.html+"</body></html>", testOrigin)
			if err != nil {
				t.Fatalf("ListingURLs failed: %v", err)
			}
			if len(urls) != 0 {
				t.Errorf("expected no URLs, got %v", urls)
			}
		})
	}
}

func TestListingURLsDeduplicates(t *testing.T) {
	html := `<html><body>
		<a href="/event-tickets/42/show">a</a>
		<a href="https://bahrain.platinumlist.net/event-tickets/42/show">b</a>
		<a href="/event-tickets/42/show">c</a>
	</body></html>`

	urls, err := ListingURLs(html, testOrigin)
	if err != nil {
		t.Fatalf("ListingURLs failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 deduplicated URL, got %d: %v", len(urls), urls)
	}
	if urls[0] != testOrigin+"/event-tickets/42/show" {
		t.Errorf("unexpected URL: %s", urls[0])
	}
}
