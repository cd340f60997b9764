package event

import "testing"

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		title    string
		desc     string
		expected string
	}{
		{
			name:     "url hint wins",
			hint:     "/concerts",
			title:    "Family Fun Day",
			desc:     "A day of kids activities and circus performers",
			expected: "concerts",
		},
		{
			name:     "keyword fallback",
			hint:     "/whats-on",
			title:    "Laughter Factory",
			desc:     "An evening of stand-up with touring comedians",
			expected: "comedy",
		},
		{
			name:     "keyword order first match wins",
			hint:     "",
			title:    "Live Music Festival",
			desc:     "concert and festival in one",
			expected: "concerts",
		},
		{
			name:     "default bucket",
			hint:     "",
			title:    "Pottery Workshop",
			desc:     "Hands-on clay throwing for beginners",
			expected: DefaultCategory,
		},
		{
			name:     "hint substring match",
			hint:     "https://bahrain.platinumlist.net/kids-family",
			title:    "Something",
			desc:     "",
			expected: "family",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.hint, tt.title, tt.desc); got != tt.expected {
				t.Errorf("ResolveCategory(%q, %q, %q) = %q, expected %q",
					tt.hint, tt.title, tt.desc, got, tt.expected)
			}
		})
	}
}
