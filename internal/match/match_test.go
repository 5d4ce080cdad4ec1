package match

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestMatcher_Matches(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want bool
	}{
		{
			name: "nil item",
			item: nil,
			want: false,
		},
		{
			name: "no title",
			item: &gofeed.Item{Description: "a metal-organic framework paper"},
			want: false,
		},
		{
			name: "MOF abbreviation in title",
			item: &gofeed.Item{Title: "Gas storage in a flexible MOF"},
			want: true,
		},
		{
			name: "MOFs plural",
			item: &gofeed.Item{Title: "Water-stable MOFs for carbon capture"},
			want: true,
		},
		{
			name: "MOF requires word boundary",
			item: &gofeed.Item{Title: "THERMOFORMING of polymer sheets"},
			want: false,
		},
		{
			name: "hyphen connector case-insensitive",
			item: &gofeed.Item{Title: "A new Metal-Organic Framework for catalysis"},
			want: true,
		},
		{
			name: "en dash connector",
			item: &gofeed.Item{Title: "Porosity in metal–organic frameworks"},
			want: true,
		},
		{
			name: "space connector",
			item: &gofeed.Item{Title: "Metal organic framework thin films"},
			want: true,
		},
		{
			name: "covalent organic framework",
			item: &gofeed.Item{Title: "Crystalline covalent organic frameworks"},
			want: true,
		},
		{
			name: "ZIF in title",
			item: &gofeed.Item{Title: "Mechanical properties of ZIF-8"},
			want: true,
		},
		{
			name: "zeolitic imidazolate framework",
			item: &gofeed.Item{Title: "A zeolitic imidazolate framework membrane"},
			want: true,
		},
		{
			name: "porous coordination polymer",
			item: &gofeed.Item{Title: "Flexible porous coordination polymers"},
			want: true,
		},
		{
			name: "match in summary only",
			item: &gofeed.Item{
				Title:       "Advances in gas separation",
				Description: "We review metal-organic framework membranes.",
			},
			want: true,
		},
		{
			name: "no summary, title does not match",
			item: &gofeed.Item{Title: "Perovskite solar cells"},
			want: false,
		},
		{
			name: "summary present but irrelevant",
			item: &gofeed.Item{
				Title:       "Perovskite solar cells",
				Description: "Photovoltaic efficiency records.",
			},
			want: false,
		},
	}

	m := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Matches(tt.item); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
