package heuristic

import (
	"strings"
	"testing"

	"github.com/halcyondata/company-intel/internal/entity"
)

func TestExtractAddressPartsUSAddress(t *testing.T) {
	e := NewExtractor("US")
	text := "Headquarters: 123 Main St, Suite 400, San Francisco, CA 94105."

	address, city, country := e.ExtractAddressParts(text)
	if !strings.Contains(address, "123 Main St") {
		t.Fatalf("expected street address, got %q", address)
	}
	if city != "San Francisco" {
		t.Fatalf("expected San Francisco, got %q", city)
	}
	if country != "United States" {
		t.Fatalf("expected United States, got %q", country)
	}
}

func TestExtractAddressPartsRejectsUnanchoredText(t *testing.T) {
	e := NewExtractor("US")
	text := "Office: the best place to grow your business and your dreams"

	address, city, country := e.ExtractAddressParts(text)
	if address != entity.NotFound {
		t.Fatalf("candidate without indicator or postal code should be rejected, got %q", address)
	}
	if city != entity.NotFound || country != entity.NotFound {
		t.Fatalf("expected sentinels, got city %q country %q", city, country)
	}
}

func TestExtractAddressPartsContextualCountry(t *testing.T) {
	e := NewExtractor("US")
	_, _, country := e.ExtractAddressParts("We are a consultancy based in Germany serving all of Europe.")
	if country != "Germany" {
		t.Fatalf("expected Germany from context, got %q", country)
	}
}

func TestExtractAddressPartsIgnoresBareCountryMention(t *testing.T) {
	e := NewExtractor("US")
	_, _, country := e.ExtractAddressParts("Our customers love France and travel there often.")
	if country != entity.NotFound {
		t.Fatalf("expected sentinel without contextual cue, got %q", country)
	}
}

func TestClassifyLocationType(t *testing.T) {
	e := NewExtractor("US")
	cases := []struct {
		text string
		want string
	}{
		{"Headquarters: 1 Market St", entity.LocationHQ},
		{"Registered office: 2 King Rd", entity.LocationHQ},
		{"Branch office: 3 Hill Ave", entity.LocationBranch},
		{"Office: 4 Lake Dr", entity.LocationOffice},
	}
	for _, tc := range cases {
		if got := e.ClassifyLocationType(tc.text); got != tc.want {
			t.Fatalf("ClassifyLocationType(%q)=%q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractLocationsPromotesFirstOfficeToHQ(t *testing.T) {
	e := NewExtractor("US")
	text := "Office: 500 Howard Street, San Francisco, CA 94105\nPhone: (415) 555-0100\nBranch office: 12 Baker Street, London, UK"

	locations := e.ExtractLocations(text)
	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %#v", locations)
	}
	if locations[0].Type != entity.LocationHQ {
		t.Fatalf("expected first location promoted to HQ, got %q", locations[0].Type)
	}
	if locations[1].Type != entity.LocationBranch {
		t.Fatalf("expected second location to stay Branch, got %q", locations[1].Type)
	}
	if locations[1].Country != "United Kingdom" {
		t.Fatalf("expected United Kingdom, got %q", locations[1].Country)
	}
}

func TestExtractLocationsFallbackSentinel(t *testing.T) {
	e := NewExtractor("US")
	locations := e.ExtractLocations("nothing geographic in this text")

	if len(locations) != 1 {
		t.Fatalf("expected single fallback location, got %#v", locations)
	}
	loc := locations[0]
	if loc.Type != entity.LocationHQ || loc.Address != entity.NotFound || loc.City != entity.NotFound || loc.Country != entity.NotFound {
		t.Fatalf("expected sentinel HQ fallback, got %#v", loc)
	}
}
