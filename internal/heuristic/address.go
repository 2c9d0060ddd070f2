package heuristic

import (
	"regexp"
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
)

var (
	addressPattern  = regexp.MustCompile(`(?i)(?:Address|Headquarters|HQ|Located at|Based in|Office)[\s:]*([^\n]{10,120})`)
	postalPattern   = regexp.MustCompile(`\b\d{5}(-\d{4})?\b`)
	stateZipPattern = regexp.MustCompile(`^[A-Z]{2}\s+\d{5}(-\d{4})?\.?$`)
	cityPattern     = regexp.MustCompile(`^[A-Z][a-zA-Z\-']+(?:\s+[A-Z][a-zA-Z\-']+){0,2}$`)
)

var addressIndicators = []string{
	"street", "avenue", "ave", "road", "boulevard", "blvd",
	"drive", "lane", "court", "plaza", "suite", "ste",
	"floor", "building", "bldg", "hq", "headquarters", "office",
	"located at", "based in",
}

// Non-city words that the city pattern would otherwise accept.
var invalidCities = map[string]struct{}{
	"thanks": {}, "thank": {}, "you": {}, "visit": {},
	"contact": {}, "email": {}, "phone": {}, "suite": {},
}

var countryPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"United States", regexp.MustCompile(`\b(?:USA|US|U\.S\.|United States|America)\b`)},
	{"India", regexp.MustCompile(`\bIndia\b`)},
	{"United Kingdom", regexp.MustCompile(`\b(?:UK|U\.K\.|United Kingdom|England|Scotland|Wales)\b`)},
	{"Canada", regexp.MustCompile(`\b(?:Canada|CAN)\b`)},
	{"Australia", regexp.MustCompile(`\b(?:Australia|AUS)\b`)},
	{"Germany", regexp.MustCompile(`\b(?:Germany|DEU)\b`)},
	{"France", regexp.MustCompile(`\b(?:France|FRA)\b`)},
}

var countryContext = regexp.MustCompile(`(?i)(?:based in|located in|headquarters in|office in|country[:\s])`)

var locationLineKeywords = []string{"address", "office", "location", "headquarters", "branch"}
var hqKeywords = []string{"headquarters", "head office", "registered office", "main office", "hq"}
var branchKeywords = []string{"branch", "regional office", "satellite office"}

// ExtractAddressParts pulls a physical address, city, and country out of the
// text. An address candidate is accepted only when it sits next to an address
// indicator token or contains a postal-code pattern; the country is accepted
// only near contextual cues or inside an already validated address. Rejected
// candidates yield the sentinel, never a guess.
func (e *Extractor) ExtractAddressParts(text string) (address, city, country string) {
	address, city, country = entity.NotFound, entity.NotFound, entity.NotFound

	clean := cleanFragment(text)

	if m := addressPattern.FindStringSubmatch(clean); m != nil {
		candidate := strings.TrimSpace(m[1])
		if hasAddressIndicator(candidate) || postalPattern.MatchString(candidate) {
			address = candidate
		}
	}

	if address != entity.NotFound {
		city = extractCity(address)
	}

	country = extractCountry(clean, address)
	return address, city, country
}

func hasAddressIndicator(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, ind := range addressIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// extractCity looks for the comma-separated segment preceding a
// state-and-ZIP segment; otherwise it takes the last segment shaped like a
// city name and not shadowed by address indicators.
func extractCity(address string) string {
	segments := strings.Split(address, ",")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	for i := 1; i < len(segments); i++ {
		if stateZipPattern.MatchString(segments[i]) && cityPattern.MatchString(segments[i-1]) {
			return segments[i-1]
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if !cityPattern.MatchString(seg) || hasAddressIndicator(seg) {
			continue
		}
		// Short all-caps segments are state or country codes, not cities.
		if len(seg) <= 3 && seg == strings.ToUpper(seg) {
			continue
		}
		if _, bad := invalidCities[strings.ToLower(seg)]; bad {
			continue
		}
		return seg
	}
	return entity.NotFound
}

func extractCountry(text, address string) string {
	// A US state code followed by a ZIP inside a validated address is a
	// stronger signal than any country keyword.
	if address != entity.NotFound {
		for _, seg := range strings.Split(address, ",") {
			if stateZipPattern.MatchString(strings.TrimSpace(seg)) {
				return "United States"
			}
		}
	}

	for _, cp := range countryPatterns {
		if address != entity.NotFound && cp.re.MatchString(address) {
			return cp.name
		}
		if loc := countryContext.FindStringIndex(text); loc != nil {
			window := text[loc[1]:min(len(text), loc[1]+80)]
			if cp.re.MatchString(window) {
				return cp.name
			}
		}
	}
	return entity.NotFound
}

// ClassifyLocationType maps address text onto HQ, Branch, or Office.
func (e *Extractor) ClassifyLocationType(addressText string) string {
	lower := strings.ToLower(addressText)
	for _, kw := range hqKeywords {
		if strings.Contains(lower, kw) {
			return entity.LocationHQ
		}
	}
	for _, kw := range branchKeywords {
		if strings.Contains(lower, kw) {
			return entity.LocationBranch
		}
	}
	return entity.LocationOffice
}

// ExtractLocations scans the text line by line for location candidates and
// classifies each one. The first detected location that would default to
// Office is promoted to HQ.
func (e *Extractor) ExtractLocations(text string) []entity.Location {
	var locations []entity.Location
	seen := make(map[string]struct{})

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, locationLineKeywords) {
			continue
		}

		addressText := strings.TrimSpace(line)
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !containsAny(strings.ToLower(next), []string{"email", "phone", "contact"}) {
				addressText += " " + next
			}
		}
		addressText = cleanFragment(addressText)
		if len(addressText) <= 5 {
			continue
		}
		if _, dup := seen[addressText]; dup {
			continue
		}
		seen[addressText] = struct{}{}

		address, city, country := e.ExtractAddressParts(addressText)
		locType := e.ClassifyLocationType(addressText)
		if len(locations) == 0 && locType == entity.LocationOffice {
			locType = entity.LocationHQ
		}

		locations = append(locations, entity.Location{
			Type:    locType,
			Address: address,
			City:    city,
			Country: country,
		})
	}

	if len(locations) == 0 {
		return []entity.Location{{
			Type:    entity.LocationHQ,
			Address: entity.NotFound,
			City:    entity.NotFound,
			Country: entity.NotFound,
		}}
	}
	return locations
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
