package heuristic

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/halcyondata/company-intel/internal/entity"
)

var contactPathKeywords = []string{"contact", "get-in-touch", "reach-us", "reach_us"}

var techSignalTable = []struct {
	category string
	name     string
	markers  []string
	allOf    bool // every marker must be present, not just one
}{
	{"cms", "WordPress", []string{"wp-content", "wp-includes"}, false},
	{"cms", "Shopify", []string{"shopify"}, false},
	{"cms", "Wix", []string{"wix"}, false},
	{"analytics", "Google Analytics", []string{"gtag", "analytics.js", "ga_measurement_id"}, false},
	{"analytics", "Mixpanel", []string{"mixpanel"}, false},
	{"analytics", "Segment", []string{"segment", "analytics"}, true},
	{"frontend", "React", []string{"react"}, false},
	{"frontend", "Vue.js", []string{"vue"}, false},
	{"frontend", "Angular", []string{"angular"}, false},
	{"frontend", "jQuery", []string{"jquery"}, false},
	{"marketing", "HubSpot", []string{"hs-script-loader", "hubspotutk"}, false},
	{"marketing", "Marketo", []string{"munchkin"}, false},
	{"marketing", "Intercom", []string{"intercom"}, false},
}

// ExtractLogoURL scores every <img> in the document and returns the best
// candidate resolved against baseURL. Scoring: "logo" in src/alt/class/id is
// worth 10, "brand" 7, "icon" 3, and a declared width above 50px adds 2.
// Nothing scoring above zero means no logo.
func (e *Extractor) ExtractLogoURL(htmlSource, baseURL string) string {
	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return entity.NotFound
	}

	bestScore := 0
	bestSrc := ""
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			src := attrValue(n, "src")
			if src != "" {
				score := scoreLogoCandidate(n, src)
				if score > bestScore {
					bestScore = score
					bestSrc = src
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if bestSrc == "" {
		return entity.NotFound
	}
	return resolveURL(baseURL, bestSrc)
}

func scoreLogoCandidate(n *html.Node, src string) int {
	haystack := strings.ToLower(src + " " + attrValue(n, "alt") + " " + attrValue(n, "class") + " " + attrValue(n, "id"))
	score := 0
	switch {
	case strings.Contains(haystack, "logo"):
		score = 10
	case strings.Contains(haystack, "brand"):
		score = 7
	case strings.Contains(haystack, "icon"):
		score = 3
	}
	if w, err := strconv.Atoi(strings.TrimSuffix(attrValue(n, "width"), "px")); err == nil && w > 50 {
		score += 2
	}
	return score
}

func resolveURL(baseURL, ref string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

// ExtractContactPageURL returns the first anchor that points at a contact
// page, judged by its href path or its link text. Query strings and fragments
// are stripped.
func (e *Extractor) ExtractContactPageURL(htmlSource string) string {
	doc, err := html.Parse(strings.NewReader(htmlSource))
	if err != nil {
		return entity.NotFound
	}

	found := entity.NotFound
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != entity.NotFound {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrValue(n, "href")
			if href != "" {
				lowerHref := strings.ToLower(href)
				linkText := strings.ToLower(nodeText(n))
				if containsAny(lowerHref, contactPathKeywords) || strings.Contains(linkText, "contact") {
					href, _, _ = strings.Cut(href, "?")
					href, _, _ = strings.Cut(href, "#")
					if href != "" {
						found = href
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// ExtractTechSignals fingerprints the raw HTML for known technology markers.
// Categories with no hits are omitted from the map entirely; nothing is ever
// inferred beyond an exact marker match.
func (e *Extractor) ExtractTechSignals(htmlSource string) map[string][]string {
	lower := strings.ToLower(htmlSource)
	signals := make(map[string][]string)
	for _, sig := range techSignalTable {
		matched := 0
		for _, marker := range sig.markers {
			if strings.Contains(lower, marker) {
				matched++
				if !sig.allOf {
					break
				}
			}
		}
		if (sig.allOf && matched == len(sig.markers)) || (!sig.allOf && matched > 0) {
			signals[sig.category] = append(signals[sig.category], sig.name)
		}
	}
	return signals
}
