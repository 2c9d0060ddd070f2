package heuristic

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const maxPeopleMentions = 20

var personNamePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:[-'][A-Z][a-z]+)?(?:\s+[A-Z][a-z]+(?:[-'][A-Z][a-z]+)?){1,2})\b`)

var roleContextKeywords = []string{
	"founder", "co-founder", "ceo", "cto", "cfo", "coo",
	"president", "vice president", "director", "manager",
	"chief", "head of", "lead", "officer", "vp",
}

var teamSectionKeywords = []string{
	"team", "leadership", "about us", "our people",
	"management", "founders", "board",
}

// Words that disqualify a capitalized phrase from being a person name.
var personDenylist = []string{
	"service", "product", "platform", "payment", "pci", "iso",
	"soc", "certificate", "certified", "register", "policy",
	"terms", "privacy",
}

var sloganPhrases = []string{
	"our mission", "our vision", "our values", "our team", "about us",
	"contact us", "join us", "welcome", "hello", "thank you",
	"best", "innovative", "excellence", "trusted",
}

// ExtractPeopleMentions finds person names in an HTML document. Names from
// JSON-LD Person records are accepted outright; names found in running text
// need at least two corroborating signals (team-section membership, a nearby
// role keyword, or repeated mention) before they are kept. At most 20 names
// are returned, in discovery order.
func (e *Extractor) ExtractPeopleMentions(htmlSource string) []string {
	doc, err := html.Parse(strings.NewReader(htmlSource))

	var people []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if len(people) >= maxPeopleMentions {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		people = append(people, name)
	}

	fullText := htmlSource
	teamText := ""
	if err == nil {
		for _, name := range structuredPersonNames(doc) {
			if isValidPersonName(name) {
				add(name)
			}
		}
		fullText = nodeText(doc)
		teamText = teamSectionText(doc)
	}

	for _, loc := range personNamePattern.FindAllStringSubmatchIndex(fullText, -1) {
		name := strings.TrimSpace(fullText[loc[2]:loc[3]])
		if !isValidPersonName(name) {
			continue
		}
		signals := 0
		if teamText != "" && strings.Contains(teamText, name) {
			signals++
		}
		if hasRoleContext(fullText, loc[2], loc[3]) {
			signals++
		}
		if strings.Count(fullText, name) >= 2 {
			signals++
		}
		if signals >= 2 {
			add(name)
		}
	}
	return people
}

// isValidPersonName applies structural checks plus deny and slogan lists.
func isValidPersonName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) > 60 {
		return false
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if w[0] < 'A' || w[0] > 'Z' {
			return false
		}
		for _, r := range w {
			if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r == '-' || r == '\'') {
				return false
			}
		}
	}
	lower := strings.ToLower(name)
	for _, bad := range personDenylist {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	for _, slogan := range sloganPhrases {
		if strings.Contains(lower, slogan) {
			return false
		}
	}
	return true
}

// hasRoleContext reports whether a role keyword appears within 200 characters
// of the candidate name.
func hasRoleContext(text string, start, end int) bool {
	lo := max(0, start-200)
	hi := min(len(text), end+200)
	window := strings.ToLower(text[lo:hi])
	for _, kw := range roleContextKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// structuredPersonNames collects names from JSON-LD blocks whose @type is
// Person, at any nesting depth.
func structuredPersonNames(doc *html.Node) []string {
	var names []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && attrValue(n, "type") == "application/ld+json" {
			if n.FirstChild != nil {
				var payload any
				if err := json.Unmarshal([]byte(n.FirstChild.Data), &payload); err == nil {
					names = append(names, personNamesIn(payload)...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return names
}

func personNamesIn(v any) []string {
	var names []string
	switch t := v.(type) {
	case map[string]any:
		if typ, _ := t["@type"].(string); strings.EqualFold(typ, "Person") {
			if name, _ := t["name"].(string); name != "" {
				names = append(names, name)
			}
		}
		for _, child := range t {
			names = append(names, personNamesIn(child)...)
		}
	case []any:
		for _, child := range t {
			names = append(names, personNamesIn(child)...)
		}
	}
	return names
}

// teamSectionText returns the text under headings that look like team or
// leadership sections, up to the next heading of the same or higher level.
func teamSectionText(doc *html.Node) string {
	var sections []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isHeading(n.Data) {
			headingText := strings.ToLower(nodeText(n))
			if containsAny(headingText, teamSectionKeywords) {
				var b strings.Builder
				for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
					if sib.Type == html.ElementNode && isHeading(sib.Data) {
						break
					}
					b.WriteString(nodeText(sib))
					b.WriteString(" ")
				}
				sections = append(sections, b.String())
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(sections, " ")
}

func isHeading(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4":
		return true
	}
	return false
}

// nodeText flattens the visible text of a node, skipping scripts and styles.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
