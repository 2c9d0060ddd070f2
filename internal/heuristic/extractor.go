// Package heuristic implements the deterministic, rule-based extraction layer.
// Everything in this package is a pure function of its input: no network
// calls, no shared state, identical output for identical input.
package heuristic

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/halcyondata/company-intel/internal/entity"
)

const defaultPhoneRegion = "US"

var (
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phonePattern  = regexp.MustCompile(`\+?1?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	domainPattern = regexp.MustCompile(`(?:www\.)?([a-zA-Z0-9\-]+\.(?:com|org|net|io|co|uk|de|fr|in))`)
	titlePattern  = regexp.MustCompile(`(?i)<title>([^<]+)</title>`)
	titleSuffix   = regexp.MustCompile(`\s*[-|–].*`)

	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	entityPattern = regexp.MustCompile(`&[A-Za-z0-9#]+;`)
	strayPattern  = regexp.MustCompile(`[<>/]+`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)

	servicesSection = regexp.MustCompile(`(?is)(?:Our Services|What We Offer|Services)[\s:]*([^.]+?)(?:Products|About|Contact|$)`)
	productsSection = regexp.MustCompile(`(?is)(?:Our Products|Offerings|Products)[\s:]*([^.]+?)(?:Services|About|Contact|$)`)
	itemDelimiter   = regexp.MustCompile(`[•\-*\n,]`)
)

var socialPatterns = []struct {
	platform string
	re       *regexp.Regexp
}{
	{"Linkedin", regexp.MustCompile(`(?i)(https?://(?:www\.)?linkedin\.com/[\w\-/]+)`)},
	{"Twitter", regexp.MustCompile(`(?i)(https?://(?:www\.)?twitter\.com/[\w\-]+)`)},
	{"Facebook", regexp.MustCompile(`(?i)(https?://(?:www\.)?facebook\.com/[\w\-]+)`)},
	{"Github", regexp.MustCompile(`(?i)(https?://(?:www\.)?github\.com/[\w\-]+)`)},
	{"Instagram", regexp.MustCompile(`(?i)(https?://(?:www\.)?instagram\.com/[\w\-]+)`)},
}

var certificationKeywords = []string{
	"ISO 9001", "ISO 14001", "ISO 45001", "ISO 27001",
	"SOC 2", "GDPR", "HIPAA", "PCI-DSS",
	"ITIL", "AWS", "Azure", "GCP",
}

// Fields carries every candidate value produced by the heuristic layer,
// tagged implicitly with heuristic provenance. String fields use the
// entity.NotFound sentinel when nothing could be confirmed.
type Fields struct {
	Emails            []string
	Phones            []string
	SocialLinks       []entity.SocialMedia
	Domain            string
	CompanyName       string
	Address           string
	City              string
	Country           string
	ServicesRaw       []string
	ProductsRaw       []string
	CertificationsRaw []string
	People            []string
	LogoURL           string
	ContactPageURL    string
	TechSignals       map[string][]string
	Locations         []entity.Location
}

// Extractor runs the deterministic extraction rules. The zero value is not
// usable; construct with NewExtractor.
type Extractor struct {
	phoneRegion string
}

// NewExtractor builds an extractor using the given default phone region for
// number validation (falls back to "US" when empty).
func NewExtractor(phoneRegion string) *Extractor {
	region := strings.ToUpper(strings.TrimSpace(phoneRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &Extractor{phoneRegion: region}
}

// Extract runs every heuristic rule over the cleaned text and the optional
// concatenated raw HTML. HTML-specific rules (people, logo, contact page,
// tech signals) prefer rawHTML when present and fall back to text.
func (e *Extractor) Extract(text, rawHTML, knownDomain string) Fields {
	htmlSource := rawHTML
	if htmlSource == "" {
		htmlSource = text
	}

	domain := knownDomain
	if domain == "" || domain == "unknown" {
		domain = e.ExtractDomain(text)
	}

	address, city, country := e.ExtractAddressParts(text)

	f := Fields{
		Emails:            e.ExtractEmails(text),
		Phones:            e.ExtractPhones(text),
		SocialLinks:       e.ExtractSocialLinks(text),
		Domain:            domain,
		CompanyName:       e.ExtractCompanyName(text, domain),
		Address:           address,
		City:              city,
		Country:           country,
		CertificationsRaw: e.ExtractCertifications(text),
		People:            e.ExtractPeopleMentions(htmlSource),
		LogoURL:           e.ExtractLogoURL(htmlSource, "http://"+domain),
		ContactPageURL:    e.ExtractContactPageURL(htmlSource),
		TechSignals:       e.ExtractTechSignals(htmlSource),
		Locations:         e.ExtractLocations(text),
	}
	f.ServicesRaw, f.ProductsRaw = e.ExtractServicesAndProducts(text)
	return f
}

// ExtractEmails returns deduplicated email addresses found in the text.
func (e *Extractor) ExtractEmails(text string) []string {
	return dedupe(emailPattern.FindAllString(text, -1))
}

// ExtractPhones returns deduplicated phone numbers, validated with
// libphonenumber and rendered in national format.
func (e *Extractor) ExtractPhones(text string) []string {
	var phones []string
	for _, raw := range phonePattern.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(strings.TrimSpace(raw), e.phoneRegion)
		if err != nil || !phonenumbers.IsPossibleNumber(num) {
			continue
		}
		phones = append(phones, phonenumbers.Format(num, phonenumbers.NATIONAL))
	}
	return dedupe(phones)
}

// ExtractSocialLinks returns platform/URL pairs for known social networks.
func (e *Extractor) ExtractSocialLinks(text string) []entity.SocialMedia {
	var links []entity.SocialMedia
	seen := make(map[string]struct{})
	for _, sp := range socialPatterns {
		for _, m := range sp.re.FindAllStringSubmatch(text, -1) {
			url := m[1]
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			links = append(links, entity.SocialMedia{Platform: sp.platform, URL: url})
		}
	}
	return links
}

// ExtractDomain finds a domain-like token in the text, normalized to its
// ASCII (punycode) form. Returns the sentinel when nothing matches.
func (e *Extractor) ExtractDomain(text string) string {
	m := domainPattern.FindStringSubmatch(text)
	if m == nil {
		return entity.NotFound
	}
	domain := strings.ToLower(m[1])
	if ascii, err := idna.Lookup.ToASCII(domain); err == nil && ascii != "" {
		return ascii
	}
	return domain
}

// ExtractCompanyName derives a company name from the page title, falling
// back to the first label of the domain.
func (e *Extractor) ExtractCompanyName(text, domain string) string {
	if m := titlePattern.FindStringSubmatch(text); m != nil {
		title := strings.TrimSpace(titleSuffix.ReplaceAllString(m[1], ""))
		if len(title) > 2 {
			return title
		}
	}
	if domain != "" && domain != entity.NotFound {
		label, _, _ := strings.Cut(domain, ".")
		if len(label) > 2 {
			return titleCase(label)
		}
	}
	return entity.NotFound
}

// ExtractServicesAndProducts pulls raw offering names from "Services" and
// "Products" style sections. Items outside the 4..99 character range are
// discarded as headings or noise.
func (e *Extractor) ExtractServicesAndProducts(text string) (services, products []string) {
	collect := func(section *regexp.Regexp) []string {
		m := section.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		var items []string
		for _, item := range itemDelimiter.Split(m[1], -1) {
			item = strings.TrimSpace(item)
			if len(item) > 3 && len(item) < 100 {
				items = append(items, item)
			}
		}
		return items
	}
	return collect(servicesSection), collect(productsSection)
}

// ExtractCertifications matches a bounded set of certification keywords.
func (e *Extractor) ExtractCertifications(text string) []string {
	lower := strings.ToLower(text)
	var certs []string
	for _, kw := range certificationKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			certs = append(certs, kw)
		}
	}
	return certs
}

// cleanFragment strips tags, entities, and stray markup from a small text
// fragment and normalizes whitespace within it.
func cleanFragment(s string) string {
	if s == "" {
		return s
	}
	s = tagPattern.ReplaceAllString(s, " ")
	s = entityPattern.ReplaceAllString(s, " ")
	s = strayPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.Trim(strings.TrimSpace(s), " ,;:-")
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	parts := strings.Fields(value)
	for i, p := range parts {
		lower := strings.ToLower(p)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
