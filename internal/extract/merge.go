package extract

import (
	"fmt"
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/heuristic"
)

const longDescriptionWordLimit = 80

// ModelFields is the subset of the profile the model layer is trusted to
// fill in. Everything factual (contacts, people names, locations,
// certifications) comes from the heuristic layer only.
type ModelFields struct {
	ShortDescription string
	LongDescription  string
	Industry         string
	SubIndustry      string
	Services         []string
	Products         []string
	Roles            map[string]string // person name -> free-text role
}

// ParseModelFields reads the trusted fields out of a repaired model profile
// document, tolerating a few common key spellings.
func ParseModelFields(doc map[string]any) ModelFields {
	m := ModelFields{Roles: make(map[string]string)}

	m.ShortDescription = stringField(doc, "short_description", "description")
	m.LongDescription = stringField(doc, "long_description")
	m.Industry = stringField(doc, "industry")
	m.SubIndustry = stringField(doc, "sub_industry", "subindustry")
	m.Services = stringListField(doc, "services_offered", "services")
	m.Products = stringListField(doc, "products_offered", "products")

	for _, key := range []string{"people_information", "key_people", "people"} {
		items, ok := doc[key].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := stringField(entry, "person_name", "name")
			role := stringField(entry, "role", "title")
			if name != entity.NotFound && role != entity.NotFound {
				m.Roles[strings.ToLower(name)] = role
			}
		}
		break
	}
	return m
}

// Merge combines heuristic findings with model fields into the final
// profile. The model never contributes facts the heuristics did not see:
// people are restricted to heuristic-found names, with the model consulted
// only for their roles.
func Merge(h heuristic.Fields, m *ModelFields, domain string) entity.CompanyProfile {
	p := entity.CompanyProfile{
		CompanyName: h.CompanyName,
		Domain:      orNotFound(domain),
		LogoURL:     h.LogoURL,
	}

	if m != nil {
		p.ShortDescription = m.ShortDescription
		p.LongDescription = ClampWords(m.LongDescription, longDescriptionWordLimit)
		p.Industry = m.Industry
		p.SubIndustry = m.SubIndustry
	} else {
		p.ShortDescription = entity.NotFound
		p.LongDescription = entity.NotFound
		p.Industry = entity.NotFound
		p.SubIndustry = entity.NotFound
	}
	applyDescriptionFallbacks(&p, h, domain)

	p.ServicesOffered = unionStrings(h.ServicesRaw, modelList(m, func(m *ModelFields) []string { return m.Services }))
	p.ProductsOffered = unionStrings(h.ProductsRaw, modelList(m, func(m *ModelFields) []string { return m.Products }))
	p.Services = buildOfferings(p.Domain, p.ServicesOffered, p.ProductsOffered)

	p.ContactInformation = entity.ContactDetails{
		EmailAddresses:  h.Emails,
		PhoneNumbers:    h.Phones,
		PhysicalAddress: h.Address,
		City:            h.City,
		Country:         h.Country,
		ContactPage:     h.ContactPageURL,
	}

	p.PeopleInformation = mergePeople(h.People, m, p.CompanyName)
	p.PeopleStatus = presenceStatus(len(p.PeopleInformation))

	p.SocialMedia = h.SocialLinks
	p.SocialStatus = presenceStatus(len(p.SocialMedia))

	p.Certifications = buildCertifications(h.CertificationsRaw)
	p.CertificationStatus = presenceStatus(len(p.Certifications))

	p.Locations = mergeLocations(h)
	p.TechStackSignals = entity.TechStackSignals{
		CMS:       h.TechSignals["cms"],
		Analytics: h.TechSignals["analytics"],
		Frontend:  h.TechSignals["frontend"],
		Marketing: h.TechSignals["marketing"],
	}
	return p
}

// mergePeople keeps the intersection rule: every person in the output was
// found by the heuristic layer; the model only supplies roles.
func mergePeople(names []string, m *ModelFields, company string) []entity.KeyPerson {
	people := make([]entity.KeyPerson, 0, len(names))
	for _, name := range names {
		role := entity.NotFound
		if m != nil {
			if r, ok := m.Roles[strings.ToLower(name)]; ok {
				role = r
			}
		}
		people = append(people, entity.KeyPerson{
			PersonName:        name,
			Role:              role,
			AssociatedCompany: company,
			RoleCategory:      NormalizeRole(role),
		})
	}
	return people
}

// mergeLocations drops location candidates with neither an address nor a
// country, falling back to a single HQ entry built from the flat address
// fields when nothing survives.
func mergeLocations(h heuristic.Fields) []entity.Location {
	var kept []entity.Location
	for _, loc := range h.Locations {
		if loc.Address != entity.NotFound || loc.Country != entity.NotFound {
			kept = append(kept, loc)
		}
	}
	if len(kept) == 0 {
		kept = []entity.Location{{
			Type:    entity.LocationHQ,
			Address: h.Address,
			City:    h.City,
			Country: h.Country,
		}}
	}
	return kept
}

var certificationAuthorities = []struct {
	marker    string
	authority string
}{
	{"ISO", "International Organization for Standardization"},
	{"SOC", "AICPA"},
	{"PCI", "PCI Security Standards Council"},
	{"GDPR", "European Union"},
}

func buildCertifications(names []string) []entity.Certification {
	certs := make([]entity.Certification, 0, len(names))
	for _, name := range names {
		authority := entity.NotFound
		for _, ca := range certificationAuthorities {
			if strings.Contains(strings.ToUpper(name), ca.marker) {
				authority = ca.authority
				break
			}
		}
		certs = append(certs, entity.Certification{Name: name, IssuingAuthority: authority})
	}
	return certs
}

func buildOfferings(domain string, services, products []string) []entity.ServiceOrProduct {
	out := make([]entity.ServiceOrProduct, 0, len(services)+len(products))
	for _, s := range services {
		out = append(out, entity.ServiceOrProduct{Domain: domain, Name: s, Kind: "service"})
	}
	for _, p := range products {
		out = append(out, entity.ServiceOrProduct{Domain: domain, Name: p, Kind: "product"})
	}
	return out
}

// applyDescriptionFallbacks guarantees the description fields are never
// empty: missing short descriptions are synthesized from raw offerings or
// the domain, and a missing long description falls back to the short one.
func applyDescriptionFallbacks(p *entity.CompanyProfile, h heuristic.Fields, domain string) {
	if absent(p.ShortDescription) {
		items := h.ServicesRaw
		if len(items) == 0 {
			items = h.ProductsRaw
		}
		switch {
		case len(items) > 0:
			limit := min(len(items), 3)
			p.ShortDescription = fmt.Sprintf("Provider of %s", strings.Join(items[:limit], ", "))
		case domain != "" && domain != entity.NotFound:
			p.ShortDescription = fmt.Sprintf("Company operating at %s", domain)
		default:
			p.ShortDescription = entity.NotFound
		}
	}
	if absent(p.LongDescription) {
		p.LongDescription = p.ShortDescription
	}
}

// ClampWords trims text to at most limit words, preferring to cut at a
// sentence boundary. A first sentence longer than the limit is cut hard.
func ClampWords(text string, limit int) string {
	if absent(text) {
		return entity.NotFound
	}
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.TrimSpace(text)
	}

	var kept []string
	count := 0
	for _, sentence := range splitSentences(text) {
		n := len(strings.Fields(sentence))
		if count+n > limit {
			break
		}
		kept = append(kept, sentence)
		count += n
	}
	if len(kept) > 0 {
		return strings.TrimSpace(strings.Join(kept, " "))
	}
	return strings.Join(words[:limit], " ") + "..."
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func presenceStatus(n int) string {
	if n > 0 {
		return entity.StatusValidatedPresent
	}
	return entity.StatusValidatedAbsent
}

func stringField(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := doc[key].(string); ok {
			v = strings.TrimSpace(v)
			if v != "" && !strings.EqualFold(v, "unknown") && v != "null" {
				return v
			}
		}
	}
	return entity.NotFound
}

func stringListField(doc map[string]any, keys ...string) []string {
	for _, key := range keys {
		items, ok := doc[key].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, item := range items {
			if s, ok := item.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" && s != entity.NotFound {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

func modelList(m *ModelFields, pick func(*ModelFields) []string) []string {
	if m == nil {
		return nil
	}
	return pick(m)
}

func unionStrings(primary, secondary []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(primary)+len(secondary))
	for _, list := range [][]string{primary, secondary} {
		for _, v := range list {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

func orNotFound(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.NotFound
	}
	return s
}

func absent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == entity.NotFound
}
