package scoring

import (
	"strings"

	"github.com/halcyondata/company-intel/internal/entity"
)

const (
	categoryContact  = "contact_completeness"
	categoryIdentity = "company_identity"
	categorySocial   = "social_presence"
	categoryDepth    = "profile_depth"
)

// Result reports the aggregate profile quality score and the per-category
// breakdown. The total is out of 100.
type Result struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// Score evaluates how complete an extracted profile is. It only counts
// fields that carry real values, never sentinel placeholders.
func Score(p *entity.CompanyProfile) Result {
	breakdown := map[string]int{
		categoryContact:  scoreContact(p),
		categoryIdentity: scoreIdentity(p),
		categorySocial:   scoreSocial(p),
		categoryDepth:    scoreDepth(p),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return Result{
		Total:     total,
		Breakdown: breakdown,
	}
}

// scoreContact is worth up to 30 points: emails, phones and a usable
// street address.
func scoreContact(p *entity.CompanyProfile) int {
	score := 0
	if hasValue(p.ContactInformation.EmailAddresses) {
		score += 10
	}
	if hasValue(p.ContactInformation.PhoneNumbers) {
		score += 10
	}
	if present(p.ContactInformation.PhysicalAddress) {
		score += 5
	}
	if present(p.ContactInformation.City) && present(p.ContactInformation.Country) {
		score += 5
	}
	return capAt(score, 30)
}

// scoreIdentity is worth up to 30 points: name, descriptions, industry
// and a logo.
func scoreIdentity(p *entity.CompanyProfile) int {
	score := 0
	if present(p.CompanyName) {
		score += 5
	}
	if present(p.ShortDescription) {
		score += 5
	}
	if present(p.LongDescription) {
		score += 5
	}
	if present(p.Industry) {
		score += 10
	}
	if present(p.LogoURL) {
		score += 5
	}
	return capAt(score, 30)
}

// scoreSocial is worth up to 20 points across the major platforms.
func scoreSocial(p *entity.CompanyProfile) int {
	if p.SocialStatus != entity.StatusValidatedPresent {
		return 0
	}
	platforms := make(map[string]bool, len(p.SocialMedia))
	for _, s := range p.SocialMedia {
		if present(s.URL) {
			platforms[strings.ToLower(s.Platform)] = true
		}
	}
	score := 0
	if platforms["linkedin"] {
		score += 5
	}
	if platforms["twitter"] || platforms["x"] {
		score += 5
	}
	if platforms["facebook"] {
		score += 5
	}
	if platforms["instagram"] || platforms["youtube"] || platforms["tiktok"] {
		score += 5
	}
	return capAt(score, 20)
}

// scoreDepth is worth up to 20 points: people, offerings, certifications
// and tech signals.
func scoreDepth(p *entity.CompanyProfile) int {
	score := 0
	if p.PeopleStatus == entity.StatusValidatedPresent && len(p.PeopleInformation) > 0 {
		score += 5
	}
	if len(p.Services) > 0 {
		score += 5
	}
	if p.CertificationStatus == entity.StatusValidatedPresent && len(p.Certifications) > 0 {
		score += 5
	}
	if len(p.TechStackSignals.CMS) > 0 || len(p.TechStackSignals.Analytics) > 0 ||
		len(p.TechStackSignals.Frontend) > 0 || len(p.TechStackSignals.Marketing) > 0 {
		score += 5
	}
	return capAt(score, 20)
}

func present(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != entity.NotFound
}

func hasValue(values []string) bool {
	for _, value := range values {
		if present(value) {
			return true
		}
	}
	return false
}

func capAt(score, limit int) int {
	if score > limit {
		return limit
	}
	return score
}
