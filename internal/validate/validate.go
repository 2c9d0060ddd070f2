// Package validate enforces the profile contract before anything is
// returned or persisted: no empty strings, no null-like placeholders, only
// the documented enum values, and structurally sound sections.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/halcyondata/company-intel/internal/entity"
)

// Error names the first violated rule. Field uses JSON path notation.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("profile validation failed: %s: %s", e.Field, e.Reason)
}

var (
	locationTypes = map[string]bool{
		entity.LocationHQ:     true,
		entity.LocationOffice: true,
		entity.LocationBranch: true,
	}
	roleCategories = map[string]bool{
		entity.RoleFounder:   true,
		entity.RoleExecutive: true,
		entity.RoleDirector:  true,
		entity.RoleManager:   true,
		entity.RoleEmployee:  true,
	}
	presenceStatuses = map[string]bool{
		entity.StatusValidatedPresent: true,
		entity.StatusValidatedAbsent:  true,
	}
	extractionStatuses = map[string]bool{
		entity.ExtractionComplete: true,
		entity.ExtractionRepaired: true,
		entity.ExtractionPartial:  true,
	}
	confidenceLevels = map[string]bool{
		entity.ConfidenceHigh:   true,
		entity.ConfidenceMedium: true,
		entity.ConfidenceLow:    true,
	}
)

// Profile checks every invariant on a company profile and returns the
// first violation found, in a fixed field order so failures are stable.
func Profile(p *entity.CompanyProfile) error {
	stringChecks := []struct {
		field string
		value string
	}{
		{"company_name", p.CompanyName},
		{"domain", p.Domain},
		{"short_description", p.ShortDescription},
		{"long_description", p.LongDescription},
		{"industry", p.Industry},
		{"sub_industry", p.SubIndustry},
		{"logo_url", p.LogoURL},
		{"contact_information.physical_address", p.ContactInformation.PhysicalAddress},
		{"contact_information.city", p.ContactInformation.City},
		{"contact_information.country", p.ContactInformation.Country},
		{"contact_information.contact_page", p.ContactInformation.ContactPage},
	}
	for _, c := range stringChecks {
		if err := checkString(c.field, c.value); err != nil {
			return err
		}
	}

	if !presenceStatuses[p.PeopleStatus] {
		return &Error{Field: "people_status", Reason: fmt.Sprintf("invalid value %q", p.PeopleStatus)}
	}
	if err := checkPresenceConsistency("people_status", p.PeopleStatus, len(p.PeopleInformation)); err != nil {
		return err
	}
	for i, person := range p.PeopleInformation {
		prefix := fmt.Sprintf("people_information[%d]", i)
		if err := checkString(prefix+".person_name", person.PersonName); err != nil {
			return err
		}
		if err := checkString(prefix+".role", person.Role); err != nil {
			return err
		}
		if !roleCategories[person.RoleCategory] {
			return &Error{Field: prefix + ".role_category", Reason: fmt.Sprintf("invalid value %q", person.RoleCategory)}
		}
	}

	if !presenceStatuses[p.SocialStatus] {
		return &Error{Field: "social_status", Reason: fmt.Sprintf("invalid value %q", p.SocialStatus)}
	}
	if err := checkPresenceConsistency("social_status", p.SocialStatus, len(p.SocialMedia)); err != nil {
		return err
	}
	for i, sm := range p.SocialMedia {
		prefix := fmt.Sprintf("social_media[%d]", i)
		if err := checkString(prefix+".platform", sm.Platform); err != nil {
			return err
		}
		if err := checkString(prefix+".url", sm.URL); err != nil {
			return err
		}
	}

	if !presenceStatuses[p.CertificationStatus] {
		return &Error{Field: "certification_status", Reason: fmt.Sprintf("invalid value %q", p.CertificationStatus)}
	}
	if err := checkPresenceConsistency("certification_status", p.CertificationStatus, len(p.Certifications)); err != nil {
		return err
	}
	for i, cert := range p.Certifications {
		prefix := fmt.Sprintf("certifications[%d]", i)
		if err := checkString(prefix+".certification_name", cert.Name); err != nil {
			return err
		}
		if err := checkString(prefix+".issuing_authority", cert.IssuingAuthority); err != nil {
			return err
		}
	}

	if len(p.Locations) == 0 {
		return &Error{Field: "locations", Reason: "at least one location entry is required"}
	}
	for i, loc := range p.Locations {
		prefix := fmt.Sprintf("locations[%d]", i)
		if !locationTypes[loc.Type] {
			return &Error{Field: prefix + ".type", Reason: fmt.Sprintf("invalid value %q", loc.Type)}
		}
		if err := checkString(prefix+".address", loc.Address); err != nil {
			return err
		}
		if err := checkString(prefix+".city", loc.City); err != nil {
			return err
		}
		if err := checkString(prefix+".country", loc.Country); err != nil {
			return err
		}
	}

	for i, offering := range p.Services {
		prefix := fmt.Sprintf("services[%d]", i)
		if err := checkString(prefix+".service_or_product_name", offering.Name); err != nil {
			return err
		}
		if offering.Kind != "service" && offering.Kind != "product" {
			return &Error{Field: prefix + ".type", Reason: fmt.Sprintf("invalid value %q", offering.Kind)}
		}
	}

	return nil
}

// Outcome validates the result envelope plus the profile inside it.
func Outcome(out *entity.ExtractionOutcome) error {
	if !extractionStatuses[out.Status] {
		return &Error{Field: "extraction_status", Reason: fmt.Sprintf("invalid value %q", out.Status)}
	}
	if !confidenceLevels[out.Confidence] {
		return &Error{Field: "extraction_confidence", Reason: fmt.Sprintf("invalid value %q", out.Confidence)}
	}
	if err := checkString("provider", out.Provider); err != nil {
		return err
	}
	if err := checkString("model_name", out.ModelName); err != nil {
		return err
	}
	return Profile(&out.Profile)
}

func checkString(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &Error{Field: field, Reason: "must not be empty"}
	}
	if strings.EqualFold(trimmed, "unknown") || trimmed == "null" {
		return &Error{Field: field, Reason: fmt.Sprintf("placeholder %q is not allowed, use %q", trimmed, entity.NotFound)}
	}
	return nil
}

func checkPresenceConsistency(field, status string, count int) error {
	if status == entity.StatusValidatedPresent && count == 0 {
		return &Error{Field: field, Reason: "marked present but list is empty"}
	}
	if status == entity.StatusValidatedAbsent && count > 0 {
		return &Error{Field: field, Reason: "marked absent but list has entries"}
	}
	return nil
}

// profileSchema is the structural gate applied to cached documents before
// they are decoded into structs.
var profileSchema = map[string]any{
	"type": "object",
	"required": []string{
		"company_name", "domain", "short_description", "long_description",
		"industry", "sub_industry", "logo_url",
		"contact_information", "people_information", "people_status",
		"social_media", "social_status", "certifications",
		"certification_status", "locations", "tech_stack_signals",
	},
	"properties": map[string]any{
		"company_name":      map[string]any{"type": "string", "minLength": 1},
		"domain":            map[string]any{"type": "string", "minLength": 1},
		"short_description": map[string]any{"type": "string", "minLength": 1},
		"long_description":  map[string]any{"type": "string", "minLength": 1},
		"industry":          map[string]any{"type": "string", "minLength": 1},
		"sub_industry":      map[string]any{"type": "string", "minLength": 1},
		"logo_url":          map[string]any{"type": "string", "minLength": 1},
		"contact_information": map[string]any{
			"type":     "object",
			"required": []string{"email_addresses", "phone_numbers", "physical_address", "city", "country", "contact_page"},
		},
		"people_information": map[string]any{"type": "array"},
		"social_media":       map[string]any{"type": "array"},
		"certifications":     map[string]any{"type": "array"},
		"locations": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"type", "address", "city", "country"},
			},
		},
	},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(profileSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("profile.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("profile.json")
	})
	return compiledSchema, schemaErr
}

// ProfileDocument validates raw profile JSON against the structural schema.
func ProfileDocument(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse profile document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("profile document rejected: %w", err)
	}
	return nil
}
