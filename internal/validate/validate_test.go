package validate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/halcyondata/company-intel/internal/entity"
)

func validProfile() entity.CompanyProfile {
	return entity.CompanyProfile{
		CompanyName:      "Acme",
		Domain:           "acme.com",
		ShortDescription: "Makes tools.",
		LongDescription:  "Makes tools for builders.",
		Industry:         "Software",
		SubIndustry:      entity.NotFound,
		LogoURL:          entity.NotFound,
		ContactInformation: entity.ContactDetails{
			EmailAddresses:  []string{"info@acme.com"},
			PhoneNumbers:    nil,
			PhysicalAddress: entity.NotFound,
			City:            entity.NotFound,
			Country:         entity.NotFound,
			ContactPage:     entity.NotFound,
		},
		PeopleInformation: []entity.KeyPerson{{
			PersonName:        "Jane Smith",
			Role:              "CEO",
			AssociatedCompany: "Acme",
			RoleCategory:      entity.RoleExecutive,
		}},
		PeopleStatus:        entity.StatusValidatedPresent,
		SocialMedia:         nil,
		SocialStatus:        entity.StatusValidatedAbsent,
		Certifications:      nil,
		CertificationStatus: entity.StatusValidatedAbsent,
		Locations: []entity.Location{{
			Type:    entity.LocationHQ,
			Address: entity.NotFound,
			City:    entity.NotFound,
			Country: entity.NotFound,
		}},
	}
}

func TestProfileAcceptsSentinelledProfile(t *testing.T) {
	p := validProfile()
	if err := Profile(&p); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
}

func TestProfileRejectsEmptyString(t *testing.T) {
	p := validProfile()
	p.Industry = ""

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected typed validation error, got %v", err)
	}
	if verr.Field != "industry" {
		t.Fatalf("expected industry named, got %q", verr.Field)
	}
}

func TestProfileRejectsUnknownPlaceholder(t *testing.T) {
	p := validProfile()
	p.ContactInformation.City = "Unknown"

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) || verr.Field != "contact_information.city" {
		t.Fatalf("expected city placeholder rejection, got %v", err)
	}
	if !strings.Contains(verr.Reason, entity.NotFound) {
		t.Fatalf("reason should point at the sentinel, got %q", verr.Reason)
	}
}

func TestProfileRejectsStatusListMismatch(t *testing.T) {
	p := validProfile()
	p.PeopleStatus = entity.StatusValidatedAbsent // but one person is listed

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) || verr.Field != "people_status" {
		t.Fatalf("expected people_status mismatch, got %v", err)
	}
}

func TestProfileRejectsBadRoleCategory(t *testing.T) {
	p := validProfile()
	p.PeopleInformation[0].RoleCategory = "Boss"

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) || verr.Field != "people_information[0].role_category" {
		t.Fatalf("expected role category rejection, got %v", err)
	}
}

func TestProfileRequiresAtLeastOneLocation(t *testing.T) {
	p := validProfile()
	p.Locations = nil

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) || verr.Field != "locations" {
		t.Fatalf("expected locations rejection, got %v", err)
	}
}

func TestProfileRejectsBadLocationType(t *testing.T) {
	p := validProfile()
	p.Locations[0].Type = "Warehouse"

	err := Profile(&p)
	var verr *Error
	if !errors.As(err, &verr) || verr.Field != "locations[0].type" {
		t.Fatalf("expected location type rejection, got %v", err)
	}
}

func TestOutcomeRejectsBadStatusAndConfidence(t *testing.T) {
	out := entity.ExtractionOutcome{
		Profile:    validProfile(),
		Provider:   "ollama",
		ModelName:  "llama3",
		Status:     "done",
		Confidence: entity.ConfidenceHigh,
	}
	var verr *Error
	if err := Outcome(&out); !errors.As(err, &verr) || verr.Field != "extraction_status" {
		t.Fatalf("expected extraction_status rejection, got %v", err)
	}

	out.Status = entity.ExtractionComplete
	out.Confidence = "certain"
	if err := Outcome(&out); !errors.As(err, &verr) || verr.Field != "extraction_confidence" {
		t.Fatalf("expected extraction_confidence rejection, got %v", err)
	}

	out.Confidence = entity.ConfidenceHigh
	if err := Outcome(&out); err != nil {
		t.Fatalf("expected valid outcome, got %v", err)
	}
}

func TestProfileDocumentSchemaGate(t *testing.T) {
	p := validProfile()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ProfileDocument(data); err != nil {
		t.Fatalf("expected schema-valid document, got %v", err)
	}

	if err := ProfileDocument([]byte(`{"company_name":"Acme"}`)); err == nil {
		t.Fatalf("document missing required fields must be rejected")
	}
	if err := ProfileDocument([]byte(`not json`)); err == nil {
		t.Fatalf("non-JSON document must be rejected")
	}
}
