package entity

// NotFound is the only accepted representation of an absent string field.
// Fields are never left empty, null, or set to "unknown".
const NotFound = "not_found"

// Location type classification.
const (
	LocationHQ     = "HQ"
	LocationOffice = "Office"
	LocationBranch = "Branch"
)

// Role categories a person can be normalized into.
const (
	RoleFounder   = "Founder"
	RoleExecutive = "Executive"
	RoleDirector  = "Director"
	RoleManager   = "Manager"
	RoleEmployee  = "Employee"
)

// Validated-absence markers for list-valued profile sections.
const (
	StatusValidatedPresent = "validated_present"
	StatusValidatedAbsent  = "validated_absent"
)

// Extraction status values recorded on an outcome.
const (
	ExtractionComplete = "complete"
	ExtractionRepaired = "repaired"
	ExtractionPartial  = "partial"
)

// Extraction confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Location is a physical site associated with a company.
type Location struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// KeyPerson is a named individual mentioned on the company website.
type KeyPerson struct {
	PersonName        string `json:"person_name"`
	Role              string `json:"role"`
	AssociatedCompany string `json:"associated_company"`
	RoleCategory      string `json:"role_category"`
}

// ContactDetails aggregates every contact channel found for a company.
type ContactDetails struct {
	EmailAddresses  []string `json:"email_addresses"`
	PhoneNumbers    []string `json:"phone_numbers"`
	PhysicalAddress string   `json:"physical_address"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	ContactPage     string   `json:"contact_page"`
}

// SocialMedia is a platform plus canonical URL pair.
type SocialMedia struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ServiceOrProduct is one offering, classified as "service" or "product".
type ServiceOrProduct struct {
	Domain string `json:"domain"`
	Name   string `json:"service_or_product_name"`
	Kind   string `json:"type"`
}

// Certification is a compliance or credential claim found in the source text.
type Certification struct {
	Name             string `json:"certification_name"`
	IssuingAuthority string `json:"issuing_authority"`
}

// TechStackSignals holds technology fingerprints detected from raw HTML.
// Entries are only added via explicit pattern matches.
type TechStackSignals struct {
	CMS       []string `json:"cms"`
	Analytics []string `json:"analytics"`
	Frontend  []string `json:"frontend"`
	Marketing []string `json:"marketing"`
}

// CompanyProfile is the aggregate root produced by one extraction run.
// It is constructed once and never patched in place; a new profile replaces
// an old one. Every optional string field carries either meaningful text or
// the NotFound sentinel.
type CompanyProfile struct {
	CompanyName      string   `json:"company_name"`
	Domain           string   `json:"domain"`
	ShortDescription string   `json:"short_description"`
	LongDescription  string   `json:"long_description"`
	Industry         string   `json:"industry"`
	SubIndustry      string   `json:"sub_industry"`
	LogoURL          string   `json:"logo_url"`
	ServicesOffered  []string `json:"services_offered"`
	ProductsOffered  []string `json:"products_offered"`

	ContactInformation ContactDetails `json:"contact_information"`

	PeopleInformation []KeyPerson `json:"people_information"`
	PeopleStatus      string      `json:"people_status"`

	Services []ServiceOrProduct `json:"services"`

	SocialMedia  []SocialMedia `json:"social_media"`
	SocialStatus string        `json:"social_status"`

	Certifications      []Certification `json:"certifications"`
	CertificationStatus string          `json:"certification_status"`

	Locations []Location `json:"locations"`

	TechStackSignals TechStackSignals `json:"tech_stack_signals"`
}

// ExtractionOutcome is the pipeline result envelope returned to callers.
// Cacheable is false whenever the model layer failed and the profile only
// carries heuristic data; such results are returned but never persisted.
type ExtractionOutcome struct {
	Profile    CompanyProfile `json:"profile"`
	Provider   string         `json:"provider"`
	ModelName  string         `json:"model_name"`
	Status     string         `json:"extraction_status"`
	Confidence string         `json:"extraction_confidence"`
	Cacheable  bool           `json:"-"`
}
