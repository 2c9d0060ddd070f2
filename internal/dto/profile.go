package dto

import (
	"time"

	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/provider"
	"github.com/halcyondata/company-intel/internal/scoring"
)

// ProcessResponse is the payload for a processed company.
type ProcessResponse struct {
	Domain               string                `json:"domain"`
	Profile              entity.CompanyProfile `json:"profile"`
	Graph                entity.KnowledgeGraph `json:"graph"`
	LLMEngineUsed        string                `json:"llm_engine_used"`
	ModelName            string                `json:"model_name"`
	ExtractionStatus     string                `json:"extraction_status"`
	ExtractionConfidence string                `json:"extraction_confidence"`
	ProfileScore         scoring.Result        `json:"profile_score"`
	Cached               bool                  `json:"cached"`
	SchemaVersion        string                `json:"schema_version"`
	Timestamp            time.Time             `json:"timestamp"`
}

// CompanyEntry is one company in the catalogue listing.
type CompanyEntry struct {
	Domain string `json:"domain"`
	Cached bool   `json:"cached"`
}

// CompanyListResponse lists every available company snapshot.
type CompanyListResponse struct {
	Companies []CompanyEntry `json:"companies"`
	Total     int            `json:"total"`
}

// LLMHealthResponse reports the state of every model backend.
type LLMHealthResponse struct {
	Providers []provider.ProviderHealth `json:"providers"`
	LastUsed  string                    `json:"last_used,omitempty"`
}

// ServiceInfoResponse describes the API for the root endpoint.
type ServiceInfoResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}
