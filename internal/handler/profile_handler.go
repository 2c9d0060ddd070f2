package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/halcyondata/company-intel/internal/cache"
	"github.com/halcyondata/company-intel/internal/dto"
	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/loader"
	"github.com/halcyondata/company-intel/internal/provider"
	"github.com/halcyondata/company-intel/internal/scoring"
	"github.com/halcyondata/company-intel/internal/service"
)

// ProfileService is the application surface the HTTP layer depends on.
type ProfileService interface {
	Process(ctx context.Context, domain string, force bool) (*service.ProcessResult, error)
	Companies() ([]service.CompanyStatus, error)
	Invalidate(domain string) error
}

// ModelHealth reports the state of the model backends.
type ModelHealth interface {
	Health(ctx context.Context) []provider.ProviderHealth
	LastUsed() string
}

// ProfileHandler exposes the extraction pipeline over HTTP.
type ProfileHandler struct {
	svc    ProfileService
	models ModelHealth
}

// NewProfileHandler builds the handler for profile routes.
func NewProfileHandler(svc ProfileService, models ModelHealth) *ProfileHandler {
	return &ProfileHandler{svc: svc, models: models}
}

// Info handles GET / and describes the service.
func (h *ProfileHandler) Info(c echo.Context) error {
	return Success(c, http.StatusOK, "", dto.ServiceInfoResponse{
		Service: "company-intel",
		Version: cache.SchemaVersion,
		Endpoints: []string{
			"GET /",
			"GET /healthz",
			"GET /companies",
			"GET /llm-health",
			"GET|POST /process/:domain",
			"DELETE /cache/:domain",
		},
	})
}

// Companies handles GET /companies.
func (h *ProfileHandler) Companies(c echo.Context) error {
	statuses, err := h.svc.Companies()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}

	entries := make([]dto.CompanyEntry, 0, len(statuses))
	for _, s := range statuses {
		entries = append(entries, dto.CompanyEntry{Domain: s.Domain, Cached: s.Cached})
	}
	return Success(c, http.StatusOK, "", dto.CompanyListResponse{Companies: entries, Total: len(entries)})
}

// Process handles POST /process/:domain. The force query parameter
// bypasses the cache and re-runs the pipeline.
func (h *ProfileHandler) Process(c echo.Context) error {
	domain := c.Param("domain")
	if domain == "" {
		return Error(c, http.StatusBadRequest, "domain is required")
	}
	force := c.QueryParam("force") == "true" || c.QueryParam("force") == "1"

	res, err := h.svc.Process(c.Request().Context(), domain, force)
	if err != nil {
		switch {
		case errors.Is(err, loader.ErrBadDomain):
			return Error(c, http.StatusBadRequest, "invalid domain")
		case errors.Is(err, service.ErrCompanyNotFound):
			return Error(c, http.StatusNotFound, "no website snapshot for this domain")
		default:
			return Error(c, http.StatusInternalServerError, "extraction failed")
		}
	}

	return Success(c, http.StatusOK, "", processResponse(res))
}

// LLMHealth handles GET /llm-health.
func (h *ProfileHandler) LLMHealth(c echo.Context) error {
	return Success(c, http.StatusOK, "", dto.LLMHealthResponse{
		Providers: h.models.Health(c.Request().Context()),
		LastUsed:  h.models.LastUsed(),
	})
}

// InvalidateCache handles DELETE /cache/:domain.
func (h *ProfileHandler) InvalidateCache(c echo.Context) error {
	domain := c.Param("domain")
	if domain == "" {
		return Error(c, http.StatusBadRequest, "domain is required")
	}
	if err := h.svc.Invalidate(domain); err != nil {
		return Error(c, http.StatusInternalServerError, "failed to invalidate cache")
	}
	return Success(c, http.StatusOK, "cache entry removed", map[string]string{"domain": domain})
}

func processResponse(res *service.ProcessResult) dto.ProcessResponse {
	rec := res.Record
	return dto.ProcessResponse{
		Domain:               rec.Domain,
		Profile:              rec.Profile,
		Graph:                rec.Graph,
		LLMEngineUsed:        engineFromMetadata(rec.Metadata),
		ModelName:            rec.Metadata.ModelName,
		ExtractionStatus:     rec.Metadata.ExtractionStatus,
		ExtractionConfidence: rec.Metadata.ExtractionConfidence,
		ProfileScore:         scoring.Score(&rec.Profile),
		Cached:               res.Cached,
		SchemaVersion:        rec.Metadata.SchemaVersion,
		Timestamp:            rec.Metadata.Timestamp,
	}
}

func engineFromMetadata(m cache.Metadata) string {
	if !m.Offline {
		return "ollama"
	}
	if m.ModelName == entity.NotFound {
		return "none"
	}
	return "local"
}
