package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/halcyondata/company-intel/internal/cache"
	"github.com/halcyondata/company-intel/internal/cleaner"
	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/extract"
	"github.com/halcyondata/company-intel/internal/graph"
	"github.com/halcyondata/company-intel/internal/loader"
	"github.com/halcyondata/company-intel/internal/validate"
)

// ErrCompanyNotFound is returned when no snapshot exists for the domain.
var ErrCompanyNotFound = loader.ErrNotFound

const defaultCorpusLimit = 40000

// Runner executes the extraction pipeline for one company. Satisfied by
// extract.Orchestrator.
type Runner interface {
	Run(ctx context.Context, in extract.Input) entity.ExtractionOutcome
}

// ProcessResult is one processed company, with provenance for the API
// layer.
type ProcessResult struct {
	Record *cache.Record
	Cached bool
}

// ExtractionService is the application core: it resolves a domain to a
// validated, cached company profile. Concurrent requests for the same
// domain are collapsed into a single pipeline run.
type ExtractionService struct {
	loader       *loader.Loader
	store        *cache.Store
	runner       Runner
	logger       *slog.Logger
	modelTimeout time.Duration
	corpusLimit  int

	group singleflight.Group
}

// NewExtractionService wires the pipeline. modelTimeout bounds one full
// pipeline run; zero disables the bound. corpusLimit caps the cleaned
// text size fed into heuristics and prompts (0 means the default).
func NewExtractionService(l *loader.Loader, store *cache.Store, runner Runner, logger *slog.Logger, modelTimeout time.Duration, corpusLimit int) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	if corpusLimit <= 0 {
		corpusLimit = defaultCorpusLimit
	}
	return &ExtractionService{
		loader:       l,
		store:        store,
		runner:       runner,
		logger:       logger,
		modelTimeout: modelTimeout,
		corpusLimit:  corpusLimit,
	}
}

// Process returns the profile for a domain, from cache when possible.
// With force set the cache is bypassed (but a fresh result is still
// written back). Identical concurrent calls share one run.
func (s *ExtractionService) Process(ctx context.Context, domain string, force bool) (*ProcessResult, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))

	v, err, _ := s.group.Do(flightKey(domain, force), func() (any, error) {
		return s.process(ctx, domain, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ProcessResult), nil
}

func (s *ExtractionService) process(ctx context.Context, domain string, force bool) (*ProcessResult, error) {
	if !force {
		if rec, err := s.store.Load(domain); err == nil {
			s.logger.InfoContext(ctx, "serving cached profile", slog.String("domain", domain))
			return &ProcessResult{Record: rec, Cached: true}, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			return nil, err
		}
	}

	pages, err := s.loader.Load(domain)
	if err != nil {
		return nil, err
	}

	cleaned, corpus := cleaner.CleanPages(pages)
	corpus = cleaner.Truncate(corpus, s.corpusLimit)

	var rawHTML strings.Builder
	promptPages := make([]extract.CleanedPage, 0, len(cleaned))
	for i, page := range cleaned {
		promptPages = append(promptPages, extract.CleanedPage{Filename: page.Filename, Text: page.Content})
		rawHTML.WriteString(pages[i].Content)
		rawHTML.WriteString("\n")
	}

	runCtx := ctx
	if s.modelTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.modelTimeout)
		defer cancel()
	}

	started := time.Now()
	out := s.runner.Run(runCtx, extract.Input{
		Domain:  domain,
		Text:    corpus,
		RawHTML: rawHTML.String(),
		Pages:   promptPages,
	})
	s.logger.InfoContext(ctx, "extraction finished",
		slog.String("domain", domain),
		slog.String("provider", out.Provider),
		slog.String("status", out.Status),
		slog.Duration("elapsed", time.Since(started)))

	if err := validate.Outcome(&out); err != nil {
		return nil, fmt.Errorf("pipeline produced invalid outcome for %s: %w", domain, err)
	}

	rec := &cache.Record{
		Domain:  domain,
		Profile: out.Profile,
		Graph:   graph.Build(&out.Profile),
		Metadata: cache.Metadata{
			ExtractionMode:       "tiered",
			ModelName:            out.ModelName,
			Timestamp:            time.Now().UTC(),
			Offline:              out.Provider != "ollama",
			SchemaVersion:        cache.SchemaVersion,
			ExtractionConfidence: out.Confidence,
			ExtractionStatus:     out.Status,
		},
	}

	if out.Cacheable {
		if err := s.store.Save(rec); err != nil {
			s.logger.WarnContext(ctx, "failed to persist profile, serving uncached",
				slog.String("domain", domain),
				slog.String("error", err.Error()))
		}
	} else {
		s.logger.InfoContext(ctx, "outcome not cacheable, skipping persistence",
			slog.String("domain", domain),
			slog.String("status", out.Status))
	}

	return &ProcessResult{Record: rec, Cached: false}, nil
}

// Companies lists every domain with a snapshot, flagging which are cached.
func (s *ExtractionService) Companies() ([]CompanyStatus, error) {
	domains, err := s.loader.Companies()
	if err != nil {
		return nil, err
	}
	out := make([]CompanyStatus, 0, len(domains))
	for _, d := range domains {
		out = append(out, CompanyStatus{Domain: d, Cached: s.store.Has(d)})
	}
	return out, nil
}

// CompanyStatus pairs a snapshot domain with its cache state.
type CompanyStatus struct {
	Domain string `json:"domain"`
	Cached bool   `json:"cached"`
}

// Invalidate drops the cached profile for a domain.
func (s *ExtractionService) Invalidate(domain string) error {
	return s.store.Invalidate(strings.ToLower(strings.TrimSpace(domain)))
}

func flightKey(domain string, force bool) string {
	if force {
		return domain + "!force"
	}
	return domain
}
