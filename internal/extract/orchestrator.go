package extract

import (
	"context"
	"log/slog"

	"github.com/halcyondata/company-intel/internal/entity"
	"github.com/halcyondata/company-intel/internal/heuristic"
	"github.com/halcyondata/company-intel/internal/provider"
	"github.com/halcyondata/company-intel/internal/repair"
)

// Generator produces raw model output for a prompt. Satisfied by
// provider.Router.
type Generator interface {
	Generate(ctx context.Context, prompt provider.Prompt) (provider.Generation, error)
}

// Input is everything the pipeline needs for one company.
type Input struct {
	Domain  string
	Text    string
	RawHTML string
	Pages   []CleanedPage
}

// Orchestrator runs the full tiered pipeline for one company: heuristics,
// model generation, repair, and merge. It never fails outright; when the
// model layer is unusable it degrades to a heuristic-only partial outcome.
type Orchestrator struct {
	generator Generator
	extractor *heuristic.Extractor
	logger    *slog.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(generator Generator, extractor *heuristic.Extractor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{generator: generator, extractor: extractor, logger: logger}
}

// Run executes the pipeline and classifies the outcome:
//
//   - complete: the model answered with usable JSON on the first attempt
//   - repaired: a retry was needed, either a truncation retry inside the
//     model layer or a second model call after unparsable output
//   - partial:  the model layer failed; the profile is heuristic-only
//
// Partial outcomes are never cacheable, so a later run with a healthy
// model layer can replace them.
func (o *Orchestrator) Run(ctx context.Context, in Input) entity.ExtractionOutcome {
	h := o.extractor.Extract(in.Text, in.RawHTML, in.Domain)
	prompt := BuildPrompt(in.Domain, in.Pages, in.Text)

	gen, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		o.logger.WarnContext(ctx, "model layer unavailable, degrading to heuristic-only profile",
			slog.String("domain", in.Domain),
			slog.String("error", err.Error()))
		return entity.ExtractionOutcome{
			Profile:    Merge(h, nil, in.Domain),
			Provider:   "none",
			ModelName:  entity.NotFound,
			Status:     entity.ExtractionPartial,
			Confidence: entity.ConfidenceLow,
			Cacheable:  false,
		}
	}

	res, parseErr := repair.Parse(gen.Raw)
	retried := false
	if parseErr != nil {
		o.logger.WarnContext(ctx, "model output unusable after repair, retrying model call once",
			slog.String("domain", in.Domain),
			slog.String("provider", gen.Provider),
			slog.String("error", parseErr.Error()))
		retried = true
		if retryGen, retryErr := o.generator.Generate(ctx, prompt); retryErr == nil {
			gen = retryGen
			res, parseErr = repair.Parse(gen.Raw)
		}
	}
	if parseErr != nil {
		o.logger.WarnContext(ctx, "model output unusable after retry, degrading to heuristic-only profile",
			slog.String("domain", in.Domain),
			slog.String("provider", gen.Provider),
			slog.String("error", parseErr.Error()))
		profile := Merge(h, nil, in.Domain)
		return entity.ExtractionOutcome{
			Profile:    profile,
			Provider:   gen.Provider,
			ModelName:  gen.ModelName,
			Status:     entity.ExtractionPartial,
			Confidence: confidenceFor(profile),
			Cacheable:  false,
		}
	}

	fields := ParseModelFields(repair.UnwrapEnvelope(res.Document))
	profile := Merge(h, &fields, in.Domain)

	status := entity.ExtractionComplete
	if retried || gen.Retried {
		status = entity.ExtractionRepaired
	}

	return entity.ExtractionOutcome{
		Profile:    profile,
		Provider:   gen.Provider,
		ModelName:  gen.ModelName,
		Status:     status,
		Confidence: confidenceFor(profile),
		Cacheable:  true,
	}
}

// confidenceFor is high unless the people search came back empty, which is
// the most common sign of a thin or unusual website.
func confidenceFor(p entity.CompanyProfile) string {
	if p.PeopleStatus == entity.StatusValidatedAbsent {
		return entity.ConfidenceMedium
	}
	return entity.ConfidenceHigh
}
