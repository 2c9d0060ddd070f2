package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/halcyondata/company-intel/internal/repair"
)

// ErrNoProvider means every backend was unavailable or failed.
var ErrNoProvider = errors.New("no model provider could serve the request")

// Generation is a successful model call.
type Generation struct {
	Raw       string
	Provider  string
	ModelName string
	Retried   bool
}

// ProviderHealth is one backend's point-in-time status.
type ProviderHealth struct {
	Name      string `json:"name"`
	ModelName string `json:"model_name"`
	Available bool   `json:"available"`
}

// Router tries backends in registration order and returns the first usable
// completion. A truncated completion gets exactly one retry against the
// same backend before the router moves on or gives up.
type Router struct {
	providers []Provider
	softLimit time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	lastUsed string
}

// NewRouter builds a router over the given backends. softLimit is advisory:
// crossing it is logged, never enforced.
func NewRouter(logger *slog.Logger, softLimit time.Duration, providers ...Provider) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{providers: providers, softLimit: softLimit, logger: logger}
}

// Generate routes the prompt to the first available backend. Unavailable
// and failing backends are skipped; only when every backend is exhausted
// does the call fail.
func (r *Router) Generate(ctx context.Context, prompt Prompt) (Generation, error) {
	start := time.Now()
	var lastErr error

	for _, p := range r.providers {
		if !p.Available(ctx) {
			r.logger.InfoContext(ctx, "provider unavailable, skipping",
				slog.String("provider", p.Name()))
			continue
		}

		raw, err := p.Generate(ctx, prompt)
		if err != nil {
			r.logger.WarnContext(ctx, "provider generation failed",
				slog.String("provider", p.Name()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		retried := false
		if !repair.IsComplete(raw) {
			r.logger.WarnContext(ctx, "completion looks truncated, retrying once",
				slog.String("provider", p.Name()))
			if fixed, retryErr := p.Generate(ctx, truncationRetryPrompt(prompt, raw)); retryErr == nil && fixed != "" {
				raw = fixed
			}
			retried = true
		}

		r.noteSoftLimit(ctx, start, p.Name())
		r.setLastUsed(p.Name())
		return Generation{Raw: raw, Provider: p.Name(), ModelName: p.ModelName(), Retried: retried}, nil
	}

	if lastErr != nil {
		return Generation{}, fmt.Errorf("%w: last error: %v", ErrNoProvider, lastErr)
	}
	return Generation{}, ErrNoProvider
}

// Health reports every backend's availability without generating anything.
func (r *Router) Health(ctx context.Context) []ProviderHealth {
	out := make([]ProviderHealth, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, ProviderHealth{
			Name:      p.Name(),
			ModelName: p.ModelName(),
			Available: p.Available(ctx),
		})
	}
	return out
}

// LastUsed returns the backend that served the most recent completion, or
// an empty string before the first one.
func (r *Router) LastUsed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastUsed
}

func (r *Router) setLastUsed(name string) {
	r.mu.Lock()
	r.lastUsed = name
	r.mu.Unlock()
}

func (r *Router) noteSoftLimit(ctx context.Context, start time.Time, providerName string) {
	elapsed := time.Since(start)
	if r.softLimit > 0 && elapsed > r.softLimit {
		r.logger.WarnContext(ctx, "generation exceeded soft time limit",
			slog.String("provider", providerName),
			slog.Duration("elapsed", elapsed),
			slog.Duration("limit", r.softLimit))
	}
}

// truncationRetryPrompt continues the original exchange: the backend gets
// the untouched website prompt, its own cut-off answer as the assistant
// turn, and the instruction to finish the job.
func truncationRetryPrompt(prompt Prompt, truncated string) Prompt {
	return Prompt{
		System:      prompt.System,
		User:        prompt.User,
		PriorAnswer: truncated,
		FollowUp:    "Your previous answer was truncated. Send the complete JSON object again, valid and with no other text.",
	}
}
