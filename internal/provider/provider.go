// Package provider abstracts the model backends that turn website text into
// structured JSON. Backends are tried in a fixed order by the Router; every
// backend must be able to report availability cheaply, without loading
// model weights or opening long-lived connections.
package provider

import (
	"context"
	"errors"
)

// ErrUnavailable marks a backend that cannot serve requests right now.
var ErrUnavailable = errors.New("provider unavailable")

// Prompt is one request to a backend. System and User form the base
// exchange. PriorAnswer and FollowUp, when both set, continue that
// exchange: the assistant's previous incomplete answer and a corrective
// user instruction. Backends are stateless, so the retry must carry the
// whole conversation.
type Prompt struct {
	System      string
	User        string
	PriorAnswer string
	FollowUp    string
}

// Provider is one model backend.
type Provider interface {
	// Name identifies the backend in logs and responses.
	Name() string
	// ModelName is the concrete model the backend runs.
	ModelName() string
	// Available reports whether the backend can serve a request. It must
	// be cheap and must never trigger model loading.
	Available(ctx context.Context) bool
	// Generate sends the prompt and returns the raw model text.
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
