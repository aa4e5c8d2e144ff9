package resolver

import (
	"context"

	"github.com/jonathan/profile-resolver/internal/engine"
)

// Submitter turns resolution requests into task engine jobs.
type Submitter struct {
	engine engine.Client
}

// NewSubmitter creates a Submitter backed by the given engine client.
func NewSubmitter(c engine.Client) *Submitter {
	return &Submitter{engine: c}
}

// Submit builds the job specification for input and submits it, returning the
// engine's opaque job identifier. Fails with ErrUnauthenticated before any
// upstream call when no credential is supplied. Exactly one engine job is
// created per call; idempotency is the caller's responsibility.
func (s *Submitter) Submit(ctx context.Context, input, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &ErrUnauthenticated{}
	}
	return s.engine.Submit(ctx, apiKey, BuildTaskSpec(input))
}
