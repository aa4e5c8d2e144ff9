package resolver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/profile-resolver/internal/engine"
	"github.com/xeipuuv/gojsonschema"
)

// upstreamCompleted is the engine status that carries a result.
const upstreamCompleted = "completed"

// Poller looks up the outcome of a previously submitted job. Each call is a
// single-shot query against the engine; nothing is cached between calls, so
// repeated polls of a completed job return the same completed outcome.
type Poller struct {
	engine engine.Client
}

// NewPoller creates a Poller backed by the given engine client.
func NewPoller(c engine.Client) *Poller {
	return &Poller{engine: c}
}

// Result polls the engine once for runID and normalizes the response into an
// Outcome. Fails with ErrUnauthenticated before any upstream call when no
// credential is supplied.
func (p *Poller) Result(ctx context.Context, runID, apiKey string) (*Outcome, error) {
	if apiKey == "" {
		return nil, &ErrUnauthenticated{}
	}

	run, err := p.engine.Poll(ctx, apiKey, runID)
	if err != nil {
		var notFound *engine.ErrRunNotFound
		if errors.As(err, &notFound) {
			return &Outcome{Status: StatusNotFound}, nil
		}
		return nil, err
	}

	if run.Status == upstreamCompleted {
		return &Outcome{
			Status:   StatusCompleted,
			Profiles: extractProfiles(run.Output),
		}, nil
	}

	return &Outcome{Status: StatusPending, RawStatus: run.Status}, nil
}

// extractProfiles pulls the profile list out of a completed run's output.
// The output is validated against the same schema the job was submitted with;
// a payload that does not match degrades to an empty list rather than failing
// the poll, since a malformed result is the engine's fault, not the caller's.
func extractProfiles(output json.RawMessage) []ProfileMatch {
	if len(output) == 0 {
		return []ProfileMatch{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(outputSchemaJSON),
		gojsonschema.NewBytesLoader(output),
	)
	if err != nil || !result.Valid() {
		return []ProfileMatch{}
	}

	var payload struct {
		Profiles []ProfileMatch `json:"profiles"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return []ProfileMatch{}
	}
	if payload.Profiles == nil {
		return []ProfileMatch{}
	}
	return payload.Profiles
}
