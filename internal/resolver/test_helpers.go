package resolver

import (
	"context"
	"encoding/json"

	"github.com/jonathan/profile-resolver/internal/engine"
)

// fakeEngine is a test double for the task engine. It records calls and
// returns canned responses.
type fakeEngine struct {
	submitCalls int
	pollCalls   int

	lastSpec   engine.TaskSpec
	lastRunID  string
	lastAPIKey string

	submitIDs  []string // returned in order; last one repeats
	submitErr  error
	pollResult *engine.RunResult
	pollErr    error
}

func (f *fakeEngine) Submit(_ context.Context, apiKey string, spec engine.TaskSpec) (string, error) {
	f.submitCalls++
	f.lastAPIKey = apiKey
	f.lastSpec = spec
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if len(f.submitIDs) == 0 {
		return "trun_default", nil
	}
	id := f.submitIDs[0]
	if len(f.submitIDs) > 1 {
		f.submitIDs = f.submitIDs[1:]
	}
	return id, nil
}

func (f *fakeEngine) Poll(_ context.Context, apiKey, runID string) (*engine.RunResult, error) {
	f.pollCalls++
	f.lastAPIKey = apiKey
	f.lastRunID = runID
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return f.pollResult, nil
}

func completedRun(content string) *engine.RunResult {
	return &engine.RunResult{Status: "completed", Output: json.RawMessage(content)}
}
