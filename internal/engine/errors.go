package engine

import "fmt"

// Error represents a transport-level failure talking to the task engine.
type Error struct {
	Op      string
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine %s error for %s: %s: %v", e.Op, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("engine %s error for %s: %s", e.Op, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrRunNotFound indicates the engine has no record of the given run.
type ErrRunNotFound struct {
	RunID string
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrSubmissionRejected indicates the engine did not accept a job submission.
// The cause is ambiguous from the gateway's side: the input may have been
// malformed or the engine unavailable.
type ErrSubmissionRejected struct {
	StatusCode int
}

func (e *ErrSubmissionRejected) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("task submission rejected (status %d)", e.StatusCode)
	}
	return "task submission yielded no run id"
}
