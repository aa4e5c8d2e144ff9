// Package resolver translates identity-resolution requests into task engine
// jobs and normalizes engine run state into job outcomes.
package resolver

// ProfileMatch is one candidate profile from a completed resolution job.
//
// The canonical name for the "mentioned directly in the input" flag is
// is_self_proclaimed; the is_self_proclaimed_from_input variant that appears
// in some upstream documentation is not used anywhere in this gateway.
type ProfileMatch struct {
	Platform         string  `json:"platform"`
	ProfileURL       string  `json:"profile_url"`
	IsSelfProclaimed bool    `json:"is_self_proclaimed"`
	IsSelfReferring  bool    `json:"is_self_referring"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
	Snippet          string  `json:"snippet"`
}

// Status is the normalized state of a resolution job.
type Status string

const (
	// StatusCompleted is terminal; the outcome carries zero or more matches.
	StatusCompleted Status = "completed"
	// StatusPending covers every live upstream state; the raw upstream status
	// string is surfaced for client-side display. Pending is the only
	// retry-eligible state.
	StatusPending Status = "pending"
	// StatusNotFound is terminal; the engine has no record of the job.
	StatusNotFound Status = "not_found"
)

// Outcome is the tagged result of a single poll.
type Outcome struct {
	Status Status
	// RawStatus is the upstream status string, set when Status is pending.
	RawStatus string
	// Profiles is set when Status is completed. Order is whatever the engine
	// returned; it is not guaranteed stable across polls.
	Profiles []ProfileMatch
}
