package resolver

// ErrUnauthenticated indicates no credential accompanied the request. The
// adapters fail fast on this before any upstream call is made.
type ErrUnauthenticated struct{}

func (e *ErrUnauthenticated) Error() string {
	return "missing credential"
}
