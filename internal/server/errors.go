package server

import (
	"net/http"

	"github.com/jonathan/profile-resolver/internal/engine"
	"github.com/jonathan/profile-resolver/internal/oauth"
	"github.com/jonathan/profile-resolver/internal/resolver"
)

// HTTPStatus returns the appropriate HTTP status code for an adapter error.
// Exchange rejections are client errors: the failure is a consequence of
// caller-supplied input. Submission rejections are ambiguous (bad input or
// upstream outage) and surface as 500.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *resolver.ErrUnauthenticated:
		return http.StatusUnauthorized
	case *oauth.ErrMissingCode, *oauth.ErrMissingVerifier, *oauth.ErrExchangeRejected:
		return http.StatusBadRequest
	case *engine.ErrRunNotFound:
		return http.StatusNotFound
	case *engine.ErrSubmissionRejected, *oauth.ErrUpstreamAuth:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
