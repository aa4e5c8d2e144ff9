// Package oauth implements the PKCE authorization-code exchange against the
// upstream authorization server.
package oauth

import "fmt"

// ErrMissingCode indicates the OAuth callback carried no authorization code.
type ErrMissingCode struct{}

func (e *ErrMissingCode) Error() string {
	return "missing authorization code"
}

// ErrMissingVerifier indicates the PKCE verifier cookie was absent on callback.
type ErrMissingVerifier struct{}

func (e *ErrMissingVerifier) Error() string {
	return "missing code verifier"
}

// ErrExchangeRejected indicates the authorization server answered the exchange
// but produced no usable credential. The failure is caller-caused (bad code,
// expired verifier), not a fault of this gateway.
type ErrExchangeRejected struct {
	StatusCode int
}

func (e *ErrExchangeRejected) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange rejected (status %d)", e.StatusCode)
	}
	return "token exchange yielded no credential"
}

// ErrUpstreamAuth indicates a transport failure talking to the authorization
// server. Details are deliberately generic; the caller only learns that the
// upstream was unreachable.
type ErrUpstreamAuth struct {
	Cause error
}

func (e *ErrUpstreamAuth) Error() string {
	return fmt.Sprintf("authorization server unreachable: %v", e.Cause)
}

func (e *ErrUpstreamAuth) Unwrap() error {
	return e.Cause
}
