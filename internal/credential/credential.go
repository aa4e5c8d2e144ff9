// Package credential encodes and decodes the caller's bearer credential as
// HTTP request/response state. The gateway never stores credentials server-side:
// the token lives either in an explicit per-request header or in an HTTP-only
// cookie held by the client.
package credential

import (
	"net/http"
	"time"
)

const (
	// HeaderName is the per-request credential header. It takes precedence
	// over the cookie when both are present.
	HeaderName = "x-api-key"

	// CookieName is the session cookie carrying the credential between requests.
	CookieName = "api_key"

	// VerifierCookieName carries the PKCE code verifier between the login
	// redirect and the OAuth callback. The verifier must never appear in a URL.
	VerifierCookieName = "code_verifier"
)

const (
	// cookieMaxAge bounds the credential cookie lifetime. Finite so the token
	// does not live forever, long enough to survive browser restarts.
	cookieMaxAge = 30 * 24 * time.Hour

	// verifierMaxAge bounds a single in-flight authorization attempt.
	verifierMaxAge = 10 * time.Minute
)

// FromRequest extracts the caller's credential. Precedence: explicit header,
// then session cookie. Returns false when neither is present; a credential is
// never invented or defaulted.
func FromRequest(r *http.Request) (string, bool) {
	if key := r.Header.Get(HeaderName); key != "" {
		return key, true
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// SetCookie attaches a credential cookie directive to the response.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie emits an immediately-expired credential cookie directive.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, expiredCookie(CookieName))
}

// SetVerifierCookie attaches a short-lived PKCE verifier cookie to the response.
func SetVerifierCookie(w http.ResponseWriter, verifier string) {
	http.SetCookie(w, &http.Cookie{
		Name:     VerifierCookieName,
		Value:    verifier,
		Path:     "/",
		MaxAge:   int(verifierMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// VerifierFromRequest extracts the PKCE verifier from the client-held cookie.
func VerifierFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(VerifierCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// ClearVerifierCookie invalidates the verifier cookie once it has been consumed.
func ClearVerifierCookie(w http.ResponseWriter) {
	http.SetCookie(w, expiredCookie(VerifierCookieName))
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
