package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/profile-resolver/internal/credential"
	"github.com/jonathan/profile-resolver/internal/oauth"
)

// handleLogin starts a delegated authorization attempt: it generates a fresh
// PKCE verifier, parks it in a short-lived cookie, and redirects the user to
// the authorization endpoint with the derived challenge.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	verifier := oauth.NewVerifier()
	state := uuid.NewString()

	credential.SetVerifierCookie(w, verifier)
	http.Redirect(w, r, s.exchanger.AuthCodeURL(state, verifier), http.StatusFound)
}

// handleCallback completes the authorization-code exchange. The verifier comes
// from the client-held cookie, never from the URL. Callback failures are plain
// text; success sets the credential cookie, clears the verifier cookie, and
// redirects back to the application root.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	verifier, ok := credential.VerifierFromRequest(r)
	if !ok {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	token, err := s.exchanger.Exchange(r.Context(), code, verifier)
	if err != nil {
		log.Printf("Token exchange failed: %v", err)
		http.Error(w, "authorization failed", HTTPStatus(err))
		return
	}

	credential.SetCookie(w, token)
	credential.ClearVerifierCookie(w)
	http.Redirect(w, r, s.appURL("?auth=success"), http.StatusFound)
}

// handleLogout clears the credential cookie and redirects to the application
// root. The cookie is expired regardless of whether one was previously set.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	credential.ClearCookie(w)
	http.Redirect(w, r, s.appURL(""), http.StatusFound)
}

// appURL joins a suffix onto the application base URL.
func (s *Server) appURL(suffix string) string {
	base := strings.TrimRight(s.appBaseURL, "/")
	if suffix == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + "/" + suffix
}
