package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// defaultExchangeTimeout bounds a single token endpoint round trip.
	defaultExchangeTimeout = 30 * time.Second

	// maxTokenResponseBytes bounds how much of the token response is read.
	maxTokenResponseBytes = 1 << 20 // 1 MiB
)

// Exchanger completes authorization-code-with-PKCE exchanges. It holds only
// fixed client identity; per-attempt state (verifier, code) is supplied by the
// caller on each call.
type Exchanger struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

// Config holds the fixed OAuth client identity and endpoints.
type Config struct {
	ClientID    string
	AuthURL     string
	TokenURL    string
	RedirectURL string
}

// New creates an Exchanger for the given client identity.
func New(cfg Config) *Exchanger {
	return &Exchanger{
		cfg: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		httpClient: &http.Client{Timeout: defaultExchangeTimeout},
	}
}

// NewVerifier generates a fresh PKCE code verifier for a single authorization
// attempt. The verifier is stored client-side and consumed exactly once.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL builds the authorization endpoint redirect URL carrying the
// S256 challenge derived from verifier. The verifier itself never appears in
// the URL.
func (e *Exchanger) AuthCodeURL(state, verifier string) string {
	return e.cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// tokenResponse is the subset of the token endpoint payload the gateway uses.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
}

// Exchange trades an authorization code plus its PKCE verifier for a bearer
// credential at the token endpoint. Returns ErrMissingCode/ErrMissingVerifier
// on malformed callbacks, ErrExchangeRejected when the server answered but
// yielded no credential, and ErrUpstreamAuth on transport failure.
func (e *Exchanger) Exchange(ctx context.Context, code, verifier string) (string, error) {
	if code == "" {
		return "", &ErrMissingCode{}
	}
	if verifier == "" {
		return "", &ErrMissingVerifier{}
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("code_verifier", verifier)
	form.Set("client_id", e.cfg.ClientID)
	form.Set("redirect_uri", e.cfg.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ErrUpstreamAuth{Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &ErrUpstreamAuth{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return "", &ErrUpstreamAuth{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ErrExchangeRejected{StatusCode: resp.StatusCode}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &ErrExchangeRejected{StatusCode: resp.StatusCode}
	}
	if payload.AccessToken == "" {
		return "", &ErrExchangeRejected{StatusCode: resp.StatusCode}
	}

	return payload.AccessToken, nil
}
