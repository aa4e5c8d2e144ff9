package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/profile-resolver/internal/credential"
	"github.com/jonathan/profile-resolver/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is a test double for the task engine with call counting.
type fakeEngine struct {
	submitCalls int
	pollCalls   int

	submitID   string
	submitErr  error
	pollResult *engine.RunResult
	pollErr    error
}

func (f *fakeEngine) Submit(_ context.Context, _ string, _ engine.TaskSpec) (string, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitID, nil
}

func (f *fakeEngine) Poll(_ context.Context, _, _ string) (*engine.RunResult, error) {
	f.pollCalls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return f.pollResult, nil
}

// stubExchanger is a test double for the PKCE exchanger.
type stubExchanger struct {
	authURL string
	token   string
	err     error
}

func (s *stubExchanger) AuthCodeURL(state, _ string) string {
	return s.authURL + "?state=" + state
}

func (s *stubExchanger) Exchange(_ context.Context, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

func newTestServer(fake *fakeEngine, ex TokenExchanger) *Server {
	if ex == nil {
		ex = &stubExchanger{authURL: "https://auth.example.com/authorize", token: "tok-1"}
	}
	return New(Config{Port: 0, Engine: fake, Exchanger: ex, AppBaseURL: "/"})
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "x-api-key")
}

func resolveBody(t *testing.T, input string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{"input": input})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestResolve_UnauthenticatedMakesNoUpstreamCall(t *testing.T) {
	fake := &fakeEngine{submitID: "trun_1"}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", resolveBody(t, "jane@example.com"))
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Zero(t, fake.submitCalls)
	assertCORS(t, w)
}

func TestResolveResult_UnauthenticatedMakesNoUpstreamCall(t *testing.T) {
	fake := &fakeEngine{}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodGet, "/resolve/trun_1", nil)
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, fake.pollCalls)
	assertCORS(t, w)
}

func TestResolve_Success(t *testing.T) {
	fake := &fakeEngine{submitID: "trun_99"}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", resolveBody(t, "jane@example.com"))
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "trun_99", resp.JobID)
	assert.Equal(t, 1, fake.submitCalls)
	assertCORS(t, w)
}

func TestResolve_CredentialViaCookie(t *testing.T) {
	fake := &fakeEngine{submitID: "trun_5"}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", resolveBody(t, "jane@example.com"))
	req.AddCookie(&http.Cookie{Name: credential.CookieName, Value: "cookie-key"})
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, fake.submitCalls)
}

func TestResolve_InvalidBody(t *testing.T) {
	fake := &fakeEngine{}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte("not json")))
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
	assert.Zero(t, fake.submitCalls)
}

func TestResolve_MissingInput(t *testing.T) {
	fake := &fakeEngine{}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
	assert.Zero(t, fake.submitCalls)
}

func TestResolve_SubmissionRejected(t *testing.T) {
	fake := &fakeEngine{submitErr: &engine.ErrSubmissionRejected{StatusCode: 503}}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve", resolveBody(t, "jane@example.com"))
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assertCORS(t, w)
}

func TestResolveResult_CompletedPreservesProfiles(t *testing.T) {
	output := `{
	  "profiles": [
	    {"platform": "twitter", "profile_url": "https://twitter.com/johndoe",
	     "is_self_proclaimed": true, "is_self_referring": false,
	     "confidence": 0.92, "reasoning": "handle in input", "snippet": "@johndoe on Twitter"},
	    {"platform": "github", "profile_url": "https://github.com/johndoe",
	     "is_self_proclaimed": false, "is_self_referring": true,
	     "confidence": 0.785, "reasoning": "links back to twitter", "snippet": "johndoe - techcorp"}
	  ]
	}`
	fake := &fakeEngine{pollResult: &engine.RunResult{Status: "completed", Output: json.RawMessage(output)}}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodGet, "/resolve/trun_1", nil)
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProfilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Profiles, 2)
	assert.Equal(t, "twitter", resp.Profiles[0].Platform)
	assert.Equal(t, 0.92, resp.Profiles[0].Confidence)
	assert.Equal(t, "github", resp.Profiles[1].Platform)
	assert.Equal(t, 0.785, resp.Profiles[1].Confidence, "confidence must survive unrounded")
	assertCORS(t, w)
}

func TestResolveResult_Pending(t *testing.T) {
	fake := &fakeEngine{pollResult: &engine.RunResult{Status: "running"}}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodGet, "/resolve/trun_1", nil)
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Status)
}

func TestResolveResult_NotFoundIsNever200(t *testing.T) {
	fake := &fakeEngine{pollErr: &engine.ErrRunNotFound{RunID: "trun_gone"}}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodGet, "/resolve/trun_gone", nil)
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
	assertCORS(t, w)
}

func TestResolveResult_InvalidJobIDShape(t *testing.T) {
	fake := &fakeEngine{}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodGet, "/resolve/bad!id", nil)
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, fake.pollCalls, "a malformed id must not reach the engine")
}

func TestPreflight(t *testing.T) {
	s := newTestServer(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/resolve", nil)
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assertCORS(t, w)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assertCORS(t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := doRequest(t, s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestCORSOnEveryResponse(t *testing.T) {
	fake := &fakeEngine{submitID: "trun_1", pollResult: &engine.RunResult{Status: "queued"}}
	s := newTestServer(fake, nil)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "preflight", method: http.MethodOptions, path: "/resolve"},
		{name: "unauthenticated submit", method: http.MethodPost, path: "/resolve"},
		{name: "unknown route", method: http.MethodGet, path: "/nowhere"},
		{name: "health", method: http.MethodGet, path: "/health"},
		{name: "logout", method: http.MethodPost, path: "/api/logout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := doRequest(t, s, req)
			assertCORS(t, w)
		})
	}
}

// End-to-end scenario through the router with a fake engine: submit an input
// mixing an email and a handle, then poll once for a completed two-match result.
func TestScenario_SubmitThenPoll(t *testing.T) {
	output := `{
	  "profiles": [
	    {"platform": "twitter", "profile_url": "https://twitter.com/johndoe",
	     "is_self_proclaimed": true, "is_self_referring": false,
	     "confidence": 0.91, "reasoning": "handle named in input", "snippet": "@johndoe"},
	    {"platform": "github", "profile_url": "https://github.com/jdoe",
	     "is_self_proclaimed": false, "is_self_referring": true,
	     "confidence": 0.655, "reasoning": "bio references the twitter handle", "snippet": "jdoe - TechCorp"}
	  ]
	}`
	fake := &fakeEngine{
		submitID:   "trun_scenario",
		pollResult: &engine.RunResult{Status: "completed", Output: json.RawMessage(output)},
	}
	s := newTestServer(fake, nil)

	req := httptest.NewRequest(http.MethodPost, "/resolve",
		resolveBody(t, "john.doe@techcorp.com or @johndoe on Twitter"))
	req.Header.Set(credential.HeaderName, "key-1")
	w := doRequest(t, s, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var submitResp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	require.Equal(t, "trun_scenario", submitResp.JobID)

	req = httptest.NewRequest(http.MethodGet, "/resolve/"+submitResp.JobID, nil)
	req.Header.Set(credential.HeaderName, "key-1")
	w = doRequest(t, s, req)

	require.Equal(t, http.StatusOK, w.Code)
	var pollResp ProfilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pollResp))
	require.Len(t, pollResp.Profiles, 2)
	assert.Equal(t, "twitter", pollResp.Profiles[0].Platform)
	assert.Equal(t, "github", pollResp.Profiles[1].Platform)
	assert.Equal(t, 0.91, pollResp.Profiles[0].Confidence)
	assert.Equal(t, 0.655, pollResp.Profiles[1].Confidence)
}
