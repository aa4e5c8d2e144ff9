package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/profile-resolver/internal/credential"
	"github.com/jonathan/profile-resolver/internal/resolver"
)

// ResolveRequest represents the request body for POST /resolve.
type ResolveRequest struct {
	Input string `json:"input" validate:"required"`
}

// ResolveResponse represents the response for POST /resolve.
type ResolveResponse struct {
	JobID string `json:"job_id"`
}

// StatusResponse represents the response for a pending or failed job.
type StatusResponse struct {
	Status string `json:"status"`
}

// ProfilesResponse represents the response for a completed job.
type ProfilesResponse struct {
	Profiles []resolver.ProfileMatch `json:"profiles"`
}

// jobIDPattern bounds the shape of a job identifier path parameter. The id is
// opaque and never interpreted; only its shape is checked.
var jobIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// handleResolve submits a new resolution job to the task engine.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	apiKey, _ := credential.FromRequest(r)

	jobID, err := s.submitter.Submit(r.Context(), req.Input, apiKey)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	log.Printf("Submitted resolution job %s", jobID)
	s.jsonResponse(w, http.StatusAccepted, ResolveResponse{JobID: jobID})
}

// handleResolveResult polls the task engine once for a job's outcome.
func (s *Server) handleResolveResult(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if !jobIDPattern.MatchString(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job id format")
		return
	}

	apiKey, _ := credential.FromRequest(r)

	outcome, err := s.poller.Result(r.Context(), jobID, apiKey)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	switch outcome.Status {
	case resolver.StatusCompleted:
		s.jsonResponse(w, http.StatusOK, ProfilesResponse{Profiles: outcome.Profiles})
	case resolver.StatusNotFound:
		s.errorResponse(w, http.StatusNotFound, "job not found: "+jobID)
	default:
		s.jsonResponse(w, http.StatusOK, StatusResponse{Status: outcome.RawStatus})
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
