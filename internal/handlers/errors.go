package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"familyhub/internal/identity"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/tutor"
	"familyhub/internal/validation"
)

// errorBody is the JSON error envelope every endpoint uses. Code is a stable
// machine-readable string; Message is safe to show to a user. Upstream
// provider text never lands in either field.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	respondJSON(w, status, body)
}

// respondServiceError maps domain errors to HTTP statuses and stable codes
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	var orphan *service.OrphanError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "InvalidRequest", validationErr.Error())

	case errors.As(err, &orphan):
		// The cleanup failure and orphan id go to the log; the client only
		// learns that provisioning did not complete.
		log.Printf("Provisioning left orphaned identity %s: %v", orphan.IdentityID, orphan.CleanupErr)
		respondError(w, http.StatusInternalServerError, "ProvisioningIncomplete", "child account creation did not complete; it will be cleaned up")

	case errors.Is(err, service.ErrNotAuthorized):
		respondError(w, http.StatusForbidden, "NotAuthorized", "you do not have access to this resource")

	case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrIdentityNotFound):
		respondError(w, http.StatusNotFound, "NotFound", "resource not found")

	case errors.Is(err, service.ErrChildAlreadyLinked):
		respondError(w, http.StatusConflict, "Conflict", "this child already belongs to another family")

	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "InvalidCredentials", "invalid email or password")

	case errors.Is(err, identity.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Conflict", "email already registered")

	case errors.Is(err, identity.ErrUnavailable):
		log.Printf("Identity store unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Unavailable", "the service is temporarily unavailable")

	case errors.Is(err, security.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "InvalidToken", "session is invalid or expired")

	case errors.Is(err, tutor.ErrMissingKey):
		respondError(w, http.StatusBadRequest, "MissingKey", "no provider API key is configured for this family")

	case errors.Is(err, tutor.ErrInvalidKey):
		respondError(w, http.StatusBadGateway, "InvalidKey", "the configured provider API key was rejected")

	case errors.Is(err, tutor.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "RateLimited", "the provider is rate limiting requests, try again shortly")

	case errors.Is(err, tutor.ErrProviderError):
		log.Printf("Tutor provider error: %v", err)
		respondError(w, http.StatusBadGateway, "ProviderError", "the tutoring provider could not handle the request")

	default:
		log.Printf("Unhandled error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal", "internal server error")
	}
}

// decodeJSON parses a request body, rejecting unknown fields
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
