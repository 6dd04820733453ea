package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"familyhub/internal/identity"
	"familyhub/internal/service"
	"familyhub/internal/tutor"
	"familyhub/internal/validation"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validation.ValidationError{Field: "username", Message: "required"}, http.StatusBadRequest, "InvalidRequest"},
		{"not authorized", service.ErrNotAuthorized, http.StatusForbidden, "NotAuthorized"},
		{"profile not found", service.ErrProfileNotFound, http.StatusNotFound, "NotFound"},
		{"identity not found", service.ErrIdentityNotFound, http.StatusNotFound, "NotFound"},
		{"already linked", service.ErrChildAlreadyLinked, http.StatusConflict, "Conflict"},
		{"bad credentials", identity.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
		{"email taken", identity.ErrEmailTaken, http.StatusConflict, "Conflict"},
		{"store down", identity.ErrUnavailable, http.StatusServiceUnavailable, "Unavailable"},
		{"missing key", tutor.ErrMissingKey, http.StatusBadRequest, "MissingKey"},
		{"invalid key", tutor.ErrInvalidKey, http.StatusBadGateway, "InvalidKey"},
		{"rate limited", tutor.ErrRateLimited, http.StatusTooManyRequests, "RateLimited"},
		{"provider error", tutor.ErrProviderError, http.StatusBadGateway, "ProviderError"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRespondServiceErrorWrappedSentinels(t *testing.T) {
	// Services wrap sentinels with context; the mapping must still hit.
	err := &service.OrphanError{IdentityID: "abc-123", Cause: service.ErrFamilyLinkFailed, CleanupErr: errors.New("provider down")}

	rec := httptest.NewRecorder()
	respondServiceError(rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.Code != "ProvisioningIncomplete" {
		t.Errorf("code = %q, want ProvisioningIncomplete", body.Error.Code)
	}
	if strings.Contains(body.Error.Message, "abc-123") {
		t.Error("orphan identity id leaked into the client-facing message")
	}
}
