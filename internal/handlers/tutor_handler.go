package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/service"
)

// TutorHandler proxies tutoring questions to the AI provider. The provider
// key is resolved server side and never appears in the response.
type TutorHandler struct {
	tutorService *service.TutorService
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutorService *service.TutorService) *TutorHandler {
	return &TutorHandler{tutorService: tutorService}
}

type tutorRequest struct {
	Message  string `json:"message"`
	Subject  string `json:"subject"`
	AgeGroup string `json:"age_group"`
	// APIKey lets a parent pay with a one-off key for this call. Ignored
	// for children.
	APIKey string `json:"api_key,omitempty"`
}

type tutorResponse struct {
	Response string `json:"response"`
}

// Ask runs one tutoring exchange.
// POST /api/tutor
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())

	var req tutorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "message is required")
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "subject is required")
		return
	}

	// Children always ask at their own age level regardless of what the
	// client sends.
	ageGroup := req.AgeGroup
	if profile.IsChild() && profile.AgeGroup != "" {
		ageGroup = profile.AgeGroup
	}

	reply, err := h.tutorService.Ask(r.Context(), profile, req.Message, req.Subject, ageGroup, req.APIKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tutorResponse{Response: reply})
}
