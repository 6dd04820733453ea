package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// AccessHandler handles per-child feature toggles
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

type setAccessRequest struct {
	Feature string `json:"feature"`
	Enabled bool   `json:"enabled"`
}

// Get returns a child's access settings. Unset features read as enabled.
// GET /api/children/{id}/access
func (h *AccessHandler) Get(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())
	childID := r.PathValue("id")

	settings, err := h.access.GetSettings(r.Context(), parent.ID, childID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// Set writes one feature toggle for a child.
// PUT /api/children/{id}/access
func (h *AccessHandler) Set(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())
	childID := r.PathValue("id")

	var req setAccessRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}

	if err := h.access.SetAccess(r.Context(), parent.ID, childID, models.Feature(req.Feature), req.Enabled); err != nil {
		respondServiceError(w, err)
		return
	}

	settings, err := h.access.GetSettings(r.Context(), parent.ID, childID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
