package handlers

import (
	"net/http"

	"familyhub/internal/service"
)

// SettingsHandler handles the parent's provider API key. The key is
// write-only over the API: PUT stores it, GET only ever reports a masked
// status.
type SettingsHandler struct {
	secrets *service.SecretsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(secrets *service.SecretsService) *SettingsHandler {
	return &SettingsHandler{secrets: secrets}
}

type putKeyRequest struct {
	APIKey string `json:"api_key"`
}

// GetKeyStatus reports whether a key is configured, without revealing it.
// GET /api/settings/api-key
func (h *SettingsHandler) GetKeyStatus(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())

	status, err := h.secrets.GetKeyStatus(r.Context(), parent.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// PutKey stores or clears the calling parent's provider API key.
// PUT /api/settings/api-key
func (h *SettingsHandler) PutKey(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())

	var req putKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}

	if err := h.secrets.SetProviderKey(r.Context(), parent.ID, req.APIKey); err != nil {
		respondServiceError(w, err)
		return
	}

	status, err := h.secrets.GetKeyStatus(r.Context(), parent.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}
