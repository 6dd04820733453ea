package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// ChildrenHandler handles the parent-facing child management endpoints
type ChildrenHandler struct {
	provisioning *service.ProvisioningService
	credentials  *service.CredentialService
	family       *service.FamilyService
}

// NewChildrenHandler creates a new children handler
func NewChildrenHandler(provisioning *service.ProvisioningService, credentials *service.CredentialService, family *service.FamilyService) *ChildrenHandler {
	return &ChildrenHandler{
		provisioning: provisioning,
		credentials:  credentials,
		family:       family,
	}
}

type createChildRequest struct {
	Username string `json:"username"`
	AgeGroup string `json:"age_group"`
}

// Create provisions a new child under the calling parent.
// POST /api/children
func (h *ChildrenHandler) Create(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())

	var req createChildRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}

	child, err := h.provisioning.ProvisionChild(r.Context(), parent.ID, req.Username, req.AgeGroup)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}

// List returns the calling parent's children.
// GET /api/children
func (h *ChildrenHandler) List(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())

	children, err := h.family.ListChildren(r.Context(), parent.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if children == nil {
		children = []models.Profile{}
	}

	respondJSON(w, http.StatusOK, children)
}

// Rotate regenerates a child's sign-in credentials and returns them once.
// POST /api/children/{id}/credentials
func (h *ChildrenHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())
	childID := r.PathValue("id")

	creds, err := h.credentials.Rotate(r.Context(), parent.ID, childID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, creds)
}

// Detach removes the link between the calling parent and a child. The
// child's profile and data survive.
// DELETE /api/children/{id}
func (h *ChildrenHandler) Detach(w http.ResponseWriter, r *http.Request) {
	parent := GetProfileFromContext(r.Context())
	childID := r.PathValue("id")

	if err := h.family.DeleteLink(r.Context(), parent.ID, childID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
