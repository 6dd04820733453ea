package handlers

import (
	"net/http"
	"strings"
	"time"

	"familyhub/internal/identity"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"
)

// AuthHandler handles login and session introspection
type AuthHandler struct {
	identities  identity.Store
	tokens      *security.TokenManager
	profileRepo *repository.ProfileRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identities identity.Store, tokens *security.TokenManager, profileRepo *repository.ProfileRepository) *AuthHandler {
	return &AuthHandler{
		identities:  identities,
		tokens:      tokens,
		profileRepo: profileRepo,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

// Login verifies an email/password pair and mints a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "InvalidRequest", "malformed request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondServiceError(w, err)
		return
	}
	if req.Password == "" {
		respondServiceError(w, validation.ValidationError{Field: "password", Message: "password is required"})
		return
	}

	ident, err := h.identities.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	profile, err := h.profileRepo.GetByID(r.Context(), ident.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if profile == nil {
		// Identity exists but provisioning never completed.
		respondError(w, http.StatusUnauthorized, "InvalidCredentials", "invalid email or password")
		return
	}

	token, expiresAt, err := h.tokens.Issue(profile.ID, profile.UserType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profile,
	})
}

// Me returns the caller's own profile.
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile := GetProfileFromContext(r.Context())
	if profile == nil {
		respondError(w, http.StatusUnauthorized, "Unauthenticated", "missing bearer token")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
