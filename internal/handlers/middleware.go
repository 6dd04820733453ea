package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const ProfileContextKey ContextKey = "profile"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens      *security.TokenManager
	profileRepo *repository.ProfileRepository
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenManager, profileRepo *repository.ProfileRepository, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		tokens:      tokens,
		profileRepo: profileRepo,
		limiter:     limiter,
	}
}

// RequireAuth validates the bearer token and loads the caller's profile
// into the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "Unauthenticated", "missing bearer token")
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "InvalidToken", "session is invalid or expired")
			return
		}

		profile, err := m.profileRepo.GetByID(r.Context(), claims.Subject)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if profile == nil {
			// Token for a profile that no longer exists.
			respondError(w, http.StatusUnauthorized, "InvalidToken", "session is invalid or expired")
			return
		}

		ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
		next(w, r.WithContext(ctx))
	}
}

// RequireParent rejects callers whose profile is not a parent account.
// Must run inside RequireAuth.
func (m *Middleware) RequireParent(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := GetProfileFromContext(r.Context())
		if profile == nil || !profile.IsParent() {
			respondError(w, http.StatusForbidden, "NotAuthorized", "this action requires a parent account")
			return
		}
		next(w, r)
	}
}

// RateLimit applies per-IP rate limiting, used on the login endpoint
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !m.limiter.Allow(ip) {
			respondError(w, http.StatusTooManyRequests, "RateLimited", "too many requests, try again later")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetProfileFromContext retrieves the caller's profile from the request context
func GetProfileFromContext(ctx context.Context) *models.Profile {
	profile, ok := ctx.Value(ProfileContextKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
