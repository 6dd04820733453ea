package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// HTTPStore talks to a hosted authentication provider's admin API. The
// service authenticates itself with client credentials; per-request timeouts
// come from the caller's context plus the client's own cap.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// HTTPStoreConfig configures the hosted identity store client
type HTTPStoreConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewHTTPStore creates a client for a hosted identity provider
func NewHTTPStore(cfg HTTPStoreConfig) *HTTPStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	client := creds.Client(context.Background())
	client.Timeout = timeout

	return &HTTPStore{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

type wireIdentity struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Metadata      struct {
		DisplayName string `json:"display_name"`
		UserType    string `json:"user_type"`
		AgeGroup    string `json:"age_group"`
	} `json:"user_metadata"`
}

func (w *wireIdentity) toIdentity() *Identity {
	return &Identity{
		ID:            w.ID,
		Email:         w.Email,
		DisplayName:   w.Metadata.DisplayName,
		UserType:      w.Metadata.UserType,
		AgeGroup:      w.Metadata.AgeGroup,
		EmailVerified: w.EmailVerified,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// Create registers a new identity through the admin API
func (s *HTTPStore) Create(ctx context.Context, n NewIdentity) (*Identity, error) {
	body := map[string]interface{}{
		"email":         n.Email,
		"password":      n.Password,
		"email_confirm": n.EmailVerified,
		"user_metadata": map[string]string{
			"display_name": n.DisplayName,
			"user_type":    n.UserType,
			"age_group":    n.AgeGroup,
		},
	}

	var wire wireIdentity
	if err := s.do(ctx, http.MethodPost, "/admin/users", body, &wire); err != nil {
		return nil, err
	}
	return wire.toIdentity(), nil
}

// Get fetches an identity by id through the admin API
func (s *HTTPStore) Get(ctx context.Context, id string) (*Identity, error) {
	var wire wireIdentity
	if err := s.do(ctx, http.MethodGet, "/admin/users/"+id, nil, &wire); err != nil {
		return nil, err
	}
	return wire.toIdentity(), nil
}

// UpdatePassword replaces the password for an identity
func (s *HTTPStore) UpdatePassword(ctx context.Context, id, password string) error {
	body := map[string]string{"password": password}
	return s.do(ctx, http.MethodPut, "/admin/users/"+id, body, nil)
}

// Delete removes an identity
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil)
}

// Authenticate verifies an email/password pair via the password grant
func (s *HTTPStore) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var out struct {
		User wireIdentity `json:"user"`
	}
	err := s.do(ctx, http.MethodPost, "/token?grant_type=password", body, &out)
	if err != nil {
		// An unknown email comes back as a 404; surface it as invalid
		// credentials rather than a store failure.
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return out.User.toIdentity(), nil
}

// do performs one admin API round trip and maps the status to package errors
func (s *HTTPStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrEmailTaken
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
