package service

import (
	"context"
	"fmt"
	"strings"

	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// KeyStatus describes a stored provider key without revealing it. MaskedTail
// carries at most the last four characters so a parent can recognize which
// key is on file.
type KeyStatus struct {
	Configured bool   `json:"configured"`
	MaskedTail string `json:"masked_tail,omitempty"`
}

// SecretsService manages each parent's provider API key. The key itself is
// write-only from the outside: it goes in through SetProviderKey and is only
// ever read back internally, by the tutor flow. Nothing here returns it.
type SecretsService struct {
	secretsRepo *repository.SecretsRepository
	family      *FamilyService
}

// NewSecretsService creates a new secrets service
func NewSecretsService(secretsRepo *repository.SecretsRepository, family *FamilyService) *SecretsService {
	return &SecretsService{
		secretsRepo: secretsRepo,
		family:      family,
	}
}

// SetProviderKey stores or replaces a parent's provider API key. An empty
// key clears the stored value.
func (s *SecretsService) SetProviderKey(ctx context.Context, parentID, key string) error {
	if _, err := s.family.RequireParent(ctx, parentID); err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	if key != "" && len(key) < 8 {
		return validation.ValidationError{Field: "api_key", Message: "key is too short to be valid"}
	}

	if err := s.secretsRepo.SetProviderKey(ctx, parentID, key); err != nil {
		return fmt.Errorf("failed to store provider key: %w", err)
	}
	return nil
}

// GetKeyStatus reports whether a parent has a key on file, with a short
// recognizable tail
func (s *SecretsService) GetKeyStatus(ctx context.Context, parentID string) (*KeyStatus, error) {
	if _, err := s.family.RequireParent(ctx, parentID); err != nil {
		return nil, err
	}

	key, err := s.secretsRepo.GetProviderKey(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get key status: %w", err)
	}
	if key == "" {
		return &KeyStatus{Configured: false}, nil
	}

	tail := key
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return &KeyStatus{Configured: true, MaskedTail: "..." + tail}, nil
}
