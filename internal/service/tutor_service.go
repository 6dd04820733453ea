package service

import (
	"context"
	"fmt"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/tutor"
)

// TutorService fronts the AI tutoring provider. Its job is delegated key
// resolution: a parent's calls are billed to their own key, a child's calls
// to the linked parent's key. The resolved key lives only for the duration
// of the single outbound call and is never part of any return value.
type TutorService struct {
	client      *tutor.Client
	secretsRepo *repository.SecretsRepository
	family      *FamilyService
	access      *AccessService
	timeout     time.Duration
}

// NewTutorService creates a new tutor service
func NewTutorService(client *tutor.Client, secretsRepo *repository.SecretsRepository, family *FamilyService, access *AccessService, timeout time.Duration) *TutorService {
	return &TutorService{
		client:      client,
		secretsRepo: secretsRepo,
		family:      family,
		access:      access,
		timeout:     timeout,
	}
}

// ResolveProviderKey finds the API key that should fund a profile's request.
// Parents use their own key; children use their linked parent's. A detached
// child, or a family with no key on file, resolves to "".
func (s *TutorService) ResolveProviderKey(ctx context.Context, profile *models.Profile) (string, error) {
	payerID := profile.ID
	if profile.IsChild() {
		parentID, err := s.family.LinkedParent(ctx, profile.ID)
		if err != nil {
			return "", err
		}
		if parentID == "" {
			return "", nil
		}
		payerID = parentID
	}

	key, err := s.secretsRepo.GetProviderKey(ctx, payerID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve provider key: %w", err)
	}
	return key, nil
}

// Ask runs one tutoring exchange for a profile. overrideKey lets a parent
// supply a key for just this call instead of storing one; children can
// never override, their requests always resolve through the family link.
func (s *TutorService) Ask(ctx context.Context, profile *models.Profile, message, subject, ageGroup, overrideKey string) (string, error) {
	if profile.IsChild() {
		allowed, err := s.access.HasAccess(ctx, profile, models.FeatureTutors)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", ErrNotAuthorized
		}
	}

	apiKey := ""
	if profile.IsParent() && overrideKey != "" {
		apiKey = overrideKey
	} else {
		resolved, err := s.ResolveProviderKey(ctx, profile)
		if err != nil {
			return "", err
		}
		apiKey = resolved
	}
	if apiKey == "" {
		return "", tutor.ErrMissingKey
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.Chat(ctx, apiKey, tutor.SystemPrompt(subject, ageGroup), message)
}
