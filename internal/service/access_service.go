package service

import (
	"context"
	"fmt"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// AccessService answers "may this account use this feature" and lets the
// linked parent change the answer. Absence of configuration means allowed:
// a child with no settings row, or a row with an unset column, gets every
// feature. Restriction is an explicit parental act, never a default.
type AccessService struct {
	accessRepo *repository.AccessRepository
	family     *FamilyService
}

// NewAccessService creates a new access service
func NewAccessService(accessRepo *repository.AccessRepository, family *FamilyService) *AccessService {
	return &AccessService{
		accessRepo: accessRepo,
		family:     family,
	}
}

// HasAccess reports whether a profile may use a feature. Parents are never
// gated. Storage errors deny rather than fail the caller's request.
func (s *AccessService) HasAccess(ctx context.Context, profile *models.Profile, feature models.Feature) (bool, error) {
	if profile.IsParent() {
		return true, nil
	}

	settings, err := s.accessRepo.Get(ctx, profile.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check access: %w", err)
	}
	if settings == nil {
		return true, nil
	}
	return settings.Allows(feature), nil
}

// GetSettings retrieves a child's access settings for the linked parent.
// A child that was never configured gets a settings view with every
// feature unset, which readers must treat as enabled.
func (s *AccessService) GetSettings(ctx context.Context, parentID, childID string) (*models.AppAccessSettings, error) {
	if err := s.family.RequireLink(ctx, parentID, childID); err != nil {
		return nil, err
	}

	settings, err := s.accessRepo.Get(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get access settings: %w", err)
	}
	if settings == nil {
		return &models.AppAccessSettings{ChildID: childID}, nil
	}
	return settings, nil
}

// SetAccess writes one feature toggle for a child on behalf of the linked parent
func (s *AccessService) SetAccess(ctx context.Context, parentID, childID string, feature models.Feature, enabled bool) error {
	if err := s.family.RequireLink(ctx, parentID, childID); err != nil {
		return err
	}
	if !models.ValidFeature(feature) {
		return validation.ValidationError{Field: "feature", Message: "unknown feature"}
	}

	if err := s.accessRepo.Upsert(ctx, childID, feature, enabled); err != nil {
		return fmt.Errorf("failed to set access: %w", err)
	}
	return nil
}
