package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"familyhub/internal/credentials"
	"familyhub/internal/identity"
	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// CredentialService mints and rotates child sign-in credentials. Child
// passwords are never stored in a recoverable form, so "retrieve" is always
// "regenerate": each call replaces the password and returns the new one
// exactly once. The caller is responsible for showing it to the parent.
type CredentialService struct {
	identities  identity.Store
	profileRepo *repository.ProfileRepository
	family      *FamilyService
	email       Notifier
}

// NewCredentialService creates a new credential service
func NewCredentialService(identities identity.Store, profileRepo *repository.ProfileRepository, family *FamilyService, email Notifier) *CredentialService {
	return &CredentialService{
		identities:  identities,
		profileRepo: profileRepo,
		family:      family,
		email:       email,
	}
}

// Rotate replaces a child's password with a fresh random one and returns the
// full credential set. Only the linked parent may rotate. The previous
// password stops working the moment the store accepts the update.
func (s *CredentialService) Rotate(ctx context.Context, parentID, childID string) (*models.Credentials, error) {
	if err := s.family.RequireLink(ctx, parentID, childID); err != nil {
		return nil, err
	}

	ident, err := s.identities.Get(ctx, childID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to load child identity: %w", err)
	}

	profile, err := s.profileRepo.GetByID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load child profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	password, err := credentials.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	if err := s.identities.UpdatePassword(ctx, childID, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRotationFailed, err)
	}

	s.notifyParent(ctx, parentID, profile.Username)

	return &models.Credentials{
		Email:    ident.Email,
		Password: password,
		Username: profile.Username,
	}, nil
}

// notifyParent sends the rotation notice; failures are logged, never surfaced
func (s *CredentialService) notifyParent(ctx context.Context, parentID, childName string) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}

	parent, err := s.identities.Get(ctx, parentID)
	if err != nil {
		log.Printf("Rotation notice skipped: failed to resolve parent %s: %v", parentID, err)
		return
	}

	if err := s.email.SendCredentialRotationNotice(ctx, parent.Email, childName); err != nil {
		log.Printf("Rotation notice failed for parent %s: %v", parentID, err)
	}
}
