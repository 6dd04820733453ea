package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"familyhub/internal/credentials"
	"familyhub/internal/identity"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// ProvisioningService creates a child identity, profile and family link as
// one logical unit. The identity store and the profile table are independent
// systems with no shared transaction, so this runs as a three-step saga:
// later-step failures compensate by deleting what earlier steps created.
type ProvisioningService struct {
	identities  identity.Store
	profileRepo *repository.ProfileRepository
	family      *FamilyService
	email       Notifier
	emailDomain string

	// Identity creation may asynchronously materialize the profile row, so
	// step 2 re-reads with a short bounded retry before giving up.
	profileRetries int
	retryDelay     time.Duration
}

// NewProvisioningService creates a new provisioning service
func NewProvisioningService(identities identity.Store, profileRepo *repository.ProfileRepository, family *FamilyService, email Notifier, emailDomain string) *ProvisioningService {
	return &ProvisioningService{
		identities:     identities,
		profileRepo:    profileRepo,
		family:         family,
		email:          email,
		emailDomain:    emailDomain,
		profileRetries: 3,
		retryDelay:     200 * time.Millisecond,
	}
}

// ProvisionChild runs the full saga for a new child. The caller must be a
// parent provisioning for themselves. No password is returned here; minting
// credentials is a separate, explicit rotation step.
func (s *ProvisioningService) ProvisionChild(ctx context.Context, parentID, username, ageGroup string) (*models.Profile, error) {
	if _, err := s.family.RequireParent(ctx, parentID); err != nil {
		return nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if !models.ValidAgeGroup(ageGroup) {
		return nil, validation.ValidationError{Field: "age_group", Message: "unknown age group"}
	}

	// Step 1: create the login identity. The email-shaped identifier is a
	// throwaway that is never communicated; the random password minted here
	// is discarded and replaced on first rotation.
	email, err := credentials.GenerateLoginEmail(username, s.emailDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to generate login identifier: %w", err)
	}
	password, err := credentials.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	ident, err := s.identities.Create(ctx, identity.NewIdentity{
		Email:         email,
		Password:      password,
		DisplayName:   username,
		UserType:      models.UserTypeChild,
		AgeGroup:      ageGroup,
		EmailVerified: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityCreationFailed, err)
	}

	profile, err := s.finishProvisioning(ctx, parentID, ident.ID, username, ageGroup)
	if err != nil {
		return nil, err
	}

	s.notifyProvisioned(ctx, parentID, username)
	return profile, nil
}

// notifyProvisioned sends the new-child notice; failures are logged, never
// surfaced. Resumed provisionings stay quiet so a retried request cannot
// send the notice twice.
func (s *ProvisioningService) notifyProvisioned(ctx context.Context, parentID, childName string) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}

	parent, err := s.identities.Get(ctx, parentID)
	if err != nil {
		log.Printf("Provisioned notice skipped: failed to resolve parent %s: %v", parentID, err)
		return
	}

	if err := s.email.SendChildProvisionedNotice(ctx, parent.Email, childName); err != nil {
		log.Printf("Provisioned notice failed for parent %s: %v", parentID, err)
	}
}

// ResumeProvisioning finishes the saga for an identity that already exists,
// used when a prior call failed after step 1 or the original request was
// retried. Steps 2 and 3 are idempotent, so resuming an already-complete
// provisioning leaves exactly one profile row and one family connection.
func (s *ProvisioningService) ResumeProvisioning(ctx context.Context, parentID, childID string) (*models.Profile, error) {
	if _, err := s.family.RequireParent(ctx, parentID); err != nil {
		return nil, err
	}

	ident, err := s.identities.Get(ctx, childID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	return s.finishProvisioning(ctx, parentID, ident.ID, ident.DisplayName, ident.AgeGroup)
}

// finishProvisioning runs steps 2 and 3 of the saga with compensation
func (s *ProvisioningService) finishProvisioning(ctx context.Context, parentID, childID, username, ageGroup string) (*models.Profile, error) {
	// Step 2: ensure the profile row exists. Insert-or-ignore plus a bounded
	// retry-read tolerates both "already exists" and "not yet visible".
	profile, err := s.ensureProfile(ctx, childID, username, ageGroup)
	if err != nil {
		provisionErr := fmt.Errorf("%w: %v", ErrProfileProvisioningFailed, err)
		if cleanupErr := s.compensate(ctx, childID, false); cleanupErr != nil {
			return nil, &OrphanError{IdentityID: childID, Cause: provisionErr, CleanupErr: cleanupErr}
		}
		return nil, provisionErr
	}

	// Step 3: create the family connection. On failure the identity and
	// profile are deleted so no unsupervised child identity is left behind.
	if _, err := s.family.CreateLink(ctx, parentID, childID); err != nil {
		linkErr := fmt.Errorf("%w: %v", ErrFamilyLinkFailed, err)
		if errors.Is(err, ErrChildAlreadyLinked) {
			// Do not tear down a child that belongs to someone else.
			return nil, ErrChildAlreadyLinked
		}
		if cleanupErr := s.compensate(ctx, childID, true); cleanupErr != nil {
			return nil, &OrphanError{IdentityID: childID, Cause: linkErr, CleanupErr: cleanupErr}
		}
		return nil, linkErr
	}

	return profile, nil
}

// ensureProfile makes the profile row exist and returns the canonical row
func (s *ProvisioningService) ensureProfile(ctx context.Context, id, username, ageGroup string) (*models.Profile, error) {
	if err := s.profileRepo.InsertIgnoreConflict(ctx, id, username, models.UserTypeChild, ageGroup); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= s.profileRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}

		profile, err := s.profileRepo.GetByID(ctx, id)
		if err != nil {
			lastErr = err
			continue
		}
		if profile != nil {
			return profile, nil
		}
		lastErr = fmt.Errorf("profile row for %s not visible yet", id)
	}

	return nil, lastErr
}

// compensate deletes the partial state a failed saga left behind
func (s *ProvisioningService) compensate(ctx context.Context, childID string, deleteProfile bool) error {
	if deleteProfile {
		if err := s.profileRepo.Delete(ctx, childID); err != nil {
			return fmt.Errorf("failed to delete profile during compensation: %w", err)
		}
	}

	if err := s.identities.Delete(ctx, childID); err != nil && !errors.Is(err, identity.ErrNotFound) {
		return fmt.Errorf("failed to delete identity during compensation: %w", err)
	}

	log.Printf("Provisioning compensated: removed partial state for child %s", childID)
	return nil
}
