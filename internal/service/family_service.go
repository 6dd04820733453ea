package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"familyhub/internal/identity"
	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// FamilyService manages the supervision edges between parents and children
type FamilyService struct {
	familyRepo  *repository.FamilyRepository
	profileRepo *repository.ProfileRepository
	identities  identity.Store
	email       Notifier
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, profileRepo *repository.ProfileRepository, identities identity.Store, email Notifier) *FamilyService {
	return &FamilyService{
		familyRepo:  familyRepo,
		profileRepo: profileRepo,
		identities:  identities,
		email:       email,
	}
}

// ListChildren retrieves the profiles of every child linked to a parent
func (s *FamilyService) ListChildren(ctx context.Context, parentID string) ([]models.Profile, error) {
	children, err := s.familyRepo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return children, nil
}

// CreateLink connects a parent to a child, enforcing one parent per child.
// An existing link for the same pair is treated as success so that retried
// provisioning calls do not fail; a link to a different parent is a conflict.
func (s *FamilyService) CreateLink(ctx context.Context, parentID, childID string) (*models.FamilyConnection, error) {
	existing, err := s.familyRepo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing link: %w", err)
	}
	if existing != nil {
		if existing.ParentID == parentID {
			return existing, nil
		}
		return nil, ErrChildAlreadyLinked
	}

	conn, err := s.familyRepo.CreateConnection(ctx, parentID, childID)
	if err != nil {
		// Lost a race with a concurrent create: re-read and apply the
		// same first-write-wins rule.
		if errors.Is(err, repository.ErrDuplicateChildLink) {
			existing, readErr := s.familyRepo.GetByChildID(ctx, childID)
			if readErr == nil && existing != nil && existing.ParentID == parentID {
				return existing, nil
			}
			return nil, ErrChildAlreadyLinked
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return conn, nil
}

// DeleteLink detaches a child from its parent. Only the linked parent may
// detach; the child's profile, settings and data all survive.
func (s *FamilyService) DeleteLink(ctx context.Context, parentID, childID string) error {
	if err := s.RequireLink(ctx, parentID, childID); err != nil {
		return err
	}

	child, err := s.profileRepo.GetByID(ctx, childID)
	if err != nil {
		return fmt.Errorf("failed to load child profile: %w", err)
	}

	if err := s.familyRepo.DeleteConnection(ctx, parentID, childID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if child != nil {
		s.notifyDetached(ctx, parentID, child.Username)
	}
	return nil
}

// notifyDetached sends the detach notice; failures are logged, never surfaced
func (s *FamilyService) notifyDetached(ctx context.Context, parentID, childName string) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}

	parent, err := s.identities.Get(ctx, parentID)
	if err != nil {
		log.Printf("Detach notice skipped: failed to resolve parent %s: %v", parentID, err)
		return
	}

	if err := s.email.SendChildDetachedNotice(ctx, parent.Email, childName); err != nil {
		log.Printf("Detach notice failed for parent %s: %v", parentID, err)
	}
}

// LinkedParent resolves the parent supervising a child, "" when detached
func (s *FamilyService) LinkedParent(ctx context.Context, childID string) (string, error) {
	conn, err := s.familyRepo.GetByChildID(ctx, childID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve linked parent: %w", err)
	}
	if conn == nil {
		return "", nil
	}
	return conn.ParentID, nil
}

// RequireLink returns ErrNotAuthorized unless parentID supervises childID
func (s *FamilyService) RequireLink(ctx context.Context, parentID, childID string) error {
	linked, err := s.familyRepo.IsLinked(ctx, parentID, childID)
	if err != nil {
		return fmt.Errorf("failed to check family link: %w", err)
	}
	if !linked {
		return ErrNotAuthorized
	}
	return nil
}

// RequireParent loads a profile and returns ErrNotAuthorized unless it is a
// parent account
func (s *FamilyService) RequireParent(ctx context.Context, profileID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if !profile.IsParent() {
		return nil, ErrNotAuthorized
	}
	return profile, nil
}
