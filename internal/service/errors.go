package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized means the caller lacks the required relationship.
	// Terminal; never retried automatically.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrProfileNotFound means the referenced profile does not exist
	ErrProfileNotFound = errors.New("profile not found")

	// ErrIdentityNotFound means the referenced id has no login identity
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrChildAlreadyLinked means the child already resolves to a different
	// parent. The first link wins; callers see this conflict instead of a
	// second connection appearing.
	ErrChildAlreadyLinked = errors.New("child is already linked to another parent")

	// ErrIdentityCreationFailed wraps step-1 failures of the provisioning
	// saga. No partial state exists when it is returned.
	ErrIdentityCreationFailed = errors.New("identity creation failed")

	// ErrProfileProvisioningFailed wraps step-2 failures after retries
	ErrProfileProvisioningFailed = errors.New("profile provisioning failed")

	// ErrFamilyLinkFailed wraps step-3 failures after successful compensation
	ErrFamilyLinkFailed = errors.New("family link creation failed")

	// ErrRotationFailed wraps store-level rotation failures; safe to retry,
	// but the validity of the previous password must not be assumed.
	ErrRotationFailed = errors.New("credential rotation failed")
)

// OrphanError reports that a saga step failed and the compensating cleanup
// also failed, leaving an unsupervised identity behind. It carries the
// orphaned id so an operator or a retry path can finish the cleanup.
type OrphanError struct {
	IdentityID string
	Cause      error
	CleanupErr error
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("orphaned child identity %s: %v (cleanup failed: %v)", e.IdentityID, e.Cause, e.CleanupErr)
}

func (e *OrphanError) Unwrap() error {
	return e.Cause
}
