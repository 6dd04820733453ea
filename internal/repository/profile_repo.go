package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// InsertIgnoreConflict creates a profile row, treating an existing row with
// the same id as success. The provisioning saga relies on this because the
// store may have already materialized the row in reaction to identity
// creation.
func (r *ProfileRepository) InsertIgnoreConflict(ctx context.Context, id, username, userType, ageGroup string) error {
	query := r.db.Dialect.InsertProfileIgnoreConflict()
	age := sql.NullString{String: ageGroup, Valid: ageGroup != ""}
	_, err := r.db.ExecContext(ctx, query, id, username, userType, age)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by id, returning nil when absent
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, username, user_type, age_group, avatar_url, created_at, updated_at
		FROM profiles WHERE id = ?
	`
	profile := &models.Profile{}
	var ageGroup, avatarURL sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Username,
		&profile.UserType,
		&ageGroup,
		&avatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.AgeGroup = ageGroup.String
	profile.AvatarURL = avatarURL.String
	return profile, nil
}

// Update mutates a profile's editable fields
func (r *ProfileRepository) Update(ctx context.Context, id, username, ageGroup, avatarURL string) error {
	query := `
		UPDATE profiles
		SET username = ?, age_group = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	age := sql.NullString{String: ageGroup, Valid: ageGroup != ""}
	avatar := sql.NullString{String: avatarURL, Valid: avatarURL != ""}
	_, err := r.db.ExecContext(ctx, query, username, age, avatar, id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// Delete removes a profile row. Only saga compensation uses this; normal
// flows never hard-delete profiles.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
