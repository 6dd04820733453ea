package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// Columns for each gated feature. Upsert statements interpolate the column
// name, so it must come from this map and never from request input.
var featureColumns = map[models.Feature]string{
	models.FeatureTutors:       "tutors_enabled",
	models.FeatureHabitTracker: "habit_tracker_enabled",
	models.FeatureJournal:      "journal_enabled",
	models.FeatureTaskManager:  "tasks_enabled",
}

// AccessRepository handles database operations for child app settings
type AccessRepository struct {
	db *database.DB
}

// NewAccessRepository creates a new access settings repository
func NewAccessRepository(db *database.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// Get retrieves a child's settings row, nil when never configured
func (r *AccessRepository) Get(ctx context.Context, childID string) (*models.AppAccessSettings, error) {
	query := `
		SELECT child_id, tutors_enabled, habit_tracker_enabled, journal_enabled, tasks_enabled
		FROM child_app_settings WHERE child_id = ?
	`
	settings := &models.AppAccessSettings{}
	var tutors, habits, journal, tasks sql.NullBool
	err := r.db.QueryRowContext(ctx, query, childID).Scan(
		&settings.ChildID,
		&tutors,
		&habits,
		&journal,
		&tasks,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access settings: %w", err)
	}

	settings.Tutors = nullableBool(tutors)
	settings.HabitTracker = nullableBool(habits)
	settings.Journal = nullableBool(journal)
	settings.Tasks = nullableBool(tasks)
	return settings, nil
}

// Upsert writes one feature toggle, creating the row on first use
func (r *AccessRepository) Upsert(ctx context.Context, childID string, feature models.Feature, enabled bool) error {
	column, ok := featureColumns[feature]
	if !ok {
		return fmt.Errorf("unknown feature: %s", feature)
	}

	query := r.db.Dialect.UpsertAccessSetting(column)
	if _, err := r.db.ExecContext(ctx, query, childID, enabled); err != nil {
		return fmt.Errorf("failed to upsert access setting: %w", err)
	}
	return nil
}

func nullableBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
