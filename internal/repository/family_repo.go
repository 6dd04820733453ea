package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// ErrDuplicateChildLink is returned when a connection already exists for a
// child. The store enforces one parent per child with a unique constraint;
// this error is how the loser of a concurrent create observes the race.
var ErrDuplicateChildLink = errors.New("child already has a family connection")

// FamilyRepository handles database operations for family connections
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateConnection links a parent to a child. The insert and the read-back
// of the stored row run in one transaction so the returned connection is
// exactly what this call wrote.
func (r *FamilyRepository) CreateConnection(ctx context.Context, parentID, childID string) (*models.FamilyConnection, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	query := "INSERT INTO family_connections (id, parent_id, child_id) VALUES (?, ?, ?)"
	if _, err := tx.ExecContext(ctx, query, id, parentID, childID); err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return nil, ErrDuplicateChildLink
		}
		return nil, fmt.Errorf("failed to create family connection: %w", err)
	}

	conn, err := getConnectionByChildID(ctx, tx, childID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit family connection: %w", err)
	}

	return conn, nil
}

// GetByChildID retrieves the connection for a child, nil when detached
func (r *FamilyRepository) GetByChildID(ctx context.Context, childID string) (*models.FamilyConnection, error) {
	return getConnectionByChildID(ctx, r.db, childID)
}

// getConnectionByChildID reads a child's connection over any executor, so
// it works both standalone and inside a transaction
func getConnectionByChildID(ctx context.Context, q database.DBTX, childID string) (*models.FamilyConnection, error) {
	query := `
		SELECT id, parent_id, child_id, created_at
		FROM family_connections WHERE child_id = ?
	`
	conn := &models.FamilyConnection{}
	err := q.QueryRowContext(ctx, query, childID).Scan(
		&conn.ID,
		&conn.ParentID,
		&conn.ChildID,
		&conn.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family connection: %w", err)
	}

	return conn, nil
}

// ListChildren retrieves the profiles of every child linked to a parent
func (r *FamilyRepository) ListChildren(ctx context.Context, parentID string) ([]models.Profile, error) {
	query := `
		SELECT p.id, p.username, p.user_type, p.age_group, p.avatar_url, p.created_at, p.updated_at
		FROM profiles p
		INNER JOIN family_connections fc ON p.id = fc.child_id
		WHERE fc.parent_id = ?
		ORDER BY fc.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Profile
	for rows.Next() {
		var profile models.Profile
		var ageGroup, avatarURL sql.NullString
		if err := rows.Scan(
			&profile.ID,
			&profile.Username,
			&profile.UserType,
			&ageGroup,
			&avatarURL,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child profile: %w", err)
		}
		profile.AgeGroup = ageGroup.String
		profile.AvatarURL = avatarURL.String
		children = append(children, profile)
	}

	return children, rows.Err()
}

// IsLinked checks whether a parent supervises a child
func (r *FamilyRepository) IsLinked(ctx context.Context, parentID, childID string) (bool, error) {
	query := "SELECT COUNT(*) FROM family_connections WHERE parent_id = ? AND child_id = ?"
	var count int
	err := r.db.QueryRowContext(ctx, query, parentID, childID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check family link: %w", err)
	}
	return count > 0, nil
}

// DeleteConnection removes the link between a parent and a child. The
// child's profile and settings survive; this is a pure detach.
func (r *FamilyRepository) DeleteConnection(ctx context.Context, parentID, childID string) error {
	query := "DELETE FROM family_connections WHERE parent_id = ? AND child_id = ?"
	_, err := r.db.ExecContext(ctx, query, parentID, childID)
	if err != nil {
		return fmt.Errorf("failed to delete family connection: %w", err)
	}
	return nil
}
