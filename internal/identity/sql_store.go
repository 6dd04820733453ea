package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/security"

	"github.com/google/uuid"
)

// SQLStore keeps identities in the main database. Used by local deployments
// and tests; hosted deployments use HTTPStore instead.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates an identity store backed by the identities table
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Create registers a new identity with a bcrypt-hashed password
func (s *SQLStore) Create(ctx context.Context, n NewIdentity) (*Identity, error) {
	hash, err := security.HashPassword(n.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO identities (id, email, password_hash, display_name, user_type, age_group, email_verified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	ageGroup := sql.NullString{String: n.AgeGroup, Valid: n.AgeGroup != ""}
	_, err = s.db.ExecContext(ctx, query, id, n.Email, hash, n.DisplayName, n.UserType, ageGroup, n.EmailVerified)
	if err != nil {
		if s.db.Dialect.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return s.Get(ctx, id)
}

// Get fetches an identity by id
func (s *SQLStore) Get(ctx context.Context, id string) (*Identity, error) {
	query := `
		SELECT id, email, display_name, user_type, age_group, email_verified, created_at, updated_at
		FROM identities WHERE id = ?
	`
	return s.scanIdentity(s.db.QueryRowContext(ctx, query, id))
}

// UpdatePassword replaces the stored password hash for an identity
func (s *SQLStore) UpdatePassword(ctx context.Context, id, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := "UPDATE identities SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check password update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an identity
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM identities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check identity delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Authenticate verifies an email/password pair
func (s *SQLStore) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	query := `
		SELECT id, password_hash FROM identities WHERE email = ?
	`
	var id, hash string
	err := s.db.QueryRowContext(ctx, query, email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if !security.CheckPassword(password, hash) {
		return nil, ErrInvalidCredentials
	}

	return s.Get(ctx, id)
}

func (s *SQLStore) scanIdentity(row *sql.Row) (*Identity, error) {
	ident := &Identity{}
	var ageGroup sql.NullString
	err := row.Scan(
		&ident.ID,
		&ident.Email,
		&ident.DisplayName,
		&ident.UserType,
		&ageGroup,
		&ident.EmailVerified,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	ident.AgeGroup = ageGroup.String
	return ident, nil
}
