package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"familyhub/internal/database"
)

// SecretsRepository handles database operations for parent settings.
// The provider API key it stores never travels past the service layer.
type SecretsRepository struct {
	db *database.DB
}

// NewSecretsRepository creates a new secrets repository
func NewSecretsRepository(db *database.DB) *SecretsRepository {
	return &SecretsRepository{db: db}
}

// GetProviderKey retrieves a parent's stored provider API key, empty when unset
func (r *SecretsRepository) GetProviderKey(ctx context.Context, parentID string) (string, error) {
	query := "SELECT provider_api_key FROM parent_settings WHERE parent_id = ?"
	var key sql.NullString
	err := r.db.QueryRowContext(ctx, query, parentID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get provider key: %w", err)
	}
	return key.String, nil
}

// SetProviderKey stores or replaces a parent's provider API key
func (r *SecretsRepository) SetProviderKey(ctx context.Context, parentID, key string) error {
	query := r.db.Dialect.UpsertParentKey()
	if _, err := r.db.ExecContext(ctx, query, parentID, key); err != nil {
		return fmt.Errorf("failed to set provider key: %w", err)
	}
	return nil
}
