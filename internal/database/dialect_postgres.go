package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	// Configure connection pool for PostgreSQL
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// PostgreSQL has foreign keys enabled by default, no pragma needed
	return nil
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) UpsertAccessSetting(column string) string {
	return "INSERT INTO child_app_settings (child_id, " + column + ") VALUES (?, ?) " +
		"ON CONFLICT (child_id) DO UPDATE SET " + column + " = EXCLUDED." + column +
		", updated_at = CURRENT_TIMESTAMP"
}

func (d *PostgresDialect) UpsertParentKey() string {
	return "INSERT INTO parent_settings (parent_id, provider_api_key) VALUES (?, ?) " +
		"ON CONFLICT (parent_id) DO UPDATE SET provider_api_key = EXCLUDED.provider_api_key" +
		", updated_at = CURRENT_TIMESTAMP"
}

func (d *PostgresDialect) InsertProfileIgnoreConflict() string {
	return "INSERT INTO profiles (id, username, user_type, age_group) VALUES (?, ?, ?, ?) " +
		"ON CONFLICT (id) DO NOTHING"
}

func (d *PostgresDialect) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
