package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertAccessSetting returns the upsert statement for one feature column
	// of child_app_settings. The column name is validated by the caller
	// against a fixed set before it reaches this method.
	UpsertAccessSetting(column string) string

	// UpsertParentKey returns the upsert statement for parent_settings
	UpsertParentKey() string

	// InsertProfileIgnoreConflict returns the insert-or-ignore statement for
	// profiles, used by the provisioning saga to tolerate a row that already
	// exists.
	InsertProfileIgnoreConflict() string

	// IsUniqueViolation reports whether err is a unique constraint violation
	IsUniqueViolation(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
