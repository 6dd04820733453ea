package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	// Configure connection pool for MySQL
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Ensure foreign key checks are enabled
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) UpsertAccessSetting(column string) string {
	return "INSERT INTO child_app_settings (child_id, " + column + ") VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE " + column + " = VALUES(" + column + ")" +
		", updated_at = CURRENT_TIMESTAMP"
}

func (d *MySQLDialect) UpsertParentKey() string {
	return "INSERT INTO parent_settings (parent_id, provider_api_key) VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE provider_api_key = VALUES(provider_api_key)" +
		", updated_at = CURRENT_TIMESTAMP"
}

func (d *MySQLDialect) InsertProfileIgnoreConflict() string {
	return "INSERT IGNORE INTO profiles (id, username, user_type, age_group) VALUES (?, ?, ?, ?)"
}

func (d *MySQLDialect) IsUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
