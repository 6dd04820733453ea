package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT id FROM profiles WHERE id = ? AND user_type = ?"
		if got := dialect.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %v, want unchanged query", got)
		}
	})

	t.Run("UpsertAccessSetting", func(t *testing.T) {
		query := dialect.UpsertAccessSetting("tutors_enabled")
		if !strings.Contains(query, "ON CONFLICT(child_id)") {
			t.Errorf("UpsertAccessSetting() missing conflict clause: %v", query)
		}
		if !strings.Contains(query, "tutors_enabled") {
			t.Errorf("UpsertAccessSetting() missing column: %v", query)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT id FROM profiles WHERE id = ? AND user_type = ?"
		expected := "SELECT id FROM profiles WHERE id = $1 AND user_type = $2"
		if got := dialect.RewriteQuery(query); got != expected {
			t.Errorf("RewriteQuery() = %v, want %v", got, expected)
		}
	})

	t.Run("UpsertParentKey", func(t *testing.T) {
		query := dialect.UpsertParentKey()
		if !strings.Contains(query, "ON CONFLICT (parent_id)") {
			t.Errorf("UpsertParentKey() missing conflict clause: %v", query)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT id FROM profiles WHERE id = ?"
		if got := dialect.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %v, want unchanged query", got)
		}
	})

	t.Run("InsertProfileIgnoreConflict", func(t *testing.T) {
		query := dialect.InsertProfileIgnoreConflict()
		if !strings.Contains(query, "INSERT IGNORE") {
			t.Errorf("InsertProfileIgnoreConflict() = %v, want INSERT IGNORE", query)
		}
	})
}
