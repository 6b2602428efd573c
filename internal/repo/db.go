// Package repo implements the data persistence layer for tags and rate-limit
// events, backed by GORM. This file contains database bootstrapping helpers
// for SQLite (pure Go driver) and idempotent schema creation.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

// sqlitePragmas are applied through the DSN so every pooled connection gets
// them, not only the first one.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"busy_timeout(5000)",
}

// schemaStatements create the tables and index when absent. Each statement is
// a single native "IF NOT EXISTS" so concurrent first-time startups never race.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS rate_limit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		identity TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rate_limit_identity ON rate_limit(identity, timestamp)`,
}

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, tunes the
// pool and registers the OpenTelemetry GORM plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// withPragmas appends the _pragma query parameters understood by the driver.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// EnsureSchema creates both tables and the (identity, timestamp) index if
// they are absent. When the tag table is empty the seeds are inserted with
// insert-or-ignore semantics, so reruns never duplicate them. Tags are never
// deleted, so an empty table only happens on first creation.
func EnsureSchema(ctx context.Context, db *gorm.DB, seeds []string) error {
	for _, stmt := range schemaStatements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return err
		}
	}
	if len(seeds) == 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := CountTags(ctx, tx)
		if err != nil || n > 0 {
			return err
		}
		now := time.Now().UTC()
		for _, s := range seeds {
			if _, err := InsertTagIfAbsent(ctx, tx, s, now); err != nil {
				return err
			}
		}
		return nil
	})
}
