package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order exactly once each; the schema_migrations
// table records what has run so startup is idempotent.
var migrations = []migration{
	{
		version: 1,
		name:    "create_fetch_cache",
		sql: `
			CREATE TABLE IF NOT EXISTS fetch_cache (
				cache_key    TEXT PRIMARY KEY,
				source       TEXT NOT NULL,
				request_kind TEXT NOT NULL,
				url          TEXT NOT NULL,
				status       INTEGER NOT NULL,
				body         BYTEA NOT NULL,
				content_type TEXT NOT NULL DEFAULT '',
				created_at   TIMESTAMPTZ NOT NULL,
				expires_at   TIMESTAMPTZ NOT NULL
			)`,
	},
	{
		version: 2,
		name:    "index_fetch_cache_expires_at",
		sql:     `CREATE INDEX IF NOT EXISTS idx_fetch_cache_expires_at ON fetch_cache (expires_at)`,
	},
}

// Migrate brings the schema up to date, recording each applied version in
// schema_migrations. Safe to run on every startup.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists bool
		err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if exists {
			continue
		}

		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		logrus.WithFields(logrus.Fields{
			"version": m.version,
			"name":    m.name,
		}).Info("Applied database migration")
	}

	return nil
}
