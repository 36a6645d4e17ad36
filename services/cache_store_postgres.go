package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
)

// PostgresCacheStore persists cache entries in the fetch_cache table. The
// handle is injected and caller-owned; the store never opens or closes it.
type PostgresCacheStore struct {
	db *sql.DB
}

// NewPostgresCacheStore creates a store over an already-connected database.
func NewPostgresCacheStore(db *sql.DB) *PostgresCacheStore {
	return &PostgresCacheStore{db: db}
}

// Get returns the live entry for the key, or nil when absent or expired.
func (s *PostgresCacheStore) Get(ctx context.Context, cacheKey string, now time.Time) (*models.CacheEntry, error) {
	query := `
		SELECT cache_key, source, request_kind, url, status, body, content_type, created_at, expires_at
		FROM fetch_cache
		WHERE cache_key = $1 AND expires_at > $2
	`

	var entry models.CacheEntry
	err := s.db.QueryRowContext(ctx, query, cacheKey, now).Scan(
		&entry.CacheKey, &entry.Source, &entry.RequestKind, &entry.URL,
		&entry.Status, &entry.Body, &entry.ContentType, &entry.CreatedAt, &entry.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// Put stores the entry, overwriting (not appending) any previous row for the
// same key.
func (s *PostgresCacheStore) Put(ctx context.Context, entry *models.CacheEntry) error {
	query := `
		INSERT INTO fetch_cache (
			cache_key, source, request_kind, url, status, body, content_type, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cache_key) DO UPDATE SET
			status = EXCLUDED.status,
			body = EXCLUDED.body,
			content_type = EXCLUDED.content_type,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.CacheKey, entry.Source, entry.RequestKind, entry.URL,
		entry.Status, entry.Body, entry.ContentType, entry.CreatedAt, entry.ExpiresAt,
	)
	return err
}

// DeleteExpired removes every row with expires_at <= now and returns the count.
func (s *PostgresCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM fetch_cache WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Clear removes all rows unconditionally.
func (s *PostgresCacheStore) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM fetch_cache`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
