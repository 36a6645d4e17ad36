package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/database"
	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for the Postgres cache backend. They run only when
// TEST_DATABASE_URL points at a disposable database.
func openTestStore(t *testing.T) *PostgresCacheStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skipf("TEST_DATABASE_URL not set, skipping Postgres cache store tests")
	}

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	_, err = db.Exec(`DELETE FROM fetch_cache`)
	require.NoError(t, err)

	return NewPostgresCacheStore(db)
}

func testCacheEntry(key string, now time.Time, ttl time.Duration) *models.CacheEntry {
	return &models.CacheEntry{
		CacheKey:    key,
		Source:      "companies_house",
		RequestKind: "profile",
		URL:         "https://api.example/company/12345678",
		Status:      200,
		Body:        []byte(`{"company_number":"12345678"}`),
		ContentType: "application/json",
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestPostgresCacheStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	key := CacheKey("companies_house", "profile", "https://api.example/company/12345678")
	require.NoError(t, store.Put(ctx, testCacheEntry(key, now, time.Hour)))

	entry, err := store.Get(ctx, key, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, key, entry.CacheKey)
	assert.Equal(t, 200, entry.Status)
	assert.Equal(t, []byte(`{"company_number":"12345678"}`), entry.Body)
	assert.Equal(t, "application/json", entry.ContentType)

	missing, err := store.Get(ctx, CacheKey("companies_house", "profile", "https://api.example/company/other"), now)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresCacheStoreUpsertReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	key := CacheKey("companies_house", "profile", "https://api.example/company/12345678")
	require.NoError(t, store.Put(ctx, testCacheEntry(key, now, time.Hour)))

	replacement := testCacheEntry(key, now.Add(time.Minute), time.Hour)
	replacement.Body = []byte(`{"company_number":"12345678","company_status":"dissolved"}`)
	require.NoError(t, store.Put(ctx, replacement))

	entry, err := store.Get(ctx, key, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, replacement.Body, entry.Body)

	var rows int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM fetch_cache WHERE cache_key = $1`, key).Scan(&rows))
	assert.Equal(t, 1, rows, "upsert must replace, not append")
}

func TestPostgresCacheStoreHonoursExpiry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	key := CacheKey("companies_house", "officers", "https://api.example/company/12345678/officers")
	require.NoError(t, store.Put(ctx, testCacheEntry(key, now, time.Minute)))

	live, err := store.Get(ctx, key, now)
	require.NoError(t, err)
	assert.NotNil(t, live)

	expired, err := store.Get(ctx, key, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, expired, "a read at the exact expiry instant is a miss")

	removed, err := store.DeleteExpired(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestPostgresCacheStoreClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, url := range []string{
		"https://api.example/company/1",
		"https://api.example/company/2",
		"https://api.example/company/3",
	} {
		entry := testCacheEntry(CacheKey("companies_house", "profile", url), now, time.Hour)
		entry.URL = url
		require.NoError(t, store.Put(ctx, entry))
	}

	removed, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	removed, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
