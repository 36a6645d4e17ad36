package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileFetchRequest(ttl time.Duration) models.FetchRequest {
	return models.FetchRequest{
		Source:      "companies_house",
		RequestKind: "profile",
		URL:         "https://api.example/company/12345678",
		TTL:         ttl,
	}
}

func countingFetch(calls *int64, body string) FetchFunc {
	return func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error) {
		atomic.AddInt64(calls, 1)
		return &models.FetchResult{
			Status:      200,
			Body:        []byte(body),
			ContentType: "application/json",
		}, nil
	}
}

func TestGetOrFetchIsIdempotentWithinTTL(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()
	service := NewFetchCacheService(store, countingFetch(&calls, `{"company_number":"12345678"}`))

	req := profileFetchRequest(time.Hour)

	first, err := service.GetOrFetch(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Hit)
	assert.Equal(t, 200, first.Status)
	assert.Equal(t, []byte(`{"company_number":"12345678"}`), first.Body)

	second, err := service.GetOrFetch(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Hit)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, first.CacheKey, second.CacheKey)

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	assert.Equal(t, 1, store.Size())
}

func TestGetOrFetchRefetchesAfterExpiry(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()

	current := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var clockMutex sync.Mutex
	service := NewFetchCacheService(store, countingFetch(&calls, "payload")).WithClock(func() time.Time {
		clockMutex.Lock()
		defer clockMutex.Unlock()
		return current
	})

	req := profileFetchRequest(time.Hour)

	_, err := service.GetOrFetch(context.Background(), req)
	require.NoError(t, err)

	clockMutex.Lock()
	current = current.Add(time.Hour) // entry expires exactly at created_at + TTL
	clockMutex.Unlock()

	refetched, err := service.GetOrFetch(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, refetched.Hit)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestGetOrFetchDoesNotCacheFailures(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()
	upstreamErr := errors.New("connection reset")
	service := NewFetchCacheService(store, func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error) {
		atomic.AddInt64(&calls, 1)
		return nil, upstreamErr
	})

	req := profileFetchRequest(time.Hour)

	_, err := service.GetOrFetch(context.Background(), req)
	require.ErrorIs(t, err, upstreamErr)
	assert.Equal(t, 0, store.Size())

	_, err = service.GetOrFetch(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls), "each attempt goes upstream while nothing is cached")
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()
	release := make(chan struct{})
	service := NewFetchCacheService(store, func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return &models.FetchResult{Status: 200, Body: []byte("shared"), ContentType: "text/plain"}, nil
	})

	req := profileFetchRequest(time.Hour)

	const workers = 10
	var wg sync.WaitGroup
	results := make([]*models.CachedResponse, workers)
	errs := make([]error, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.GetOrFetch(context.Background(), req)
		}(i)
	}

	// Give every goroutine time to reach the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared"), results[i].Body)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCleanExpiredRemovesOnlyStaleEntries(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()

	current := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var clockMutex sync.Mutex
	service := NewFetchCacheService(store, countingFetch(&calls, "payload")).WithClock(func() time.Time {
		clockMutex.Lock()
		defer clockMutex.Unlock()
		return current
	})

	shortLived := profileFetchRequest(time.Minute)
	longLived := models.FetchRequest{
		Source:      "companies_house",
		RequestKind: "officers",
		URL:         "https://api.example/company/12345678/officers",
		TTL:         24 * time.Hour,
	}

	_, err := service.GetOrFetch(context.Background(), shortLived)
	require.NoError(t, err)
	_, err = service.GetOrFetch(context.Background(), longLived)
	require.NoError(t, err)

	clockMutex.Lock()
	current = current.Add(time.Hour)
	clockMutex.Unlock()

	removed, err := service.CleanExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Size())

	stillCached, err := service.GetOrFetch(context.Background(), longLived)
	require.NoError(t, err)
	assert.True(t, stillCached.Hit)
}

func TestClearEmptiesTheStore(t *testing.T) {
	var calls int64
	store := NewMemoryCacheStore()
	service := NewFetchCacheService(store, countingFetch(&calls, "payload"))

	_, err := service.GetOrFetch(context.Background(), profileFetchRequest(time.Hour))
	require.NoError(t, err)

	removed, err := service.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 0, store.Size())

	refetched, err := service.GetOrFetch(context.Background(), profileFetchRequest(time.Hour))
	require.NoError(t, err)
	assert.False(t, refetched.Hit)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCacheKeyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same triple always yields the same key", prop.ForAll(
		func(source, kind, url string) bool {
			return CacheKey(source, kind, url) == CacheKey(source, kind, url)
		},
		gen.AnyString(), gen.AnyString(), gen.AnyString(),
	))

	properties.Property("key is 64 hex characters", prop.ForAll(
		func(source, kind, url string) bool {
			key := CacheKey(source, kind, url)
			if len(key) != 64 {
				return false
			}
			for _, r := range key {
				if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
					return false
				}
			}
			return true
		},
		gen.AnyString(), gen.AnyString(), gen.AnyString(),
	))

	properties.TestingRun(t)

	assert.NotEqual(t,
		CacheKey("companies_house", "profile", "https://api.example/company/1"),
		CacheKey("companies_house", "officers", "https://api.example/company/1"),
		"request kind participates in the key",
	)
}
