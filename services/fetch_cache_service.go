package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/bortnikova888-creator/SupplierCheck-UK/shared"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// FetchFunc performs the actual upstream call on a cache miss. It receives
// the request headers verbatim; the cache itself imposes no timeout, so
// cancellation belongs to the function and its context.
type FetchFunc func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error)

// CacheStore is the persistence backend of the fetch cache. Get returns
// (nil, nil) when no live entry exists for the key at the given instant.
type CacheStore interface {
	Get(ctx context.Context, cacheKey string, now time.Time) (*models.CacheEntry, error)
	Put(ctx context.Context, entry *models.CacheEntry) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Clear(ctx context.Context) (int64, error)
}

// CacheKey derives the content address for a request. Same (source, kind,
// url) triple always yields the same key; headers never participate, so
// cache-busting means varying one of the three inputs.
func CacheKey(source, requestKind, url string) string {
	sum := sha256.Sum256([]byte(source + ":" + requestKind + ":" + url))
	return hex.EncodeToString(sum[:])
}

// FetchCacheService is a TTL-bound, content-addressed store of raw upstream
// responses. Repeated lookups within the TTL return the stored bytes
// verbatim; a miss fetches exactly once per key thanks to the singleflight
// guard, and a failed fetch is never written.
type FetchCacheService struct {
	store   CacheStore
	fetch   FetchFunc
	group   singleflight.Group
	now     func() time.Time
	metrics *shared.ServiceMetrics
}

// NewFetchCacheService creates a fetch cache over the given store and fetch
// function. The store handle is owned by the caller; lifecycle is never
// managed through package state.
func NewFetchCacheService(store CacheStore, fetch FetchFunc) *FetchCacheService {
	return &FetchCacheService{
		store:   store,
		fetch:   fetch,
		now:     time.Now,
		metrics: shared.NewServiceMetrics("Fetch_Cache_Service"),
	}
}

// WithClock overrides the cache's time source. Used by tests to drive TTL
// expiry without sleeping.
func (s *FetchCacheService) WithClock(now func() time.Time) *FetchCacheService {
	s.now = now
	return s
}

// GetOrFetch returns the cached response for the request, fetching and
// storing it first if absent or expired. Concurrent misses on the same key
// share a single upstream call; different keys never block each other.
func (s *FetchCacheService) GetOrFetch(ctx context.Context, req models.FetchRequest) (*models.CachedResponse, error) {
	key := CacheKey(req.Source, req.RequestKind, req.URL)

	entry, err := s.store.Get(ctx, key, s.now())
	if err != nil {
		return nil, shared.NewDatabaseError("Fetch_Cache_Service", "GetOrFetch", "cache lookup failed", err)
	}
	if entry != nil {
		s.metrics.RecordCacheResult(true)
		return responseFromEntry(entry, true), nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight guard: another caller may have
		// completed the fetch while we waited for the lock.
		entry, err := s.store.Get(ctx, key, s.now())
		if err != nil {
			return nil, shared.NewDatabaseError("Fetch_Cache_Service", "GetOrFetch", "cache lookup failed", err)
		}
		if entry != nil {
			return responseFromEntry(entry, true), nil
		}

		fetched, err := s.fetch(ctx, req.URL, req.Headers)
		if err != nil {
			// Propagate uncached: a failed fetch must not poison the cache.
			return nil, err
		}

		now := s.now()
		entry = &models.CacheEntry{
			CacheKey:    key,
			Source:      req.Source,
			RequestKind: req.RequestKind,
			URL:         req.URL,
			Status:      fetched.Status,
			Body:        fetched.Body,
			ContentType: fetched.ContentType,
			CreatedAt:   now,
			ExpiresAt:   now.Add(req.TTL),
		}
		if err := s.store.Put(ctx, entry); err != nil {
			return nil, shared.NewDatabaseError("Fetch_Cache_Service", "GetOrFetch", "cache write failed", err)
		}

		logrus.WithFields(logrus.Fields{
			"source":       req.Source,
			"request_kind": req.RequestKind,
			"cache_key":    key,
			"status":       fetched.Status,
			"expires_at":   entry.ExpiresAt,
		}).Debug("Stored fetched response in cache")

		return responseFromEntry(entry, false), nil
	})
	if err != nil {
		s.metrics.RecordRequest(false)
		return nil, err
	}

	resp, ok := result.(*models.CachedResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected cache flight result type %T", result)
	}
	s.metrics.RecordRequest(true)
	s.metrics.RecordCacheResult(resp.Hit)
	return resp, nil
}

// CleanExpired removes all entries whose expiry has passed and returns how
// many were removed.
func (s *FetchCacheService) CleanExpired(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, shared.NewDatabaseError("Fetch_Cache_Service", "CleanExpired", "expired sweep failed", err)
	}

	logrus.WithField("removed", removed).Info("Cleaned up expired cache entries")
	return removed, nil
}

// Clear removes all entries unconditionally.
func (s *FetchCacheService) Clear(ctx context.Context) (int64, error) {
	removed, err := s.store.Clear(ctx)
	if err != nil {
		return 0, shared.NewDatabaseError("Fetch_Cache_Service", "Clear", "cache clear failed", err)
	}

	logrus.WithField("removed", removed).Info("Cleared fetch cache")
	return removed, nil
}

// Metrics exposes the cache counters for the stats endpoint.
func (s *FetchCacheService) Metrics() *shared.ServiceMetrics {
	return s.metrics
}

func responseFromEntry(entry *models.CacheEntry, hit bool) *models.CachedResponse {
	return &models.CachedResponse{
		Status:      entry.Status,
		Body:        entry.Body,
		ContentType: entry.ContentType,
		CacheKey:    entry.CacheKey,
		Hit:         hit,
	}
}
