package services

import (
	"context"
	"sync"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
)

// MemoryCacheStore is the in-process CacheStore backend, used in tests and
// when running without a database. Entries are copied on the way in and out
// so callers can never mutate stored state.
type MemoryCacheStore struct {
	entries map[string]models.CacheEntry
	mutex   sync.RWMutex
}

// NewMemoryCacheStore creates an empty in-memory cache store.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{
		entries: make(map[string]models.CacheEntry),
	}
}

// Get returns the live entry for the key, or nil when absent or expired.
func (s *MemoryCacheStore) Get(ctx context.Context, cacheKey string, now time.Time) (*models.CacheEntry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, exists := s.entries[cacheKey]
	if !exists || entry.IsExpired(now) {
		return nil, nil
	}

	out := entry
	out.Body = append([]byte(nil), entry.Body...)
	return &out, nil
}

// Put stores the entry, overwriting any previous one for the same key.
func (s *MemoryCacheStore) Put(ctx context.Context, entry *models.CacheEntry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := *entry
	stored.Body = append([]byte(nil), entry.Body...)
	s.entries[entry.CacheKey] = stored
	return nil
}

// DeleteExpired removes every entry with expires_at <= now.
func (s *MemoryCacheStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var removed int64
	for key, entry := range s.entries {
		if entry.IsExpired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Clear removes all entries unconditionally.
func (s *MemoryCacheStore) Clear(ctx context.Context) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := int64(len(s.entries))
	s.entries = make(map[string]models.CacheEntry)
	return removed, nil
}

// Size returns the number of stored entries, live or expired.
func (s *MemoryCacheStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}
