package models

import "time"

// FetchRequest identifies one cacheable upstream call. Headers are forwarded
// to the fetch function but are not part of the cache identity; callers that
// need cache-busting must vary the source, request kind or URL.
type FetchRequest struct {
	Source      string            `json:"source"`
	RequestKind string            `json:"request_kind"`
	URL         string            `json:"url"`
	TTL         time.Duration     `json:"ttl"`
	Headers     map[string]string `json:"-"`
}

// CacheEntry is one stored upstream response. Entries are owned exclusively
// by the fetch cache: created on first miss, overwritten on refetch after
// expiry, removed by CleanExpired or Clear.
type CacheEntry struct {
	CacheKey    string    `json:"cache_key"`
	Source      string    `json:"source"`
	RequestKind string    `json:"request_kind"`
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired reports whether the entry is stale relative to now.
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// FetchResult is what the injected fetch function returns on success.
type FetchResult struct {
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// CachedResponse is the fetch cache's answer to GetOrFetch. On a hit the
// body is byte-for-byte the originally fetched response.
type CachedResponse struct {
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	CacheKey    string `json:"cache_key"`
	Hit         bool   `json:"hit"`
}
