package shared

import (
	"sync"
	"time"
)

// ServiceMetrics tracks request and cache counters for one service.
type ServiceMetrics struct {
	serviceName        string
	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
	cacheHits          int64
	cacheMisses        int64
	lastUpdated        time.Time
	mutex              sync.RWMutex
}

// NewServiceMetrics creates a new metrics tracker for a service
func NewServiceMetrics(serviceName string) *ServiceMetrics {
	return &ServiceMetrics{
		serviceName: serviceName,
		lastUpdated: time.Now(),
	}
}

// RecordRequest records a request with its success status
func (m *ServiceMetrics) RecordRequest(success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.totalRequests++
	if success {
		m.successfulRequests++
	} else {
		m.failedRequests++
	}
	m.lastUpdated = time.Now()
}

// RecordCacheResult records whether a lookup was served from cache.
func (m *ServiceMetrics) RecordCacheResult(hit bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
	m.lastUpdated = time.Now()
}

// Snapshot returns the current counters for reporting endpoints.
func (m *ServiceMetrics) Snapshot() map[string]interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return map[string]interface{}{
		"service_name":        m.serviceName,
		"total_requests":      m.totalRequests,
		"successful_requests": m.successfulRequests,
		"failed_requests":     m.failedRequests,
		"cache_hits":          m.cacheHits,
		"cache_misses":        m.cacheMisses,
		"last_updated":        m.lastUpdated,
	}
}
