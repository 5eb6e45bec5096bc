package repository

import (
	"context"
	"sync"
	"time"

	"guesthouse/internal/models"
)

// MemoryCacheRepository is the in-process fallback for the analytics
// snapshot and rate-limit windows. It is also the only cache when Redis
// is disabled.
type MemoryCacheRepository struct {
	mu         sync.RWMutex
	snapshot   *models.AnalyticsSummary
	storedAt   time.Time
	rateLimits sync.Map
	ttl        time.Duration
}

func NewMemoryCacheRepository(ttl time.Duration) *MemoryCacheRepository {
	return &MemoryCacheRepository{
		ttl: ttl,
	}
}

func (r *MemoryCacheRepository) GetSnapshot(ctx context.Context) (*models.AnalyticsSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, nil
	}
	if r.ttl > 0 && time.Since(r.storedAt) > r.ttl {
		return nil, nil
	}
	return r.snapshot, nil
}

func (r *MemoryCacheRepository) SetSnapshot(ctx context.Context, snapshot *models.AnalyticsSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = snapshot
	r.storedAt = time.Now()
	return nil
}

func (r *MemoryCacheRepository) InvalidateSnapshot(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = nil
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryCacheRepository) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(clientKey)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(clientKey, entry)
	return entry.count <= limit, nil
}
