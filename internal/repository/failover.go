package repository

import (
	"context"
	"sync/atomic"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

// FailoverCacheRepository prefers the primary cache (Redis) and falls back
// to the in-memory cache when it errors. The primary is retried after a
// cooldown so a Redis restart heals without a process restart.
type FailoverCacheRepository struct {
	primary   domain.CacheRepository
	fallback  domain.CacheRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverCacheRepository(primary, fallback domain.CacheRepository, logger *zerolog.Logger) *FailoverCacheRepository {
	return &FailoverCacheRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCacheRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary cache repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverCacheRepository) GetSnapshot(ctx context.Context) (*models.AnalyticsSummary, error) {
	if !r.isDown.Load() {
		snapshot, err := r.primary.GetSnapshot(ctx)
		if err == nil {
			return snapshot, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		snapshot, err := r.primary.GetSnapshot(ctx)
		if err == nil {
			r.isDown.Store(false)
			return snapshot, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetSnapshot(ctx)
}

func (r *FailoverCacheRepository) SetSnapshot(ctx context.Context, snapshot *models.AnalyticsSummary) error {
	if !r.isDown.Load() {
		err := r.primary.SetSnapshot(ctx, snapshot)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetSnapshot(ctx, snapshot)
}

func (r *FailoverCacheRepository) InvalidateSnapshot(ctx context.Context) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateSnapshot(ctx)
		if err == nil {
			// Keep both sides coherent after a failover window.
			_ = r.fallback.InvalidateSnapshot(ctx)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateSnapshot(ctx)
}

func (r *FailoverCacheRepository) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, clientKey, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}

	return r.fallback.CheckRateLimit(ctx, clientKey, limit, window)
}
