package repository

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRepository(t *testing.T) {
	repo := NewMemoryCacheRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSnapshot", func(t *testing.T) {
		snapshot := &models.AnalyticsSummary{TotalRooms: 8, OccupiedRooms: 8, OccupancyRate: 100}
		require.NoError(t, repo.SetSnapshot(ctx, snapshot))

		got, err := repo.GetSnapshot(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 100.0, got.OccupancyRate)
	})

	t.Run("InvalidateSnapshot", func(t *testing.T) {
		require.NoError(t, repo.InvalidateSnapshot(ctx))

		got, err := repo.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ExpiredSnapshot", func(t *testing.T) {
		short := NewMemoryCacheRepository(time.Nanosecond)
		require.NoError(t, short.SetSnapshot(ctx, &models.AnalyticsSummary{TotalRooms: 1}))

		time.Sleep(time.Millisecond)

		got, err := short.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		allowed, err := repo.CheckRateLimit(ctx, "dashboard", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, _ = repo.CheckRateLimit(ctx, "dashboard", 2, time.Minute)
		assert.True(t, allowed)

		allowed, _ = repo.CheckRateLimit(ctx, "dashboard", 2, time.Minute)
		assert.False(t, allowed)

		// Separate clients keep separate windows.
		allowed, _ = repo.CheckRateLimit(ctx, "exporter", 2, time.Minute)
		assert.True(t, allowed)
	})
}
