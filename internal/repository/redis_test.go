package repository

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisCacheRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSnapshot", func(t *testing.T) {
		snapshot := &models.AnalyticsSummary{
			TotalRooms:    10,
			OccupiedRooms: 4,
			OccupancyRate: 40,
			TotalRevenue:  58000,
			GeneratedAt:   time.Now().Truncate(time.Second),
		}

		err := repo.SetSnapshot(ctx, snapshot)
		require.NoError(t, err)

		got, err := repo.GetSnapshot(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, snapshot.TotalRooms, got.TotalRooms)
		assert.Equal(t, snapshot.OccupancyRate, got.OccupancyRate)
		assert.Equal(t, snapshot.TotalRevenue, got.TotalRevenue)
	})

	t.Run("GetMissingSnapshot", func(t *testing.T) {
		require.NoError(t, repo.InvalidateSnapshot(ctx))

		got, err := repo.GetSnapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateSnapshot", func(t *testing.T) {
		require.NoError(t, repo.SetSnapshot(ctx, &models.AnalyticsSummary{TotalRooms: 3}))

		err := repo.InvalidateSnapshot(ctx)
		require.NoError(t, err)

		got, _ := repo.GetSnapshot(ctx)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		clientKey := "api-client-1"
		limit := 2
		window := time.Second

		allowed, err := repo.CheckRateLimit(ctx, clientKey, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = repo.CheckRateLimit(ctx, clientKey, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Third request exceeds the limit.
		allowed, err = repo.CheckRateLimit(ctx, clientKey, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = repo.CheckRateLimit(ctx, clientKey, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisCacheRepository(nil, time.Hour)
		_, err := repo.GetSnapshot(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
