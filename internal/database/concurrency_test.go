package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"guesthouse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent reconciliation passes over the same expired booking must
// produce exactly one effective transition.
func TestConcurrentCheckout_SingleWinner(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	room := mustCreateRoom(t, db, "101")
	require.NoError(t, db.UpdateRoomStatus(ctx, room.ID, models.RoomStatusOccupied))

	out := time.Now().AddDate(0, 0, -2)
	guest := mustCreateGuest(t, db, &models.Guest{
		RoomID:     &room.ID,
		RoomNumber: room.RoomNumber,
		CheckOut:   &out,
	})

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			results <- db.CheckoutGuestWithVersion(ctx, guest.ID, guest.Version)
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	conflictCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, ErrConcurrentModification), errors.Is(err, ErrAlreadyCheckedOut):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successCount, "exactly one pass should win the CAS")
	assert.Equal(t, numGoroutines-1, conflictCount)

	got, err := db.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckedOut)
	assert.Equal(t, guest.Version+1, got.Version, "version advanced exactly once")

	freed, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, freed.Status)
}
