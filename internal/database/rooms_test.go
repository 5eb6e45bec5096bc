package database

import (
	"context"
	"testing"

	"guesthouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom_DefaultsToAvailable(t *testing.T) {
	db := setupTestDB(t)

	room := &models.Room{RoomNumber: "101", RoomType: models.RoomTypeNonAC, Price: 800}
	require.NoError(t, db.CreateRoom(context.Background(), room))
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
}

func TestCreateRoom_DuplicateNumber(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustCreateRoom(t, db, "101")

	err := db.CreateRoom(ctx, &models.Room{RoomNumber: "101"})
	assert.ErrorIs(t, err, ErrDuplicateRoom)
}

func TestGetAllRooms_NumericSort(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, n := range []string{"10", "2", "1", "21"} {
		mustCreateRoom(t, db, n)
	}

	rooms, err := db.GetAllRooms(ctx)
	require.NoError(t, err)

	var numbers []string
	for _, r := range rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	assert.Equal(t, []string{"1", "2", "10", "21"}, numbers)
}

func TestUpdateRoom(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := mustCreateRoom(t, db, "101")
	room.Price = 1500
	room.Status = models.RoomStatusMaintenance
	require.NoError(t, db.UpdateRoom(ctx, room))

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, models.RoomStatusMaintenance, got.Status)
}

func TestUpdateRoom_NotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.UpdateRoom(context.Background(), &models.Room{ID: 404, RoomNumber: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseRoom_OnlyFlipsOccupied(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := mustCreateRoom(t, db, "101")
	require.NoError(t, db.UpdateRoomStatus(ctx, room.ID, models.RoomStatusOccupied))
	require.NoError(t, db.ReleaseRoom(ctx, room.ID))

	got, err := db.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, got.Status)

	// Releasing twice is a no-op, not an error.
	require.NoError(t, db.ReleaseRoom(ctx, room.ID))
}

func TestDeleteRoom(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := mustCreateRoom(t, db, "101")
	require.NoError(t, db.DeleteRoom(ctx, room.ID))

	_, err := db.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteRoom(ctx, room.ID), ErrNotFound)
}

func TestClearRooms_DetachesGuests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	room := mustCreateRoom(t, db, "101")
	guest := mustCreateGuest(t, db, &models.Guest{RoomID: &room.ID, RoomNumber: room.RoomNumber})

	require.NoError(t, db.ClearRooms(ctx))

	rooms, err := db.GetAllRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	got, err := db.GetGuest(ctx, guest.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RoomID)
}
