package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"guesthouse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreateRoom(t *testing.T, db *DB, number string) *models.Room {
	t.Helper()
	room := &models.Room{
		RoomNumber: number,
		RoomType:   models.RoomTypeAC,
		Status:     models.RoomStatusAvailable,
		Price:      1200,
	}
	require.NoError(t, db.CreateRoom(context.Background(), room))
	return room
}

func mustCreateGuest(t *testing.T, db *DB, guest *models.Guest) *models.Guest {
	t.Helper()
	if guest.Name == "" {
		guest.Name = "Test Guest"
	}
	if guest.Phone == "" {
		guest.Phone = "9999999999"
	}
	if guest.CheckIn.IsZero() {
		guest.CheckIn = time.Now()
	}
	require.NoError(t, db.CreateGuest(context.Background(), guest))
	return guest
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "guesthouse.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)

	err := db.PingContext(context.Background())
	assert.NoError(t, err)
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	// Re-running the DDL must not fail thanks to IF NOT EXISTS.
	require.NoError(t, createTables(db.DB))
}
