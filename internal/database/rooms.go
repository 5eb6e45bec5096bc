package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"guesthouse/internal/models"
)

const roomColumns = `id, room_number, room_type, status, price, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*models.Room, error) {
	var r models.Room
	err := row.Scan(&r.ID, &r.RoomNumber, &r.RoomType, &r.Status, &r.Price, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}

	query := `INSERT INTO rooms (room_number, room_type, status, price, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		room.RoomNumber,
		room.RoomType,
		room.Status,
		room.Price,
		now,
		now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	room.ID = id
	room.CreatedAt = now
	room.UpdatedAt = now

	return nil
}

func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	room, err := scanRoom(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// GetAllRooms returns rooms sorted numerically by room number.
func (db *DB) GetAllRooms(ctx context.Context) ([]*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY CAST(room_number AS INTEGER), room_number`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	query := `UPDATE rooms SET room_number = ?, room_type = ?, status = ?, price = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		room.RoomNumber, room.RoomType, room.Status, room.Price, time.Now(), room.ID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) UpdateRoomStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseRoom flips an occupied room back to available. The conditional
// WHERE keeps the transition idempotent under concurrent reconciliation.
func (db *DB) ReleaseRoom(ctx context.Context, id int64) error {
	query := `UPDATE rooms SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	_, err := db.ExecContext(ctx, query,
		models.RoomStatusAvailable, time.Now(), id, models.RoomStatusOccupied)
	if err != nil {
		return fmt.Errorf("failed to release room: %w", err)
	}
	return nil
}

func (db *DB) DeleteRoom(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearRooms deletes every room after detaching guest references, so guest
// history survives a room wipe.
func (db *DB) ClearRooms(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `UPDATE guests SET room_id = NULL, room_number = ''`); err != nil {
		return fmt.Errorf("failed to detach guests from rooms: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("failed to clear rooms: %w", err)
	}
	return nil
}
