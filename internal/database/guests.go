package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"guesthouse/internal/models"
)

const guestColumns = `id, name, phone, id_proof, room_id, room_number, date(check_in),
	check_out, check_out_time, total_amount, paid_amount, pending_amount,
	is_frequent, payment_mode, pay_to_whom, checked_out, created_at, updated_at, version`

func scanGuest(row interface{ Scan(...any) error }) (*models.Guest, error) {
	var g models.Guest
	var roomID sql.NullInt64
	var roomNumber sql.NullString
	var checkInStr string
	var checkOutStr sql.NullString

	err := row.Scan(
		&g.ID, &g.Name, &g.Phone, &g.IDProof, &roomID, &roomNumber, &checkInStr,
		&checkOutStr, &g.CheckOutTime, &g.TotalAmount, &g.PaidAmount, &g.PendingAmount,
		&g.IsFrequent, &g.PaymentMode, &g.PayToWhom, &g.CheckedOut, &g.CreatedAt, &g.UpdatedAt, &g.Version,
	)
	if err != nil {
		return nil, err
	}

	if roomID.Valid {
		id := roomID.Int64
		g.RoomID = &id
	}
	g.RoomNumber = roomNumber.String

	g.CheckIn, err = time.ParseInLocation("2006-01-02", checkInStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse check_in %s: %w", checkInStr, err)
	}

	if checkOutStr.Valid && checkOutStr.String != "" {
		out, err := time.ParseInLocation("2006-01-02", checkOutStr.String[:10], time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse check_out %s: %w", checkOutStr.String, err)
		}
		g.CheckOut = &out
	}

	return &g, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func (db *DB) CreateGuest(ctx context.Context, guest *models.Guest) error {
	query := `INSERT INTO guests (
				name, phone, id_proof, room_id, room_number, check_in, check_out,
				check_out_time, total_amount, paid_amount, pending_amount,
				is_frequent, payment_mode, pay_to_whom, checked_out,
				created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		guest.Name,
		guest.Phone,
		guest.IDProof,
		guest.RoomID,
		guest.RoomNumber,
		guest.CheckIn.Format("2006-01-02"),
		nullableDate(guest.CheckOut),
		guest.CheckOutTime,
		guest.TotalAmount,
		guest.PaidAmount,
		guest.PendingAmount,
		guest.IsFrequent,
		guest.PaymentMode,
		guest.PayToWhom,
		guest.CheckedOut,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	guest.ID = id
	guest.CreatedAt = now
	guest.UpdatedAt = now
	guest.Version = 1

	return nil
}

func (db *DB) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`
	guest, err := scanGuest(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return guest, nil
}

func (db *DB) GetAllGuests(ctx context.Context) ([]*models.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests ORDER BY created_at DESC`
	return db.queryGuests(ctx, query)
}

// GetActiveGuests returns bookings that still hold their room.
func (db *DB) GetActiveGuests(ctx context.Context) ([]*models.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE checked_out = 0 ORDER BY created_at DESC`
	return db.queryGuests(ctx, query)
}

// GetExpiredCheckoutCandidates returns active bookings whose checkout date
// has arrived. The caller still evaluates the time-of-day cutoff; the query
// only narrows the scan.
func (db *DB) GetExpiredCheckoutCandidates(ctx context.Context, now time.Time) ([]*models.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests
              WHERE checked_out = 0 AND check_out IS NOT NULL AND date(check_out) <= ?
              ORDER BY check_out ASC`
	return db.queryGuests(ctx, query, now.Format("2006-01-02"))
}

func (db *DB) queryGuests(ctx context.Context, query string, args ...any) ([]*models.Guest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (db *DB) UpdateGuest(ctx context.Context, guest *models.Guest) error {
	query := `UPDATE guests SET
				name = ?, phone = ?, id_proof = ?, room_id = ?, room_number = ?,
				check_in = ?, check_out = ?, check_out_time = ?,
				total_amount = ?, paid_amount = ?, pending_amount = ?,
				is_frequent = ?, payment_mode = ?, pay_to_whom = ?,
				version = version + 1, updated_at = ?
              WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query,
		guest.Name,
		guest.Phone,
		guest.IDProof,
		guest.RoomID,
		guest.RoomNumber,
		guest.CheckIn.Format("2006-01-02"),
		nullableDate(guest.CheckOut),
		guest.CheckOutTime,
		guest.TotalAmount,
		guest.PaidAmount,
		guest.PendingAmount,
		guest.IsFrequent,
		guest.PaymentMode,
		guest.PayToWhom,
		time.Now(),
		guest.ID,
		guest.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update guest: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	guest.Version++
	return nil
}

// CheckoutGuestWithVersion atomically marks a booking checked out and frees
// its room. The version guard plus the checked_out predicate make the
// transition a compare-and-swap: of N concurrent passes over the same
// expired booking, exactly one flips it. Losers see ErrAlreadyCheckedOut
// once the winner committed, or ErrConcurrentModification when the row is
// still active but the version is stale.
func (db *DB) CheckoutGuestWithVersion(ctx context.Context, id, fromVersion int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var roomID sql.NullInt64
	var checkedOut bool
	err = tx.QueryRowContext(ctx, `SELECT room_id, checked_out FROM guests WHERE id = ?`, id).Scan(&roomID, &checkedOut)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read guest room: %w", err)
	}
	if checkedOut {
		return ErrAlreadyCheckedOut
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE guests SET checked_out = 1, room_id = NULL, room_number = '',
		        version = version + 1, updated_at = ?
         WHERE id = ? AND version = ? AND checked_out = 0`,
		time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to checkout guest: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	if roomID.Valid {
		_, err = tx.ExecContext(ctx,
			`UPDATE rooms SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			models.RoomStatusAvailable, time.Now(), roomID.Int64, models.RoomStatusOccupied)
		if err != nil {
			return fmt.Errorf("failed to release room: %w", err)
		}
	}

	return tx.Commit()
}

func (db *DB) DeleteGuest(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DetachGuestsFromRoom clears room references on bookings pointing at a room,
// used before the room itself is deleted.
func (db *DB) DetachGuestsFromRoom(ctx context.Context, roomID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE guests SET room_id = NULL, room_number = '', updated_at = ? WHERE room_id = ?`,
		time.Now(), roomID)
	if err != nil {
		return fmt.Errorf("failed to detach guests from room: %w", err)
	}
	return nil
}

func (db *DB) ClearGuests(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM guests`); err != nil {
		return fmt.Errorf("failed to clear guests: %w", err)
	}
	return nil
}
