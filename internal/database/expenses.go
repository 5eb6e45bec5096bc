package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"guesthouse/internal/models"
)

func (db *DB) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `INSERT INTO expenses (description, amount, category, date, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date.Format("2006-01-02"),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	expense.ID = id
	expense.CreatedAt = now

	return nil
}

func (db *DB) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	query := `SELECT id, description, amount, category, date(date), created_at FROM expenses WHERE id = ?`

	var e models.Expense
	var dateStr string
	err := db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Description, &e.Amount, &e.Category, &dateStr, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	e.Date, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense date %s: %w", dateStr, err)
	}
	return &e, nil
}

func (db *DB) GetAllExpenses(ctx context.Context) ([]*models.Expense, error) {
	query := `SELECT id, description, amount, category, date(date), created_at
              FROM expenses ORDER BY date DESC, created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var e models.Expense
		var dateStr string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &dateStr, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense date %s: %w", dateStr, err)
		}
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

func (db *DB) DeleteExpense(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
