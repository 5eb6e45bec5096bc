package database

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListExpenses(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := &models.Expense{
		Description: "Plumbing repair",
		Amount:      650,
		Category:    "Maintenance",
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
	}
	newer := &models.Expense{
		Description: "Laundry",
		Amount:      300,
		Category:    "Supplies",
		Date:        time.Date(2024, 1, 4, 0, 0, 0, 0, time.Local),
	}
	require.NoError(t, db.CreateExpense(ctx, older))
	require.NoError(t, db.CreateExpense(ctx, newer))

	expenses, err := db.GetAllExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	// Newest date first.
	assert.Equal(t, "Laundry", expenses[0].Description)
	assert.Equal(t, newer.Date, expenses[0].Date)
	assert.Equal(t, 300.0, expenses[0].Amount)
}

func TestDeleteExpense(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	e := &models.Expense{Description: "Gas", Amount: 900, Date: time.Now()}
	require.NoError(t, db.CreateExpense(ctx, e))

	require.NoError(t, db.DeleteExpense(ctx, e.ID))
	assert.ErrorIs(t, db.DeleteExpense(ctx, e.ID), ErrNotFound)
}

func TestSettings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetSetting(ctx, models.SettingAdminPassword)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SetSetting(ctx, models.SettingAdminPassword, "s3cret"))

	got, err := db.GetSetting(ctx, models.SettingAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	// Seed never overwrites an existing value.
	require.NoError(t, db.SeedSetting(ctx, models.SettingAdminPassword, "other"))
	got, err = db.GetSetting(ctx, models.SettingAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	require.NoError(t, db.SeedSetting(ctx, "currency", "INR"))
	got, err = db.GetSetting(ctx, "currency")
	require.NoError(t, err)
	assert.Equal(t, "INR", got)
}
