package service

import (
	"context"
	"testing"

	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense_DefaultsDate(t *testing.T) {
	repo := new(mockRepo)
	logger := zerolog.Nop()
	svc := NewExpenseService(repo, nil, &logger)

	expense := &models.Expense{Description: "Gas refill", Amount: 900}
	repo.On("CreateExpense", mock.Anything, expense).Return(nil)

	require.NoError(t, svc.CreateExpense(context.Background(), expense))
	assert.False(t, expense.Date.IsZero())
}

func TestCreateExpense_Validation(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewExpenseService(new(mockRepo), nil, &logger)
	ctx := context.Background()

	err := svc.CreateExpense(ctx, &models.Expense{Amount: 100})
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	err = svc.CreateExpense(ctx, &models.Expense{Description: "x", Amount: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDeleteExpense_PublishesChange(t *testing.T) {
	repo := new(mockRepo)
	bus := events.NewEventBus()
	logger := zerolog.Nop()
	svc := NewExpenseService(repo, bus, &logger)

	repo.On("DeleteExpense", mock.Anything, int64(3)).Return(nil)

	var changed int
	bus.Subscribe(events.EventExpensesChanged, func(*events.Event) error {
		changed++
		return nil
	})

	require.NoError(t, svc.DeleteExpense(context.Background(), 3))
	assert.Equal(t, 1, changed)
}
