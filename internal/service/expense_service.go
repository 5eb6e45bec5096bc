package service

import (
	"context"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

type ExpenseService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewExpenseService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ExpenseService {
	return &ExpenseService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Description == "" {
		return ErrDescriptionRequired
	}
	if expense.Amount < 0 {
		return ErrInvalidAmount
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}

	if err := s.repo.CreateExpense(ctx, expense); err != nil {
		return err
	}

	s.publishChange(expense)
	return nil
}

func (s *ExpenseService) GetAllExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.repo.GetAllExpenses(ctx)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.publishChange(&models.Expense{ID: id})
	return nil
}

func (s *ExpenseService) publishChange(expense *models.Expense) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(events.EventExpensesChanged, expense); err != nil {
		s.logger.Error().Err(err).Int64("expense_id", expense.ID).Msg("publish event error")
	}
}
