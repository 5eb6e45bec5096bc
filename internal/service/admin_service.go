package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"guesthouse/internal/database"
	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

// AdminOperationResult reports one sub-operation of a bulk action.
type AdminOperationResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AdminResult is the outcome of a bulk action. Bulk wipes are best effort:
// a partial failure is reported per sub-operation, not rolled back.
type AdminResult struct {
	Action     string                 `json:"action"`
	Success    bool                   `json:"success"`
	Operations []AdminOperationResult `json:"operations"`
}

type AdminService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAdminService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *AdminService) verifyPassword(ctx context.Context, password string) error {
	stored, err := s.repo.GetSetting(ctx, models.SettingAdminPassword)
	if errors.Is(err, database.ErrNotFound) {
		// No secret seeded yet; refuse everything rather than allow everything.
		return ErrWrongPassword
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// ExecuteAction runs a password-guarded bulk wipe.
func (s *AdminService) ExecuteAction(ctx context.Context, action, password string) (*AdminResult, error) {
	if err := s.verifyPassword(ctx, password); err != nil {
		return nil, err
	}

	result := &AdminResult{Action: action, Success: true}

	switch action {
	case models.AdminActionClearGuests:
		s.clearGuests(ctx, result)
	case models.AdminActionClearRooms:
		s.clearRooms(ctx, result)
	case models.AdminActionClearAll:
		s.clearGuests(ctx, result)
		s.clearRooms(ctx, result)
		s.clearExpenses(ctx, result)
	default:
		return nil, ErrInvalidAdminAction
	}

	s.logger.Warn().Str("action", action).Bool("success", result.Success).Msg("admin bulk action executed")
	return result, nil
}

// ChangePassword rotates the admin secret after verifying the current one.
func (s *AdminService) ChangePassword(ctx context.Context, current, next string) error {
	if err := s.verifyPassword(ctx, current); err != nil {
		return err
	}
	if next == "" {
		return ErrWrongPassword
	}
	return s.repo.SetSetting(ctx, models.SettingAdminPassword, next)
}

func (s *AdminService) clearGuests(ctx context.Context, result *AdminResult) {
	s.record(result, "clear_guests", s.repo.ClearGuests(ctx))

	// Rooms held by wiped bookings go back to available.
	rooms, err := s.repo.GetAllRooms(ctx)
	if err != nil {
		s.record(result, "release_rooms", err)
	} else {
		var firstErr error
		for _, room := range rooms {
			if room.Status != models.RoomStatusOccupied {
				continue
			}
			if err := s.repo.ReleaseRoom(ctx, room.ID); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		s.record(result, "release_rooms", firstErr)
	}

	s.publish(events.EventGuestsChanged)
	s.publish(events.EventRoomsChanged)
}

func (s *AdminService) clearRooms(ctx context.Context, result *AdminResult) {
	s.record(result, "clear_rooms", s.repo.ClearRooms(ctx))
	s.publish(events.EventRoomsChanged)
	s.publish(events.EventGuestsChanged)
}

func (s *AdminService) clearExpenses(ctx context.Context, result *AdminResult) {
	expenses, err := s.repo.GetAllExpenses(ctx)
	if err != nil {
		s.record(result, "clear_expenses", err)
		return
	}
	var firstErr error
	for _, expense := range expenses {
		if err := s.repo.DeleteExpense(ctx, expense.ID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.record(result, "clear_expenses", firstErr)
	s.publish(events.EventExpensesChanged)
}

func (s *AdminService) record(result *AdminResult, name string, err error) {
	op := AdminOperationResult{Name: name, Success: err == nil}
	if err != nil {
		op.Error = err.Error()
		result.Success = false
		s.logger.Error().Err(err).Str("operation", name).Msg("admin sub-operation failed")
	}
	result.Operations = append(result.Operations, op)
}

func (s *AdminService) publish(eventType string) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.PublishJSON(eventType, struct{}{})
}
