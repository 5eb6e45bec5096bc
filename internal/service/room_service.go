package service

import (
	"context"

	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

type RoomService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewRoomService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RoomService {
	return &RoomService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func validRoomStatus(status string) bool {
	switch status {
	case models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusMaintenance:
		return true
	}
	return false
}

func (s *RoomService) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if room.Price < 0 {
		return ErrInvalidAmount
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if !validRoomStatus(room.Status) {
		return ErrInvalidRoomStatus
	}

	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return err
	}

	s.publishChange(room)
	return nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, room *models.Room) error {
	if room.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if room.Price < 0 {
		return ErrInvalidAmount
	}
	if !validRoomStatus(room.Status) {
		return ErrInvalidRoomStatus
	}

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return err
	}

	s.publishChange(room)
	return nil
}

func (s *RoomService) UpdateRoomStatus(ctx context.Context, id int64, status string) error {
	if !validRoomStatus(status) {
		return ErrInvalidRoomStatus
	}

	if err := s.repo.UpdateRoomStatus(ctx, id, status); err != nil {
		return err
	}

	s.publishChange(&models.Room{ID: id, Status: status})
	return nil
}

// DeleteRoom detaches any bookings referencing the room first, so guest
// history survives the delete.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.repo.DetachGuestsFromRoom(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}

	s.publishChange(&models.Room{ID: id})
	return nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *RoomService) GetAllRooms(ctx context.Context) ([]*models.Room, error) {
	return s.repo.GetAllRooms(ctx)
}

func (s *RoomService) publishChange(room *models.Room) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(events.EventRoomsChanged, room); err != nil {
		s.logger.Error().Err(err).Int64("room_id", room.ID).Msg("publish event error")
	}
}
