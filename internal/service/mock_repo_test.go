package service

import (
	"context"
	"time"

	"guesthouse/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}
func (m *mockRepo) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}
func (m *mockRepo) GetAllRooms(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Room), args.Error(1)
}
func (m *mockRepo) UpdateRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}
func (m *mockRepo) UpdateRoomStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockRepo) ReleaseRoom(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) DeleteRoom(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) ClearRooms(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRepo) CreateGuest(ctx context.Context, guest *models.Guest) error {
	return m.Called(ctx, guest).Error(0)
}
func (m *mockRepo) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guest), args.Error(1)
}
func (m *mockRepo) GetAllGuests(ctx context.Context) ([]*models.Guest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guest), args.Error(1)
}
func (m *mockRepo) GetActiveGuests(ctx context.Context) ([]*models.Guest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guest), args.Error(1)
}
func (m *mockRepo) GetExpiredCheckoutCandidates(ctx context.Context, now time.Time) ([]*models.Guest, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guest), args.Error(1)
}
func (m *mockRepo) UpdateGuest(ctx context.Context, guest *models.Guest) error {
	return m.Called(ctx, guest).Error(0)
}
func (m *mockRepo) CheckoutGuestWithVersion(ctx context.Context, id, fromVersion int64) error {
	return m.Called(ctx, id, fromVersion).Error(0)
}
func (m *mockRepo) DeleteGuest(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) DetachGuestsFromRoom(ctx context.Context, roomID int64) error {
	return m.Called(ctx, roomID).Error(0)
}
func (m *mockRepo) ClearGuests(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRepo) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return m.Called(ctx, expense).Error(0)
}
func (m *mockRepo) GetAllExpenses(ctx context.Context) ([]*models.Expense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Expense), args.Error(1)
}
func (m *mockRepo) DeleteExpense(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *mockRepo) SetSetting(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}
