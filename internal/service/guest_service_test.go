package service

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/database"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGuestService(repo *mockRepo, bus *events.EventBus) *GuestService {
	logger := zerolog.Nop()
	return NewGuestService(repo, bus, nil, &logger)
}

func TestCreateGuest_RecomputesPending(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	guest := &models.Guest{
		Name:          "Ravi Kumar",
		Phone:         "9876543210",
		CheckIn:       time.Now(),
		TotalAmount:   5000,
		PaidAmount:    2000,
		PendingAmount: 999, // caller-supplied garbage is overwritten
	}
	repo.On("CreateGuest", mock.Anything, guest).Return(nil)

	require.NoError(t, svc.CreateGuest(context.Background(), guest))
	assert.Equal(t, 3000.0, guest.PendingAmount)
	repo.AssertExpectations(t)
}

func TestCreateGuest_ClaimsRoom(t *testing.T) {
	repo := new(mockRepo)
	bus := events.NewEventBus()
	svc := newGuestService(repo, bus)

	roomID := int64(3)
	guest := &models.Guest{
		Name:        "Meena Joshi",
		Phone:       "9800011122",
		CheckIn:     time.Now(),
		RoomID:      &roomID,
		TotalAmount: 1500,
	}

	repo.On("GetRoom", mock.Anything, roomID).
		Return(&models.Room{ID: roomID, RoomNumber: "103", Status: models.RoomStatusAvailable}, nil)
	repo.On("UpdateRoomStatus", mock.Anything, roomID, models.RoomStatusOccupied).Return(nil)
	repo.On("CreateGuest", mock.Anything, guest).Return(nil)

	var roomsChanged int
	bus.Subscribe(events.EventRoomsChanged, func(*events.Event) error {
		roomsChanged++
		return nil
	})

	require.NoError(t, svc.CreateGuest(context.Background(), guest))
	assert.Equal(t, "103", guest.RoomNumber)
	assert.Equal(t, 1, roomsChanged)
	repo.AssertExpectations(t)
}

func TestCreateGuest_RejectsOccupiedRoom(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	roomID := int64(5)
	guest := &models.Guest{Name: "Anil", Phone: "9800033344", CheckIn: time.Now(), RoomID: &roomID}

	repo.On("GetRoom", mock.Anything, roomID).
		Return(&models.Room{ID: roomID, Status: models.RoomStatusOccupied}, nil)

	err := svc.CreateGuest(context.Background(), guest)
	assert.ErrorIs(t, err, ErrRoomNotAvailable)
	repo.AssertNotCalled(t, "CreateGuest", mock.Anything, mock.Anything)
}

func TestCreateGuest_Validation(t *testing.T) {
	svc := newGuestService(new(mockRepo), nil)
	ctx := context.Background()

	err := svc.CreateGuest(ctx, &models.Guest{Phone: "98", CheckIn: time.Now()})
	assert.ErrorIs(t, err, ErrNameRequired)

	err = svc.CreateGuest(ctx, &models.Guest{Name: "x", CheckIn: time.Now()})
	assert.ErrorIs(t, err, ErrPhoneRequired)

	err = svc.CreateGuest(ctx, &models.Guest{Name: "x", Phone: "98", CheckIn: time.Now(), TotalAmount: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	checkIn := time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local)
	earlier := checkIn.AddDate(0, 0, -1)
	err = svc.CreateGuest(ctx, &models.Guest{Name: "x", Phone: "98", CheckIn: checkIn, CheckOut: &earlier})
	assert.ErrorIs(t, err, ErrCheckOutBeforeCheckIn)

	out := checkIn.AddDate(0, 0, 2)
	err = svc.CreateGuest(ctx, &models.Guest{Name: "x", Phone: "98", CheckIn: checkIn, CheckOut: &out, CheckOutTime: "25:99"})
	assert.ErrorIs(t, err, ErrInvalidCheckOutTime)
}

func TestUpdateGuest_RoomMove(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	oldRoom := int64(1)
	newRoom := int64(2)
	existing := &models.Guest{ID: 7, Name: "Ravi", Phone: "98", RoomID: &oldRoom, RoomNumber: "101", Version: 2}
	updated := &models.Guest{ID: 7, Name: "Ravi", Phone: "98", CheckIn: time.Now(), RoomID: &newRoom, Version: 2}

	repo.On("GetGuest", mock.Anything, int64(7)).Return(existing, nil)
	repo.On("GetRoom", mock.Anything, newRoom).
		Return(&models.Room{ID: newRoom, RoomNumber: "102", Status: models.RoomStatusAvailable}, nil)
	repo.On("UpdateRoomStatus", mock.Anything, newRoom, models.RoomStatusOccupied).Return(nil)
	repo.On("UpdateGuest", mock.Anything, updated).Return(nil)
	repo.On("ReleaseRoom", mock.Anything, oldRoom).Return(nil)

	require.NoError(t, svc.UpdateGuest(context.Background(), updated))
	assert.Equal(t, "102", updated.RoomNumber)
	repo.AssertExpectations(t)
}

func TestUpdateGuest_ConcurrentModification(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	updated := &models.Guest{ID: 7, Name: "Ravi", Phone: "98", CheckIn: time.Now(), Version: 1}
	repo.On("GetGuest", mock.Anything, int64(7)).Return(&models.Guest{ID: 7, Version: 2}, nil)
	repo.On("UpdateGuest", mock.Anything, updated).Return(database.ErrConcurrentModification)

	err := svc.UpdateGuest(context.Background(), updated)
	assert.ErrorIs(t, err, database.ErrConcurrentModification)
}

func TestCheckoutGuest_PublishesEvents(t *testing.T) {
	repo := new(mockRepo)
	bus := events.NewEventBus()
	svc := newGuestService(repo, bus)

	repo.On("CheckoutGuestWithVersion", mock.Anything, int64(9), int64(4)).Return(nil)
	repo.On("GetGuest", mock.Anything, int64(9)).
		Return(&models.Guest{ID: 9, Name: "Sunita", CheckedOut: true}, nil)

	var checkedOut int
	bus.Subscribe(events.EventGuestCheckedOut, func(*events.Event) error {
		checkedOut++
		return nil
	})

	require.NoError(t, svc.CheckoutGuest(context.Background(), 9, 4))
	assert.Equal(t, 1, checkedOut)
}

func TestDeleteGuest_ReleasesHeldRoom(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	roomID := int64(4)
	repo.On("GetGuest", mock.Anything, int64(11)).
		Return(&models.Guest{ID: 11, RoomID: &roomID, CheckedOut: false}, nil)
	repo.On("DeleteGuest", mock.Anything, int64(11)).Return(nil)
	repo.On("ReleaseRoom", mock.Anything, roomID).Return(nil)

	require.NoError(t, svc.DeleteGuest(context.Background(), 11))
	repo.AssertExpectations(t)
}

func TestDeleteGuest_CheckedOutKeepsRoomUntouched(t *testing.T) {
	repo := new(mockRepo)
	svc := newGuestService(repo, nil)

	repo.On("GetGuest", mock.Anything, int64(12)).
		Return(&models.Guest{ID: 12, CheckedOut: true}, nil)
	repo.On("DeleteGuest", mock.Anything, int64(12)).Return(nil)

	require.NoError(t, svc.DeleteGuest(context.Background(), 12))
	repo.AssertNotCalled(t, "ReleaseRoom", mock.Anything, mock.Anything)
}
