package service

import "errors"

var (
	ErrNameRequired          = errors.New("guest name is required")
	ErrPhoneRequired         = errors.New("guest phone is required")
	ErrRoomNumberRequired    = errors.New("room number is required")
	ErrDescriptionRequired   = errors.New("expense description is required")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrCheckOutBeforeCheckIn = errors.New("check-out date is before check-in")
	ErrInvalidCheckOutTime   = errors.New("check-out time must be HH:MM")
	ErrInvalidRoomStatus     = errors.New("unknown room status")
	ErrRoomNotAvailable      = errors.New("room is not available")
	ErrInvalidAdminAction    = errors.New("unknown admin action")
	ErrWrongPassword         = errors.New("admin password mismatch")
)
