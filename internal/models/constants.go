package models

const (
	RoomStatusAvailable   = "Available"
	RoomStatusOccupied    = "Occupied"
	RoomStatusMaintenance = "Maintenance"
)

const (
	RoomTypeAC    = "AC"
	RoomTypeNonAC = "Non-AC"
)

const (
	PaymentModeCash   = "Cash"
	PaymentModeOnline = "Online"
)

const (
	AdminActionClearGuests = "clear_guests"
	AdminActionClearRooms  = "clear_rooms"
	AdminActionClearAll    = "clear_all"
)

const (
	// SettingAdminPassword is the settings-table key holding the admin secret.
	SettingAdminPassword = "admin_password"

	// DefaultReconcileIntervalMinutes between reconciliation passes.
	DefaultReconcileIntervalMinutes = 15

	// WorkerQueueSize is the in-memory sheets sync queue capacity.
	WorkerQueueSize = 1000

	// DefaultSnapshotTTL is the analytics cache lifetime in seconds.
	DefaultSnapshotTTL = 60

	// RateLimitRequests per window for API clients.
	RateLimitRequests = 20

	// RateLimitWindow in seconds.
	RateLimitWindow = 60
)
