package models

import "time"

// Guest is a single stay: check-in through checkout, with payment fields.
// A guest with CheckedOut=false is an active booking.
type Guest struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	IDProof       string     `json:"id_proof"`
	RoomID        *int64     `json:"room_id,omitempty"`
	RoomNumber    string     `json:"room_number,omitempty"`
	CheckIn       time.Time  `json:"check_in"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	CheckOutTime  string     `json:"check_out_time,omitempty"` // "HH:MM", empty means full-day stay
	TotalAmount   float64    `json:"total_amount"`
	PaidAmount    float64    `json:"paid_amount"`
	PendingAmount float64    `json:"pending_amount"`
	IsFrequent    bool       `json:"is_frequent"`
	PaymentMode   string     `json:"payment_mode,omitempty"` // Cash, Online
	PayToWhom     string     `json:"pay_to_whom,omitempty"`
	CheckedOut    bool       `json:"checked_out"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int64      `json:"version"`
}

// CheckoutCutoff returns the wall-clock moment after which the booking is
// overdue for checkout. A booking without a checkout date has no cutoff.
// An empty checkout time means the guest keeps the room for the full day,
// so the cutoff is the very end of the checkout date. A literal "00:00"
// is midnight at the start of that date.
func (g *Guest) CheckoutCutoff() (time.Time, bool) {
	if g.CheckOut == nil {
		return time.Time{}, false
	}

	day := *g.CheckOut
	if g.CheckOutTime == "" {
		eod := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), day.Location())
		return eod, true
	}

	t, err := time.Parse("15:04", g.CheckOutTime)
	if err != nil {
		// Unparseable time falls back to the full-day policy.
		eod := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), day.Location())
		return eod, true
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// IsActive reports whether the booking still occupies its room.
func (g *Guest) IsActive() bool {
	return !g.CheckedOut
}
