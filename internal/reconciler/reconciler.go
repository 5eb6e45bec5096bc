package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guesthouse/internal/database"
	"guesthouse/internal/events"
	"guesthouse/internal/metrics"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

// Store is the slice of the database the reconciler needs.
type Store interface {
	GetExpiredCheckoutCandidates(ctx context.Context, now time.Time) ([]*models.Guest, error)
	CheckoutGuestWithVersion(ctx context.Context, id, fromVersion int64) error
}

// Report summarizes one reconciliation pass.
type Report struct {
	Scanned    int `json:"scanned"`
	CheckedOut int `json:"checked_out"`
	Skipped    int `json:"skipped"`
	Conflicts  int `json:"conflicts"`
	Failed     int `json:"failed"`
}

// Reconciler auto-closes bookings whose checkout cutoff has passed and
// frees their rooms. Every pass is idempotent: the store transition is a
// compare-and-swap, so re-running over an already-reconciled booking is a
// no-op and concurrent passes cannot double-flip a row.
type Reconciler struct {
	store    Store
	eventBus *events.EventBus
	logger   zerolog.Logger
	now      func() time.Time
}

func New(store Store, eventBus *events.EventBus, logger *zerolog.Logger) *Reconciler {
	var l zerolog.Logger
	if logger != nil {
		l = logger.With().Str("component", "reconciler").Logger()
	}
	return &Reconciler{
		store:    store,
		eventBus: eventBus,
		logger:   l,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Run performs one reconciliation pass. A failure on one booking is logged
// and counted but never aborts the scan; only a failure to read the
// candidate set at all is returned as an error.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	now := r.now()

	candidates, err := r.store.GetExpiredCheckoutCandidates(ctx, now)
	if err != nil {
		return Report{}, fmt.Errorf("fetch checkout candidates: %w", err)
	}

	report := Report{Scanned: len(candidates)}

	for _, guest := range candidates {
		cutoff, ok := guest.CheckoutCutoff()
		if !ok || now.Before(cutoff) {
			// Checkout date arrived but the cutoff time has not.
			report.Skipped++
			continue
		}

		err := r.store.CheckoutGuestWithVersion(ctx, guest.ID, guest.Version)
		switch {
		case err == nil:
			report.CheckedOut++
			r.publishCheckout(guest)
		case errors.Is(err, database.ErrConcurrentModification),
			errors.Is(err, database.ErrAlreadyCheckedOut):
			// Another pass already flipped this booking; success, not error.
			report.Conflicts++
		default:
			report.Failed++
			metrics.IncReconcileError()
			r.logger.Error().Err(err).
				Int64("guest_id", guest.ID).
				Str("name", guest.Name).
				Msg("failed to reconcile expired checkout")
		}
	}

	metrics.IncReconcileRun()
	metrics.AddReconciledCheckouts(report.CheckedOut)

	r.logger.Info().
		Int("scanned", report.Scanned).
		Int("checked_out", report.CheckedOut).
		Int("skipped", report.Skipped).
		Int("conflicts", report.Conflicts).
		Int("failed", report.Failed).
		Msg("reconciliation pass completed")

	return report, nil
}

func (r *Reconciler) publishCheckout(guest *models.Guest) {
	if r.eventBus == nil {
		return
	}

	payload := events.GuestEventPayload{
		GuestID:    guest.ID,
		Name:       guest.Name,
		RoomID:     guest.RoomID,
		RoomNumber: guest.RoomNumber,
		CheckOut:   guest.CheckOut,
		CheckedOut: true,
		ChangedBy:  "reconciler",
	}
	_ = r.eventBus.PublishJSON(events.EventGuestCheckedOut, payload)
	_ = r.eventBus.PublishJSON(events.EventGuestsChanged, payload)
	_ = r.eventBus.PublishJSON(events.EventRoomsChanged, payload)
}
