package service

import (
	"context"
	"time"

	"guesthouse/internal/domain"
	"guesthouse/internal/events"
	"guesthouse/internal/models"

	"github.com/rs/zerolog"
)

const (
	dailyRevenueDays   = 7
	monthlyRevenueDays = 30
)

// AnalyticsService computes read-time projections over the current ground
// truth. Nothing here is persisted; the cache only shortcuts repeated reads
// and is invalidated whenever any underlying collection changes.
type AnalyticsService struct {
	repo     domain.Repository
	cache    domain.CacheRepository
	eventBus *events.EventBus
	logger   *zerolog.Logger
	now      func() time.Time

	subscriptions []*events.Subscription
}

func NewAnalyticsService(repo domain.Repository, cache domain.CacheRepository, eventBus *events.EventBus, logger *zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Start registers cache invalidation on every collection change.
func (s *AnalyticsService) Start() {
	if s.eventBus == nil {
		return
	}
	invalidate := func(*events.Event) error {
		if s.cache == nil {
			return nil
		}
		if err := s.cache.InvalidateSnapshot(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("failed to invalidate analytics snapshot")
		}
		return nil
	}
	for _, eventType := range []string{events.EventRoomsChanged, events.EventGuestsChanged, events.EventExpensesChanged, events.EventGuestCheckedOut} {
		s.subscriptions = append(s.subscriptions, s.eventBus.Subscribe(eventType, invalidate))
	}
}

// Stop detaches the event handlers registered by Start.
func (s *AnalyticsService) Stop() {
	for _, sub := range s.subscriptions {
		sub.Unsubscribe()
	}
	s.subscriptions = nil
}

// GetSummary returns the cached snapshot when fresh, otherwise recomputes
// from the store and refills the cache.
func (s *AnalyticsService) GetSummary(ctx context.Context) (*models.AnalyticsSummary, error) {
	if s.cache != nil {
		snapshot, err := s.cache.GetSnapshot(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache read failed, recomputing")
		} else if snapshot != nil {
			return snapshot, nil
		}
	}

	summary, err := s.ComputeSummary(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, summary); err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache write failed")
		}
	}

	return summary, nil
}

// ComputeSummary builds the projection from scratch.
func (s *AnalyticsService) ComputeSummary(ctx context.Context) (*models.AnalyticsSummary, error) {
	now := s.now()

	rooms, err := s.repo.GetAllRooms(ctx)
	if err != nil {
		return nil, err
	}
	guests, err := s.repo.GetAllGuests(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.GetAllExpenses(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{
		TotalRooms:  len(rooms),
		TotalGuests: len(guests),
		GeneratedAt: now,
	}

	for _, room := range rooms {
		switch room.Status {
		case models.RoomStatusAvailable:
			summary.AvailableRooms++
		case models.RoomStatusOccupied:
			summary.OccupiedRooms++
		case models.RoomStatusMaintenance:
			summary.MaintenanceRooms++
		}
	}
	// Zero rooms is 0% occupancy, not a division fault.
	if summary.TotalRooms > 0 {
		summary.OccupancyRate = float64(summary.OccupiedRooms) / float64(summary.TotalRooms) * 100
	}

	today := truncateToDay(now)
	dailyStart := today.AddDate(0, 0, -(dailyRevenueDays - 1))
	monthlyStart := today.AddDate(0, 0, -(monthlyRevenueDays - 1))
	dailyBuckets := make(map[time.Time]float64, dailyRevenueDays)

	for _, guest := range guests {
		summary.TotalRevenue += guest.PaidAmount
		if !guest.CheckedOut {
			summary.CurrentGuests++
			summary.PendingPayments += guest.PendingAmount
		}
		if guest.IsFrequent {
			summary.FrequentGuests++
		}

		// Revenue buckets key on the check-in calendar day, local time.
		day := truncateToDay(guest.CheckIn)
		if !day.Before(monthlyStart) && !day.After(today) {
			summary.MonthlyRevenue += guest.PaidAmount
		}
		if !day.Before(dailyStart) && !day.After(today) {
			dailyBuckets[day] += guest.PaidAmount
		}
	}

	for i := 0; i < dailyRevenueDays; i++ {
		day := dailyStart.AddDate(0, 0, i)
		summary.DailyRevenue = append(summary.DailyRevenue, models.RevenuePoint{
			Date:    day,
			Revenue: dailyBuckets[day],
		})
	}

	for _, expense := range expenses {
		summary.TotalExpenses += expense.Amount
	}
	summary.NetIncome = summary.TotalRevenue - summary.TotalExpenses

	return summary, nil
}
