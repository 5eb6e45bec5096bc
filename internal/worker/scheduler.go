package worker

import (
	"context"
	"time"

	"guesthouse/internal/reconciler"

	"github.com/rs/zerolog"
)

// ReconcileScheduler drives periodic reconciliation passes. The pass
// itself is idempotent, so overlapping triggers (startup, ticker, manual
// endpoint) are safe.
type ReconcileScheduler struct {
	reconciler *reconciler.Reconciler
	interval   time.Duration
	retry      RetryPolicy
	logger     zerolog.Logger
}

func NewReconcileScheduler(r *reconciler.Reconciler, interval time.Duration, retry RetryPolicy, logger *zerolog.Logger) *ReconcileScheduler {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 5 * time.Second
	}
	var l zerolog.Logger
	if logger != nil {
		l = logger.With().Str("component", "reconcile_scheduler").Logger()
	}
	return &ReconcileScheduler{
		reconciler: r,
		interval:   interval,
		retry:      retry,
		logger:     l,
	}
}

// Start blocks until ctx is done. With a zero interval only RunOnce
// callers (startup, manual endpoint) trigger passes.
func (s *ReconcileScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info().Msg("periodic reconciliation disabled")
		<-ctx.Done()
		return
	}

	s.logger.Info().Dur("interval", s.interval).Msg("reconcile scheduler started")
	defer s.logger.Info().Msg("reconcile scheduler stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one pass, retrying scan-level failures with backoff.
// Per-booking failures are already absorbed inside the pass.
func (s *ReconcileScheduler) RunOnce(ctx context.Context) reconciler.Report {
	var report reconciler.Report
	var err error

	for attempt := 1; attempt <= s.retry.MaxRetries; attempt++ {
		report, err = s.reconciler.Run(ctx)
		if err == nil {
			return report
		}

		s.logger.Error().Err(err).Int("attempt", attempt).Msg("reconciliation pass failed")
		if attempt == s.retry.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return report
		case <-time.After(s.retry.NextDelay(attempt)):
		}
	}

	return report
}
