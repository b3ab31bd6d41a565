package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/karangue/heatwave-alert-service/internal/observability"
)

// Sweeper runs the two maintenance jobs: retention pruning of the reading
// log and expiry of stale regional alerts. Both are idempotent and safe to
// run concurrently with ingestion.
type Sweeper struct {
	store     SweepStore
	retention time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

func NewSweeper(store SweepStore, retention time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Sweeper {
	return &Sweeper{
		store:     store,
		retention: retention,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// SweepReadings deletes readings older than the retention window.
func (s *Sweeper) SweepReadings(ctx context.Context) error {
	cutoff := s.clock.Now().UTC().Add(-s.retention)
	removed, err := s.store.DeleteReadingsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune readings: %w", err)
	}
	s.metrics.ReadingsPruned.Add(float64(removed))
	s.logger.Info("old readings pruned", "count", removed, "cutoff", cutoff)
	return nil
}

// SweepAlerts deactivates regional alerts whose expiry has passed.
func (s *Sweeper) SweepAlerts(ctx context.Context) error {
	now := s.clock.Now().UTC()
	expired, err := s.store.DeactivateExpiredAlerts(ctx, now)
	if err != nil {
		return fmt.Errorf("expire alerts: %w", err)
	}
	s.metrics.AlertsExpired.Add(float64(expired))
	s.logger.Info("expired alerts deactivated", "count", expired)
	return nil
}
