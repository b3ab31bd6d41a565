// Package pipeline orchestrates the weather-ingestion and alert-escalation
// chain: fetch per-region conditions, persist readings, evaluate threshold
// bands, and fan newly created regional alerts out into personalized alerts.
//
// Each region is an independent failure domain: a fetch or persistence
// problem for one region is logged and skipped, never aborting the batch.
// Only store unavailability fails a whole scheduled run. All deduplication
// relies on store-level uniqueness guards, so concurrent runs and post-crash
// retries stay safe without in-process coordination.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

// RegionLister provides the active regions to monitor.
type RegionLister interface {
	ListActiveRegions(ctx context.Context) ([]domain.Region, error)
}

// WeatherFetcher retrieves current conditions for one region.
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context, region domain.Region) (domain.Reading, error)
}

// ReadingStore appends normalized readings.
type ReadingStore interface {
	InsertReading(ctx context.Context, r *domain.Reading) error
}

// AlertStore creates regional alerts behind the (region, level) uniqueness
// guard, reporting whether a row was actually created.
type AlertStore interface {
	CreateRegionalAlert(ctx context.Context, alert *domain.RegionalAlert) (bool, error)
}

// TemplateStore lists active message templates for a situation.
type TemplateStore interface {
	ListActiveTemplates(ctx context.Context, situation domain.Situation) ([]domain.AlertTemplate, error)
}

// UserDirectory enumerates fan-out targets for a region.
type UserDirectory interface {
	ListOptedInUsers(ctx context.Context, regionName string) ([]domain.User, error)
}

// PersonalizedAlertStore inserts fan-out records behind the
// (regional alert, user) uniqueness guard.
type PersonalizedAlertStore interface {
	InsertPersonalizedAlert(ctx context.Context, a *domain.PersonalizedAlert) (bool, error)
}

// SnapshotCache receives the latest reading per region for the read API.
type SnapshotCache interface {
	SetLatest(ctx context.Context, reading domain.Reading) error
}

// AlertPublisher announces created alerts to downstream delivery channels.
type AlertPublisher interface {
	Publish(ctx context.Context, event domain.AlertEvent) error
}

// SweepStore exposes the two maintenance operations.
type SweepStore interface {
	DeleteReadingsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeactivateExpiredAlerts(ctx context.Context, now time.Time) (int64, error)
}

// readiness tracks whether at least one ingest cycle has completed, backing
// the /readyz endpoint.
type readiness struct {
	ready atomic.Bool
}

func (r *readiness) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no ingest cycle has completed yet")
	}
	return nil
}
