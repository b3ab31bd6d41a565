package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/karangue/heatwave-alert-service/internal/domain"
	"github.com/karangue/heatwave-alert-service/internal/observability"
)

// Ingestor runs one ingest cycle: fetch, persist, cache, and evaluate, one
// region at a time.
type Ingestor struct {
	regions   RegionLister
	fetcher   WeatherFetcher
	readings  ReadingStore
	cache     SnapshotCache // nil disables snapshot caching
	evaluator *Evaluator
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	readiness
}

// NewIngestor wires an ingest cycle. Pass a nil cache to disable snapshot
// caching.
func NewIngestor(
	regions RegionLister,
	fetcher WeatherFetcher,
	readings ReadingStore,
	cache SnapshotCache,
	evaluator *Evaluator,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Ingestor {
	return &Ingestor{
		regions:   regions,
		fetcher:   fetcher,
		readings:  readings,
		cache:     cache,
		evaluator: evaluator,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunOnce processes every active region. Listing the regions is the only
// pipeline-fatal step; per-region failures are logged and skipped so the
// next scheduled run retries them naturally.
func (i *Ingestor) RunOnce(ctx context.Context) error {
	start := i.clock.Now()

	regions, err := i.regions.ListActiveRegions(ctx)
	if err != nil {
		return fmt.Errorf("list active regions: %w", err)
	}

	for _, region := range regions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		i.processRegion(ctx, region)
	}

	i.metrics.IngestCycleDuration.Observe(i.clock.Since(start).Seconds())
	i.ready.Store(true)
	return nil
}

func (i *Ingestor) processRegion(ctx context.Context, region domain.Region) {
	i.metrics.RegionsProcessed.Inc()

	fetchStart := i.clock.Now()
	reading, err := i.fetcher.FetchCurrent(ctx, region)
	i.metrics.FetchDuration.Observe(i.clock.Since(fetchStart).Seconds())
	if err != nil {
		i.metrics.FetchErrors.Inc()
		i.logger.Warn("weather fetch failed, skipping region",
			"region", region.Name, "error", err)
		return
	}

	reading.RegionID = region.ID
	reading.RecordedAt = i.clock.Now().UTC()

	// Reading persistence happens-before the evaluation that consumes it.
	if err := i.readings.InsertReading(ctx, &reading); err != nil {
		i.logger.Error("persist reading failed, skipping region",
			"region", region.Name, "error", err)
		return
	}
	i.metrics.ReadingsStored.Inc()

	if i.cache != nil {
		if err := i.cache.SetLatest(ctx, reading); err != nil {
			// Cache trouble never blocks alerting.
			i.logger.Warn("snapshot cache update failed",
				"region", region.Name, "error", err)
		}
	}

	if err := i.evaluator.Evaluate(ctx, region, reading.Temperature); err != nil {
		i.logger.Error("alert evaluation failed",
			"region", region.Name, "temperature", reading.Temperature, "error", err)
	}
}
