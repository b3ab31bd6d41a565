package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karangue/heatwave-alert-service/internal/domain"
	"github.com/karangue/heatwave-alert-service/internal/observability"
)

// Evaluator maps temperatures to alert levels and creates regional alerts,
// handing each newly created alert to the fan-out exactly once.
type Evaluator struct {
	alerts  AlertStore
	fanout  *Fanout
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewEvaluator(alerts AlertStore, fanout *Fanout, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Evaluator {
	return &Evaluator{
		alerts:  alerts,
		fanout:  fanout,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Evaluate checks one region's temperature against the alert bands. A level
// already covered by an active alert is a no-op; a fresh crossing creates the
// alert and triggers the fan-out with the created record (causal ordering:
// the alert's identity is passed on, never re-queried).
func (e *Evaluator) Evaluate(ctx context.Context, region domain.Region, temperature float64) error {
	level := domain.LevelForTemperature(temperature)
	if level == domain.LevelNone {
		return nil
	}

	alert := domain.NewRegionalAlert(region, level, temperature, e.ttl)
	created, err := e.alerts.CreateRegionalAlert(ctx, &alert)
	if err != nil {
		return fmt.Errorf("create regional alert: %w", err)
	}
	if !created {
		// An active alert already covers this (region, level); repeated
		// crossings must not spam.
		e.metrics.AlertsDeduplicated.Inc()
		e.logger.Debug("alert already active, skipping",
			"region", region.Name, "level", level)
		return nil
	}

	e.metrics.AlertsCreated.WithLabelValues(string(level)).Inc()
	e.logger.Info("regional alert created",
		"region", region.Name, "level", level,
		"temperature", temperature, "expires_at", alert.ExpiresAt)

	return e.fanout.Run(ctx, alert, region)
}
