package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karangue/heatwave-alert-service/internal/domain"
	"github.com/karangue/heatwave-alert-service/internal/observability"
)

// Fanout explodes one newly created regional alert into personalized alerts
// for the region's opted-in citizens.
type Fanout struct {
	users        UserDirectory
	templates    TemplateStore
	personalized PersonalizedAlertStore
	publisher    AlertPublisher // nil disables event publishing
	logger       *slog.Logger
	metrics      *observability.Metrics
}

func NewFanout(
	users UserDirectory,
	templates TemplateStore,
	personalized PersonalizedAlertStore,
	publisher AlertPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Fanout {
	return &Fanout{
		users:        users,
		templates:    templates,
		personalized: personalized,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
	}
}

// Run materializes one personalized alert per opted-in user with a matching
// template. Users are independent failure domains within the batch; the
// (regional alert, user) uniqueness guard makes the whole batch retryable
// after a partial failure without double-creating records.
func (f *Fanout) Run(ctx context.Context, alert domain.RegionalAlert, region domain.Region) error {
	users, err := f.users.ListOptedInUsers(ctx, region.Name)
	if err != nil {
		return fmt.Errorf("list opted-in users for %s: %w", region.Name, err)
	}

	temperature := alert.TemperatureThreshold
	templatesBySituation := make(map[domain.Situation][]domain.AlertTemplate)
	created := 0

	for _, user := range users {
		templates, ok := templatesBySituation[user.Situation]
		if !ok {
			templates, err = f.templates.ListActiveTemplates(ctx, user.Situation)
			if err != nil {
				f.logger.Warn("template lookup failed, skipping user",
					"user_id", user.ID, "situation", user.Situation, "error", err)
				continue
			}
			templatesBySituation[user.Situation] = templates
		}

		tpl := domain.SelectTemplate(templates, user.Situation, temperature)
		if tpl == nil {
			// No matching template is a valid outcome, not an error.
			f.metrics.PersonalizedSkipped.Inc()
			continue
		}

		message := domain.RenderTemplate(tpl.MessageTemplate, domain.TemplateVars{
			Name:        user.DisplayName(),
			Temperature: domain.FormatTemperature(temperature),
			Region:      region.Name,
		})

		record := domain.NewPersonalizedAlert(alert, region, user, message)
		inserted, err := f.personalized.InsertPersonalizedAlert(ctx, &record)
		if err != nil {
			f.logger.Warn("personalized alert insert failed, skipping user",
				"user_id", user.ID, "error", err)
			continue
		}
		if inserted {
			created++
			f.metrics.PersonalizedSent.Inc()
		}
	}

	f.logger.Info("fan-out complete",
		"region", region.Name, "level", alert.Level,
		"users", len(users), "created", created)

	if f.publisher != nil {
		event := domain.AlertEvent{
			AlertID:           alert.ID,
			RegionID:          region.ID,
			RegionName:        region.Name,
			Level:             alert.Level,
			Temperature:       temperature,
			Message:           alert.Message,
			CreatedAt:         alert.CreatedAt,
			ExpiresAt:         alert.ExpiresAt,
			PersonalizedCount: created,
		}
		if err := f.publisher.Publish(ctx, event); err != nil {
			// The alerts are durably stored; losing the announcement is
			// recoverable downstream.
			f.logger.Warn("alert event publish failed",
				"region", region.Name, "error", err)
		}
	}

	return nil
}
