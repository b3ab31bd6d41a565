package domain_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

func TestLevelForTemperature(t *testing.T) {
	tests := []struct {
		temp float64
		want domain.AlertLevel
	}{
		{41, domain.LevelExtreme},
		{40.1, domain.LevelExtreme},
		{40, domain.LevelVeryHigh},
		{36, domain.LevelVeryHigh},
		{35, domain.LevelHigh},
		{31, domain.LevelHigh},
		{30, domain.LevelNone},
		{29, domain.LevelNone},
		{-5, domain.LevelNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.LevelForTemperature(tt.temp), "temp %.1f", tt.temp)
	}
}

func TestAlertLevel_Rank_Ordering(t *testing.T) {
	assert.Less(t, domain.LevelNone.Rank(), domain.LevelHigh.Rank())
	assert.Less(t, domain.LevelHigh.Rank(), domain.LevelVeryHigh.Rank())
	assert.Less(t, domain.LevelVeryHigh.Rank(), domain.LevelExtreme.Rank())
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t, "Alerte extrême pour Matam: 42°C", domain.AlertMessage(domain.LevelExtreme, "Matam", 42))
	assert.Equal(t, "Alerte très élevée pour Kaolack: 38.5°C", domain.AlertMessage(domain.LevelVeryHigh, "Kaolack", 38.5))
	assert.Equal(t, "Alerte élevée pour Dakar: 31°C", domain.AlertMessage(domain.LevelHigh, "Dakar", 31))
	assert.Empty(t, domain.AlertMessage(domain.LevelNone, "Dakar", 25))
}

func TestPriorityForLevel(t *testing.T) {
	assert.Equal(t, domain.PriorityUrgent, domain.PriorityForLevel(domain.LevelExtreme))
	assert.Equal(t, domain.PriorityHigh, domain.PriorityForLevel(domain.LevelVeryHigh))
	assert.Equal(t, domain.PriorityMedium, domain.PriorityForLevel(domain.LevelHigh))
}

func TestNewRegionalAlert_ExpiresAfterTTL(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2025, time.May, 12, 14, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	region := domain.Region{ID: 3, Name: "Matam"}
	alert := domain.NewRegionalAlert(region, domain.LevelExtreme, 42, 6*time.Hour)

	assert.Equal(t, int64(3), alert.RegionID)
	assert.Equal(t, domain.LevelExtreme, alert.Level)
	assert.True(t, alert.IsActive)
	assert.Equal(t, fakeClock.Now().UTC(), alert.CreatedAt)
	assert.Equal(t, fakeClock.Now().UTC().Add(6*time.Hour), alert.ExpiresAt)
	assert.Equal(t, "Alerte extrême pour Matam: 42°C", alert.Message)
}

func TestSelectTemplate_ClosestMatch(t *testing.T) {
	templates := []domain.AlertTemplate{
		{ID: 1, Situation: domain.SituationElderly, TemperatureThreshold: 30, MessageTemplate: "t30", IsActive: true},
		{ID: 2, Situation: domain.SituationElderly, TemperatureThreshold: 35, MessageTemplate: "t35", IsActive: true},
		{ID: 3, Situation: domain.SituationPregnant, TemperatureThreshold: 32, MessageTemplate: "pregnant", IsActive: true},
		{ID: 4, Situation: domain.SituationElderly, TemperatureThreshold: 28, MessageTemplate: "inactive", IsActive: false},
	}

	got := domain.SelectTemplate(templates, domain.SituationElderly, 38)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID, "threshold 35 beats 30 at 38°C")

	got = domain.SelectTemplate(templates, domain.SituationElderly, 32)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID, "threshold 30 is the only one ≤ 32°C")

	assert.Nil(t, domain.SelectTemplate(templates, domain.SituationElderly, 28),
		"no active elderly template at or below 28°C")
	assert.Nil(t, domain.SelectTemplate(templates, domain.SituationChild, 45),
		"no template for an unlisted situation")
}

func TestRenderTemplate(t *testing.T) {
	tpl := "{name}, il fait {temperature}°C à {region}."
	got := domain.RenderTemplate(tpl, domain.TemplateVars{
		Name:        "Awa Diop",
		Temperature: "38",
		Region:      "Thiès",
	})
	assert.Equal(t, "Awa Diop, il fait 38°C à Thiès.", got)
}

func TestRenderTemplate_MissingVarsRenderEmpty(t *testing.T) {
	got := domain.RenderTemplate("Bonjour {name} ({region})", domain.TemplateVars{})
	assert.Equal(t, "Bonjour  ()", got)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Awa Diop", domain.User{FullName: "Awa Diop", Username: "awa"}.DisplayName())
	assert.Equal(t, "awa", domain.User{Username: "awa"}.DisplayName())
}

func TestHealthAdvice(t *testing.T) {
	uv := 8.2
	r := domain.Reading{Temperature: 41, Humidity: 85, WeatherCode: 3, UVIndex: &uv}
	advice := domain.HealthAdvice(r)
	assert.Contains(t, advice, "Température extrême ! Restez à l'intérieur.")
	assert.Contains(t, advice, "Humidité élevée, risque de moustiques.")
	assert.Contains(t, advice, "Indice UV élevé, utilisez de la crème solaire.")
	assert.Contains(t, advice, "Air poussiéreux, portez un masque.")

	rain := domain.Reading{Temperature: 28, Humidity: 60, WeatherCode: 63}
	assert.Contains(t, domain.HealthAdvice(rain), "Pluie prévue, attention au paludisme.")

	calm := domain.Reading{Temperature: 25, Humidity: 50, WeatherCode: 0}
	assert.Equal(t, []string{"Conditions météo normales."}, domain.HealthAdvice(calm))
}
