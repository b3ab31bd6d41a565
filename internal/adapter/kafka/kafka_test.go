package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	created := time.Date(2025, 5, 12, 14, 0, 0, 0, time.UTC)
	event := domain.AlertEvent{
		AlertID:           7,
		RegionID:          3,
		RegionName:        "Matam",
		Level:             domain.LevelExtreme,
		Temperature:       42,
		Message:           "Alerte extrême pour Matam: 42°C",
		CreatedAt:         created,
		ExpiresAt:         created.Add(6 * time.Hour),
		PersonalizedCount: 12,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("Matam"), msg.Key)
	assert.Contains(t, string(msg.Value), `"alert_level":"extreme"`)
	assert.Contains(t, string(msg.Value), `"personalized_count":12`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "alert_level", msg.Headers[0].Key)
	assert.Equal(t, []byte("extreme"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(created.Format(time.RFC3339)), msg.Headers[1].Value)
}
