package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	occurred := time.Date(2025, time.March, 12, 14, 30, 0, 0, time.UTC)
	weather := &domain.WeatherSnapshot{
		PrecipitationMM: 120.5,
		WindSpeedKMH:    35.2,
		TemperatureC:    24.1,
		HumidityPct:     92.3,
	}
	event := domain.ClaimEvent{
		ID:         "alagamento-a1b2c3d4e5f60718",
		PolicyID:   "POL-001",
		OccurredAt: occurred,
		ClaimType:  domain.TypeAlagamento,
		Cause:      "chuva intensa",
		LossValue:  42_000.50,
		Geo:        domain.Geo{Lat: -23.5505, Lon: -46.6333},
		Weather:    weather,
		Severity:   domain.SeverityModerado,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	t.Run("keyed by the deterministic event id", func(t *testing.T) {
		assert.Equal(t, []byte(event.ID), msg.Key)
	})

	t.Run("routing headers", func(t *testing.T) {
		require.Len(t, msg.Headers, 2)
		assert.Equal(t, "claim_type", msg.Headers[0].Key)
		assert.Equal(t, []byte("alagamento"), msg.Headers[0].Value)
		assert.Equal(t, "occurred_at", msg.Headers[1].Key)
		assert.Equal(t, []byte("2025-03-12T14:30:00Z"), msg.Headers[1].Value)
	})

	t.Run("value round-trips to the same event", func(t *testing.T) {
		var got domain.ClaimEvent
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, event.PolicyID, got.PolicyID)
		assert.Equal(t, event.ClaimType, got.ClaimType)
		assert.Equal(t, event.Cause, got.Cause)
		assert.InDelta(t, event.LossValue, got.LossValue, 1e-9)
		assert.Equal(t, event.Severity, got.Severity)
		require.NotNil(t, got.Weather)
		assert.InDelta(t, weather.PrecipitationMM, got.Weather.PrecipitationMM, 1e-9)
	})

	t.Run("header timestamp is normalized to UTC", func(t *testing.T) {
		saoPaulo := time.FixedZone("BRT", -3*60*60)
		local := event
		local.OccurredAt = occurred.In(saoPaulo)

		localMsg, err := serializeToMessage(local)
		require.NoError(t, err)
		assert.Equal(t, msg.Headers[1].Value, localMsg.Headers[1].Value)
	})
}
