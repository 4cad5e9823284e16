package resilience_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsentry/airsentry/internal/provider/resilience"
)

func TestRegistry_EmptyHasNoHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	assert.Empty(t, registry.GetAllHealth())
}

func TestRegistry_RecordsOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("openweather", resilience.NewClient(testClientConfig("openweather")))

	registry.RecordSuccess("openweather")
	registry.RecordFailure("openweather", errors.New("status 502"))

	health := registry.GetAllHealth()
	require.Len(t, health, 1)

	h := health[0]
	assert.Equal(t, "openweather", h.Name)
	assert.NotNil(t, h.LastSuccessAt)
	assert.NotNil(t, h.LastFailureAt)
	assert.Equal(t, "status 502", h.LastError)
	assert.Equal(t, gobreaker.StateClosed, h.CircuitState)
	assert.True(t, h.IsHealthy())
	assert.False(t, h.IsDegraded())
}

func TestRegistry_RecordForUnknownProviderIsIgnored(t *testing.T) {
	registry := resilience.NewRegistry()

	registry.RecordSuccess("nonexistent")
	registry.RecordFailure("nonexistent", errors.New("boom"))

	assert.Empty(t, registry.GetAllHealth())
}

func TestRegistry_TracksMultipleProviders(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("openweather", resilience.NewClient(testClientConfig("openweather")))
	registry.Register("openmeteo", resilience.NewClient(testClientConfig("openmeteo")))

	registry.RecordSuccess("openmeteo")

	health := registry.GetAllHealth()
	require.Len(t, health, 2)

	byName := make(map[string]*resilience.ProviderHealth, len(health))
	for _, h := range health {
		byName[h.Name] = h
	}
	require.Contains(t, byName, "openweather")
	require.Contains(t, byName, "openmeteo")
	assert.Nil(t, byName["openweather"].LastSuccessAt)
	assert.NotNil(t, byName["openmeteo"].LastSuccessAt)
}
