package airquality_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/aqi"
	"github.com/airsentry/airsentry/internal/city"
)

// mockProvider returns configurable observations keyed by coordinates.
type mockProvider struct {
	obs        *airquality.Observation
	err        error
	failFor    map[float64]error // keyed by latitude
	fetchCount int
}

func (m *mockProvider) FetchCurrent(_ context.Context, lat, _ float64) (*airquality.Observation, error) {
	m.fetchCount++
	if err, ok := m.failFor[lat]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.obs, nil
}

func testObservation(aqiValue int) *airquality.Observation {
	return &airquality.Observation{
		AQI: &aqiValue,
		Components: map[aqi.Pollutant]float64{
			aqi.PollutantPM25: 22.5,
			aqi.PollutantPM10: 41.2,
		},
		ObservedAt: time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
		FetchedAt:  time.Now(),
	}
}

func newTestService(provider *mockProvider) *airquality.Service {
	return airquality.NewService(airquality.ServiceConfig{
		Provider: provider,
		Cities:   city.Default(),
		Logger:   zerolog.New(io.Discard),
	})
}

func TestService_GetCityAQI(t *testing.T) {
	provider := &mockProvider{obs: testObservation(4)}
	svc := newTestService(provider)

	result, err := svc.GetCityAQI(context.Background(), "lahore")
	require.NoError(t, err)
	assert.Equal(t, "Lahore", result.City)
	assert.InDelta(t, 31.5204, result.Lat, 1e-9)
	require.NotNil(t, result.Observation.AQI)
	assert.Equal(t, 4, *result.Observation.AQI)
}

func TestService_GetCityAQIUnknownCity(t *testing.T) {
	provider := &mockProvider{obs: testObservation(2)}
	svc := newTestService(provider)

	_, err := svc.GetCityAQI(context.Background(), "Gotham")
	assert.ErrorIs(t, err, city.ErrCityNotFound)
	assert.Zero(t, provider.fetchCount, "no fetch should happen for an unknown city")
}

func TestService_GetCityAQIProviderFailure(t *testing.T) {
	provider := &mockProvider{err: airquality.ErrProviderUnavailable}
	svc := newTestService(provider)

	_, err := svc.GetCityAQI(context.Background(), "Karachi")
	assert.ErrorIs(t, err, airquality.ErrProviderUnavailable)
}

func TestService_GetMajorCities(t *testing.T) {
	provider := &mockProvider{obs: testObservation(3)}
	svc := newTestService(provider)

	rows, err := svc.GetMajorCities(context.Background())
	require.NoError(t, err)
	require.Equal(t, city.Default().Len(), len(rows))

	assert.Equal(t, "Karachi", rows[0].Name)
	assert.InDelta(t, 24.8607, rows[0].Lat, 1e-9)
	assert.InDelta(t, 67.0011, rows[0].Lon, 1e-9)
	require.NotNil(t, rows[0].AQI)
	assert.Equal(t, 3, *rows[0].AQI)
	require.NotNil(t, rows[0].UpdatedAt)
}

func TestService_GetMajorCitiesPartialFailure(t *testing.T) {
	// Lahore's fetch fails; its row carries a nil AQI and the rest succeed.
	provider := &mockProvider{
		obs:     testObservation(2),
		failFor: map[float64]error{31.5204: errors.New("boom")},
	}
	svc := newTestService(provider)

	rows, err := svc.GetMajorCities(context.Background())
	require.NoError(t, err)

	var lahore *airquality.CityAQI
	for i := range rows {
		if rows[i].Name == "Lahore" {
			lahore = &rows[i]
		}
	}
	require.NotNil(t, lahore)
	assert.Nil(t, lahore.AQI)
	assert.Nil(t, lahore.UpdatedAt)
	assert.Nil(t, lahore.Components)

	require.NotNil(t, rows[0].AQI, "other cities still resolve")
}
