package resilience_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/airsentry/airsentry/internal/provider/resilience"
)

// withManualReader swaps in a collecting meter provider for the test.
func withManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })
	return reader
}

func collectedMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			byName[m.Name] = m
		}
	}
	return byName
}

func TestNewProviderMetrics(t *testing.T) {
	pm, err := resilience.NewProviderMetrics()
	require.NoError(t, err)
	assert.NotNil(t, pm)
}

func TestProviderMetrics_RecordRequest(t *testing.T) {
	reader := withManualReader(t)

	pm, err := resilience.NewProviderMetrics()
	require.NoError(t, err)

	pm.RecordRequest("openweather", "/air_pollution", 120*time.Millisecond, nil)
	pm.RecordRequest("openweather", "/air_pollution", 40*time.Millisecond, errors.New("boom"))

	metrics := collectedMetrics(t, reader)
	require.Contains(t, metrics, "provider.request.duration")
	require.Contains(t, metrics, "provider.request.total")

	total, ok := metrics["provider.request.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var count int64
	for _, dp := range total.DataPoints {
		count += dp.Value
	}
	assert.Equal(t, int64(2), count)
}

func TestClient_RecordsRequestMetrics(t *testing.T) {
	reader := withManualReader(t)

	pm, err := resilience.NewProviderMetrics()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testClientConfig("openweather")
	cfg.Metrics = pm
	client := resilience.NewClient(cfg)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/air_pollution", http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	metrics := collectedMetrics(t, reader)
	require.Contains(t, metrics, "provider.request.total")

	total, ok := metrics["provider.request.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, total.DataPoints, 1)
	assert.Equal(t, int64(1), total.DataPoints[0].Value)
}
