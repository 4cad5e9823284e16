// Package openmeteo implements the Open-Meteo air-quality archive client used
// for historical hourly concentrations.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/aqi"
	"github.com/airsentry/airsentry/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "openmeteo"

	// DefaultBaseURL is the Open-Meteo air-quality API base URL.
	DefaultBaseURL = "https://air-quality-api.open-meteo.com/v1"

	// hourlyFields are the pollutant series requested from the API.
	hourlyFields = "pm2_5,pm10,ozone,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide"

	// hourLayout is the timestamp format of the hourly time axis.
	hourLayout = "2006-01-02T15:04"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// defaults is created.
	HTTPClient *resilience.Client

	// Registry receives per-request health outcomes (optional).
	Registry *resilience.Registry

	// Metrics receives per-request instruments (optional); only applied when
	// the client builds its own HTTP client.
	Metrics *resilience.ProviderMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo air-quality API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Metrics = cfg.Metrics
		httpClient = resilience.NewClient(clientCfg)
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(ProviderName, httpClient)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

func (c *Client) recordOutcome(err error) {
	if c.registry == nil {
		return
	}
	if err != nil {
		c.registry.RecordFailure(ProviderName, err)
		return
	}
	c.registry.RecordSuccess(ProviderName)
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchHourly fetches hourly pollutant concentrations for a point over the
// given date range (inclusive). The response arrays are positionally aligned
// by hour index; a null slot becomes a nil value in the sample.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64, start, end time.Time) ([]aqi.HourlySample, error) {
	url := fmt.Sprintf("%s/air-quality?latitude=%.4f&longitude=%.4f&hourly=%s&start_date=%s&end_date=%s",
		c.baseURL, lat, lon, hourlyFields,
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOutcome(err)
		return nil, fmt.Errorf("%w: %v", airquality.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: unexpected status code %d", airquality.ErrProviderUnavailable, resp.StatusCode)
		c.recordOutcome(err)
		return nil, err
	}

	var omResp hourlyResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		err = fmt.Errorf("%w: decoding response: %v", airquality.ErrProviderUnavailable, err)
		c.recordOutcome(err)
		return nil, err
	}

	c.recordOutcome(nil)
	return c.toSamples(&omResp)
}

// toSamples converts the columnar response into per-hour samples.
func (c *Client) toSamples(resp *hourlyResponse) ([]aqi.HourlySample, error) {
	samples := make([]aqi.HourlySample, 0, len(resp.Hourly.Time))

	for i, ts := range resp.Hourly.Time {
		hour, err := time.Parse(hourLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing hour %q: %v", airquality.ErrProviderUnavailable, ts, err)
		}

		samples = append(samples, aqi.HourlySample{
			Time: hour.UTC(),
			Values: map[aqi.Pollutant]*float64{
				aqi.PollutantPM25: at(resp.Hourly.PM25, i),
				aqi.PollutantPM10: at(resp.Hourly.PM10, i),
				aqi.PollutantO3:   at(resp.Hourly.Ozone, i),
				aqi.PollutantCO:   at(resp.Hourly.CarbonMonoxide, i),
				aqi.PollutantNO2:  at(resp.Hourly.NitrogenDioxide, i),
				aqi.PollutantSO2:  at(resp.Hourly.SulphurDioxide, i),
			},
		})
	}

	return samples, nil
}

// at returns the i-th element of a nullable series, or nil when the series is
// shorter than the time axis.
func at(series []*float64, i int) *float64 {
	if i >= len(series) {
		return nil
	}
	return series[i]
}

// Open-Meteo API response structures.

type hourlyResponse struct {
	Hourly struct {
		Time            []string   `json:"time"`
		PM25            []*float64 `json:"pm2_5"`
		PM10            []*float64 `json:"pm10"`
		Ozone           []*float64 `json:"ozone"`
		CarbonMonoxide  []*float64 `json:"carbon_monoxide"`
		NitrogenDioxide []*float64 `json:"nitrogen_dioxide"`
		SulphurDioxide  []*float64 `json:"sulphur_dioxide"`
	} `json:"hourly"`
}
