// Package openweather implements the OpenWeather air_pollution API client.
package openweather

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
	ProviderName = "openweather"

	// DefaultBaseURL is the OpenWeather API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// ClientConfig holds configuration for the OpenWeather client.
type ClientConfig struct {
	// APIKey is the OpenWeather API key (required).
	APIKey string

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

// Client is an OpenWeather air-pollution API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeather client.
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
		apiKey:     cfg.APIKey,
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

// FetchCurrent fetches the current air pollution reading for a point.
// An empty result list yields an Observation with a nil AQI, not an error:
// "no row" is valid provider output.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (*airquality.Observation, error) {
	url := fmt.Sprintf("%s/air_pollution?lat=%.6f&lon=%.6f&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

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

	var owResp airPollutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		err = fmt.Errorf("%w: decoding response: %v", airquality.ErrProviderUnavailable, err)
		c.recordOutcome(err)
		return nil, err
	}

	c.recordOutcome(nil)
	return c.toObservation(lat, lon, &owResp), nil
}

// toObservation converts the OpenWeather response to the domain model.
func (c *Client) toObservation(lat, lon float64, resp *airPollutionResponse) *airquality.Observation {
	obs := &airquality.Observation{
		Lat:       lat,
		Lon:       lon,
		FetchedAt: time.Now(),
	}

	if len(resp.List) == 0 {
		c.logger.Debug().
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("openweather returned no pollution rows")
		return obs
	}

	row := resp.List[0]
	if row.Main.AQI != 0 {
		v := row.Main.AQI
		obs.AQI = &v
	}
	obs.ObservedAt = time.Unix(row.Dt, 0).UTC()
	obs.Components = map[aqi.Pollutant]float64{
		aqi.PollutantCO:   row.Components.CO,
		aqi.PollutantNO2:  row.Components.NO2,
		aqi.PollutantO3:   row.Components.O3,
		aqi.PollutantSO2:  row.Components.SO2,
		aqi.PollutantPM25: row.Components.PM25,
		aqi.PollutantPM10: row.Components.PM10,
		aqi.PollutantNH3:  row.Components.NH3,
	}

	return obs
}

// OpenWeather API response structures.

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO   float64 `json:"no"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			NH3  float64 `json:"nh3"`
		} `json:"components"`
		Dt int64 `json:"dt"`
	} `json:"list"`
}
