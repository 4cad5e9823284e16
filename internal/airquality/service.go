package airquality

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/city"
)

// CurrentProvider fetches the provider's native current AQI for a point.
type CurrentProvider interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (*Observation, error)
}

// ServiceConfig holds configuration for the air quality service.
type ServiceConfig struct {
	Provider CurrentProvider
	Cities   *city.Registry
	Logger   zerolog.Logger
}

// Service exposes current air-quality views over the provider and the city
// registry.
type Service struct {
	provider CurrentProvider
	cities   *city.Registry
	logger   zerolog.Logger
}

// NewService creates a new air quality service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		cities:   cfg.Cities,
		logger:   cfg.Logger,
	}
}

// GetCurrent fetches the current observation for a point.
func (s *Service) GetCurrent(ctx context.Context, lat, lon float64) (*Observation, error) {
	return s.provider.FetchCurrent(ctx, lat, lon)
}

// GetCityAQI resolves a city name through the registry and fetches its current
// observation. An unknown city returns city.ErrCityNotFound, distinguishable
// from a fetched-but-undefined AQI.
func (s *Service) GetCityAQI(ctx context.Context, name string) (*CityObservation, error) {
	c, err := s.cities.Lookup(name)
	if err != nil {
		return nil, err
	}

	obs, err := s.provider.FetchCurrent(ctx, c.Lat, c.Lon)
	if err != nil {
		return nil, fmt.Errorf("fetching AQI for %s: %w", c.Name, err)
	}

	return &CityObservation{
		City:        c.Name,
		Lat:         c.Lat,
		Lon:         c.Lon,
		Observation: obs,
	}, nil
}

// GetMajorCities fetches the current AQI for every registered city. A city
// whose fetch fails or returns no data yields a row with a nil AQI rather than
// failing the whole view.
func (s *Service) GetMajorCities(ctx context.Context) ([]CityAQI, error) {
	cities := s.cities.All()
	results := make([]CityAQI, 0, len(cities))

	for _, c := range cities {
		obs, err := s.provider.FetchCurrent(ctx, c.Lat, c.Lon)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("city", c.Name).
				Msg("city AQI fetch failed")
			results = append(results, CityAQI{Name: c.Name, Lat: c.Lat, Lon: c.Lon})
			continue
		}

		row := CityAQI{
			Name:       c.Name,
			Lat:        c.Lat,
			Lon:        c.Lon,
			AQI:        obs.AQI,
			Components: obs.Components,
		}
		if obs.AQI != nil {
			t := obs.ObservedAt
			row.UpdatedAt = &t
		}
		results = append(results, row)
	}

	return results, nil
}
