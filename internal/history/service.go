package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/aqi"
	"github.com/airsentry/airsentry/internal/city"
)

const (
	// BackfillDays is the size of the historical window.
	BackfillDays = 30

	// HistoryLimit caps the rows returned per city by GetCityHistory.
	HistoryLimit = 30
)

// HourlyProvider fetches hourly pollutant concentrations for a point over a
// date range.
type HourlyProvider interface {
	FetchHourly(ctx context.Context, lat, lon float64, start, end time.Time) ([]aqi.HourlySample, error)
}

// ServiceConfig holds configuration for the history service.
type ServiceConfig struct {
	Provider HourlyProvider
	Cities   *city.Registry
	Repo     Repository
	Logger   zerolog.Logger

	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// Service drives the historical AQI pipeline for every registered city.
type Service struct {
	provider HourlyProvider
	cities   *city.Registry
	repo     Repository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider: cfg.Provider,
		cities:   cfg.Cities,
		repo:     cfg.Repo,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Backfill fetches the trailing 30-day hourly window for every registered
// city, reduces it to daily EPA-scale AQI records, and upserts one row per
// city-day. The first failure aborts the whole pass: the job reports a single
// aggregate outcome, not per-city partial success. Returns the number of rows
// written.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -BackfillDays)

	written := 0
	for _, c := range s.cities.All() {
		n, err := s.backfillCity(ctx, c, start, end)
		if err != nil {
			return written, fmt.Errorf("backfill %s: %w", c.Name, err)
		}
		written += n
	}

	s.logger.Info().
		Int("rows", written).
		Int("cities", s.cities.Len()).
		Msg("historical backfill completed")
	return written, nil
}

func (s *Service) backfillCity(ctx context.Context, c city.City, start, end time.Time) (int, error) {
	samples, err := s.provider.FetchHourly(ctx, c.Lat, c.Lon, start, end)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, day := range aqi.AggregateDaily(samples) {
		rec, err := s.buildRecord(c, day)
		if err != nil {
			return written, err
		}
		if err := s.repo.Upsert(ctx, rec); err != nil {
			return written, fmt.Errorf("persisting %s %s: %w", c.Name, day.Date, err)
		}
		written++
	}

	s.logger.Debug().
		Str("city", c.Name).
		Int("days", written).
		Msg("city backfill stored")
	return written, nil
}

// buildRecord converts one daily average into a persisted record: unit
// conversion, sub-index computation, and overall-AQI reduction.
func (s *Service) buildRecord(c city.City, day aqi.DailyAverage) (*Record, error) {
	converted := aqi.ConvertDaily(day)
	result := aqi.Compute(converted)

	dayStart, err := time.Parse("2006-01-02", day.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date key %q: %w", day.Date, err)
	}

	return &Record{
		LocationName: c.Name,
		Lat:          c.Lat,
		Lon:          c.Lon,
		AQI:          result.Overall,
		CO:           converted[aqi.PollutantCO],
		NO2:          converted[aqi.PollutantNO2],
		O3:           converted[aqi.PollutantO3],
		SO2:          converted[aqi.PollutantSO2],
		PM25:         day.Values[aqi.PollutantPM25],
		PM10:         day.Values[aqi.PollutantPM10],
		Timestamp:    dayStart.UTC(),
	}, nil
}

// GetCityHistory returns the last 30 stored days for a named city, newest
// first. The name must resolve through the registry so an unknown city fails
// with city.ErrCityNotFound; a known city with nothing stored yet returns an
// empty list.
func (s *Service) GetCityHistory(ctx context.Context, name string) ([]CityDay, error) {
	c, err := s.cities.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCityHistory(ctx, c.Name, HistoryLimit)
}
