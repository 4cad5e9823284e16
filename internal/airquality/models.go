// Package airquality provides access to the external air-quality providers
// and the city-level AQI views built on top of them.
package airquality

import (
	"errors"
	"time"

	"github.com/airsentry/airsentry/internal/aqi"
)

// Provider errors.
var (
	// ErrProviderUnavailable wraps a non-success status or malformed body
	// from an upstream provider.
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
)

// Observation is the provider's current air-quality reading for a point.
// AQI is the provider's native ordinal 1–5 category, not the EPA-scale index
// computed by the aqi package; nil when the provider returned no row.
type Observation struct {
	Lat        float64
	Lon        float64
	AQI        *int
	Components map[aqi.Pollutant]float64
	ObservedAt time.Time
	FetchedAt  time.Time
}

// CityObservation pairs an Observation with the registry city it was fetched
// for.
type CityObservation struct {
	City        string
	Lat         float64
	Lon         float64
	Observation *Observation
}

// CityAQI is one row of the major-cities view. AQI and UpdatedAt are nil when
// the provider had no data for that city.
type CityAQI struct {
	Name       string
	Lat        float64
	Lon        float64
	AQI        *int
	Components map[aqi.Pollutant]float64
	UpdatedAt  *time.Time
}
