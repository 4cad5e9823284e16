// Package aqi implements EPA-style Air Quality Index computation:
// breakpoint interpolation, unit conversion, and hourly-to-daily aggregation.
//
// Missing data is modelled as a nil pointer, never as zero. Every function in
// this package propagates nil rather than failing, so callers must treat a nil
// result as a valid "no data" outcome distinct from a numeric index.
package aqi

import "time"

// Pollutant identifies a pollutant tracked by the index. The string values
// match the component keys used by the upstream providers and the aqi_data
// table columns.
type Pollutant string

const (
	PollutantPM25 Pollutant = "pm2_5"
	PollutantPM10 Pollutant = "pm10"
	PollutantO3   Pollutant = "o3"
	PollutantNO2  Pollutant = "no2"
	PollutantSO2  Pollutant = "so2"
	PollutantCO   Pollutant = "co"
	PollutantNH3  Pollutant = "nh3"
)

// IndexedPollutants are the pollutants with defined EPA breakpoints, in the
// order they are evaluated. CO and NH3 carry no breakpoints and never
// contribute to the overall index.
var IndexedPollutants = []Pollutant{
	PollutantPM25,
	PollutantPM10,
	PollutantO3,
	PollutantNO2,
	PollutantSO2,
}

// HourlySample is one hour of raw pollutant concentrations for a single
// location. Values are in µg/m³ except CO, which arrives in mg/m³.
// A nil value means the provider reported no reading for that pollutant.
type HourlySample struct {
	Time   time.Time
	Values map[Pollutant]*float64
}

// DailyAverage holds the mean concentration per pollutant for one calendar
// day, in the original provider units. Hours is the shared divisor: the number
// of samples that day that carried at least one numeric value.
type DailyAverage struct {
	Date   string // YYYY-MM-DD
	Values map[Pollutant]float64
	Hours  int
}

// Result is the outcome of an AQI computation over converted concentrations.
type Result struct {
	// SubIndices holds the per-pollutant EPA sub-index; nil where the
	// concentration was missing or outside all breakpoint ranges.
	SubIndices map[Pollutant]*int

	// Overall is the maximum defined sub-index, or nil if none are defined.
	Overall *int
}

// Float returns a pointer to v. Convenience for building sample maps.
func Float(v float64) *float64 {
	return &v
}
