// Package history implements the 30-day historical AQI pipeline: fetch hourly
// concentrations, aggregate to daily averages, convert units, compute the
// EPA-scale index, and persist one record per city per day.
package history

import (
	"time"
)

// Record is one persisted city-day row of the aqi_data table. Gas
// concentrations are stored in ppb after conversion; particulates keep the
// provider's µg/m³. Nil fields were undefined for that day.
type Record struct {
	LocationName string
	Lat          float64
	Lon          float64
	AQI          *int
	CO           *float64
	NO           *float64
	NO2          *float64
	O3           *float64
	SO2          *float64
	PM25         float64
	PM10         float64
	NH3          *float64
	Timestamp    time.Time // day boundary, midnight UTC
}

// CityDay is one row of the stored-history view returned to API callers.
type CityDay struct {
	LocationName string
	AQI          *int
	PM25         float64
	PM10         float64
	O3           *float64
	NO2          *float64
	SO2          *float64
	Date         time.Time
}
