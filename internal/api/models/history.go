package models

// BackfillResponse confirms a completed historical backfill run.
type BackfillResponse struct {
	Message string `json:"message"`
	Days    int    `json:"days"`
}

// CityHistoryDay is one stored day of a city's EPA-scale AQI history. Field
// names mirror the aqi_data columns; nil gas readings were undefined for that
// day.
type CityHistoryDay struct {
	LocationName string   `json:"location_name"`
	AQI          *int     `json:"aqi"`
	PM25         float64  `json:"pm2_5"`
	PM10         float64  `json:"pm10"`
	O3           *float64 `json:"o3"`
	NO2          *float64 `json:"no2"`
	SO2          *float64 `json:"so2"`
	Date         string   `json:"date"`
}
