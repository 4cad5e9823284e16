package models

// AQIResponse is the current air-quality payload for a point. AQI is the
// provider's 1-5 index; nil when the provider had no reading.
type AQIResponse struct {
	Success    bool               `json:"success"`
	AQI        *int               `json:"aqi"`
	Components map[string]float64 `json:"components"`
}

// CityAQI is one row of the major-cities view.
type CityAQI struct {
	Name       string             `json:"name"`
	Location   Point              `json:"location"`
	AQI        *int               `json:"aqi"`
	Components map[string]float64 `json:"components"`
	UpdatedAt  *Timestamp         `json:"updatedAt"`
}
