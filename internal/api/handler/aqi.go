// Package handler provides HTTP handlers for the AirSentry API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/api/models"
	"github.com/airsentry/airsentry/internal/api/response"
	"github.com/airsentry/airsentry/internal/aqi"
)

// AQIHandler handles current air-quality endpoints.
type AQIHandler struct {
	service *airquality.Service
}

// NewAQIHandler creates a new AQIHandler.
func NewAQIHandler(service *airquality.Service) *AQIHandler {
	return &AQIHandler{service: service}
}

// GetAQI handles GET /v1/aqi?lat=..&lon=.. - current AQI for a point.
func (h *AQIHandler) GetAQI(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		response.BadRequest(w, r, "lat & lon are required", nil)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		response.BadRequest(w, r, "lat must be a number between -90 and 90", nil)
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		response.BadRequest(w, r, "lon must be a number between -180 and 180", nil)
		return
	}

	obs, err := h.service.GetCurrent(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, airquality.ErrProviderUnavailable) {
			response.ServiceUnavailable(w, r, "air quality provider unavailable")
			return
		}
		response.InternalError(w, r, "failed to fetch air quality")
		return
	}

	response.JSON(w, r, http.StatusOK, models.AQIResponse{
		Success:    true,
		AQI:        obs.AQI,
		Components: componentsPayload(obs.Components),
	})
}

// componentsPayload flattens pollutant keys for JSON. An absent reading
// serializes as an empty object, not null.
func componentsPayload(components map[aqi.Pollutant]float64) map[string]float64 {
	out := make(map[string]float64, len(components))
	for p, v := range components {
		out[string(p)] = v
	}
	return out
}
