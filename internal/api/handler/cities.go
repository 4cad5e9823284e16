package handler

import (
	"net/http"

	"github.com/airsentry/airsentry/internal/airquality"
	"github.com/airsentry/airsentry/internal/api/models"
	"github.com/airsentry/airsentry/internal/api/response"
)

// CitiesHandler handles the major-cities AQI view.
type CitiesHandler struct {
	service *airquality.Service
}

// NewCitiesHandler creates a new CitiesHandler.
func NewCitiesHandler(service *airquality.Service) *CitiesHandler {
	return &CitiesHandler{service: service}
}

// ListCities handles GET /v1/cities - current AQI for every monitored city.
// A city whose provider fetch failed appears with a null AQI rather than
// failing the whole response.
func (h *CitiesHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.GetMajorCities(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to fetch major cities AQI")
		return
	}

	payload := make([]models.CityAQI, 0, len(rows))
	for _, row := range rows {
		item := models.CityAQI{
			Name:     row.Name,
			Location: models.Point{Lat: row.Lat, Lon: row.Lon},
			AQI:      row.AQI,
		}
		if row.Components != nil {
			item.Components = componentsPayload(row.Components)
		}
		if row.UpdatedAt != nil {
			ts := models.Timestamp(*row.UpdatedAt)
			item.UpdatedAt = &ts
		}
		payload = append(payload, item)
	}

	response.JSON(w, r, http.StatusOK, payload)
}
