package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/api/models"
	"github.com/airsentry/airsentry/internal/api/response"
	"github.com/airsentry/airsentry/internal/city"
	"github.com/airsentry/airsentry/internal/history"
)

// HistoryHandler handles the historical AQI endpoints.
type HistoryHandler struct {
	service *history.Service
	logger  zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(service *history.Service, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: logger}
}

// RunBackfill handles POST /v1/history/backfill - fetches and stores the
// trailing 30-day window for every monitored city. The call is synchronous:
// it returns once every city-day row is written.
func (h *HistoryHandler) RunBackfill(w http.ResponseWriter, r *http.Request) {
	days, err := h.service.Backfill(r.Context())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", GetUserID(r.Context())).
			Msg("backfill failed")
		response.InternalError(w, r, "historical backfill failed")
		return
	}

	h.logger.Info().
		Str("user_id", GetUserID(r.Context())).
		Int("days", days).
		Msg("backfill completed")

	response.JSON(w, r, http.StatusOK, models.BackfillResponse{
		Message: "Historical AQI stored successfully",
		Days:    days,
	})
}

// GetCityHistory handles GET /v1/history/city?city=.. - the last 30 stored
// days for one city, newest first.
func (h *HistoryHandler) GetCityHistory(w http.ResponseWriter, r *http.Request) {
	cityName := r.URL.Query().Get("city")
	if cityName == "" {
		response.BadRequest(w, r, "city name is required", nil)
		return
	}

	days, err := h.service.GetCityHistory(r.Context(), cityName)
	if err != nil {
		switch {
		case errors.Is(err, city.ErrCityNotFound):
			response.NotFound(w, r, "city is not in the monitored list")
		default:
			response.InternalError(w, r, "failed to load city history")
		}
		return
	}

	// A known city with nothing stored yet serializes as an empty list.

	payload := make([]models.CityHistoryDay, 0, len(days))
	for _, d := range days {
		payload = append(payload, models.CityHistoryDay{
			LocationName: d.LocationName,
			AQI:          d.AQI,
			PM25:         d.PM25,
			PM10:         d.PM10,
			O3:           d.O3,
			NO2:          d.NO2,
			SO2:          d.SO2,
			Date:         d.Date.UTC().Format("2006-01-02"),
		})
	}

	response.JSON(w, r, http.StatusOK, payload)
}
