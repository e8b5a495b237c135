package httpapi

import (
	"net/http"

	"github.com/roadboard/road-data-api/internal/domain"
)

const weatherExample = "/api/weather?lat=-31.95&lon=115.86"

// handleWeather builds the dashboard weather report for a coordinate.
// Parameter validation happens before any upstream call; reverse geocoding
// is best effort and never fails the request.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawLat := q.Get("lat")
	rawLon := q.Get("lon")

	if rawLat == "" || rawLon == "" {
		writeWeatherUsage(w, "lat and lon are required")
		return
	}

	lat, err := parseFinite(rawLat)
	if err != nil {
		writeWeatherUsage(w, "lat must be a number")
		return
	}
	lon, err := parseFinite(rawLon)
	if err != nil {
		writeWeatherUsage(w, "lon must be a number")
		return
	}

	bundle, err := s.forecast.Forecast(r.Context(), lat, lon, domain.CurrentForecastWindow())
	if err != nil {
		s.logger.Error("forecast fetch failed", "lat", lat, "lon", lon, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to fetch weather data",
		})
		return
	}

	place, err := s.geocoder.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		s.logger.Warn("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		place = ""
	}

	writeJSON(w, http.StatusOK, domain.BuildWeatherReport(bundle, place))
}

func writeWeatherUsage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":   message,
		"example": weatherExample,
	})
}
