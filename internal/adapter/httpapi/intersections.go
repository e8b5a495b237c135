package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/roadboard/road-data-api/internal/domain"
)

var intersectionExamples = []string{
	"/api/intersections?road_id=H015&slk_start=8.4",
	"/api/intersections?road_id=H015&slk_start=8.4&slk_end=12.2",
}

// handleIntersections resolves the crossing roads inside an SLK window on
// the requested road.
func (s *Server) handleIntersections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roadID := strings.TrimSpace(q.Get("road_id"))
	rawStart := q.Get("slk_start")
	rawEnd := q.Get("slk_end")

	if roadID == "" || rawStart == "" {
		writeIntersectionUsage(w, "road_id and slk_start are required")
		return
	}

	slkStart, err := parseFinite(rawStart)
	if err != nil {
		writeIntersectionUsage(w, "slk_start must be a number")
		return
	}

	var slkEnd *float64
	if rawEnd != "" {
		end, err := parseFinite(rawEnd)
		if err != nil {
			writeIntersectionUsage(w, "slk_end must be a number")
			return
		}
		slkEnd = &end
	}

	rc, err := s.roads.FindIntersections(r.Context(), roadID, slkStart, slkEnd)
	if errors.Is(err, domain.ErrRoadNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":     "road not found",
			"road_id":   roadID,
			"slk_start": rawStart,
			"slk_end":   rawEnd,
		})
		return
	}
	if err != nil {
		s.logger.Error("intersection lookup failed", "road_id", roadID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "intersection lookup failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, domain.BuildIntersectionPayload(rc))
}

func writeIntersectionUsage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":    message,
		"examples": intersectionExamples,
	})
}

// parseFinite parses s as a float64, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
