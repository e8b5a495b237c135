package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/roadboard/road-data-api/internal/domain"
)

// downloadResponse summarises one download run. Timestamp is set only when
// every requested layer succeeded.
type downloadResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message,omitempty"`
	Error     string                     `json:"error,omitempty"`
	Results   map[string]categoryOutcome `json:"results"`
	Timestamp string                     `json:"timestamp,omitempty"`
}

type categoryOutcome struct {
	Count int    `json:"count"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleDownloadSigns refreshes the sign snapshots for the requested layer
// (or all layers) and reports a per-layer outcome. Layers run in sequence;
// one layer failing does not stop the rest.
func (s *Server) handleDownloadSigns(w http.ResponseWriter, r *http.Request) {
	layers, err := domain.SignLayersFor(r.URL.Query().Get("layer"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"usage": "/api/download-signs?layer=rail|regulatory|warning|all",
		})
		return
	}

	results := s.downloader.Run(r.Context(), layers)

	resp := downloadResponse{Results: make(map[string]categoryOutcome, len(results))}
	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			resp.Results[res.Layer] = categoryOutcome{Error: res.Err.Error()}
			continue
		}
		resp.Results[res.Layer] = categoryOutcome{Count: res.Count, File: res.File}
	}

	if failed > 0 {
		resp.Error = fmt.Sprintf("%d of %d sign layers failed", failed, len(results))
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	resp.Success = true
	resp.Message = fmt.Sprintf("Downloaded %d sign layers", len(results))
	resp.Timestamp = domain.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, resp)
}
