// Package httpapi exposes the dashboard API over HTTP: sign-inventory
// downloads, intersection lookups, and weather reports, plus health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadboard/road-data-api/internal/domain"
	"github.com/roadboard/road-data-api/internal/downloader"
	"github.com/roadboard/road-data-api/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a plain function to the ReadinessChecker interface.
type ReadinessFunc func(ctx context.Context) error

// CheckReadiness calls f.
func (f ReadinessFunc) CheckReadiness(ctx context.Context) error {
	return f(ctx)
}

// Server routes the dashboard API endpoints.
type Server struct {
	httpServer *http.Server
	downloader *downloader.Downloader
	roads      domain.RoadNetwork
	forecast   domain.ForecastProvider
	geocoder   domain.ReverseGeocoder
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer wires the API routes onto addr.
func NewServer(
	addr string,
	dl *downloader.Downloader,
	roads domain.RoadNetwork,
	forecast domain.ForecastProvider,
	geocoder domain.ReverseGeocoder,
	ready ReadinessChecker,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Server {
	s := &Server{
		downloader: dl,
		roads:      roads,
		forecast:   forecast,
		geocoder:   geocoder,
		logger:     logger,
		metrics:    metrics,
	}

	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/api/download-signs", s.instrument("download-signs", s.handleDownloadSigns))
	router.HandlerFunc(http.MethodGet, "/api/intersections", s.instrument("intersections", s.handleIntersections))
	router.HandlerFunc(http.MethodGet, "/api/weather", s.instrument("weather", s.handleWeather))
	router.HandlerFunc(http.MethodGet, "/healthz", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/readyz", handleReady(ready))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		logger.Error("handler panic", "path", r.URL.Path, "panic", fmt.Sprint(v))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No write timeout: a full sign download holds the response open for
		// the whole paginated run.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// instrument records request duration per route and status.
func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		duration := time.Since(start)
		s.metrics.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(rec.status)).Observe(duration.Seconds())
		s.logger.Debug("request served",
			"route", route,
			"status", rec.status,
			"duration_ms", duration.Milliseconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
