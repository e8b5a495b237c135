package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DataDir receives the signage snapshot files.
	DataDir string

	// Feature-service signage configuration. SignsPageTimeout bounds each
	// individual page request, not the whole download.
	SignsBaseURL     string
	SignsPageTimeout time.Duration

	// Forecast API configuration.
	ForecastBaseURL string
	ForecastTimeout time.Duration

	// Reverse geocoding configuration.
	GeocoderBaseURL   string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	// RoadNetworkDB is the SQLite snapshot backing intersection lookups.
	RoadNetworkDB string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	signsPageTimeout, err := parseDuration("SIGNS_PAGE_TIMEOUT", "45s")
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := parseDuration("FORECAST_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir: envOrDefault("DATA_DIR", "./data"),

		SignsBaseURL:     envOrDefault("SIGNS_API_URL", "https://services.slip.wa.gov.au/public/rest/services/SLIP_Public_Services/Transport/MapServer"),
		SignsPageTimeout: signsPageTimeout,

		ForecastBaseURL: envOrDefault("FORECAST_API_URL", "https://api.open-meteo.com/v1/forecast"),
		ForecastTimeout: forecastTimeout,

		GeocoderBaseURL:   envOrDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/reverse"),
		GeocoderTimeout:   geocoderTimeout,
		GeocoderCacheSize: parseGeocoderCacheSize(),

		RoadNetworkDB: envOrDefault("ROADNET_DB", "./data/roadnet.db"),
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DATA_DIR is required")
	}
	if cfg.SignsBaseURL == "" {
		return nil, fmt.Errorf("SIGNS_API_URL is required")
	}
	if cfg.ForecastBaseURL == "" {
		return nil, fmt.Errorf("FORECAST_API_URL is required")
	}
	if cfg.GeocoderBaseURL == "" {
		return nil, fmt.Errorf("GEOCODER_URL is required")
	}
	if cfg.RoadNetworkDB == "" {
		return nil, fmt.Errorf("ROADNET_DB is required")
	}

	return cfg, nil
}

// envOrDefault returns the environment value for key, or fallback when the
// variable is unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseDuration reads a positive duration from the environment, falling back
// to the given default when unset.
func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseGeocoderCacheSize() int {
	if s := os.Getenv("GEOCODER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
