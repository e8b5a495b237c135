package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the API service.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec // labels: route, status

	// Signage download metrics.
	DownloadsTotal   *prometheus.CounterVec   // labels: layer, outcome={success,error}
	DownloadDuration *prometheus.HistogramVec // labels: layer
	DownloadRecords  *prometheus.HistogramVec // labels: layer
	PagesFetched     *prometheus.CounterVec   // labels: layer

	// Upstream fetch metrics shared by all adapters.
	UpstreamRequests *prometheus.CounterVec   // labels: target={signs,forecast,geocoder}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: target

	// Geocoding cache and road network metrics.
	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}
	RoadLookups  *prometheus.CounterVec // labels: outcome={found,not_found,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "road_data",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration by route and status code.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 180},
		}, []string{"route", "status"}),
		DownloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_data",
			Name:      "sign_downloads_total",
			Help:      "Signage category downloads by layer and outcome.",
		}, []string{"layer", "outcome"}),
		DownloadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "road_data",
			Name:      "sign_download_duration_seconds",
			Help:      "Duration of a complete category download including the file write.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 45, 90, 300},
		}, []string{"layer"}),
		DownloadRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "road_data",
			Name:      "sign_download_records",
			Help:      "Records accumulated per successful category download.",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 25000, 50000},
		}, []string{"layer"}),
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_data",
			Name:      "sign_pages_fetched_total",
			Help:      "Feature-service pages fetched per layer.",
		}, []string{"layer"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_data",
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by target and outcome.",
		}, []string{"target", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "road_data",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 45},
		}, []string{"target"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_data",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
		RoadLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "road_data",
			Name:      "road_lookups_total",
			Help:      "Road network lookups by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.HTTPRequestDuration,
		m.DownloadsTotal,
		m.DownloadDuration,
		m.DownloadRecords,
		m.PagesFetched,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.RoadLookups,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "road_data", Name: "http_request_duration_seconds"}, []string{"route", "status"}),
		DownloadsTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_data", Name: "sign_downloads_total"}, []string{"layer", "outcome"}),
		DownloadDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "road_data", Name: "sign_download_duration_seconds"}, []string{"layer"}),
		DownloadRecords:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "road_data", Name: "sign_download_records"}, []string{"layer"}),
		PagesFetched:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_data", Name: "sign_pages_fetched_total"}, []string{"layer"}),
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_data", Name: "upstream_requests_total"}, []string{"target", "outcome"}),
		UpstreamDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "road_data", Name: "upstream_request_duration_seconds"}, []string{"target"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_data", Name: "geocode_cache_total"}, []string{"result"}),
		RoadLookups:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "road_data", Name: "road_lookups_total"}, []string{"outcome"}),
	}
}
