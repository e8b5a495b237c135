package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/roadboard/road-data-api/internal/observability"
)

var tracer = otel.Tracer("nominatim-client")

// userAgent identifies the service per the OSM Nominatim usage policy,
// which rejects requests without one.
const userAgent = "road-data-api/1.0"

// Client implements domain.ReverseGeocoder using a Nominatim-style reverse
// geocoding endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a reverse-geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
}

// ReverseGeocode resolves a coordinate to a locality display name via the
// city, town, village, hamlet, county fallback chain, appending the state
// when present. An empty string with a nil error means the provider had no
// usable locality for the coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (name string, err error) {
	ctx, span := tracer.Start(ctx, "reverse-geocode")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	params := url.Values{
		"format":         {"jsonv2"},
		"lat":            {fmt.Sprintf("%.6f", lat)},
		"lon":            {fmt.Sprintf("%.6f", lon)},
		"zoom":           {"10"},
		"addressdetails": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("geocoder").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("geocoder", "error").Inc()
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("geocoder", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geocoder status %d: %s", resp.StatusCode, body)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("geocoder", "error").Inc()
		return "", fmt.Errorf("decode geocoder response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("geocoder", "success").Inc()

	// Nominatim reports "Unable to geocode" inside a 200 body for open
	// ocean and similar; that is a no-result, not a failure.
	if payload.Error != "" {
		c.logger.Debug("geocoder had no result", "lat", lat, "lon", lon, "reason", payload.Error)
		return "", nil
	}

	return payload.Address.placeName(), nil
}

// Nominatim response types.

type reverseResponse struct {
	Address address `json:"address"`
	Error   string  `json:"error"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Hamlet  string `json:"hamlet"`
	County  string `json:"county"`
	State   string `json:"state"`
}

// placeName picks the most specific locality present and appends the state.
func (a address) placeName() string {
	locality := firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.County)
	if locality == "" {
		return ""
	}
	if a.State != "" {
		return locality + ", " + a.State
	}
	return locality
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
