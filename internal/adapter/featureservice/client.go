package featureservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/roadboard/road-data-api/internal/domain"
	"github.com/roadboard/road-data-api/internal/observability"
)

var tracer = otel.Tracer("featureservice-client")

// Client implements domain.SignSource against an ArcGIS-style feature
// service. Every page request runs under its own timeout; the service is
// known to report query failures inside HTTP-200 bodies, so those are
// detected and surfaced as errors too.
type Client struct {
	baseURL     string
	pageTimeout time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a feature-service client. baseURL is the service root;
// layer numbers are appended per request.
func NewClient(baseURL string, pageTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		pageTimeout: pageTimeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchPage requests one page of layer records starting at offset. The page
// size is fixed at domain.SignPageSize; a shorter page signals end-of-data
// to the caller.
func (c *Client) FetchPage(ctx context.Context, layer domain.SignLayer, offset int) (attrs []domain.SignAttributes, err error) {
	ctx, span := tracer.Start(ctx, "fetch-sign-page")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.pageTimeout)
	defer cancel()

	params := url.Values{
		"where":             {"1=1"},
		"outFields":         {strings.Join(layer.OutFields, ",")},
		"returnGeometry":    {"false"},
		"resultOffset":      {strconv.Itoa(offset)},
		"resultRecordCount": {strconv.Itoa(domain.SignPageSize)},
		"f":                 {"json"},
	}
	fullURL := fmt.Sprintf("%s/%d/query?%s", c.baseURL, layer.LayerID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("signs").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("signs", "error").Inc()
		return nil, fmt.Errorf("fetch %s page at offset %d: %w", layer.Key, offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("signs", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feature service status %d at offset %d: %s", resp.StatusCode, offset, body)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("signs", "error").Inc()
		return nil, fmt.Errorf("decode page at offset %d: %w", offset, err)
	}

	// The service wraps query errors in a 200 response.
	if payload.Error != nil {
		c.metrics.UpstreamRequests.WithLabelValues("signs", "error").Inc()
		return nil, fmt.Errorf("feature service error %d at offset %d: %s", payload.Error.Code, offset, payload.Error.Message())
	}

	c.metrics.UpstreamRequests.WithLabelValues("signs", "success").Inc()

	attrs = make([]domain.SignAttributes, 0, len(payload.Features))
	for _, f := range payload.Features {
		attrs = append(attrs, domain.SignAttributes(f.Attributes))
	}

	c.logger.Debug("fetched sign page",
		"layer", layer.Key,
		"offset", offset,
		"records", len(attrs))

	return attrs, nil
}

// Feature-service response types.

type queryResponse struct {
	Features []feature   `json:"features"`
	Error    *queryError `json:"error"`
}

type feature struct {
	Attributes map[string]any `json:"attributes"`
}

type queryError struct {
	Code    int      `json:"code"`
	Msg     string   `json:"message"`
	Details []string `json:"details"`
}

// Message joins the error message with any detail lines the service adds.
func (e *queryError) Message() string {
	if len(e.Details) == 0 {
		return e.Msg
	}
	return e.Msg + " (" + strings.Join(e.Details, "; ") + ")"
}
