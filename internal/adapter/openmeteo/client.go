package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/roadboard/road-data-api/internal/domain"
	"github.com/roadboard/road-data-api/internal/observability"
)

var tracer = otel.Tracer("openmeteo-client")

// minuteLayout is the provider's timestamp format when no timezone suffix
// is requested; all requests here pin timezone=UTC so parsing yields UTC.
const minuteLayout = "2006-01-02T15:04"

// Client implements domain.ForecastProvider using the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a forecast client.
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

// Forecast fetches current conditions, the hourly series for the window,
// and the daily sun block in a single request. Wind speeds are requested in
// km/h and all timestamps in UTC.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, window domain.ForecastWindow) (bundle domain.ForecastBundle, err error) {
	ctx, span := tracer.Start(ctx, "fetch-forecast")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	params := url.Values{
		"latitude":        {formatCoord(lat)},
		"longitude":       {formatCoord(lon)},
		"current":         {"temperature_2m,apparent_temperature,relative_humidity_2m,weather_code,wind_speed_10m,wind_direction_10m"},
		"hourly":          {"temperature_2m,weather_code,precipitation_probability"},
		"daily":           {"sunrise,sunset,uv_index_max"},
		"timezone":        {"UTC"},
		"wind_speed_unit": {"kmh"},
		"start_date":      {window.StartDate},
		"end_date":        {window.EndDate},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("forecast", "error").Inc()
		return domain.ForecastBundle{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("forecast", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.ForecastBundle{}, fmt.Errorf("forecast API status %d: %s", resp.StatusCode, body)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("forecast", "error").Inc()
		return domain.ForecastBundle{}, fmt.Errorf("decode forecast: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("forecast", "success").Inc()

	bundle, err = payload.toBundle()
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("reshape forecast: %w", err)
	}

	c.logger.Debug("fetched forecast",
		"lat", lat,
		"lon", lon,
		"hourly_points", len(bundle.Hourly),
		"daily_points", len(bundle.Daily))

	return bundle, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Open-Meteo response types. Hourly and daily blocks arrive as parallel
// arrays indexed by timestamp.

type forecastResponse struct {
	Current currentBlock `json:"current"`
	Hourly  hourlyBlock  `json:"hourly"`
	Daily   dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity    int     `json:"relative_humidity_2m"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed           float64 `json:"wind_speed_10m"`
	WindDirection       float64 `json:"wind_direction_10m"`
}

type hourlyBlock struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	WeatherCode              []int     `json:"weather_code"`
	PrecipitationProbability []int     `json:"precipitation_probability"`
}

type dailyBlock struct {
	Time       []string  `json:"time"`
	Sunrise    []string  `json:"sunrise"`
	Sunset     []string  `json:"sunset"`
	UVIndexMax []float64 `json:"uv_index_max"`
}

func (r forecastResponse) toBundle() (domain.ForecastBundle, error) {
	currentTime, err := time.Parse(minuteLayout, r.Current.Time)
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("parse current time %q: %w", r.Current.Time, err)
	}

	bundle := domain.ForecastBundle{
		Current: domain.CurrentConditions{
			Time:          currentTime,
			Temperature:   r.Current.Temperature,
			FeelsLike:     r.Current.ApparentTemperature,
			Humidity:      r.Current.RelativeHumidity,
			WindSpeed:     r.Current.WindSpeed,
			WindDirection: r.Current.WindDirection,
			WeatherCode:   r.Current.WeatherCode,
		},
	}

	for i, ts := range r.Hourly.Time {
		t, err := time.Parse(minuteLayout, ts)
		if err != nil {
			return domain.ForecastBundle{}, fmt.Errorf("parse hourly time %q: %w", ts, err)
		}
		point := domain.HourlyPoint{Time: t}
		if i < len(r.Hourly.Temperature) {
			point.Temperature = r.Hourly.Temperature[i]
		}
		if i < len(r.Hourly.WeatherCode) {
			point.WeatherCode = r.Hourly.WeatherCode[i]
		}
		if i < len(r.Hourly.PrecipitationProbability) {
			point.PrecipitationProbability = r.Hourly.PrecipitationProbability[i]
		}
		bundle.Hourly = append(bundle.Hourly, point)
	}

	for i := range r.Daily.Time {
		facts := domain.DailyFacts{}
		if i < len(r.Daily.Sunrise) {
			if facts.Sunrise, err = time.Parse(minuteLayout, r.Daily.Sunrise[i]); err != nil {
				return domain.ForecastBundle{}, fmt.Errorf("parse sunrise %q: %w", r.Daily.Sunrise[i], err)
			}
		}
		if i < len(r.Daily.Sunset) {
			if facts.Sunset, err = time.Parse(minuteLayout, r.Daily.Sunset[i]); err != nil {
				return domain.ForecastBundle{}, fmt.Errorf("parse sunset %q: %w", r.Daily.Sunset[i], err)
			}
		}
		if i < len(r.Daily.UVIndexMax) {
			facts.UVIndexMax = r.Daily.UVIndexMax[i]
		}
		bundle.Daily = append(bundle.Daily, facts)
	}

	return bundle, nil
}
