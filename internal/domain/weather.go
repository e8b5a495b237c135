package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultPlaceName is the display location used when reverse geocoding
// fails or returns nothing usable. Geocoding failures are never surfaced.
const DefaultPlaceName = "Perth, Western Australia"

// displayZone is AWST, a fixed UTC+8 offset. Western Australia observes no
// daylight saving, so a fixed zone is correct year-round.
var displayZone = time.FixedZone("AWST", 8*60*60)

// forecastHours is the number of hourly slots scanned ahead of the current
// hour, and also the reach of the forecast date window.
const forecastHours = 8

// ForecastWindow bounds a forecast request by calendar date in UTC.
type ForecastWindow struct {
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

// CurrentForecastWindow returns the window covering now through now+8h as
// UTC calendar dates. Within 8 hours of midnight UTC the window spans two
// dates; callers get today's daily block either way because StartDate is
// always today.
func CurrentForecastWindow() ForecastWindow {
	now := clock.Now().UTC()
	return ForecastWindow{
		StartDate: now.Format(time.DateOnly),
		EndDate:   now.Add(forecastHours * time.Hour).Format(time.DateOnly),
	}
}

// CurrentConditions is the instantaneous block of a forecast response.
type CurrentConditions struct {
	Time          time.Time // UTC
	Temperature   float64   // °C
	FeelsLike     float64   // °C apparent temperature
	Humidity      int       // percent relative humidity
	WindSpeed     float64   // km/h
	WindDirection float64   // degrees, 0 = north
	WeatherCode   int       // WMO 4677 code
}

// HourlyPoint is one hour of forecast data, timestamped on the hour in UTC.
type HourlyPoint struct {
	Time                     time.Time
	Temperature              float64
	WeatherCode              int
	PrecipitationProbability int
}

// DailyFacts carries the sun block for one calendar date.
type DailyFacts struct {
	Sunrise    time.Time // UTC
	Sunset     time.Time // UTC
	UVIndexMax float64
}

// ForecastBundle is everything a report needs from the forecast provider.
// Daily is ordered by date; the first entry is the window's start date.
type ForecastBundle struct {
	Current CurrentConditions
	Hourly  []HourlyPoint
	Daily   []DailyFacts
}

// ForecastProvider fetches a forecast bundle for a coordinate and window.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lon float64, window ForecastWindow) (ForecastBundle, error)
}

// ReverseGeocoder resolves a coordinate to a short display place name.
// An empty name with a nil error means the provider had nothing usable.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// WeatherReport is the condensed response contract for a weather lookup.
// All display times are rendered in AWST.
type WeatherReport struct {
	Location string          `json:"location"`
	Current  CurrentReport   `json:"current"`
	Sun      SunReport       `json:"sun"`
	Forecast []ForecastEntry `json:"forecast"`
}

// CurrentReport renders the instantaneous conditions.
type CurrentReport struct {
	Time          string  `json:"time"` // "2006-01-02 15:04" AWST
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection string  `json:"windDirection"`
	Condition     string  `json:"condition"`
}

// SunReport renders sunrise, sunset, daylight span and peak UV for today.
type SunReport struct {
	Sunrise    string  `json:"sunrise"` // "15:04" AWST
	Sunset     string  `json:"sunset"`  // "15:04" AWST
	Daylight   string  `json:"daylight"`
	UVIndexMax float64 `json:"uvIndexMax"`
	UVLevel    string  `json:"uvLevel"`
}

// ForecastEntry is one hourly slot of the short-range forecast.
type ForecastEntry struct {
	Time                string  `json:"time"` // "15:04" AWST
	Temperature         float64 `json:"temperature"`
	Condition           string  `json:"condition"`
	PrecipitationChance int     `json:"precipitationChance"`
}

// conditionByCode maps WMO 4677 weather codes to display strings, as
// published by the forecast provider's documentation. Codes absent from the
// table render as "Unknown".
var conditionByCode = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Condition renders a WMO weather code as a display string.
func Condition(code int) string {
	if s, ok := conditionByCode[code]; ok {
		return s
	}
	return "Unknown"
}

// compassLabels is the 16-point rose clockwise from north.
var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection converts a bearing in degrees to a 16-point compass
// label by rounding to the nearest 22.5° sector. 360° wraps back to N via
// the modulo; negative bearings normalize the same way.
func CompassDirection(degrees float64) string {
	sector := int(math.Round(degrees/22.5)) % 16
	if sector < 0 {
		sector += 16
	}
	return compassLabels[sector]
}

// UVLevel labels a UV index per the WHO exposure categories.
func UVLevel(uv float64) string {
	switch {
	case uv <= 2:
		return "Low"
	case uv <= 5:
		return "Moderate"
	case uv <= 7:
		return "High"
	case uv <= 10:
		return "Very High"
	default:
		return "Extreme"
	}
}

// DaylightDuration renders the span between sunrise and sunset as "XXh YYm".
// A sunset at or before sunrise (missing upstream data) renders as "0h 0m".
func DaylightDuration(sunrise, sunset time.Time) string {
	d := sunset.Sub(sunrise)
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// hourKey normalizes a timestamp for exact-match slot lookup.
func hourKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04")
}

// BuildWeatherReport assembles the response from a forecast bundle and a
// resolved place name. The hourly forecast scans the 8 slots after the
// current UTC hour and keeps only slots whose timestamp exactly matches an
// upstream hourly timestamp; gaps in the upstream series are skipped, so
// the array may hold fewer than 8 entries.
func BuildWeatherReport(bundle ForecastBundle, placeName string) WeatherReport {
	if placeName == "" {
		placeName = DefaultPlaceName
	}

	current := CurrentReport{
		Time:          bundle.Current.Time.In(displayZone).Format("2006-01-02 15:04"),
		Temperature:   bundle.Current.Temperature,
		FeelsLike:     bundle.Current.FeelsLike,
		Humidity:      bundle.Current.Humidity,
		WindSpeed:     bundle.Current.WindSpeed,
		WindDirection: CompassDirection(bundle.Current.WindDirection),
		Condition:     Condition(bundle.Current.WeatherCode),
	}

	var sun SunReport
	if len(bundle.Daily) > 0 {
		today := bundle.Daily[0]
		sun = SunReport{
			Sunrise:    today.Sunrise.In(displayZone).Format("15:04"),
			Sunset:     today.Sunset.In(displayZone).Format("15:04"),
			Daylight:   DaylightDuration(today.Sunrise, today.Sunset),
			UVIndexMax: today.UVIndexMax,
			UVLevel:    UVLevel(today.UVIndexMax),
		}
	}

	byHour := make(map[string]HourlyPoint, len(bundle.Hourly))
	for _, p := range bundle.Hourly {
		byHour[hourKey(p.Time)] = p
	}

	base := clock.Now().UTC().Truncate(time.Hour)
	forecast := make([]ForecastEntry, 0, forecastHours)
	for i := 1; i <= forecastHours; i++ {
		slot := base.Add(time.Duration(i) * time.Hour)
		p, ok := byHour[hourKey(slot)]
		if !ok {
			continue
		}
		forecast = append(forecast, ForecastEntry{
			Time:                p.Time.In(displayZone).Format("15:04"),
			Temperature:         p.Temperature,
			Condition:           Condition(p.WeatherCode),
			PrecipitationChance: p.PrecipitationProbability,
		})
	}

	return WeatherReport{
		Location: placeName,
		Current:  current,
		Sun:      sun,
		Forecast: forecast,
	}
}
