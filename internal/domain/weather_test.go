package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected string
	}{
		{"clear sky", 0, "Clear sky"},
		{"partly cloudy", 2, "Partly cloudy"},
		{"fog", 45, "Fog"},
		{"moderate rain", 63, "Moderate rain"},
		{"thunderstorm", 95, "Thunderstorm"},
		{"thunderstorm with heavy hail", 99, "Thunderstorm with heavy hail"},
		{"unmapped code", 42, "Unknown"},
		{"negative code", -1, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Condition(tt.code))
		})
	}
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		name     string
		degrees  float64
		expected string
	}{
		{"north", 0, "N"},
		{"east", 90, "E"},
		{"south", 180, "S"},
		{"west", 270, "W"},
		{"full circle wraps to north", 360, "N"},
		{"north-northeast", 22.5, "NNE"},
		{"just inside north sector", 11.24, "N"},
		{"sector boundary rounds up", 11.25, "NNE"},
		{"west-southwest", 247.5, "WSW"},
		{"north-northwest", 337.5, "NNW"},
		{"just below full circle", 354, "N"},
		{"negative bearing normalizes", -90, "W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompassDirection(tt.degrees))
		})
	}
}

func TestUVLevel(t *testing.T) {
	tests := []struct {
		name     string
		uv       float64
		expected string
	}{
		{"zero", 0, "Low"},
		{"low boundary", 2, "Low"},
		{"moderate", 3.5, "Moderate"},
		{"moderate boundary", 5, "Moderate"},
		{"high boundary", 7, "High"},
		{"very high", 9, "Very High"},
		{"very high boundary", 10, "Very High"},
		{"extreme", 11, "Extreme"},
		{"extreme high end", 14.2, "Extreme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UVLevel(tt.uv))
		})
	}
}

func TestDaylightDuration(t *testing.T) {
	tests := []struct {
		name     string
		sunrise  time.Time
		sunset   time.Time
		expected string
	}{
		{
			"typical winter day",
			time.Date(2026, 8, 23, 22, 38, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 9, 52, 0, 0, time.UTC),
			"11h 14m",
		},
		{
			"exact hours",
			time.Date(2026, 1, 10, 21, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 11, 11, 0, 0, 0, time.UTC),
			"14h 0m",
		},
		{
			"sunset before sunrise clamps to zero",
			time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC),
			"0h 0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaylightDuration(tt.sunrise, tt.sunset))
		})
	}
}

func TestCurrentForecastWindow(t *testing.T) {
	t.Run("mid-day stays on one date", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2026, 8, 23, 10, 15, 0, 0, time.UTC)))
		defer SetClock(nil)

		window := CurrentForecastWindow()

		assert.Equal(t, "2026-08-23", window.StartDate)
		assert.Equal(t, "2026-08-23", window.EndDate)
	})

	t.Run("near midnight spans two dates", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2026, 8, 23, 21, 30, 0, 0, time.UTC)))
		defer SetClock(nil)

		window := CurrentForecastWindow()

		assert.Equal(t, "2026-08-23", window.StartDate)
		assert.Equal(t, "2026-08-24", window.EndDate)
	})
}

func TestBuildWeatherReport(t *testing.T) {
	now := time.Date(2026, 8, 23, 6, 40, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	hour := func(h int) time.Time {
		return time.Date(2026, 8, 23, h, 0, 0, 0, time.UTC)
	}

	bundle := ForecastBundle{
		Current: CurrentConditions{
			Time:          now,
			Temperature:   17.2,
			FeelsLike:     15.8,
			Humidity:      64,
			WindSpeed:     22.5,
			WindDirection: 247.5,
			WeatherCode:   2,
		},
		Hourly: []HourlyPoint{
			{Time: hour(7), Temperature: 17.8, WeatherCode: 2, PrecipitationProbability: 5},
			{Time: hour(8), Temperature: 18.4, WeatherCode: 1, PrecipitationProbability: 5},
			// hour 9 missing from the upstream series
			{Time: hour(10), Temperature: 19.9, WeatherCode: 0, PrecipitationProbability: 0},
			{Time: hour(11), Temperature: 20.3, WeatherCode: 0, PrecipitationProbability: 0},
			{Time: hour(12), Temperature: 20.1, WeatherCode: 3, PrecipitationProbability: 20},
			{Time: hour(13), Temperature: 19.5, WeatherCode: 61, PrecipitationProbability: 55},
			{Time: hour(14), Temperature: 18.9, WeatherCode: 61, PrecipitationProbability: 60},
			// hours beyond the window must not leak in
			{Time: hour(15), Temperature: 18.0, WeatherCode: 63, PrecipitationProbability: 70},
			{Time: hour(16), Temperature: 17.1, WeatherCode: 63, PrecipitationProbability: 70},
		},
		Daily: []DailyFacts{
			{
				Sunrise:    time.Date(2026, 8, 22, 22, 38, 0, 0, time.UTC),
				Sunset:     time.Date(2026, 8, 23, 9, 52, 0, 0, time.UTC),
				UVIndexMax: 4.1,
			},
		},
	}

	report := BuildWeatherReport(bundle, "Midland, Western Australia")

	t.Run("location and current block", func(t *testing.T) {
		assert.Equal(t, "Midland, Western Australia", report.Location)
		assert.Equal(t, "2026-08-23 14:40", report.Current.Time) // 06:40 UTC in AWST
		assert.Equal(t, 17.2, report.Current.Temperature)
		assert.Equal(t, 15.8, report.Current.FeelsLike)
		assert.Equal(t, 64, report.Current.Humidity)
		assert.Equal(t, 22.5, report.Current.WindSpeed)
		assert.Equal(t, "WSW", report.Current.WindDirection)
		assert.Equal(t, "Partly cloudy", report.Current.Condition)
	})

	t.Run("sun block", func(t *testing.T) {
		assert.Equal(t, "06:38", report.Sun.Sunrise)
		assert.Equal(t, "17:52", report.Sun.Sunset)
		assert.Equal(t, "11h 14m", report.Sun.Daylight)
		assert.Equal(t, 4.1, report.Sun.UVIndexMax)
		assert.Equal(t, "Moderate", report.Sun.UVLevel)
	})

	t.Run("forecast skips the missing slot", func(t *testing.T) {
		// Slots 07:00-14:00 UTC; 09:00 is absent upstream.
		require.Len(t, report.Forecast, 7)
		assert.Equal(t, "15:00", report.Forecast[0].Time) // 07:00 UTC in AWST
		assert.Equal(t, "16:00", report.Forecast[1].Time)
		assert.Equal(t, "18:00", report.Forecast[2].Time) // 09:00 UTC slot skipped
		assert.Equal(t, "22:00", report.Forecast[6].Time) // 14:00 UTC is the last slot
		assert.Equal(t, "Slight rain", report.Forecast[5].Condition)
		assert.Equal(t, 60, report.Forecast[6].PrecipitationChance)
	})

	t.Run("full series caps at eight entries", func(t *testing.T) {
		full := bundle
		full.Hourly = nil
		for h := 7; h <= 20; h++ {
			full.Hourly = append(full.Hourly, HourlyPoint{Time: hour(h), Temperature: 15, WeatherCode: 0})
		}

		got := BuildWeatherReport(full, "")

		assert.Len(t, got.Forecast, 8)
		assert.Equal(t, "22:00", got.Forecast[7].Time) // slot 8 is 14:00 UTC
	})

	t.Run("empty place name falls back to the default", func(t *testing.T) {
		got := BuildWeatherReport(bundle, "")

		assert.Equal(t, DefaultPlaceName, got.Location)
	})

	t.Run("empty daily leaves the sun block zeroed", func(t *testing.T) {
		noDaily := bundle
		noDaily.Daily = nil

		got := BuildWeatherReport(noDaily, "x")

		assert.Empty(t, got.Sun.Sunrise)
		assert.Empty(t, got.Sun.UVLevel)
	})
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(fixedTime))
		defer SetClock(nil)

		assert.Equal(t, fixedTime, Now())
	})

	t.Run("reset to real clock", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
		SetClock(nil)

		assert.True(t, time.Since(Now()) < time.Second)
	})
}
