package httpapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadboard/road-data-api/internal/domain"
)

// testBundle covers the 8 hourly slots after 06:40 UTC on 2026-03-10.
func testBundle() domain.ForecastBundle {
	base := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	hourly := make([]domain.HourlyPoint, 0, 8)
	for i := 0; i < 8; i++ {
		hourly = append(hourly, domain.HourlyPoint{
			Time:                     base.Add(time.Duration(i) * time.Hour),
			Temperature:              18 + float64(i),
			WeatherCode:              1,
			PrecipitationProbability: 10 + i,
		})
	}
	return domain.ForecastBundle{
		Current: domain.CurrentConditions{
			Time:          time.Date(2026, 3, 10, 6, 40, 0, 0, time.UTC),
			Temperature:   18.3,
			FeelsLike:     17.1,
			Humidity:      62,
			WindSpeed:     14.8,
			WindDirection: 90,
			WeatherCode:   2,
		},
		Hourly: hourly,
		Daily: []domain.DailyFacts{
			{
				Sunrise:    time.Date(2026, 3, 9, 22, 38, 0, 0, time.UTC),
				Sunset:     time.Date(2026, 3, 10, 10, 46, 0, 0, time.UTC),
				UVIndexMax: 8.2,
			},
		},
	}
}

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 6, 40, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestWeatherMissingParamsSkipUpstream(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "no params", path: "/api/weather"},
		{name: "missing lon", path: "/api/weather?lat=-31.95"},
		{name: "missing lat", path: "/api/weather?lon=115.86"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.get(tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, f.forecast.calls)
			assert.Zero(t, f.geocoder.calls)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "lat and lon are required", body["error"])
			assert.Equal(t, "/api/weather?lat=-31.95&lon=115.86", body["example"])
		})
	}
}

func TestWeatherRejectsNonNumericCoords(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/api/weather?lat=here&lon=115.86")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.forecast.calls)
	assert.Zero(t, f.geocoder.calls)
}

func TestWeatherForecastFailure(t *testing.T) {
	f := newFixture(t)
	f.forecast.err = errors.New("open-meteo: status 502")

	rec := f.get("/api/weather?lat=-31.95&lon=115.86")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, f.geocoder.calls)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed to fetch weather data", body["error"])
}

func TestWeatherGeocodeFailureFallsBackToDefault(t *testing.T) {
	freezeClock(t)
	f := newFixture(t)
	f.forecast.bundle = testBundle()
	f.geocoder.err = errors.New("nominatim: status 429")

	rec := f.get("/api/weather?lat=-31.95&lon=115.86")

	assert.Equal(t, http.StatusOK, rec.Code)

	var report domain.WeatherReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, domain.DefaultPlaceName, report.Location)
}

func TestWeatherReport(t *testing.T) {
	freezeClock(t)
	f := newFixture(t)
	f.forecast.bundle = testBundle()
	f.geocoder.name = "Midland, Western Australia"

	rec := f.get("/api/weather?lat=-31.8889&lon=116.0097")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.forecast.calls)
	assert.Equal(t, -31.8889, f.forecast.gotLat)
	assert.Equal(t, 116.0097, f.forecast.gotLon)
	assert.Equal(t, domain.ForecastWindow{StartDate: "2026-03-10", EndDate: "2026-03-10"}, f.forecast.gotWindow)

	var got domain.WeatherReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	want := domain.WeatherReport{
		Location: "Midland, Western Australia",
		Current: domain.CurrentReport{
			Time:          "2026-03-10 14:40",
			Temperature:   18.3,
			FeelsLike:     17.1,
			Humidity:      62,
			WindSpeed:     14.8,
			WindDirection: "E",
			Condition:     "Partly cloudy",
		},
		Sun: domain.SunReport{
			Sunrise:    "06:38",
			Sunset:     "18:46",
			Daylight:   "12h 8m",
			UVIndexMax: 8.2,
			UVLevel:    "Very High",
		},
		Forecast: []domain.ForecastEntry{
			{Time: "15:00", Temperature: 18, Condition: "Mainly clear", PrecipitationChance: 10},
			{Time: "16:00", Temperature: 19, Condition: "Mainly clear", PrecipitationChance: 11},
			{Time: "17:00", Temperature: 20, Condition: "Mainly clear", PrecipitationChance: 12},
			{Time: "18:00", Temperature: 21, Condition: "Mainly clear", PrecipitationChance: 13},
			{Time: "19:00", Temperature: 22, Condition: "Mainly clear", PrecipitationChance: 14},
			{Time: "20:00", Temperature: 23, Condition: "Mainly clear", PrecipitationChance: 15},
			{Time: "21:00", Temperature: 24, Condition: "Mainly clear", PrecipitationChance: 16},
			{Time: "22:00", Temperature: 25, Condition: "Mainly clear", PrecipitationChance: 17},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("weather report mismatch (-want +got):\n%s", diff)
	}
}

func TestWeatherForecastOmitsMissingSlots(t *testing.T) {
	freezeClock(t)
	f := newFixture(t)
	bundle := testBundle()
	// Drop the 09:00 UTC point; its slot must vanish rather than shift.
	bundle.Hourly = append(bundle.Hourly[:2:2], bundle.Hourly[3:]...)
	f.forecast.bundle = bundle

	rec := f.get("/api/weather?lat=-31.95&lon=115.86")

	assert.Equal(t, http.StatusOK, rec.Code)

	var report domain.WeatherReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	require.Len(t, report.Forecast, 7)
	times := make([]string, 0, len(report.Forecast))
	for _, entry := range report.Forecast {
		times = append(times, entry.Time)
	}
	assert.NotContains(t, times, "17:00")
	assert.Equal(t, "16:00", times[1])
	assert.Equal(t, "18:00", times[2])
}
