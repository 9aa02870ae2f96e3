package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glasscast/weathercore/internal/weather"
)

const weatherAPICurrentBody = `{
	"location": {"name": "London", "country": "United Kingdom", "lat": 51.52, "lon": -0.11, "tz_id": "Europe/London"},
	"current": {
		"last_updated_epoch": 1700000000,
		"temp_c": 11.0, "feelslike_c": 9.5, "humidity": 82,
		"wind_kph": 14.4, "pressure_mb": 1012.0, "vis_km": 10.0,
		"uv": 2.0, "cloud": 75,
		"condition": {"text": "Partly cloudy", "code": 1003}
	}
}`

func newWeatherAPIServer(t *testing.T, handler http.HandlerFunc) *WeatherAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewWeatherAPIClient(srv.Client(), "test-key", 5)
	c.baseURL = srv.URL
	return c
}

func TestWeatherAPICurrentWeatherDecode(t *testing.T) {
	c := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(weatherAPICurrentBody))
	})

	w, err := c.CurrentWeather(context.Background(), 51.52, -0.11)
	require.NoError(t, err)

	// Coordinates round-trip exactly from the payload.
	assert.Equal(t, 51.52, w.Location.Latitude)
	assert.Equal(t, -0.11, w.Location.Longitude)
	assert.Equal(t, "London", w.Location.Name)
	require.NotNil(t, w.Location.Timezone)
	assert.Equal(t, "Europe/London", *w.Location.Timezone)

	assert.Equal(t, 11.0, w.TemperatureC)
	assert.Equal(t, 9.5, w.FeelsLikeC)
	assert.Equal(t, weather.ConditionPartlyCloudy, w.Condition)
	assert.Equal(t, "Partly cloudy", w.ConditionText)
	assert.Equal(t, 82, w.HumidityPct)
	assert.InDelta(t, 4.0, w.WindSpeedMS, 0.001) // 14.4 kph
	require.NotNil(t, w.UVIndex)
	assert.Equal(t, 2, *w.UVIndex)
}

func TestWeatherAPICurrentWeatherMissingRequiredField(t *testing.T) {
	c := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"location": {"name": "London", "country": "UK", "lat": 51.52, "lon": -0.11}}`))
	})

	_, err := c.CurrentWeather(context.Background(), 51.52, -0.11)
	require.Error(t, err)
	assert.True(t, weather.IsKind(err, weather.KindDecoding))
}

func TestWeatherAPIForecastDecode(t *testing.T) {
	c := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast.json", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("days"))
		w.Write([]byte(`{
			"location": {"name": "London", "country": "UK", "lat": 51.52, "lon": -0.11},
			"forecast": {"forecastday": [
				{"date": "2026-09-01", "day": {"maxtemp_c": 19.0, "mintemp_c": 11.0, "condition": {"text": "Sunny", "code": 1000}}},
				{"date": "2026-09-02", "day": {"maxtemp_c": 17.5, "mintemp_c": 10.0, "condition": {"text": "Light rain", "code": 1183}}}
			]}
		}`))
	})

	f, err := c.Forecast(context.Background(), 51.52, -0.11)
	require.NoError(t, err)

	assert.Empty(t, f.Hourly, "terse schema has no hourly data")
	require.Len(t, f.Daily, 2)

	first := f.Daily[0]
	assert.Equal(t, 19.0, first.HighC)
	assert.Equal(t, 11.0, first.LowC)
	assert.Equal(t, weather.ConditionClear, first.Condition)
	// Not available in this schema: zero defaults, not omissions.
	assert.Equal(t, 0, first.PrecipChancePct)
	assert.Equal(t, 0, first.HumidityPct)
	assert.Equal(t, 0.0, first.WindSpeedMS)
	assert.Nil(t, first.Sunrise)
	assert.Nil(t, first.Sunset)
}

func TestWeatherAPISearchEmptyGivesCityNotFound(t *testing.T) {
	c := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.CurrentWeatherByCity(context.Background(), "nowhereville")
	require.Error(t, err)
	assert.True(t, weather.IsKind(err, weather.KindCityNotFound))
}

func TestWeatherAPIStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   weather.ErrorKind
	}{
		{http.StatusUnauthorized, weather.KindInvalidAPIKey},
		{http.StatusForbidden, weather.KindInvalidAPIKey},
		{http.StatusTooManyRequests, weather.KindRateLimited},
		{http.StatusInternalServerError, weather.KindHTTP},
		{http.StatusNotFound, weather.KindHTTP},
	}

	for _, tc := range cases {
		c := newWeatherAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})

		_, err := c.CurrentWeather(context.Background(), 1, 2)
		require.Error(t, err)
		assert.True(t, weather.IsKind(err, tc.kind), "status %d", tc.status)
	}
}
