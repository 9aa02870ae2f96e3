package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/glasscast/weathercore/internal/weather"
)

// WeatherAPIClient implements weather.Client against WeatherAPI.com.
// The schema is terse: daily forecast entries arrive pre-bucketed and
// carry no per-day precipitation, humidity or wind, which therefore
// decode to their zero defaults.
type WeatherAPIClient struct {
	apiKey     string
	baseURL    string
	days       int
	httpClient *http.Client
}

// NewWeatherAPIClient creates a WeatherAPI.com client. days is the
// forecast window requested from the provider.
func NewWeatherAPIClient(client *http.Client, apiKey string, days int) *WeatherAPIClient {
	if days <= 0 {
		days = 5
	}
	return &WeatherAPIClient{
		apiKey:     apiKey,
		baseURL:    "https://api.weatherapi.com/v1",
		days:       days,
		httpClient: client,
	}
}

type weatherAPILocation struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	TzID    string   `json:"tz_id"`
}

func (l *weatherAPILocation) toDomain() weather.Location {
	loc := weather.NewLocation(l.Name, l.Country, *l.Lat, *l.Lon)
	if l.TzID != "" {
		tz := l.TzID
		loc.Timezone = &tz
	}
	return loc
}

// CurrentWeather fetches current conditions for a coordinate pair.
func (c *WeatherAPIClient) CurrentWeather(ctx context.Context, lat, lon float64) (weather.Weather, error) {
	if c.apiKey == "" {
		return weather.Weather{}, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))

	var payload struct {
		Location *weatherAPILocation `json:"location"`
		Current  *struct {
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			FeelslikeC       float64  `json:"feelslike_c"`
			Humidity         int      `json:"humidity"`
			WindKph          float64  `json:"wind_kph"`
			PressureMb       float64  `json:"pressure_mb"`
			VisKm            float64  `json:"vis_km"`
			UV               *float64 `json:"uv"`
			Cloud            int      `json:"cloud"`
			Condition        *struct {
				Text string `json:"text"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	u := fmt.Sprintf("%s/current.json?%s", c.baseURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return weather.Weather{}, err
	}

	if payload.Location == nil || payload.Location.Lat == nil || payload.Location.Lon == nil ||
		payload.Current == nil || payload.Current.TempC == nil || payload.Current.Condition == nil {
		return weather.Weather{}, weather.ErrDecoding(errors.New("current weather response missing required fields"))
	}

	cur := payload.Current
	ts := time.Now().UTC()
	if cur.LastUpdatedEpoch > 0 {
		ts = time.Unix(cur.LastUpdatedEpoch, 0).UTC()
	}

	var uvIndex *int
	if cur.UV != nil {
		uv := int(math.Round(*cur.UV))
		uvIndex = &uv
	}

	return weather.Weather{
		ID:            uuid.New(),
		Location:      payload.Location.toDomain(),
		TemperatureC:  *cur.TempC,
		FeelsLikeC:    cur.FeelslikeC,
		Condition:     weather.ConditionFromText(cur.Condition.Text),
		ConditionText: cur.Condition.Text,
		HumidityPct:   cur.Humidity,
		WindSpeedMS:   cur.WindKph / 3.6,
		PressureHpa:   cur.PressureMb,
		VisibilityKm:  cur.VisKm,
		UVIndex:       uvIndex,
		CloudCoverPct: cur.Cloud,
		Timestamp:     ts,
	}, nil
}

// CurrentWeatherByCity searches for the city and fetches weather for the
// first candidate. An empty search result is a CityNotFound error.
func (c *WeatherAPIClient) CurrentWeatherByCity(ctx context.Context, city string) (weather.Weather, error) {
	locations, err := c.SearchLocations(ctx, city)
	if err != nil {
		return weather.Weather{}, err
	}
	if len(locations) == 0 {
		return weather.Weather{}, weather.ErrCityNotFound()
	}
	return c.CurrentWeather(ctx, locations[0].Latitude, locations[0].Longitude)
}

// Forecast fetches the multi-day outlook. WeatherAPI has no hourly
// granularity in this decoder, so Hourly is empty.
func (c *WeatherAPIClient) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	if c.apiKey == "" {
		return weather.Forecast{}, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	values.Set("days", fmt.Sprintf("%d", c.days))

	var payload struct {
		Location *weatherAPILocation `json:"location"`
		Forecast *struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  *struct {
					MaxtempC  *float64 `json:"maxtemp_c"`
					MintempC  *float64 `json:"mintemp_c"`
					Condition *struct {
						Text string `json:"text"`
						Code int    `json:"code"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	u := fmt.Sprintf("%s/forecast.json?%s", c.baseURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return weather.Forecast{}, err
	}

	if payload.Location == nil || payload.Location.Lat == nil || payload.Location.Lon == nil ||
		payload.Forecast == nil {
		return weather.Forecast{}, weather.ErrDecoding(errors.New("forecast response missing required fields"))
	}

	daily := make([]weather.DailyForecast, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Day == nil || fd.Day.MaxtempC == nil || fd.Day.MintempC == nil || fd.Day.Condition == nil {
			return weather.Forecast{}, weather.ErrDecoding(errors.New("forecast day missing required fields"))
		}

		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			return weather.Forecast{}, weather.ErrDecoding(err)
		}

		// Per-day precipitation, humidity and wind are not available in
		// this schema; they decode to zero defaults, not omissions.
		daily = append(daily, weather.DailyForecast{
			Date:          date,
			HighC:         *fd.Day.MaxtempC,
			LowC:          *fd.Day.MintempC,
			Condition:     weather.ConditionFromText(fd.Day.Condition.Text),
			ConditionText: fd.Day.Condition.Text,
		})
	}

	return weather.Forecast{
		ID:       uuid.New(),
		Location: payload.Location.toDomain(),
		Hourly:   []weather.HourlyForecast{},
		Daily:    daily,
	}, nil
}

// SearchLocations resolves a free-text query to location candidates.
func (c *WeatherAPIClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	if c.apiKey == "" {
		return nil, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", query)

	var payload []struct {
		Name    string   `json:"name"`
		Country string   `json:"country"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	}

	u := fmt.Sprintf("%s/search.json?%s", c.baseURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return nil, err
	}

	locations := make([]weather.Location, 0, len(payload))
	for _, r := range payload {
		if r.Lat == nil || r.Lon == nil {
			return nil, weather.ErrDecoding(errors.New("search result missing coordinates"))
		}
		locations = append(locations, weather.NewLocation(r.Name, r.Country, *r.Lat, *r.Lon))
	}
	return locations, nil
}

var _ weather.Client = (*WeatherAPIClient)(nil)
