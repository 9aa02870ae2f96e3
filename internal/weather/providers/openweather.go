package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glasscast/weathercore/internal/weather"
)

// OpenWeatherClient implements weather.Client against OpenWeatherMap.
// The schema is the richer of the two supported shapes: the forecast
// endpoint returns three-hourly samples which are aggregated here into
// calendar days using the response's embedded timezone offset.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	geoURL     string
	days       int
	httpClient *http.Client
	now        func() time.Time
}

// NewOpenWeatherClient creates an OpenWeatherMap client. days caps the
// number of aggregated forecast days.
func NewOpenWeatherClient(client *http.Client, apiKey string, days int) *OpenWeatherClient {
	if days <= 0 {
		days = 5
	}
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
		geoURL:     "https://api.openweathermap.org/geo/1.0",
		days:       days,
		httpClient: client,
		now:        time.Now,
	}
}

// CurrentWeather fetches current conditions for a coordinate pair.
func (c *OpenWeatherClient) CurrentWeather(ctx context.Context, lat, lon float64) (weather.Weather, error) {
	if c.apiKey == "" {
		return weather.Weather{}, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")

	var payload struct {
		Coord *struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"coord"`
		Weather []struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"weather"`
		Main *struct {
			Temp      *float64 `json:"temp"`
			FeelsLike float64  `json:"feels_like"`
			Pressure  float64  `json:"pressure"`
			Humidity  int      `json:"humidity"`
		} `json:"main"`
		Visibility int `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Dt  int64 `json:"dt"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
		Name string `json:"name"`
	}

	u := fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return weather.Weather{}, err
	}

	if payload.Coord == nil || payload.Coord.Lat == nil || payload.Coord.Lon == nil ||
		payload.Main == nil || payload.Main.Temp == nil {
		return weather.Weather{}, weather.ErrDecoding(errors.New("current weather response missing required fields"))
	}

	cond := weather.ConditionUnknown
	description := "Unknown"
	if len(payload.Weather) > 0 {
		cond = weather.ConditionFromCode(payload.Weather[0].ID)
		description = capitalize(payload.Weather[0].Description)
	}

	ts := c.now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Weather{
		ID:            uuid.New(),
		Location:      weather.NewLocation(payload.Name, payload.Sys.Country, *payload.Coord.Lat, *payload.Coord.Lon),
		TemperatureC:  *payload.Main.Temp,
		FeelsLikeC:    payload.Main.FeelsLike,
		Condition:     cond,
		ConditionText: description,
		HumidityPct:   payload.Main.Humidity,
		WindSpeedMS:   payload.Wind.Speed,
		PressureHpa:   payload.Main.Pressure,
		VisibilityKm:  float64(payload.Visibility) / 1000.0,
		CloudCoverPct: payload.Clouds.All,
		Timestamp:     ts,
	}, nil
}

// CurrentWeatherByCity searches for the city and fetches weather for the
// first candidate. An empty search result is a CityNotFound error.
func (c *OpenWeatherClient) CurrentWeatherByCity(ctx context.Context, city string) (weather.Weather, error) {
	locations, err := c.SearchLocations(ctx, city)
	if err != nil {
		return weather.Weather{}, err
	}
	if len(locations) == 0 {
		return weather.Weather{}, weather.ErrCityNotFound()
	}
	return c.CurrentWeather(ctx, locations[0].Latitude, locations[0].Longitude)
}

type openWeatherSample struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Humidity  int      `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Pop float64 `json:"pop"`
}

func (s *openWeatherSample) condition() (weather.Condition, string) {
	if len(s.Weather) == 0 {
		return weather.ConditionUnknown, "Unknown"
	}
	return weather.ConditionFromCode(s.Weather[0].ID), capitalize(s.Weather[0].Description)
}

// Forecast fetches the three-hourly outlook and aggregates it into
// hourly and daily sequences.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	if c.apiKey == "" {
		return weather.Forecast{}, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")

	var payload struct {
		List []openWeatherSample `json:"list"`
		City *struct {
			Name    string `json:"name"`
			Country string `json:"country"`
			Coord   *struct {
				Lat *float64 `json:"lat"`
				Lon *float64 `json:"lon"`
			} `json:"coord"`
			Timezone int   `json:"timezone"` // UTC offset in seconds
			Sunrise  int64 `json:"sunrise"`
			Sunset   int64 `json:"sunset"`
		} `json:"city"`
	}

	u := fmt.Sprintf("%s/forecast?%s", c.baseURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return weather.Forecast{}, err
	}

	if payload.City == nil || payload.City.Coord == nil ||
		payload.City.Coord.Lat == nil || payload.City.Coord.Lon == nil {
		return weather.Forecast{}, weather.ErrDecoding(errors.New("forecast response missing city block"))
	}
	for i := range payload.List {
		if payload.List[i].Main == nil || payload.List[i].Main.Temp == nil {
			return weather.Forecast{}, weather.ErrDecoding(errors.New("forecast sample missing required fields"))
		}
	}

	city := payload.City
	loc := weather.NewLocation(city.Name, city.Country, *city.Coord.Lat, *city.Coord.Lon)

	// Hourly view: the next 16 three-hourly samples (~48 hours).
	hourlyCount := 16
	if hourlyCount > len(payload.List) {
		hourlyCount = len(payload.List)
	}
	hourly := make([]weather.HourlyForecast, 0, hourlyCount)
	for i := 0; i < hourlyCount; i++ {
		s := &payload.List[i]
		cond, text := s.condition()
		hourly = append(hourly, weather.HourlyForecast{
			Time:            time.Unix(s.Dt, 0).UTC(),
			TemperatureC:    *s.Main.Temp,
			FeelsLikeC:      s.Main.FeelsLike,
			Condition:       cond,
			ConditionText:   text,
			PrecipChancePct: int(s.Pop * 100),
			HumidityPct:     s.Main.Humidity,
			WindSpeedMS:     s.Wind.Speed,
		})
	}

	daily := c.aggregateDaily(payload.List, city.Timezone, city.Sunrise, city.Sunset)

	return weather.Forecast{
		ID:       uuid.New(),
		Location: loc,
		Hourly:   hourly,
		Daily:    daily,
	}, nil
}

// aggregateDaily groups three-hourly samples into calendar days using
// the city's UTC offset as the day boundary. Per day: high/low are the
// max/min sampled temperatures, the representative condition comes from
// the sample closest to local noon, and precipitation chance, humidity
// and wind are arithmetic means. The provider supplies exactly one
// sunrise/sunset pair per city, so only the current local day carries
// them.
func (c *OpenWeatherClient) aggregateDaily(samples []openWeatherSample, tzOffset int, sunrise, sunset int64) []weather.DailyForecast {
	zone := time.FixedZone("local", tzOffset)

	grouped := make(map[time.Time][]*openWeatherSample)
	for i := range samples {
		t := time.Unix(samples[i].Dt, 0).In(zone)
		dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, zone)
		grouped[dayStart] = append(grouped[dayStart], &samples[i])
	}

	days := make([]time.Time, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	if len(days) > c.days {
		days = days[:c.days]
	}

	nowLocal := c.now().In(zone)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, zone)

	daily := make([]weather.DailyForecast, 0, len(days))
	for _, day := range days {
		group := grouped[day]

		high := *group[0].Main.Temp
		low := high
		var sumPop, sumWind float64
		var sumHumidity int

		noon := day.Add(12 * time.Hour)
		representative := group[0]
		bestDist := time.Duration(1<<63 - 1)

		for _, s := range group {
			temp := *s.Main.Temp
			if temp > high {
				high = temp
			}
			if temp < low {
				low = temp
			}
			sumPop += s.Pop
			sumHumidity += s.Main.Humidity
			sumWind += s.Wind.Speed

			dist := time.Unix(s.Dt, 0).Sub(noon)
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				representative = s
			}
		}

		n := len(group)
		cond, text := representative.condition()

		df := weather.DailyForecast{
			Date:            day,
			HighC:           high,
			LowC:            low,
			Condition:       cond,
			ConditionText:   text,
			PrecipChancePct: int(sumPop / float64(n) * 100),
			HumidityPct:     sumHumidity / n,
			WindSpeedMS:     sumWind / float64(n),
		}

		if day.Equal(today) && sunrise > 0 && sunset > 0 {
			sr := time.Unix(sunrise, 0).UTC()
			ss := time.Unix(sunset, 0).UTC()
			df.Sunrise = &sr
			df.Sunset = &ss
		}

		daily = append(daily, df)
	}

	return daily
}

// SearchLocations resolves a free-text query via the geocoding endpoint.
func (c *OpenWeatherClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	if c.apiKey == "" {
		return nil, weather.ErrInvalidAPIKey()
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "5")
	values.Set("appid", c.apiKey)

	var payload []struct {
		Name    string   `json:"name"`
		Country string   `json:"country"`
		Lat     *float64 `json:"lat"`
		Lon     *float64 `json:"lon"`
	}

	u := fmt.Sprintf("%s/direct?%s", c.geoURL, values.Encode())
	if err := fetchJSON(ctx, c.httpClient, u, &payload); err != nil {
		return nil, err
	}

	locations := make([]weather.Location, 0, len(payload))
	for _, r := range payload {
		if r.Lat == nil || r.Lon == nil {
			return nil, weather.ErrDecoding(errors.New("geocoding result missing coordinates"))
		}
		locations = append(locations, weather.NewLocation(r.Name, r.Country, *r.Lat, *r.Lon))
	}
	return locations, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var _ weather.Client = (*OpenWeatherClient)(nil)
