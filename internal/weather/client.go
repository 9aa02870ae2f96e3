package weather

import "context"

// Client is the fetch contract of the acquisition layer. A provider
// implementation decodes its own response schema into the normalized
// domain model; decorators (cache, retry, breaker, rate limit) wrap any
// Client without changing the contract.
//
// CurrentWeatherByCity is search-then-fetch-first-result: an empty
// search propagates a CityNotFound error, never an empty Weather.
type Client interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error)
	CurrentWeatherByCity(ctx context.Context, city string) (Weather, error)
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
	SearchLocations(ctx context.Context, query string) ([]Location, error)
}
