package resilience

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/glasscast/weathercore/internal/weather"
)

// RateLimitedClient throttles outbound provider calls. The limiter wait
// respects context cancellation.
type RateLimitedClient struct {
	next    weather.Client
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps next with a token-bucket limiter of rps
// requests per second and the given burst size.
func NewRateLimitedClient(next weather.Client, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *RateLimitedClient) CurrentWeather(ctx context.Context, lat, lon float64) (weather.Weather, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return weather.Weather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.next.CurrentWeather(ctx, lat, lon)
}

func (c *RateLimitedClient) CurrentWeatherByCity(ctx context.Context, city string) (weather.Weather, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return weather.Weather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.next.CurrentWeatherByCity(ctx, city)
}

func (c *RateLimitedClient) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return weather.Forecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.next.Forecast(ctx, lat, lon)
}

func (c *RateLimitedClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.next.SearchLocations(ctx, query)
}

var _ weather.Client = (*RateLimitedClient)(nil)
