package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/glasscast/weathercore/internal/weather"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerClient guards the wrapped client with a circuit breaker so a
// failing provider stops being hammered while it is down.
type BreakerClient struct {
	next    weather.Client
	circuit *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next with a named circuit breaker.
func NewBreakerClient(next weather.Client, name string) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &BreakerClient{next: next, circuit: cb}
}

func (c *BreakerClient) execute(op func() (any, error)) (any, error) {
	result, err := c.circuit.Execute(op)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}
	return result, nil
}

func (c *BreakerClient) CurrentWeather(ctx context.Context, lat, lon float64) (weather.Weather, error) {
	result, err := c.execute(func() (any, error) {
		return c.next.CurrentWeather(ctx, lat, lon)
	})
	if err != nil {
		return weather.Weather{}, err
	}
	return result.(weather.Weather), nil
}

func (c *BreakerClient) CurrentWeatherByCity(ctx context.Context, city string) (weather.Weather, error) {
	result, err := c.execute(func() (any, error) {
		return c.next.CurrentWeatherByCity(ctx, city)
	})
	if err != nil {
		return weather.Weather{}, err
	}
	return result.(weather.Weather), nil
}

func (c *BreakerClient) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	result, err := c.execute(func() (any, error) {
		return c.next.Forecast(ctx, lat, lon)
	})
	if err != nil {
		return weather.Forecast{}, err
	}
	return result.(weather.Forecast), nil
}

func (c *BreakerClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	result, err := c.execute(func() (any, error) {
		return c.next.SearchLocations(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]weather.Location), nil
}

var _ weather.Client = (*BreakerClient)(nil)
