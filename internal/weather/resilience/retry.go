package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glasscast/weathercore/internal/weather"
)

// ErrRetriesExhausted marks a terminal failure after the last attempt.
// The last underlying error stays reachable through errors.As.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Policy controls retry behaviour. Only network-class failures are
// retried; every other failure class short-circuits on first occurrence.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// sleep is replaced in tests to observe delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy mirrors the app's historical retry tuning: three
// attempts with a doubling one-second base delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

func (p Policy) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs op up to p.MaxAttempts times, waiting BaseDelay after the
// first network failure and doubling the delay each further attempt.
// The delay blocks only this call, never sibling operations.
func Retry(ctx context.Context, p Policy, op func(context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	delay := p.BaseDelay
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !weather.IsKind(err, weather.KindNetwork) {
			return err
		}
		if attempt >= p.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, p.MaxAttempts, err)
		}
		if werr := p.wait(ctx, delay); werr != nil {
			return werr
		}
		delay *= 2
	}
}

// RetryClient applies a retry Policy to every operation of the wrapped
// client.
type RetryClient struct {
	next   weather.Client
	policy Policy
}

// NewRetryClient wraps next with the given policy.
func NewRetryClient(next weather.Client, policy Policy) *RetryClient {
	return &RetryClient{next: next, policy: policy}
}

func (c *RetryClient) CurrentWeather(ctx context.Context, lat, lon float64) (weather.Weather, error) {
	var w weather.Weather
	err := Retry(ctx, c.policy, func(ctx context.Context) error {
		var opErr error
		w, opErr = c.next.CurrentWeather(ctx, lat, lon)
		return opErr
	})
	return w, err
}

func (c *RetryClient) CurrentWeatherByCity(ctx context.Context, city string) (weather.Weather, error) {
	var w weather.Weather
	err := Retry(ctx, c.policy, func(ctx context.Context) error {
		var opErr error
		w, opErr = c.next.CurrentWeatherByCity(ctx, city)
		return opErr
	})
	return w, err
}

func (c *RetryClient) Forecast(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	var f weather.Forecast
	err := Retry(ctx, c.policy, func(ctx context.Context) error {
		var opErr error
		f, opErr = c.next.Forecast(ctx, lat, lon)
		return opErr
	})
	return f, err
}

func (c *RetryClient) SearchLocations(ctx context.Context, query string) ([]weather.Location, error) {
	var locs []weather.Location
	err := Retry(ctx, c.policy, func(ctx context.Context) error {
		var opErr error
		locs, opErr = c.next.SearchLocations(ctx, query)
		return opErr
	})
	return locs, err
}

var _ weather.Client = (*RetryClient)(nil)
