package weather

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient records how many calls reach the network layer.
type countingClient struct {
	currentCalls  int
	forecastCalls int
	searchCalls   int
	err           error
}

func (c *countingClient) CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error) {
	c.currentCalls++
	if c.err != nil {
		return Weather{}, c.err
	}
	return Weather{
		ID:           uuid.New(),
		Location:     NewLocation("Testville", "TS", lat, lon),
		TemperatureC: 21.5,
		Condition:    ConditionClear,
	}, nil
}

func (c *countingClient) CurrentWeatherByCity(ctx context.Context, city string) (Weather, error) {
	c.currentCalls++
	return Weather{Location: NewLocation(city, "TS", 0, 0)}, nil
}

func (c *countingClient) Forecast(ctx context.Context, lat, lon float64) (Forecast, error) {
	c.forecastCalls++
	return Forecast{Location: NewLocation("Testville", "TS", lat, lon)}, nil
}

func (c *countingClient) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	c.searchCalls++
	return nil, nil
}

func TestCachedClientIdempotence(t *testing.T) {
	next := &countingClient{}
	cached := NewCachedClient(next, 600*time.Second)

	now := time.Now()
	cached.now = func() time.Time { return now }

	first, err := cached.CurrentWeather(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)

	second, err := cached.CurrentWeather(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)

	assert.Equal(t, first, second, "cached value must be returned unchanged")
	assert.Equal(t, 1, next.currentCalls, "second call must not hit the network")

	hits, misses := cached.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCachedClientExpiry(t *testing.T) {
	next := &countingClient{}
	cached := NewCachedClient(next, 600*time.Second)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.CurrentWeather(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)

	// Step past the staleness threshold.
	now = now.Add(601 * time.Second)

	_, err = cached.CurrentWeather(context.Background(), 48.8566, 2.3522)
	require.NoError(t, err)
	assert.Equal(t, 2, next.currentCalls, "stale entry must trigger a live fetch")
}

func TestCachedClientDistinctKeys(t *testing.T) {
	next := &countingClient{}
	cached := NewCachedClient(next, 600*time.Second)

	_, err := cached.CurrentWeather(context.Background(), 10, 20)
	require.NoError(t, err)
	_, err = cached.CurrentWeather(context.Background(), 10, 20.0001)
	require.NoError(t, err)

	// Keys are the exact coordinate pair, no rounding.
	assert.Equal(t, 2, next.currentCalls)
}

func TestCachedClientDoesNotCacheFailures(t *testing.T) {
	next := &countingClient{err: ErrNetwork(context.DeadlineExceeded)}
	cached := NewCachedClient(next, 600*time.Second)

	_, err := cached.CurrentWeather(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork), "underlying failure must propagate unchanged")

	next.err = nil
	_, err = cached.CurrentWeather(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, next.currentCalls)
}

func TestCachedClientPassThrough(t *testing.T) {
	next := &countingClient{}
	cached := NewCachedClient(next, 600*time.Second)

	_, err := cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, next.forecastCalls, "forecast is never cached")

	_, err = cached.SearchLocations(context.Background(), "paris")
	require.NoError(t, err)
	_, err = cached.SearchLocations(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, 2, next.searchCalls, "search is never cached")
}
