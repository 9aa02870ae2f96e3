package weather

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultCacheTTL is the staleness threshold for cached current-weather
// entries.
const DefaultCacheTTL = 600 * time.Second

type coordKey struct {
	lat float64
	lon float64
}

type cacheEntry struct {
	weather  Weather
	storedAt time.Time
}

// CachedClient wraps a Client and serves CurrentWeather from a
// time-bounded in-memory cache keyed by the exact (lat, lon) pair.
// Forecast, search and by-city lookups pass straight through.
//
// Concurrent misses for the same key each hit the network and each
// overwrite the entry; last write wins. The mutex guards map integrity
// only, there is deliberately no single-flight coalescing. Entries are
// never evicted beyond overwrite-on-refresh: the key space is bounded
// by favorited and recently viewed coordinates.
type CachedClient struct {
	next Client
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[coordKey]cacheEntry

	hitCount  int
	missCount int
}

// NewCachedClient creates a TTL cache decorator around next. A ttl <= 0
// falls back to DefaultCacheTTL.
func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[coordKey]cacheEntry),
	}
}

// CurrentWeather returns the cached value when its age is under the
// staleness threshold, otherwise fetches fresh data and stores it.
// Failures are propagated unchanged and never cached.
func (c *CachedClient) CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error) {
	key := coordKey{lat: lat, lon: lon}

	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if found && c.now().Sub(entry.storedAt) < c.ttl {
		c.mu.Lock()
		c.hitCount++
		c.mu.Unlock()
		return entry.weather, nil
	}

	c.mu.Lock()
	c.missCount++
	c.mu.Unlock()

	w, err := c.next.CurrentWeather(ctx, lat, lon)
	if err != nil {
		return Weather{}, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{weather: w, storedAt: c.now()}
	c.mu.Unlock()

	return w, nil
}

// CurrentWeatherByCity passes through uncached; the coordinate is not
// known until after the search completes.
func (c *CachedClient) CurrentWeatherByCity(ctx context.Context, city string) (Weather, error) {
	return c.next.CurrentWeatherByCity(ctx, city)
}

// Forecast passes through uncached.
func (c *CachedClient) Forecast(ctx context.Context, lat, lon float64) (Forecast, error) {
	return c.next.Forecast(ctx, lat, lon)
}

// SearchLocations passes through uncached.
func (c *CachedClient) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	return c.next.SearchLocations(ctx, query)
}

// Clear drops all cached entries.
func (c *CachedClient) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[coordKey]cacheEntry)
	log.Printf("INFO: weather cache cleared")
}

// Stats returns the number of cache hits and misses so far.
func (c *CachedClient) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hitCount, c.missCount
}

var _ Client = (*CachedClient)(nil)
