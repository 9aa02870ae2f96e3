package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider identities selectable via WEATHER_PROVIDER.
const (
	ProviderWeatherAPI  = "weatherapi"
	ProviderOpenWeather = "openweather"
)

type AppConfig struct {
	// Provider selects which response schema the fetch client decodes.
	Provider string

	WeatherAPIKey     string
	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	HTTPTimeout  time.Duration
	CacheTTL     time.Duration
	ForecastDays int

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// RefreshInterval controls how often favorites are re-fetched.
	RefreshInterval time.Duration

	// DeviceLat/DeviceLon configure the static device-location source;
	// both unset disables the location endpoint.
	DeviceLat *float64
	DeviceLon *float64

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Provider = getenvDefault("WEATHER_PROVIDER", ProviderWeatherAPI)
	if cfg.Provider != ProviderWeatherAPI && cfg.Provider != ProviderOpenWeather {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.Provider)
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "600s"); err != nil {
		return nil, err
	}
	cfg.ForecastDays = getenvInt("FORECAST_DAYS", 5)

	cfg.RetryMaxAttempts = getenvInt("RETRY_MAX_ATTEMPTS", 3)
	if cfg.RetryBaseDelay, err = getenvDuration("RETRY_BASE_DELAY", "1s"); err != nil {
		return nil, err
	}

	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 5)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "10m"); err != nil {
		return nil, err
	}

	if lat, lon, ok := loadDeviceCoordinate(); ok {
		cfg.DeviceLat = &lat
		cfg.DeviceLon = &lon
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadDeviceCoordinate() (lat, lon float64, ok bool) {
	latStr := os.Getenv("DEVICE_LAT")
	lonStr := os.Getenv("DEVICE_LON")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}

	var err error
	if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		log.Printf("INFO: ignoring invalid DEVICE_LAT: %v", err)
		return 0, 0, false
	}
	if lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		log.Printf("INFO: ignoring invalid DEVICE_LON: %v", err)
		return 0, 0, false
	}
	return lat, lon, true
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
