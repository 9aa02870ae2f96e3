package weather

import (
	"time"

	"github.com/google/uuid"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partlyCloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionMist         Condition = "mist"
	ConditionFog          Condition = "fog"
	ConditionLightRain    Condition = "lightRain"
	ConditionRain         Condition = "rain"
	ConditionHeavyRain    Condition = "heavyRain"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionLightSnow    Condition = "lightSnow"
	ConditionSnow         Condition = "snow"
	ConditionHeavySnow    Condition = "heavySnow"
	ConditionSleet        Condition = "sleet"
	ConditionDrizzle      Condition = "drizzle"
	ConditionUnknown      Condition = "unknown"
)

// Location represents a place weather can be fetched for.
// All fields except IsFavorite are immutable after construction;
// IsFavorite is owned and toggled by the favorites store.
type Location struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Timezone   *string   `json:"timezone,omitempty"` // IANA id when known
	IsFavorite bool      `json:"isFavorite"`
}

// NewLocation creates a Location with a fresh identity.
func NewLocation(name, country string, lat, lon float64) Location {
	return Location{
		ID:        uuid.New(),
		Name:      name,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
	}
}

// Weather is the normalized view of current conditions at a location.
// Values are only ever constructed by a successful decode, never
// partially populated.
type Weather struct {
	ID            uuid.UUID `json:"id"`
	Location      Location  `json:"location"`
	TemperatureC  float64   `json:"temperatureC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	Condition     Condition `json:"condition"`
	ConditionText string    `json:"conditionText"`
	HumidityPct   int       `json:"humidityPercent"`
	WindSpeedMS   float64   `json:"windSpeedMs"`
	PressureHpa   float64   `json:"pressureHpa"`
	VisibilityKm  float64   `json:"visibilityKm"`
	UVIndex       *int      `json:"uvIndex,omitempty"`
	CloudCoverPct int       `json:"cloudCoverPercent"`
	Timestamp     time.Time `json:"timestamp"`
}

// Forecast bundles the hourly and daily outlook for a location.
// Hourly may be empty when the provider has no sub-daily data.
// Both sequences are chronological.
type Forecast struct {
	ID       uuid.UUID        `json:"id"`
	Location Location         `json:"location"`
	Hourly   []HourlyForecast `json:"hourly"`
	Daily    []DailyForecast  `json:"daily"`
}

// HourlyForecast is a single time-stamped forecast sample.
type HourlyForecast struct {
	Time            time.Time `json:"time"`
	TemperatureC    float64   `json:"temperatureC"`
	FeelsLikeC      float64   `json:"feelsLikeC"`
	Condition       Condition `json:"condition"`
	ConditionText   string    `json:"conditionText"`
	PrecipChancePct int       `json:"precipitationChancePercent"`
	HumidityPct     int       `json:"humidityPercent"`
	WindSpeedMS     float64   `json:"windSpeedMs"`
}

// DailyForecast is one calendar day of the outlook. High/low come from
// the provider as-is; HighC >= LowC is not enforced here, so callers
// must not rely on it for malformed upstream data.
type DailyForecast struct {
	Date            time.Time  `json:"date"`
	HighC           float64    `json:"highTemperatureC"`
	LowC            float64    `json:"lowTemperatureC"`
	Condition       Condition  `json:"condition"`
	ConditionText   string     `json:"conditionText"`
	PrecipChancePct int        `json:"precipitationChancePercent"`
	Sunrise         *time.Time `json:"sunrise,omitempty"`
	Sunset          *time.Time `json:"sunset,omitempty"`
	HumidityPct     int        `json:"humidityPercent"`
	WindSpeedMS     float64    `json:"windSpeedMs"`
}
