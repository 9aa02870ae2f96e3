package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/glasscast/weathercore/internal/location"
	"github.com/glasscast/weathercore/internal/store"
	"github.com/glasscast/weathercore/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. bridge may
// be nil when no device location source is configured.
func RegisterRoutes(app *fiber.App, client weather.Client, bridge *location.Bridge, favorites *store.Favorites) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		if city := c.Query("city"); city != "" {
			w, err := client.CurrentWeatherByCity(c.Context(), city)
			if err != nil {
				return weatherError(err)
			}
			return c.JSON(w)
		}

		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w, err := client.CurrentWeather(c.Context(), coord.Lat, coord.Lon)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(w)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		coord, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		f, err := client.Forecast(c.Context(), coord.Lat, coord.Lon)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(f)
	})

	v1.Get("/locations/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		locs, err := client.SearchLocations(c.Context(), query)
		if err != nil {
			return weatherError(err)
		}
		return c.JSON(fiber.Map{"locations": locs})
	})

	v1.Get("/location/current", func(c *fiber.Ctx) error {
		if bridge == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "no device location source configured")
		}

		loc, err := bridge.CurrentLocation(c.Context())
		if err != nil {
			return locationError(err)
		}
		return c.JSON(loc)
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"favorites": favorites.List()})
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var req favoriteRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := favorites.Add(weather.NewLocation(req.Name, req.Country, req.Latitude, req.Longitude))
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "location already favorited")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to add favorite")
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	})

	v1.Delete("/favorites/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid favorite id")
		}
		if err := favorites.Remove(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "favorite not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove favorite")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// coordinateQuery holds the lat/lon pair identifying a coordinate.
type coordinateQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordinateQuery(c *fiber.Ctx) (coordinateQuery, error) {
	var q coordinateQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("invalid lat value")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("invalid lon value")
	}

	q.Lat = lat
	q.Lon = lon
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// favoriteRequest is the POST /favorites body.
type favoriteRequest struct {
	Name      string  `json:"name" validate:"required"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// weatherError maps fetch-client error kinds to HTTP statuses without
// string matching.
func weatherError(err error) error {
	switch {
	case weather.IsKind(err, weather.KindCityNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case weather.IsKind(err, weather.KindRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
	case weather.IsKind(err, weather.KindInvalidAPIKey):
		return fiber.NewError(fiber.StatusBadGateway, "provider rejected the API key")
	case weather.IsKind(err, weather.KindNetwork), weather.IsKind(err, weather.KindHTTP),
		weather.IsKind(err, weather.KindDecoding), weather.IsKind(err, weather.KindInvalidResponse):
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

func locationError(err error) error {
	switch {
	case location.IsKind(err, location.KindPermissionDenied),
		location.IsKind(err, location.KindPermissionRestricted):
		return fiber.NewError(fiber.StatusForbidden, "location permission denied")
	case location.IsKind(err, location.KindLocationUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "location unavailable")
	case location.IsKind(err, location.KindNetwork):
		return fiber.NewError(fiber.StatusBadGateway, "network error while getting location")
	case errors.Is(err, location.ErrRequestInFlight):
		return fiber.NewError(fiber.StatusConflict, "location request already pending")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get location")
	}
}
