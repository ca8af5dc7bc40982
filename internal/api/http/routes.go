package httpapi

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/merry-weather/internal/store"
	"github.com/i474232898/merry-weather/internal/weather"
)

var validate = validator.New()

// WeatherService is the orchestrator surface used by the routes.
type WeatherService interface {
	GetWeather(ctx context.Context, city string) (weather.WeatherResponse, error)
	GetWeatherByCoords(ctx context.Context, lat, lon float64) (weather.WeatherResponse, error)
	Info() weather.ServiceInfo
}

// CacheInspector exposes cache counters for the debug endpoint.
type CacheInspector interface {
	Stats() store.Stats
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, cache CacheInspector, logger zerolog.Logger) {
	api := app.Group("/api/weather")

	api.Get("/search/coords", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		data, err := service.GetWeatherByCoords(c.UserContext(), q.Lat, q.Lon)
		if err != nil {
			logger.Error().Err(err).Float64("lat", q.Lat).Float64("lon", q.Lon).Msg("weather by coordinates failed")
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{"success": true, "data": data})
	})

	api.Get("/debug/info", func(c *fiber.Ctx) error {
		return c.JSON(service.Info())
	})

	api.Get("/debug/cache", func(c *fiber.Ctx) error {
		return c.JSON(cache.Stats())
	})

	api.Get("/:city", func(c *fiber.Ctx) error {
		q, err := parseCityParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "a valid city name must be provided")
		}

		data, err := service.GetWeather(c.UserContext(), q.City)
		if err != nil {
			logger.Error().Err(err).Str("city", q.City).Msg("weather by city failed")
			return toFiberError(err)
		}

		return c.JSON(fiber.Map{"success": true, "data": data})
	})
}

// ErrorHandler renders every error in the {success, message} envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// NotFoundHandler answers requests that matched no route.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "route not found",
		"path":    c.Path(),
	})
}

// toFiberError maps classified service failures to transport status codes.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrTimeout), errors.Is(err, weather.ErrRateLimited):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process the weather request")
	}
}

// cityParam holds the city path parameter.
type cityParam struct {
	City string `validate:"required,min=2"`
}

func parseCityParam(c *fiber.Ctx) (cityParam, error) {
	var q cityParam

	raw, err := url.PathUnescape(c.Params("city"))
	if err != nil {
		return q, err
	}
	q.City = strings.TrimSpace(raw)

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// coordsQuery holds query parameters for a coordinate lookup.
type coordsQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordsQuery(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("lon must be a number")
	}
	q.Lat, q.Lon = lat, lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
