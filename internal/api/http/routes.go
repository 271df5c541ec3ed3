// Package httpapi exposes the service over HTTP: a health check and the
// route-weather endpoint.
package httpapi

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/routewx/route-weather/internal/querylog"
	"github.com/routewx/route-weather/internal/routing"
	"github.com/routewx/route-weather/internal/trip"
	"github.com/routewx/route-weather/internal/weather"
)

var validate = validator.New()

// Deps carries the collaborators and configuration flags the handlers need.
// Handles are read-only after startup and safe for concurrent requests.
type Deps struct {
	Directions routing.Directions
	Enricher   *weather.Enricher
	Recorder   querylog.Recorder

	GoogleMapsConfigured bool
	WeatherAPIConfigured bool
	MongoConnected       bool
}

// NewApp builds the Fiber application with middleware, error shaping, and
// all routes registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "route-weather",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/api/health", healthHandler(deps))
	app.Post("/api/route_weather", routeWeatherHandler(deps))

	// Anything unrouted gets the JSON 404 instead of fiber's plain text.
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Endpoint not found")
	})

	return app
}

// errorHandler shapes every error into the {success:false, error} envelope.
// Non-fiber errors (including recovered panics) are logged with full detail
// but answered with a generic message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error. Please try again later."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Printf("ERROR: unhandled error serving %s: %v", c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func healthHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":                 "healthy",
			"google_maps_configured": deps.GoogleMapsConfigured,
			"weather_api_configured": deps.WeatherAPIConfigured,
			"mongodb_connected":      deps.MongoConnected,
		})
	}
}

// routeWeatherRequest is the POST body for the main endpoint.
type routeWeatherRequest struct {
	StartAddress string `json:"start_address" validate:"required"`
	EndAddress   string `json:"end_address" validate:"required"`
}

// waypointWeather is one entry of the weather_data response array.
type waypointWeather struct {
	Location string              `json:"location"`
	Lat      float64             `json:"lat"`
	Lon      float64             `json:"lon"`
	Weather  weather.Observation `json:"weather"`
}

// routeWeatherResponse is the success payload; it is also what gets logged.
type routeWeatherResponse struct {
	Success      bool              `json:"success"`
	StartAddress string            `json:"start_address"`
	EndAddress   string            `json:"end_address"`
	Distance     string            `json:"distance"`
	Duration     string            `json:"duration"`
	WeatherData  []waypointWeather `json:"weather_data"`
}

func routeWeatherHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req routeWeatherRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No data provided")
		}

		req.StartAddress = strings.TrimSpace(req.StartAddress)
		req.EndAddress = strings.TrimSpace(req.EndAddress)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				"Both start_address and end_address are required")
		}

		route, err := deps.Directions.Route(c.Context(), req.StartAddress, req.EndAddress)
		if err != nil {
			switch {
			case errors.Is(err, routing.ErrNotConfigured):
				return fiber.NewError(fiber.StatusServiceUnavailable,
					"Google Maps API not configured. Please set GOOGLE_MAPS_KEY environment variable.")
			case errors.Is(err, routing.ErrNoRoute):
				return fiber.NewError(fiber.StatusNotFound,
					"No route found between the specified addresses")
			default:
				log.Printf("ERROR: directions lookup failed for %q -> %q: %v",
					req.StartAddress, req.EndAddress, err)
				return fiber.NewError(fiber.StatusInternalServerError,
					"Error calculating route. Please verify your addresses and try again.")
			}
		}

		if route == nil || len(route.Legs) == 0 {
			return fiber.NewError(fiber.StatusNotFound,
				"No route found between the specified addresses")
		}

		waypoints := trip.Reduce(trip.Flatten(route))
		enriched := deps.Enricher.Enrich(c.Context(), waypoints)

		resp := routeWeatherResponse{
			Success:      true,
			StartAddress: req.StartAddress,
			EndAddress:   req.EndAddress,
			Distance:     textOrNA(route.Legs[0].Distance),
			Duration:     textOrNA(route.Legs[0].Duration),
			WeatherData:  make([]waypointWeather, 0, len(enriched)),
		}
		for _, ew := range enriched {
			resp.WeatherData = append(resp.WeatherData, waypointWeather{
				Location: ew.Waypoint.Label,
				Lat:      ew.Waypoint.Location.Lat,
				Lon:      ew.Waypoint.Location.Lon,
				Weather:  ew.Weather,
			})
		}

		// Best-effort persistence; the recorder swallows its own failures.
		deps.Recorder.Record(c.Context(), querylog.Entry{
			StartAddress:  req.StartAddress,
			EndAddress:    req.EndAddress,
			WaypointCount: len(enriched),
			Response:      resp,
		})

		return c.JSON(resp)
	}
}

func textOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
