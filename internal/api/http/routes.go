package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weathermood/internal/store"
	"weathermood/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	// Runs the full pipeline. Always responds 200 with a populated model;
	// provider trouble shows up as status "degraded", never as an error page.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result := service.SafeFetch(c.Context(), q)
		return c.JSON(result)
	})

	// Returns the last stored model without hitting the provider.
	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		model, err := service.Latest(q)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load weather data")
		}
		return c.JSON(model)
	})
}

// weatherQuery holds the query parameters identifying a place: either a free
// text q, or a lat/lon pair.
type weatherQuery struct {
	Q   string
	Lat *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `validate:"omitempty,gte=-180,lte=180"`
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	var wq weatherQuery
	wq.Q = c.Query("q")

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return weather.Query{}, errors.New("invalid lat query parameter")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return weather.Query{}, errors.New("invalid lon query parameter")
		}
		wq.Lat = &lat
		wq.Lon = &lon
	}

	if err := validate.Struct(wq); err != nil {
		return weather.Query{}, err
	}

	if wq.Lat != nil {
		return weather.Query{Coords: &weather.Coords{Lat: *wq.Lat, Lon: *wq.Lon}}, nil
	}
	if wq.Q == "" {
		return weather.Query{}, errors.New("either q or lat/lon query parameters are required")
	}
	return weather.Query{Text: wq.Q}, nil
}
