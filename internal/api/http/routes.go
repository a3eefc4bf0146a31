package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/avotins/laika-dashboard/internal/app"
	"github.com/avotins/laika-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(fa *fiber.App, service *app.Service) {
	v1 := fa.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		st := service.State()
		if st.Payload == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "laika dati vēl nav ielādēti")
		}
		return c.JSON(buildCurrentView(st))
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		daily, ok := service.DailyForward()
		if !ok {
			return fiber.NewError(fiber.StatusServiceUnavailable, "nav pieejami dienas dati")
		}
		return c.JSON(fiber.Map{"daily": daily})
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		var q hourlyQuery
		q.Hours = c.QueryInt("hours", 24)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		hours := service.NextHours(q.Hours)
		if len(hours) == 0 {
			return fiber.NewError(fiber.StatusServiceUnavailable, "nav pieejami stundas dati")
		}
		return c.JSON(fiber.Map{"hourly": hours})
	})

	v1.Get("/sun", func(c *fiber.Ctx) error {
		st := service.State()
		if st.Sun == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "nav pieejami saules dati")
		}
		return c.JSON(sunView{
			Mode:      string(st.Sun.Mode),
			Progress:  st.Sun.Progress,
			Sunrise:   st.Sun.Sunrise,
			Sunset:    st.Sun.Sunset,
			DayLength: weather.FormatDayLength(st.Sun.DayLength),
		})
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		var q searchQuery
		q.Name = c.Query("name")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cities, err := service.Search(c.Context(), q.Name)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{"results": cities})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": service.QuickPicks()})
	})

	v1.Put("/city", func(c *fiber.Ctx) error {
		var city weather.CitySelection
		if err := c.BodyParser(&city); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(city); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st, err := service.LoadCity(c.Context(), city)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(buildCurrentView(st))
	})

	v1.Put("/unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := service.SetUnit(weather.Unit(req.Unit)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{"unit": req.Unit})
	})
}

type hourlyQuery struct {
	Hours int `validate:"gte=1,lte=48"`
}

type searchQuery struct {
	Name string `validate:"required"`
}

type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=C F"`
}

// currentView is the current-conditions view model: metric values plus
// display strings in the active unit.
type currentView struct {
	Generation int64                  `json:"generation"`
	City       weather.CitySelection  `json:"city"`
	Unit       weather.Unit           `json:"unit"`
	Reading    weather.CurrentReading `json:"reading"`
	Condition  weather.CodeInfo       `json:"condition"`
	Background string                 `json:"background"`
	Display    displayView            `json:"display"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type displayView struct {
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Wind        string `json:"wind"`
	Gusts       string `json:"gusts"`
	Humidity    string `json:"humidity"`
	Pressure    string `json:"pressure"`
	Visibility  string `json:"visibility"`
	UVLevel     string `json:"uv_level"`
}

type sunView struct {
	Mode      string    `json:"mode"`
	Progress  float64   `json:"progress"`
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	DayLength string    `json:"day_length"`
}

func buildCurrentView(st app.State) currentView {
	r := st.Current
	view := currentView{
		Generation: st.Generation,
		City:       st.City,
		Unit:       st.Unit,
		Reading:    r,
		Condition:  weather.CodeLookup(r.WeatherCode),
		Background: weather.Background(r.WeatherCode, r.IsDay),
		Display: displayView{
			Temperature: weather.FormatTemp(r.Temperature, st.Unit),
			FeelsLike:   weather.FormatFeelsLike(r.FeelsLike, st.Unit),
			Wind:        weather.FormatWind(r.WindSpeed, st.Unit),
			Gusts:       weather.FormatWind(r.WindGusts, st.Unit),
			Humidity:    weather.FormatHumidity(r.Humidity),
			Pressure:    weather.FormatPressure(r.Pressure),
			Visibility:  weather.FormatVisibility(r.Visibility),
		},
		UpdatedAt: st.UpdatedAt,
	}
	if r.UVIndex != nil {
		view.Display.UVLevel = weather.UVLevel(*r.UVIndex)
	}
	return view
}

// mapError translates pipeline errors into HTTP responses.
func mapError(err error) error {
	switch {
	case errors.Is(err, app.ErrSuperseded):
		return fiber.NewError(fiber.StatusConflict, app.ErrSuperseded.Error())
	case errors.Is(err, weather.ErrNetworkUnavailable):
		return fiber.NewError(fiber.StatusGatewayTimeout, weather.ErrNetworkUnavailable.Error())
	case errors.Is(err, weather.ErrServiceUnavailable),
		errors.Is(err, weather.ErrDataUnavailable),
		errors.Is(err, weather.ErrSearchFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
