package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avotins/laika-dashboard/internal/weather"
)

// Hourly variables the dashboard details card needs. Humidity, pressure,
// visibility, UV and gusts exist only here, never in the current block.
var hourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"weather_code",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
	"precipitation_probability",
	"precipitation",
	"cloud_cover",
	"visibility",
	"uv_index",
	"surface_pressure",
	"pressure_msl",
}

var dailyVariables = []string{
	"weather_code",
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"sunrise",
	"sunset",
	"daylight_duration",
	"sunshine_duration",
	"uv_index_max",
	"precipitation_sum",
	"precipitation_hours",
	"precipitation_probability_max",
	"rain_sum",
	"showers_sum",
	"snowfall_sum",
	"wind_speed_10m_max",
	"wind_gusts_10m_max",
	"wind_direction_10m_dominant",
	"shortwave_radiation_sum",
	"et0_fao_evapotranspiration",
}

// ForecastClient fetches the full forecast payload from Open-Meteo.
type ForecastClient struct {
	baseURL      string
	timezone     string
	forecastDays int
	pastDays     int
	timeout      time.Duration
	client       *http.Client
}

// NewForecastClient creates a forecast client. pastDays 1 includes yesterday
// so the sun-path view can reference the previous sunset before sunrise.
func NewForecastClient(client *http.Client, baseURL, timezone string, forecastDays, pastDays int, timeout time.Duration) *ForecastClient {
	return &ForecastClient{
		baseURL:      baseURL,
		timezone:     timezone,
		forecastDays: forecastDays,
		pastDays:     pastDays,
		timeout:      timeout,
		client:       client,
	}
}

// PastDays returns the number of trailing past days included in fetches.
func (c *ForecastClient) PastDays() int {
	return c.pastDays
}

// Fetch issues a single GET for the fixed variable manifest and validates
// that the payload is renderable: it must carry either a current block or a
// non-empty hourly series, even on HTTP 200.
func (c *ForecastClient) Fetch(ctx context.Context, coord weather.Coordinate) (*weather.ForecastPayload, error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("invalid coordinate %.4f,%.4f", coord.Latitude, coord.Longitude)
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	values.Set("hourly", strings.Join(hourlyVariables, ","))
	values.Set("daily", strings.Join(dailyVariables, ","))
	values.Set("timezone", c.timezone)
	values.Set("timeformat", "iso8601")
	values.Set("temperature_unit", "celsius")
	values.Set("windspeed_unit", "ms")
	values.Set("precipitation_unit", "mm")
	values.Set("forecast_days", strconv.Itoa(c.forecastDays))
	values.Set("past_days", strconv.Itoa(c.pastDays))
	values.Set("current_weather", "true")

	var payload weather.ForecastPayload
	if err := getJSON(ctx, c.client, c.timeout, c.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, err
	}

	if !payload.HasCurrent() && !payload.HasHourly() {
		return nil, weather.ErrDataUnavailable
	}
	return &payload, nil
}
