package weather

import (
	"time"
)

// ForecastPayload is the raw Open-Meteo response. Depending on the
// deployment the current conditions arrive as the legacy "current_weather"
// block, the newer "current" block, both, or neither; field names inside the
// blocks vary the same way. The normalizer coalesces across all of them.
//
// Invariant: within Hourly, every array that has the same length as Time is
// positionally aligned with it (index i is the same instant everywhere).
// Daily behaves the same per day.
type ForecastPayload struct {
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	Timezone       string        `json:"timezone"`
	CurrentWeather *CurrentBlock `json:"current_weather"`
	Current        *CurrentBlock `json:"current"`
	Hourly         *HourlyBlock  `json:"hourly"`
	Daily          *DailyBlock   `json:"daily"`
}

// HasCurrent reports whether any current-conditions block is present.
func (p *ForecastPayload) HasCurrent() bool {
	return p.CurrentWeather != nil || p.Current != nil
}

// HasHourly reports whether a non-empty hourly time series is present.
func (p *ForecastPayload) HasHourly() bool {
	return p.Hourly != nil && len(p.Hourly.Time) > 0
}

// HasDaily reports whether a non-empty daily series is present.
func (p *ForecastPayload) HasDaily() bool {
	return p.Daily != nil && len(p.Daily.Time) > 0
}

// CurrentBlock holds current conditions under either naming scheme. Legacy
// deployments use "temperature"/"windspeed"/"weathercode"; newer ones use
// "temperature_2m"/"wind_speed_10m"/"weather_code".
type CurrentBlock struct {
	Time string `json:"time"`

	Temperature   *float64 `json:"temperature"`
	Temperature2m *float64 `json:"temperature_2m"`

	ApparentTemperature   *float64 `json:"apparent_temperature"`
	ApparentTemperature2m *float64 `json:"apparent_temperature_2m"`

	WindSpeed    *float64 `json:"windspeed"`
	WindSpeed10m *float64 `json:"wind_speed_10m"`

	WeatherCodeLegacy *int `json:"weathercode"`
	WeatherCode       *int `json:"weather_code"`

	CloudCoverLegacy *float64 `json:"cloudcover"`
	CloudCover       *float64 `json:"cloud_cover"`

	IsDay *int `json:"is_day"`
}

// HourlyBlock holds the hourly series as parallel arrays.
type HourlyBlock struct {
	Time []string `json:"time"`

	Temperature2m []float64 `json:"temperature_2m"`

	RelativeHumidity       []float64 `json:"relative_humidity_2m"`
	RelativeHumidityLegacy []float64 `json:"relativehumidity_2m"`

	ApparentTemperature []float64 `json:"apparent_temperature"`

	WeatherCode       []int `json:"weather_code"`
	WeatherCodeLegacy []int `json:"weathercode"`

	WindSpeed10m       []float64 `json:"wind_speed_10m"`
	WindSpeed10mLegacy []float64 `json:"windspeed_10m"`

	WindDirection10m []float64 `json:"wind_direction_10m"`
	WindGusts10m     []float64 `json:"wind_gusts_10m"`

	PrecipitationProbability []float64 `json:"precipitation_probability"`
	Precipitation            []float64 `json:"precipitation"`

	CloudCover       []float64 `json:"cloud_cover"`
	CloudCoverLegacy []float64 `json:"cloudcover"`

	Visibility      []float64 `json:"visibility"`
	UVIndex         []float64 `json:"uv_index"`
	SurfacePressure []float64 `json:"surface_pressure"`
	PressureMSL     []float64 `json:"pressure_msl"`
}

// DailyBlock holds the daily series as parallel arrays.
type DailyBlock struct {
	Time []string `json:"time"`

	WeatherCode []int `json:"weather_code"`

	Temperature2mMax       []float64 `json:"temperature_2m_max"`
	Temperature2mMin       []float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax []float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin []float64 `json:"apparent_temperature_min"`

	Sunrise []string `json:"sunrise"`
	Sunset  []string `json:"sunset"`

	DaylightDuration []float64 `json:"daylight_duration"`
	SunshineDuration []float64 `json:"sunshine_duration"`

	UVIndexMax []float64 `json:"uv_index_max"`

	PrecipitationSum            []float64 `json:"precipitation_sum"`
	PrecipitationHours          []float64 `json:"precipitation_hours"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	RainSum                     []float64 `json:"rain_sum"`
	ShowersSum                  []float64 `json:"showers_sum"`
	SnowfallSum                 []float64 `json:"snowfall_sum"`

	WindSpeed10mMax          []float64 `json:"wind_speed_10m_max"`
	WindGusts10mMax          []float64 `json:"wind_gusts_10m_max"`
	WindDirection10mDominant []float64 `json:"wind_direction_10m_dominant"`

	ShortwaveRadiationSum []float64 `json:"shortwave_radiation_sum"`
	Evapotranspiration    []float64 `json:"et0_fao_evapotranspiration"`
}

// timeLayouts covers the iso8601 shapes Open-Meteo emits: minute precision
// for hourly/sunrise/sunset timestamps, date only for daily time, and full
// RFC3339 on some deployments. Zoneless values are local to the requested
// timezone.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a provider timestamp in the given location. Returns the
// zero time and false when the value is empty or unparseable.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
