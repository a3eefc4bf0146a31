package weather

import (
	"fmt"
	"time"
)

// Unit is the display unit preference. Stored and fetched values are always
// metric; the unit only affects formatting.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// Source tags where a resolved location came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceGPS   Source = "gps"
	SourceIP    Source = "ip"
)

// Coordinate is a geographic point. Latitude is in [-90,90], longitude in
// [-180,180].
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are inside their allowed ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ResolvedLocation is a best-effort user position with provenance.
type ResolvedLocation struct {
	Coordinate
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	AccuracyM  float64   `json:"accuracy_m,omitempty"`
	Source     Source    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// CitySelection is a city the user picked, either from geocoding search
// results or the quick-pick list.
type CitySelection struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
	Country   string  `json:"country,omitempty" yaml:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty" yaml:"admin1,omitempty"`
}

// Coordinate returns the city's position.
func (c CitySelection) Coordinate() Coordinate {
	return Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Key returns a canonical string key for indexing this city.
func (c CitySelection) Key() string {
	return fmt.Sprintf("%s:%.4f:%.4f", c.Name, c.Latitude, c.Longitude)
}

// CurrentReading is the normalized current-conditions view derived from a raw
// forecast payload. Optional fields are nil when the provider supplied no
// value in either the current block or the hourly series.
type CurrentReading struct {
	Temperature *float64  `json:"temperature"`
	FeelsLike   *float64  `json:"feels_like"`
	WindSpeed   *float64  `json:"wind_speed"`
	WindGusts   *float64  `json:"wind_gusts"`
	Humidity    *float64  `json:"humidity"`
	CloudCover  *int      `json:"cloud_cover"`
	Pressure    *float64  `json:"pressure"`
	Visibility  *float64  `json:"visibility"`
	UVIndex     *float64  `json:"uv_index"`
	WeatherCode int       `json:"weather_code"`
	IsDay       *bool     `json:"is_day,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}
