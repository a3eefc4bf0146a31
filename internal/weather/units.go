package weather

import (
	"fmt"
	"math"
)

// Conversion and formatting helpers. All stored values are metric; these
// functions are display-only and round-trip within rounding tolerance.

// CelsiusToFahrenheit converts and rounds to the nearest whole degree.
func CelsiusToFahrenheit(c float64) int {
	return int(math.Round(c*9/5 + 32))
}

// FahrenheitToCelsius converts and rounds to the nearest whole degree.
func FahrenheitToCelsius(f float64) int {
	return int(math.Round((f - 32) * 5 / 9))
}

// MSToMPH converts wind speed from meters per second to miles per hour.
func MSToMPH(ms float64) float64 {
	return ms * 2.237
}

// FormatTemp renders a temperature in the preferred unit, "--" when absent.
func FormatTemp(temp *float64, unit Unit) string {
	if temp == nil {
		return "--"
	}
	if unit == UnitFahrenheit {
		return fmt.Sprintf("%d°F", CelsiusToFahrenheit(*temp))
	}
	return fmt.Sprintf("%d°C", int(math.Round(*temp)))
}

// FormatFeelsLike renders the apparent temperature line.
func FormatFeelsLike(temp *float64, unit Unit) string {
	return "Sajūtas kā " + FormatTemp(temp, unit)
}

// FormatWind renders wind speed, m/s for metric and mph for imperial.
func FormatWind(speed *float64, unit Unit) string {
	if speed == nil {
		return "--"
	}
	if unit == UnitFahrenheit {
		return fmt.Sprintf("%d mph", int(math.Round(MSToMPH(*speed))))
	}
	return fmt.Sprintf("%d m/s", int(math.Round(*speed)))
}

// FormatHumidity renders relative humidity as a percentage.
func FormatHumidity(humidity *float64) string {
	if humidity == nil {
		return "--"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*humidity)))
}

// FormatPressure renders pressure in hPa.
func FormatPressure(pressure *float64) string {
	if pressure == nil {
		return "-- hPa"
	}
	return fmt.Sprintf("%d hPa", int(math.Round(*pressure)))
}

// FormatVisibility renders visibility in kilometers with one decimal. The
// provider reports meters.
func FormatVisibility(visibility *float64) string {
	if visibility == nil {
		return "-- km"
	}
	return fmt.Sprintf("%.1f km", *visibility/1000)
}

// UVLevel classifies a UV index into the Latvian severity scale.
func UVLevel(uv float64) string {
	switch {
	case uv <= 2:
		return "Zems"
	case uv <= 5:
		return "Vidējs"
	case uv <= 7:
		return "Augsts"
	case uv <= 10:
		return "Ļoti augsts"
	default:
		return "Ekstrēms"
	}
}
