package weather

import (
	"math"
	"time"
)

// NearestHourIndex returns the index into times whose instant is closest to
// target, scanning in order and keeping the first minimum on ties. Returns -1
// for an empty slice. Unparseable entries are skipped.
func NearestHourIndex(times []string, target time.Time, loc *time.Location) int {
	if len(times) == 0 {
		return -1
	}
	best := -1
	bestDiff := time.Duration(math.MaxInt64)
	for i, s := range times {
		t, ok := ParseTime(s, loc)
		if !ok {
			continue
		}
		d := target.Sub(t)
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return best
}

// NormalizeCloudCover maps the provider's two cloud-cover encodings to a
// whole percentage: values at or below 1 are fractions and scale by 100,
// anything larger is already a percentage.
func NormalizeCloudCover(v float64) int {
	if v <= 1 {
		return int(math.Round(v * 100))
	}
	return int(math.Round(v))
}

// NormalizeCurrent derives the current-conditions reading from a raw payload.
// The current block is preferred field by field across both naming variants;
// fields the block lacks are read from the hourly series at the index nearest
// the observation time. ObservedAt is always set, falling back to now when
// the provider supplies neither a current timestamp nor hourly times.
func NormalizeCurrent(p *ForecastPayload, now time.Time, loc *time.Location) CurrentReading {
	var reading CurrentReading

	cur := p.CurrentWeather
	if cur == nil {
		cur = p.Current
	}

	var hourly *HourlyBlock
	if p.HasHourly() {
		hourly = p.Hourly
	}

	observed, ok := time.Time{}, false
	if cur != nil {
		observed, ok = ParseTime(cur.Time, loc)
	}
	if !ok && hourly != nil {
		if i := NearestHourIndex(hourly.Time, now, loc); i >= 0 {
			observed, ok = ParseTime(hourly.Time[i], loc)
		}
	}
	if !ok {
		observed = now
	}
	reading.ObservedAt = observed

	idx := -1
	if hourly != nil {
		idx = NearestHourIndex(hourly.Time, observed, loc)
	}
	at := func(xs []float64) *float64 {
		if idx < 0 || idx >= len(xs) {
			return nil
		}
		v := xs[idx]
		return &v
	}

	if cur != nil {
		reading.Temperature = firstFloat(cur.Temperature, cur.Temperature2m)
		reading.FeelsLike = firstFloat(cur.ApparentTemperature, cur.ApparentTemperature2m)
		reading.WindSpeed = firstFloat(cur.WindSpeed, cur.WindSpeed10m)
		if cur.IsDay != nil {
			day := *cur.IsDay != 0
			reading.IsDay = &day
		}
	}
	if hourly != nil {
		if reading.Temperature == nil {
			reading.Temperature = at(hourly.Temperature2m)
		}
		if reading.FeelsLike == nil {
			reading.FeelsLike = at(hourly.ApparentTemperature)
		}
		if reading.WindSpeed == nil {
			reading.WindSpeed = firstFloat(at(hourly.WindSpeed10m), at(hourly.WindSpeed10mLegacy))
		}
		// Hourly-only in the provider: always read via the nearest index.
		reading.Humidity = firstFloat(at(hourly.RelativeHumidity), at(hourly.RelativeHumidityLegacy))
		reading.WindGusts = at(hourly.WindGusts10m)
		reading.Pressure = firstFloat(at(hourly.SurfacePressure), at(hourly.PressureMSL))
		reading.Visibility = at(hourly.Visibility)
		reading.UVIndex = at(hourly.UVIndex)
	}

	rawCloud := firstFloat(
		cloudAt(hourly, idx),
		currentCloud(cur),
	)
	if rawCloud != nil {
		pct := NormalizeCloudCover(*rawCloud)
		reading.CloudCover = &pct
	}

	reading.WeatherCode = normalizeCode(cur, hourly, idx)
	return reading
}

func normalizeCode(cur *CurrentBlock, hourly *HourlyBlock, idx int) int {
	if cur != nil {
		if cur.WeatherCodeLegacy != nil {
			return *cur.WeatherCodeLegacy
		}
		if cur.WeatherCode != nil {
			return *cur.WeatherCode
		}
	}
	if hourly != nil && idx >= 0 {
		if idx < len(hourly.WeatherCode) {
			return hourly.WeatherCode[idx]
		}
		if idx < len(hourly.WeatherCodeLegacy) {
			return hourly.WeatherCodeLegacy[idx]
		}
	}
	return 0
}

func cloudAt(hourly *HourlyBlock, idx int) *float64 {
	if hourly == nil || idx < 0 {
		return nil
	}
	if idx < len(hourly.CloudCover) {
		v := hourly.CloudCover[idx]
		return &v
	}
	if idx < len(hourly.CloudCoverLegacy) {
		v := hourly.CloudCoverLegacy[idx]
		return &v
	}
	return nil
}

func currentCloud(cur *CurrentBlock) *float64 {
	if cur == nil {
		return nil
	}
	return firstFloat(cur.CloudCover, cur.CloudCoverLegacy)
}

// firstFloat returns the first non-nil candidate.
func firstFloat(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// SliceDaily drops offset leading entries uniformly from every array whose
// length matches the time array, realigning a past_days-inclusive series to a
// forecast-only view. Arrays of other lengths pass through untouched, and the
// input block is not modified.
func SliceDaily(d *DailyBlock, offset int) *DailyBlock {
	if d == nil || offset <= 0 || offset > len(d.Time) {
		return d
	}
	n := len(d.Time)
	out := *d
	out.Time = d.Time[offset:]
	out.WeatherCode = sliceAligned(d.WeatherCode, n, offset)
	out.Temperature2mMax = sliceAligned(d.Temperature2mMax, n, offset)
	out.Temperature2mMin = sliceAligned(d.Temperature2mMin, n, offset)
	out.ApparentTemperatureMax = sliceAligned(d.ApparentTemperatureMax, n, offset)
	out.ApparentTemperatureMin = sliceAligned(d.ApparentTemperatureMin, n, offset)
	out.Sunrise = sliceAligned(d.Sunrise, n, offset)
	out.Sunset = sliceAligned(d.Sunset, n, offset)
	out.DaylightDuration = sliceAligned(d.DaylightDuration, n, offset)
	out.SunshineDuration = sliceAligned(d.SunshineDuration, n, offset)
	out.UVIndexMax = sliceAligned(d.UVIndexMax, n, offset)
	out.PrecipitationSum = sliceAligned(d.PrecipitationSum, n, offset)
	out.PrecipitationHours = sliceAligned(d.PrecipitationHours, n, offset)
	out.PrecipitationProbabilityMax = sliceAligned(d.PrecipitationProbabilityMax, n, offset)
	out.RainSum = sliceAligned(d.RainSum, n, offset)
	out.ShowersSum = sliceAligned(d.ShowersSum, n, offset)
	out.SnowfallSum = sliceAligned(d.SnowfallSum, n, offset)
	out.WindSpeed10mMax = sliceAligned(d.WindSpeed10mMax, n, offset)
	out.WindGusts10mMax = sliceAligned(d.WindGusts10mMax, n, offset)
	out.WindDirection10mDominant = sliceAligned(d.WindDirection10mDominant, n, offset)
	out.ShortwaveRadiationSum = sliceAligned(d.ShortwaveRadiationSum, n, offset)
	out.Evapotranspiration = sliceAligned(d.Evapotranspiration, n, offset)
	return &out
}

func sliceAligned[T any](xs []T, n, offset int) []T {
	if len(xs) != n {
		return xs
	}
	return xs[offset:]
}

// HourlyEntry is one slot of the next-hours view.
type HourlyEntry struct {
	Time             time.Time `json:"time"`
	Temperature      *float64  `json:"temperature"`
	WindSpeed        *float64  `json:"wind_speed"`
	Humidity         *float64  `json:"humidity"`
	Precipitation    *float64  `json:"precipitation"`
	PrecipitationPct *float64  `json:"precipitation_probability"`
	WeatherCode      int       `json:"weather_code"`
}

// NextHours builds up to count hourly entries starting from the slot nearest
// to target, wrapping around the series the way the hourly strip rotates.
func NextHours(h *HourlyBlock, target time.Time, loc *time.Location, count int) []HourlyEntry {
	if h == nil || len(h.Time) == 0 {
		return nil
	}
	start := NearestHourIndex(h.Time, target, loc)
	if start < 0 {
		start = 0
	}
	if count > len(h.Time) {
		count = len(h.Time)
	}

	entries := make([]HourlyEntry, 0, count)
	for i := 0; i < count; i++ {
		idx := (start + i) % len(h.Time)
		t, ok := ParseTime(h.Time[idx], loc)
		if !ok {
			continue
		}
		e := HourlyEntry{Time: t}
		e.Temperature = floatAt(h.Temperature2m, idx)
		e.WindSpeed = firstFloat(floatAt(h.WindSpeed10m, idx), floatAt(h.WindSpeed10mLegacy, idx))
		e.Humidity = firstFloat(floatAt(h.RelativeHumidity, idx), floatAt(h.RelativeHumidityLegacy, idx))
		e.Precipitation = floatAt(h.Precipitation, idx)
		e.PrecipitationPct = floatAt(h.PrecipitationProbability, idx)
		if idx < len(h.WeatherCode) {
			e.WeatherCode = h.WeatherCode[idx]
		} else if idx < len(h.WeatherCodeLegacy) {
			e.WeatherCode = h.WeatherCodeLegacy[idx]
		}
		entries = append(entries, e)
	}
	return entries
}

func floatAt(xs []float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	v := xs[i]
	return &v
}
