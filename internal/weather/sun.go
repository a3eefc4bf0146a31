package weather

import (
	"fmt"
	"time"
)

// SunMode says which interval the progress indicator is traversing.
type SunMode string

const (
	SunModeDay   SunMode = "day"
	SunModeNight SunMode = "night"
)

// SunProgress is the continuous sun/moon position along the current day or
// night interval. Progress is in [0,1]; minute precision is sufficient.
type SunProgress struct {
	Mode          SunMode       `json:"mode"`
	Progress      float64       `json:"progress"`
	IntervalStart time.Time     `json:"interval_start"`
	IntervalEnd   time.Time     `json:"interval_end"`
	Sunrise       time.Time     `json:"sunrise"`
	Sunset        time.Time     `json:"sunset"`
	DayLength     time.Duration `json:"day_length"`
}

// FormatDayLength renders a day length as "7h 42m".
func FormatDayLength(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// todayIndex matches the current calendar date (in the service timezone)
// against the daily time array, falling back to the past-day offset when no
// entry matches.
func todayIndex(d *DailyBlock, now time.Time, loc *time.Location, fallback int) int {
	today := now.In(loc).Format("2006-01-02")
	for i, s := range d.Time {
		if s == today {
			return i
		}
	}
	if fallback >= len(d.Time) {
		return 0
	}
	return fallback
}

// ComputeSunProgress locates today's sunrise/sunset bracket and returns the
// fractional progress of "now" through it. When the bracket is nighttime and
// the adjacent day's sun times are missing, night length is approximated from
// daylight_duration. pastDays is the number of leading past days in the daily
// block, used as the today-index fallback.
func ComputeSunProgress(d *DailyBlock, now time.Time, loc *time.Location, pastDays int) (SunProgress, error) {
	if d == nil || len(d.Time) == 0 || len(d.Sunrise) == 0 || len(d.Sunset) == 0 {
		return SunProgress{}, fmt.Errorf("sun path: %w", ErrDataUnavailable)
	}
	if loc == nil {
		loc = time.UTC
	}

	idx := todayIndex(d, now, loc, pastDays)

	sunrise, haveSunrise := parseSunTime(d.Sunrise, idx, loc)
	sunset, haveSunset := parseSunTime(d.Sunset, idx, loc)
	if !haveSunrise || !haveSunset {
		return SunProgress{}, fmt.Errorf("sun path: %w", ErrDataUnavailable)
	}
	sunriseNext, haveNext := parseSunTime(d.Sunrise, idx+1, loc)
	sunsetPrev, havePrev := parseSunTime(d.Sunset, idx-1, loc)

	daylight := 12 * time.Hour
	if idx < len(d.DaylightDuration) && d.DaylightDuration[idx] > 0 {
		daylight = time.Duration(d.DaylightDuration[idx] * float64(time.Second))
	}
	night := 24*time.Hour - daylight

	p := SunProgress{
		Sunrise:   sunrise,
		Sunset:    sunset,
		DayLength: sunset.Sub(sunrise),
	}

	switch {
	case !now.Before(sunrise) && now.Before(sunset):
		p.Mode = SunModeDay
		p.IntervalStart = sunrise
		p.IntervalEnd = sunset
	case now.Before(sunrise):
		// Night ending at today's sunrise.
		p.Mode = SunModeNight
		p.IntervalEnd = sunrise
		if havePrev {
			p.IntervalStart = sunsetPrev
		} else {
			p.IntervalStart = sunrise.Add(-night)
		}
	default:
		// Night starting at today's sunset.
		p.Mode = SunModeNight
		p.IntervalStart = sunset
		if haveNext {
			p.IntervalEnd = sunriseNext
		} else {
			p.IntervalEnd = sunset.Add(night)
		}
	}

	total := p.IntervalEnd.Sub(p.IntervalStart)
	if total <= 0 {
		total = time.Minute
	}
	p.Progress = clamp01(float64(now.Sub(p.IntervalStart)) / float64(total))
	return p, nil
}

func parseSunTime(times []string, idx int, loc *time.Location) (time.Time, bool) {
	if idx < 0 || idx >= len(times) {
		return time.Time{}, false
	}
	return ParseTime(times[idx], loc)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
