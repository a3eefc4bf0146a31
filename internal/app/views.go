package app

import (
	"github.com/avotins/laika-dashboard/internal/weather"
)

// DailyForward returns the 7-day forward view: when the fetch included a
// trailing past day, index 0 (yesterday) is sliced off uniformly. The full
// offset-inclusive block stays in the payload for sun-path computation.
func (s *Service) DailyForward() (*weather.DailyBlock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Payload == nil || !s.state.Payload.HasDaily() {
		return nil, false
	}
	return weather.SliceDaily(s.state.Payload.Daily, s.forecast.PastDays()), true
}

// NextHours returns up to count hourly entries starting at the slot nearest
// the current observation time.
func (s *Service) NextHours(count int) []weather.HourlyEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Payload == nil {
		return nil
	}
	return weather.NextHours(s.state.Payload.Hourly, s.state.Current.ObservedAt, s.cfg.Location, count)
}
