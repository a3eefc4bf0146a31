package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/avotins/laika-dashboard/internal/config"
	"github.com/avotins/laika-dashboard/internal/location"
	"github.com/avotins/laika-dashboard/internal/weather"
)

// ErrSuperseded is returned when a completed load or search is no longer the
// latest one and its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// ForecastFetcher fetches the raw payload for a coordinate.
type ForecastFetcher interface {
	Fetch(ctx context.Context, coord weather.Coordinate) (*weather.ForecastPayload, error)
	PastDays() int
}

// CitySearcher searches city names.
type CitySearcher interface {
	Search(ctx context.Context, query string) ([]weather.CitySelection, error)
}

// LocationResolver resolves the user's best-effort position.
type LocationResolver interface {
	Resolve(ctx context.Context) (location.Result, error)
}

// Settings is the durable settings surface the service needs.
type Settings interface {
	City() (weather.CitySelection, bool, error)
	SaveCity(c weather.CitySelection) error
	Unit() (weather.Unit, bool, error)
	SaveUnit(u weather.Unit) error
}

// State is the dashboard's explicit application state. It is replaced as a
// whole by completed loads; the generation number identifies which load
// produced it.
type State struct {
	Generation int64                    `json:"generation"`
	City       weather.CitySelection    `json:"city"`
	Unit       weather.Unit             `json:"unit"`
	Payload    *weather.ForecastPayload `json:"-"`
	Current    weather.CurrentReading   `json:"current"`
	Sun        *weather.SunProgress     `json:"sun,omitempty"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// Service owns the application state and runs the load pipeline: resolve or
// pick a city, fetch the forecast, normalize, publish. Updates happen only
// from completed loads whose generation is still the latest, so a stale
// response can never overwrite fresher data.
type Service struct {
	cfg      *config.AppConfig
	settings Settings
	resolver LocationResolver
	forecast ForecastFetcher
	geocoder CitySearcher
	limiter  *rate.Limiter

	gen       atomic.Int64
	searchGen atomic.Int64

	mu    sync.RWMutex
	state State

	now func() time.Time
}

func NewService(cfg *config.AppConfig, settings Settings, resolver LocationResolver, forecast ForecastFetcher, geocoder CitySearcher) *Service {
	return &Service{
		cfg:      cfg,
		settings: settings,
		resolver: resolver,
		forecast: forecast,
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(cfg.SearchRatePerSec), cfg.SearchBurst),
		now:      time.Now,
	}
}

// Bootstrap restores the unit preference and loads weather for the best
// available location: auto-detected position inside Latvia, else the saved
// city, else Rīga. It never fails the process; a failed load leaves a
// retryable state behind.
func (s *Service) Bootstrap(ctx context.Context) error {
	unit := weather.UnitCelsius
	if saved, ok, err := s.settings.Unit(); err != nil {
		log.Printf("ERROR: failed to read unit preference: %v", err)
	} else if ok {
		unit = saved
	}
	s.mu.Lock()
	s.state.Unit = unit
	s.mu.Unlock()

	if city, ok := s.detectCity(ctx); ok {
		if _, err := s.LoadCity(ctx, city); err == nil {
			return nil
		} else {
			log.Printf("ERROR: initial load for detected location failed: %v", err)
		}
	}

	city := s.cfg.DefaultCity
	if saved, ok, err := s.settings.City(); err != nil {
		log.Printf("ERROR: failed to read saved city: %v", err)
	} else if ok {
		city = saved
	}
	if _, err := s.LoadCity(ctx, city); err != nil {
		return fmt.Errorf("initial load for %s: %w", city.Name, err)
	}
	return nil
}

// detectCity runs the location fallback chain and gates the result to the
// service region.
func (s *Service) detectCity(ctx context.Context) (weather.CitySelection, bool) {
	if s.resolver == nil {
		return weather.CitySelection{}, false
	}
	res, err := s.resolver.Resolve(ctx)
	if res.GPSAttempt != nil {
		log.Printf("INFO: GPS fallback reason: %s", location.FailureReason(res.GPSAttempt))
	}
	if err != nil {
		log.Printf("INFO: location resolution failed, using saved city: %v", err)
		return weather.CitySelection{}, false
	}
	if !s.cfg.Bounds.Contains(res.Location.Coordinate) {
		log.Printf("INFO: detected location %.4f,%.4f outside service region",
			res.Location.Latitude, res.Location.Longitude)
		return weather.CitySelection{}, false
	}

	name := "Jūsu atrašanās vieta"
	if res.Location.City != "" {
		name = res.Location.City + " (jūsu atrašanās vieta)"
	}
	return weather.CitySelection{
		Name:      name,
		Latitude:  res.Location.Latitude,
		Longitude: res.Location.Longitude,
		Country:   res.Location.Country,
	}, true
}

// LoadCity runs the pipeline for a city. The load is tagged with a fresh
// generation; if a newer load starts before this one completes, the completed
// result is discarded and ErrSuperseded returned alongside the latest state.
func (s *Service) LoadCity(ctx context.Context, city weather.CitySelection) (State, error) {
	gen := s.gen.Add(1)

	payload, err := s.forecast.Fetch(ctx, city.Coordinate())
	if err != nil {
		return s.State(), err
	}

	now := s.now()
	current := weather.NormalizeCurrent(payload, now, s.cfg.Location)

	var sun *weather.SunProgress
	if payload.HasDaily() {
		if p, err := weather.ComputeSunProgress(payload.Daily, now, s.cfg.Location, s.forecast.PastDays()); err == nil {
			sun = &p
		}
	}

	s.mu.Lock()
	if gen != s.gen.Load() {
		s.mu.Unlock()
		log.Printf("DEBUG: discarding stale load %d for %s", gen, city.Name)
		return s.State(), ErrSuperseded
	}
	s.state.Generation = gen
	s.state.City = city
	s.state.Payload = payload
	s.state.Current = current
	s.state.Sun = sun
	s.state.UpdatedAt = now
	st := s.state
	s.mu.Unlock()

	if err := s.settings.SaveCity(city); err != nil {
		log.Printf("ERROR: failed to persist city selection: %v", err)
	}
	return st, nil
}

// Refresh re-runs the full pipeline for the current city.
func (s *Service) Refresh(ctx context.Context) (State, error) {
	s.mu.RLock()
	city := s.state.City
	s.mu.RUnlock()
	if city.Name == "" {
		city = s.cfg.DefaultCity
	}
	return s.LoadCity(ctx, city)
}

// RecomputeSun refreshes the sun-position progress from the held payload.
// Called periodically so the indicator moves without refetching.
func (s *Service) RecomputeSun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Payload == nil || !s.state.Payload.HasDaily() {
		return
	}
	p, err := weather.ComputeSunProgress(s.state.Payload.Daily, s.now(), s.cfg.Location, s.forecast.PastDays())
	if err != nil {
		return
	}
	s.state.Sun = &p
}

// SetUnit updates and persists the display unit preference.
func (s *Service) SetUnit(u weather.Unit) error {
	if u != weather.UnitCelsius && u != weather.UnitFahrenheit {
		return fmt.Errorf("unknown unit %q", u)
	}
	if err := s.settings.SaveUnit(u); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Unit = u
	s.mu.Unlock()
	return nil
}

// Search runs a debounced, rate-limited city search. The debounce delay is
// explicit configuration, and a query superseded during the delay aborts
// before any network call.
func (s *Service) Search(ctx context.Context, query string) ([]weather.CitySelection, error) {
	gen := s.searchGen.Add(1)

	if err := s.wait(ctx, s.cfg.SearchDebounce); err != nil {
		return nil, err
	}
	if gen != s.searchGen.Load() {
		return nil, ErrSuperseded
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search rate limit wait canceled: %w", err)
	}
	return s.geocoder.Search(ctx, query)
}

// State returns a copy of the current application state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// QuickPicks returns the configured quick-pick cities.
func (s *Service) QuickPicks() []weather.CitySelection {
	return s.cfg.QuickPicks
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
