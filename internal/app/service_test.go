package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avotins/laika-dashboard/internal/config"
	"github.com/avotins/laika-dashboard/internal/location"
	"github.com/avotins/laika-dashboard/internal/weather"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Location:         time.UTC,
		DefaultCity:      config.DefaultCity,
		Bounds:           config.LatviaBounds,
		SearchRatePerSec: 1000,
		SearchBurst:      1000,
	}
}

func testPayload() *weather.ForecastPayload {
	temp := 4.5
	code := 61
	return &weather.ForecastPayload{
		CurrentWeather: &weather.CurrentBlock{
			Time:              "2024-06-09T12:00",
			Temperature:       &temp,
			WeatherCodeLegacy: &code,
		},
	}
}

type fakeFetcher struct {
	mu     sync.Mutex
	coords []weather.Coordinate
	err    error
	// onFetch, when set, runs inside Fetch before it returns.
	onFetch func()
}

func (f *fakeFetcher) Fetch(ctx context.Context, coord weather.Coordinate) (*weather.ForecastPayload, error) {
	f.mu.Lock()
	f.coords = append(f.coords, coord)
	hook := f.onFetch
	f.onFetch = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if f.err != nil {
		return nil, f.err
	}
	return testPayload(), nil
}

func (f *fakeFetcher) PastDays() int { return 1 }

type fakeSettings struct {
	unit    weather.Unit
	hasUnit bool
	city    weather.CitySelection
	hasCity bool

	savedCities []weather.CitySelection
	savedUnits  []weather.Unit
}

func (s *fakeSettings) Unit() (weather.Unit, bool, error) { return s.unit, s.hasUnit, nil }
func (s *fakeSettings) SaveUnit(u weather.Unit) error {
	s.savedUnits = append(s.savedUnits, u)
	s.unit, s.hasUnit = u, true
	return nil
}
func (s *fakeSettings) City() (weather.CitySelection, bool, error) { return s.city, s.hasCity, nil }
func (s *fakeSettings) SaveCity(c weather.CitySelection) error {
	s.savedCities = append(s.savedCities, c)
	s.city, s.hasCity = c, true
	return nil
}

type fakeResolver struct {
	result location.Result
	err    error
}

func (r *fakeResolver) Resolve(ctx context.Context) (location.Result, error) {
	return r.result, r.err
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]weather.CitySelection, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return []weather.CitySelection{{Name: query, Latitude: 56.9, Longitude: 24.1}}, nil
}

func TestLoadCityPublishesState(t *testing.T) {
	fetcher := &fakeFetcher{}
	settings := &fakeSettings{}
	svc := NewService(testConfig(), settings, nil, fetcher, nil)

	city := weather.CitySelection{Name: "Liepāja", Latitude: 56.5053, Longitude: 21.0107}
	st, err := svc.LoadCity(context.Background(), city)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.City.Name != "Liepāja" {
		t.Errorf("state city = %q, want Liepāja", st.City.Name)
	}
	if st.Current.Temperature == nil || *st.Current.Temperature != 4.5 {
		t.Errorf("unexpected normalized reading: %+v", st.Current)
	}
	if st.Current.WeatherCode != 61 {
		t.Errorf("weather code = %d, want 61", st.Current.WeatherCode)
	}
	if len(settings.savedCities) != 1 || settings.savedCities[0].Name != "Liepāja" {
		t.Errorf("expected city persisted once, got %v", settings.savedCities)
	}
	if got := svc.State(); got.Generation != st.Generation {
		t.Errorf("published generation %d, returned %d", got.Generation, st.Generation)
	}
}

// A load that completes after a newer load has started must not overwrite the
// newer result.
func TestLoadCityStaleResultDiscarded(t *testing.T) {
	fetcher := &fakeFetcher{}
	settings := &fakeSettings{}
	svc := NewService(testConfig(), settings, nil, fetcher, nil)

	newer := weather.CitySelection{Name: "Ventspils", Latitude: 57.3894, Longitude: 21.5644}
	fetcher.onFetch = func() {
		// Runs while the first load is in flight; the hook clears itself so
		// this inner load fetches without recursing.
		if _, err := svc.LoadCity(context.Background(), newer); err != nil {
			t.Errorf("inner load failed: %v", err)
		}
	}

	older := weather.CitySelection{Name: "Rīga", Latitude: 56.9496, Longitude: 24.1052}
	st, err := svc.LoadCity(context.Background(), older)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected superseded error, got %v", err)
	}
	if st.City.Name != "Ventspils" {
		t.Errorf("returned state city = %q, want the newer load's Ventspils", st.City.Name)
	}
	if got := svc.State(); got.City.Name != "Ventspils" {
		t.Errorf("published state city = %q, want Ventspils", got.City.Name)
	}
	// Only the winning load persists its city.
	if len(settings.savedCities) != 1 || settings.savedCities[0].Name != "Ventspils" {
		t.Errorf("saved cities = %v, want only Ventspils", settings.savedCities)
	}
}

func TestLoadCityFetchErrorKeepsState(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(testConfig(), &fakeSettings{}, nil, fetcher, nil)

	city := weather.CitySelection{Name: "Rīga", Latitude: 56.9496, Longitude: 24.1052}
	if _, err := svc.LoadCity(context.Background(), city); err != nil {
		t.Fatal(err)
	}

	fetcher.err = weather.ErrServiceUnavailable
	bad := weather.CitySelection{Name: "Jelgava", Latitude: 56.65, Longitude: 23.7294}
	st, err := svc.LoadCity(context.Background(), bad)
	if !errors.Is(err, weather.ErrServiceUnavailable) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if st.City.Name != "Rīga" {
		t.Errorf("failed load must leave previous state, got city %q", st.City.Name)
	}
}

func TestBootstrapUsesSavedCityWithoutResolver(t *testing.T) {
	fetcher := &fakeFetcher{}
	settings := &fakeSettings{
		city:    weather.CitySelection{Name: "Liepāja", Latitude: 56.5053, Longitude: 21.0107},
		hasCity: true,
		unit:    weather.UnitFahrenheit,
		hasUnit: true,
	}
	svc := NewService(testConfig(), settings, nil, fetcher, nil)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	st := svc.State()
	if st.City.Name != "Liepāja" {
		t.Errorf("city = %q, want saved Liepāja", st.City.Name)
	}
	if st.Unit != weather.UnitFahrenheit {
		t.Errorf("unit = %q, want restored F", st.Unit)
	}
}

func TestBootstrapPrefersDetectedLocation(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := &fakeResolver{
		result: location.Result{
			Location: weather.ResolvedLocation{
				Coordinate: weather.Coordinate{Latitude: 56.946, Longitude: 24.106},
				City:       "Riga",
				Source:     weather.SourceIP,
			},
		},
	}
	settings := &fakeSettings{
		city:    weather.CitySelection{Name: "Liepāja", Latitude: 56.5053, Longitude: 21.0107},
		hasCity: true,
	}
	svc := NewService(testConfig(), settings, resolver, fetcher, nil)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	st := svc.State()
	if st.City.Name != "Riga (jūsu atrašanās vieta)" {
		t.Errorf("city = %q, want detected-location name", st.City.Name)
	}
	if st.City.Latitude != 56.946 {
		t.Errorf("latitude = %v, want detected 56.946", st.City.Latitude)
	}
}

func TestBootstrapIgnoresLocationOutsideRegion(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := &fakeResolver{
		result: location.Result{
			Location: weather.ResolvedLocation{
				// Vilnius, south of the service region.
				Coordinate: weather.Coordinate{Latitude: 54.6872, Longitude: 25.2797},
				City:       "Vilnius",
				Source:     weather.SourceIP,
			},
		},
	}
	svc := NewService(testConfig(), &fakeSettings{}, resolver, fetcher, nil)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if got := svc.State().City.Name; got != "Rīga" {
		t.Errorf("city = %q, want default Rīga", got)
	}
}

func TestBootstrapResolverFailureFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := &fakeResolver{err: weather.ErrLocationUnavailable}
	svc := NewService(testConfig(), &fakeSettings{}, resolver, fetcher, nil)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if got := svc.State().City.Name; got != "Rīga" {
		t.Errorf("city = %q, want default Rīga", got)
	}
}

func TestRefreshReloadsCurrentCity(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(testConfig(), &fakeSettings{}, nil, fetcher, nil)

	city := weather.CitySelection{Name: "Jūrmala", Latitude: 56.9681, Longitude: 23.7794}
	if _, err := svc.LoadCity(context.Background(), city); err != nil {
		t.Fatal(err)
	}
	st, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if st.City.Name != "Jūrmala" {
		t.Errorf("refresh city = %q, want Jūrmala", st.City.Name)
	}
	if len(fetcher.coords) != 2 || fetcher.coords[1] != city.Coordinate() {
		t.Errorf("expected second fetch for same coordinate, got %v", fetcher.coords)
	}
}

func TestSetUnit(t *testing.T) {
	settings := &fakeSettings{}
	svc := NewService(testConfig(), settings, nil, &fakeFetcher{}, nil)

	if err := svc.SetUnit("K"); err == nil {
		t.Error("expected error for unknown unit")
	}
	if err := svc.SetUnit(weather.UnitFahrenheit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.State().Unit != weather.UnitFahrenheit {
		t.Errorf("state unit = %q, want F", svc.State().Unit)
	}
	if len(settings.savedUnits) != 1 || settings.savedUnits[0] != weather.UnitFahrenheit {
		t.Errorf("saved units = %v, want [F]", settings.savedUnits)
	}
}

func TestSearchDelegates(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewService(testConfig(), &fakeSettings{}, nil, &fakeFetcher{}, searcher)

	cities, err := svc.Search(context.Background(), "Liep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 1 || cities[0].Name != "Liep" {
		t.Errorf("unexpected results: %v", cities)
	}
}

// A search superseded during its debounce window aborts without reaching the
// geocoder.
func TestSearchSupersededDuringDebounce(t *testing.T) {
	cfg := testConfig()
	cfg.SearchDebounce = 60 * time.Millisecond
	searcher := &fakeSearcher{}
	svc := NewService(cfg, &fakeSettings{}, nil, &fakeFetcher{}, searcher)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), "Rī")
		errc <- err
	}()
	time.Sleep(15 * time.Millisecond)

	cities, err := svc.Search(context.Background(), "Rīga")
	if err != nil {
		t.Fatalf("latest search failed: %v", err)
	}
	if len(cities) != 1 {
		t.Fatalf("expected one result, got %d", len(cities))
	}

	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected first search superseded, got %v", err)
	}
	searcher.mu.Lock()
	defer searcher.mu.Unlock()
	if len(searcher.queries) != 1 || searcher.queries[0] != "Rīga" {
		t.Errorf("geocoder saw %v, want only the latest query", searcher.queries)
	}
}

func TestSearchCanceledContext(t *testing.T) {
	cfg := testConfig()
	cfg.SearchDebounce = time.Minute
	svc := NewService(cfg, &fakeSettings{}, nil, &fakeFetcher{}, &fakeSearcher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Search(ctx, "Rīga"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got %v", err)
	}
}

func TestRecomputeSunWithoutPayload(t *testing.T) {
	svc := NewService(testConfig(), &fakeSettings{}, nil, &fakeFetcher{}, nil)
	// Must be a no-op before the first load.
	svc.RecomputeSun()
	if svc.State().Sun != nil {
		t.Error("expected no sun progress before any payload")
	}
}
