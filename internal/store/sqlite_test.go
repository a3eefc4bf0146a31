package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/avotins/laika-dashboard/internal/weather"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCityRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.City(); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	city := weather.CitySelection{
		Name:      "Liepāja",
		Latitude:  56.5053,
		Longitude: 21.0107,
		Country:   "Latvia",
		Admin1:    "Liepāja",
	}
	if err := s.SaveCity(city); err != nil {
		t.Fatalf("failed to save city: %v", err)
	}

	got, ok, err := s.City()
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != city {
		t.Errorf("got %+v, want %+v", got, city)
	}
}

func TestCityOverwrite(t *testing.T) {
	s := openTestStore(t)

	first := weather.CitySelection{Name: "Rīga", Latitude: 56.9496, Longitude: 24.1052}
	second := weather.CitySelection{Name: "Ventspils", Latitude: 57.3894, Longitude: 21.5606}
	if err := s.SaveCity(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCity(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.City()
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "Ventspils" {
		t.Errorf("expected latest save to win, got %+v", got)
	}
}

func TestUnitRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Unit(); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := s.SaveUnit(weather.UnitFahrenheit); err != nil {
		t.Fatalf("failed to save unit: %v", err)
	}
	u, ok, err := s.Unit()
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if u != weather.UnitFahrenheit {
		t.Errorf("got %q, want %q", u, weather.UnitFahrenheit)
	}
}

// A corrupt or foreign unit value reads as a miss, not an error.
func TestUnitRejectsUnknownValue(t *testing.T) {
	s := openTestStore(t)

	if err := s.set(keyUnit, "K"); err != nil {
		t.Fatal(err)
	}
	u, ok, err := s.Unit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected unknown unit to read as a miss")
	}
	if u != weather.UnitCelsius {
		t.Errorf("expected celsius default, got %q", u)
	}
}

func TestLocationRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.Location(); ok {
		t.Fatal("expected miss on empty store")
	}

	loc := weather.ResolvedLocation{
		Coordinate: weather.Coordinate{Latitude: 56.9496, Longitude: 24.1052},
		City:       "Riga",
		Country:    "Latvia",
		Source:     weather.SourceGPS,
		ResolvedAt: time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC),
	}
	if err := s.SaveLocation(loc); err != nil {
		t.Fatalf("failed to save location: %v", err)
	}

	got, ok := s.Location()
	if !ok {
		t.Fatal("expected hit after save")
	}
	if got.Source != weather.SourceGPS || got.Latitude != 56.9496 {
		t.Errorf("got %+v, want %+v", got, loc)
	}
	if !got.ResolvedAt.Equal(loc.ResolvedAt) {
		t.Errorf("resolved_at mismatch: got %v, want %v", got.ResolvedAt, loc.ResolvedAt)
	}
}
