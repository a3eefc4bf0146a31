package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avotins/laika-dashboard/internal/weather"
)

// Settings keys. They match the browser dashboard's storage keys so a
// migrated install keeps its saved city and unit.
const (
	keyCity     = "weather-city"
	keyUnit     = "weather-unit"
	keyLocation = "weather-location"
)

// Store is the durable key-value settings store backing the dashboard:
// last-selected city, unit preference and the best-effort location cache.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the settings database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping settings db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO settings(key, value, updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(raw), time.Now().UTC(),
	)
	return err
}

func (s *Store) get(key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, err
	}
	return true, nil
}

// City returns the last-selected city, if any.
func (s *Store) City() (weather.CitySelection, bool, error) {
	var c weather.CitySelection
	ok, err := s.get(keyCity, &c)
	return c, ok, err
}

// SaveCity persists the active city selection.
func (s *Store) SaveCity(c weather.CitySelection) error {
	return s.set(keyCity, c)
}

// Unit returns the persisted unit preference, if any.
func (s *Store) Unit() (weather.Unit, bool, error) {
	var u weather.Unit
	ok, err := s.get(keyUnit, &u)
	if ok && u != weather.UnitCelsius && u != weather.UnitFahrenheit {
		return weather.UnitCelsius, false, nil
	}
	return u, ok, err
}

// SaveUnit persists the unit preference.
func (s *Store) SaveUnit(u weather.Unit) error {
	return s.set(keyUnit, u)
}

// Location reads the cached location entry. A read failure is a miss; cache
// reads never block resolution.
func (s *Store) Location() (weather.ResolvedLocation, bool) {
	var loc weather.ResolvedLocation
	ok, err := s.get(keyLocation, &loc)
	if err != nil {
		log.Printf("ERROR: failed to read location cache: %v", err)
		return weather.ResolvedLocation{}, false
	}
	return loc, ok
}

// SaveLocation overwrites the single location-cache entry.
func (s *Store) SaveLocation(loc weather.ResolvedLocation) error {
	return s.set(keyLocation, loc)
}
