package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/avotins/laika-dashboard/internal/weather"
)

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether the coordinate lies inside the box.
func (b Bounds) Contains(c weather.Coordinate) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}

// LatviaBounds gates auto-detected locations: outside it the dashboard falls
// back to the saved or default city.
var LatviaBounds = Bounds{MinLat: 55.5, MaxLat: 58.1, MinLon: 20.5, MaxLon: 28.3}

// DefaultCity is Rīga.
var DefaultCity = weather.CitySelection{
	Name:      "Rīga",
	Latitude:  56.9496,
	Longitude: 24.1052,
	Country:   "Latvia",
	Admin1:    "Rīga",
}

// defaultQuickPicks are the popular Latvian cities offered without searching.
var defaultQuickPicks = []weather.CitySelection{
	{Name: "Rīga", Latitude: 56.9496, Longitude: 24.1052},
	{Name: "Liepāja", Latitude: 56.5053, Longitude: 21.0107},
	{Name: "Ventspils", Latitude: 57.3894, Longitude: 21.5644},
	{Name: "Jelgava", Latitude: 56.65, Longitude: 23.7294},
	{Name: "Jūrmala", Latitude: 56.9681, Longitude: 23.7794},
}

type AppConfig struct {
	Port   string
	DBPath string

	ForecastURL  string
	GeocodingURL string
	IPLookupURL  string

	// One timeout guards every outbound fetch; there is no retry policy.
	HTTPTimeout time.Duration

	Timezone    string
	Location    *time.Location
	Language    string
	CountryCode string

	ForecastDays int
	PastDays     int

	LocationCacheMaxAge time.Duration
	GPSTimeout          time.Duration
	GPSMaxAge           time.Duration

	SearchDebounce   time.Duration
	SearchRatePerSec float64
	SearchBurst      int

	RefreshInterval    time.Duration
	SunRefreshInterval time.Duration

	DefaultCity weather.CitySelection
	QuickPicks  []weather.CitySelection
	Bounds      Bounds
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:   getenvDefault("PORT", "8080"),
		DBPath: getenvDefault("DB_PATH", "laika-dashboard.db"),

		ForecastURL:  getenvDefault("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		GeocodingURL: getenvDefault("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		IPLookupURL:  getenvDefault("IP_LOOKUP_URL", "https://ipapi.co/json/"),

		Timezone:    getenvDefault("TIMEZONE", "Europe/Riga"),
		Language:    getenvDefault("GEOCODING_LANGUAGE", "lv"),
		CountryCode: getenvDefault("GEOCODING_COUNTRY", "LV"),

		ForecastDays: getenvInt("FORECAST_DAYS", 7),
		PastDays:     getenvInt("PAST_DAYS", 1),

		SearchRatePerSec: 2,
		SearchBurst:      3,

		DefaultCity: DefaultCity,
		Bounds:      LatviaBounds,
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.LocationCacheMaxAge, err = getenvDuration("LOCATION_CACHE_MAX_AGE", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.GPSTimeout, err = getenvDuration("GPS_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.GPSMaxAge, err = getenvDuration("GPS_MAX_AGE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getenvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SunRefreshInterval, err = getenvDuration("SUN_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.PastDays < 0 || cfg.PastDays > 1 {
		return nil, fmt.Errorf("PAST_DAYS must be 0 or 1, got %d", cfg.PastDays)
	}

	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.QuickPicks, err = loadQuickPicks(os.Getenv("CITIES_FILE"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadQuickPicks reads the quick-pick city list from a YAML file, falling
// back to the built-in Latvian cities when no file is configured.
func loadQuickPicks(path string) ([]weather.CitySelection, error) {
	if path == "" {
		return defaultQuickPicks, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cities file: %w", err)
	}
	var doc struct {
		Cities []weather.CitySelection `yaml:"cities"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse cities file: %w", err)
	}
	if len(doc.Cities) == 0 {
		return defaultQuickPicks, nil
	}
	return doc.Cities, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
