package location

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/avotins/laika-dashboard/internal/weather"
)

// PermissionState mirrors the platform's location-permission query result.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionPrompt  PermissionState = "prompt"
	PermissionDenied  PermissionState = "denied"
)

// Permissions is the optional platform capability for querying location
// permission without prompting. A nil Permissions means the capability does
// not exist and the GPS attempt proceeds.
type Permissions interface {
	State(ctx context.Context) PermissionState
}

// Position is a single GPS fix.
type Position struct {
	weather.Coordinate
	AccuracyM float64
	At        time.Time
}

// Options configure a position request.
type Options struct {
	Timeout      time.Duration
	HighAccuracy bool
	MaxAge       time.Duration
}

// PositionProvider is the platform geolocation capability. Implementations
// report failures with errors wrapping ErrLocationPermissionDenied,
// ErrLocationUnavailable or ErrLocationTimeout so the distinct reason stays
// inspectable. The provider enforces its own timeout.
type PositionProvider interface {
	Position(ctx context.Context, opts Options) (Position, error)
}

// IPLocator is the IP-geolocation fallback.
type IPLocator interface {
	Locate(ctx context.Context) (weather.ResolvedLocation, error)
}

// Cache is the durable single-entry location cache. Get never blocks on the
// resolver's behalf; a failed read is just a miss.
type Cache interface {
	Location() (weather.ResolvedLocation, bool)
	SaveLocation(loc weather.ResolvedLocation) error
}

// Resolver finds a best-effort position through the ordered fallback chain
// cache → GPS → IP, short-circuiting on the first success.
type Resolver struct {
	cache   Cache
	gps     PositionProvider
	perms   Permissions
	ip      IPLocator
	maxAge  time.Duration
	gpsOpts Options
	now     func() time.Time
}

// Config bundles the resolver collaborators. GPS and Permissions may be nil
// when the platform offers no geolocation capability.
type Config struct {
	Cache       Cache
	GPS         PositionProvider
	Permissions Permissions
	IP          IPLocator
	CacheMaxAge time.Duration
	GPSOptions  Options
}

func NewResolver(cfg Config) *Resolver {
	maxAge := cfg.CacheMaxAge
	if maxAge <= 0 {
		maxAge = 2 * time.Hour
	}
	opts := cfg.GPSOptions
	if opts.Timeout <= 0 {
		opts = Options{Timeout: 15 * time.Second, HighAccuracy: true, MaxAge: 5 * time.Minute}
	}
	return &Resolver{
		cache:   cfg.Cache,
		gps:     cfg.GPS,
		perms:   cfg.Permissions,
		ip:      cfg.IP,
		maxAge:  maxAge,
		gpsOpts: opts,
		now:     time.Now,
	}
}

// Result is a resolution outcome. GPSAttempt records the GPS-layer failure,
// if any, even when a later fallback succeeded; the resolver itself swallows
// it, but callers can still log the distinct reason.
type Result struct {
	Location   weather.ResolvedLocation
	GPSAttempt error
}

// Resolve walks the fallback chain and fails only when every rung fails.
// Every successful GPS or IP fix overwrites the cache entry.
func (r *Resolver) Resolve(ctx context.Context) (Result, error) {
	var res Result

	if r.cache != nil {
		if cached, ok := r.cache.Location(); ok {
			if r.now().Sub(cached.ResolvedAt) <= r.maxAge && cached.Valid() {
				cached.Source = weather.SourceCache
				res.Location = cached
				return res, nil
			}
		}
	}

	if r.gps != nil && r.permissionAllowsGPS(ctx) {
		pos, err := r.gps.Position(ctx, r.gpsOpts)
		if err == nil && pos.Valid() {
			loc := weather.ResolvedLocation{
				Coordinate: pos.Coordinate,
				AccuracyM:  pos.AccuracyM,
				Source:     weather.SourceGPS,
				ResolvedAt: r.now().UTC(),
			}
			r.persist(loc)
			res.Location = loc
			return res, nil
		}
		if err == nil {
			err = weather.ErrLocationUnavailable
		}
		// Swallow and fall through to IP, keeping the reason inspectable.
		res.GPSAttempt = err
		log.Printf("INFO: GPS attempt failed: %s", FailureReason(err))
	}

	if r.ip == nil {
		return res, weather.ErrLocationUnavailable
	}
	loc, err := r.ip.Locate(ctx)
	if err != nil {
		return res, err
	}
	r.persist(loc)
	res.Location = loc
	return res, nil
}

func (r *Resolver) permissionAllowsGPS(ctx context.Context) bool {
	if r.perms == nil {
		return true
	}
	return r.perms.State(ctx) != PermissionDenied
}

func (r *Resolver) persist(loc weather.ResolvedLocation) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SaveLocation(loc); err != nil {
		log.Printf("ERROR: failed to persist location cache: %v", err)
	}
}

// FailureReason maps a GPS-layer error to its human-readable Latvian reason.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, weather.ErrLocationPermissionDenied):
		return weather.ErrLocationPermissionDenied.Error()
	case errors.Is(err, weather.ErrLocationTimeout):
		return weather.ErrLocationTimeout.Error()
	case errors.Is(err, weather.ErrLocationUnavailable):
		return weather.ErrLocationUnavailable.Error()
	default:
		return "nezināma kļūda atrašanās vietas noteikšanā"
	}
}
