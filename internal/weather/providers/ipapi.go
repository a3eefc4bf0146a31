package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/avotins/laika-dashboard/internal/weather"
)

// IPClient resolves an approximate position from the caller's IP address.
// It is the last rung of the location fallback chain; a circuit breaker keeps
// a dead lookup service from stalling every startup for the full timeout.
type IPClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewIPClient(client *http.Client, lookupURL string, timeout time.Duration) *IPClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ip-geolocation",
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &IPClient{
		url:     lookupURL,
		timeout: timeout,
		client:  client,
		circuit: cb,
	}
}

type ipLookupResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	CountryName string  `json:"country_name"`
}

// Locate performs one bounded-timeout lookup and tags the result source=ip.
func (c *IPClient) Locate(ctx context.Context) (weather.ResolvedLocation, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		var resp ipLookupResponse
		if err := getJSON(ctx, c.client, c.timeout, c.url, &resp); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return weather.ResolvedLocation{}, fmt.Errorf("%w: %v", weather.ErrLocationUnavailable, err)
	}

	resp := result.(ipLookupResponse)
	loc := weather.ResolvedLocation{
		Coordinate: weather.Coordinate{Latitude: resp.Latitude, Longitude: resp.Longitude},
		City:       resp.City,
		Country:    resp.CountryName,
		Source:     weather.SourceIP,
		ResolvedAt: time.Now().UTC(),
	}
	if !loc.Valid() {
		return weather.ResolvedLocation{}, weather.ErrLocationUnavailable
	}
	return loc, nil
}
