package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avotins/laika-dashboard/internal/weather"
)

const maxSearchResults = 10

// GeocodingClient searches city names against the Open-Meteo geocoding API,
// constrained to one country and locale.
type GeocodingClient struct {
	baseURL     string
	language    string
	countryCode string
	timeout     time.Duration
	client      *http.Client
}

func NewGeocodingClient(client *http.Client, baseURL, language, countryCode string, timeout time.Duration) *GeocodingClient {
	return &GeocodingClient{
		baseURL:     baseURL,
		language:    language,
		countryCode: countryCode,
		timeout:     timeout,
		client:      client,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

// Search returns candidate cities in provider order. A trimmed query of one
// character or less yields an empty result without a network call. Any
// transport or status failure maps to the single generic search error.
func (c *GeocodingClient) Search(ctx context.Context, query string) ([]weather.CitySelection, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) <= 1 {
		return nil, nil
	}

	values := url.Values{}
	values.Set("name", query)
	values.Set("count", strconv.Itoa(maxSearchResults))
	values.Set("language", c.language)
	values.Set("format", "json")
	values.Set("country_code", c.countryCode)

	var resp geocodingResponse
	if err := getJSON(ctx, c.client, c.timeout, c.baseURL+"?"+values.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrSearchFailed, err)
	}

	cities := make([]weather.CitySelection, 0, len(resp.Results))
	for _, r := range resp.Results {
		cities = append(cities, weather.CitySelection{
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Country:   r.Country,
			Admin1:    r.Admin1,
		})
	}
	return cities, nil
}
