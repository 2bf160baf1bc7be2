package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/mtg-events/internal/event"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "MTG Event Planner/1.0 (github.com/pfrederiksen/mtg-events)"
	DefaultTimeout   = 10 * time.Second
)

// ErrUnexpectedStatus is returned by Lookup for any non-2xx response
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is a client for the Nominatim search API
type Client struct {
	baseURL      string
	userAgent    string
	countryCodes string
	httpClient   *http.Client
}

// NewClient creates a Nominatim client. Empty arguments use the defaults;
// countryCodes restricts results, e.g. "us".
func NewClient(baseURL, userAgent, countryCodes string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:      baseURL,
		userAgent:    userAgent,
		countryCodes: countryCodes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// place is one element of the search response; coordinates arrive as strings
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup searches for query and returns the first result's coordinates.
// It returns nil, nil when the service has no result.
func (c *Client) Lookup(ctx context.Context, query string) (*event.Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing lat %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing lon %q: %w", places[0].Lon, err)
	}
	return &event.Coordinates{Lat: lat, Lng: lng}, nil
}
