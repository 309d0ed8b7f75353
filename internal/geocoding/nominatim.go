package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"golang.org/x/time/rate"
)

const (
	// NominatimBaseURL is the public OpenStreetMap search endpoint.
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	// NominatimUserAgent identifies the locator map to Nominatim, as its usage policy requires.
	NominatimUserAgent = "Circular Shipping Company Map"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// Every address is looked up with a single query and the first candidate wins.
type NominatimProvider struct {
	client    HTTPClient    // HTTP client for making requests
	baseURL   string        // Base URL for the Nominatim API
	userAgent string        // userAgent is required by Nominatim usage policy
	log       *slog.Logger  // Logger for logging operations
	limiter   *rate.Limiter // Optional client-side limiter, nil disables it
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents one candidate in the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NominatimOption customises a NominatimProvider.
type NominatimOption func(*NominatimProvider)

// WithBaseURL points the provider at another Nominatim instance.
func WithBaseURL(baseURL string) NominatimOption {
	return func(np *NominatimProvider) {
		np.baseURL = baseURL
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond int) NominatimOption {
	return func(np *NominatimProvider) {
		if perSecond <= 0 {
			np.limiter = nil
			return
		}
		np.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
}

// NewNominatimProvider creates a new Nominatim geocoding provider.
// Uses the public Nominatim API endpoint by default.
func NewNominatimProvider(log *slog.Logger, opts ...NominatimOption) *NominatimProvider {
	const timeout = 10
	client := &http.Client{
		Timeout: timeout * time.Second,
	}

	return NewNominatimProviderWithClient(client, log, opts...)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, log *slog.Logger, opts ...NominatimOption) *NominatimProvider {
	np := &NominatimProvider{
		client:    client,
		baseURL:   NominatimBaseURL,
		userAgent: NominatimUserAgent,
		log:       log,
	}
	for _, opt := range opts {
		opt(np)
	}

	return np
}

// Geocode converts an address to geographic coordinates using the Nominatim API.
// It issues exactly one request; an empty result yields ErrNominatimEmptyResponse.
func (np *NominatimProvider) Geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	if np.limiter != nil {
		if err := np.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("format", "json")
	query.Set("q", address)
	query.Set("limit", "1")
	query.Set("addressdetails", "0")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.WarnContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.DebugContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	np.log.DebugContext(ctx, "Nominatim found result", "lat", results[0].Lat, "lon", results[0].Lon)

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	coords := &models.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: out of range: %s,%s", ErrNominatimInvalidCoords, results[0].Lat, results[0].Lon)
	}

	return coords, nil
}
