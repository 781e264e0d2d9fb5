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
	"strings"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/models"
	"golang.org/x/time/rate"
)

// Nominatim defaults. The public instance allows one request per second and requires
// an identifying User-Agent.
const (
	NominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	NominatimUserAgent = "Hazardmap/1.0 (https://github.com/UnknownOlympus/hazardmap)"

	nominatimTimeout = 10 * time.Second
	// minFallbackParts keeps fallbacks from collapsing to a country-level match.
	minFallbackParts = 2
)

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = fmt.Errorf("%w: nominatim API returned empty response", ErrNoResults)
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimOptions tunes a NominatimProvider. Zero values fall back to the defaults.
type NominatimOptions struct {
	BaseURL      string
	UserAgent    string
	Language     string        // accept-language, e.g. "en"
	CountryCodes string        // comma separated ISO 3166-1 alpha-2 filter, e.g. "np"
	Limiter      *rate.Limiter // defaults to 1 request per second
}

// NominatimProvider geocodes with OpenStreetMap's Nominatim search API.
type NominatimProvider struct {
	client  HTTPClient
	opts    NominatimOptions
	limiter *rate.Limiter
	log     *slog.Logger
}

type nominatimResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimProvider creates a provider backed by a plain HTTP client.
func NewNominatimProvider(opts NominatimOptions, log *slog.Logger) *NominatimProvider {
	return NewNominatimProviderWithClient(&http.Client{Timeout: nominatimTimeout}, opts, log)
}

// NewNominatimProviderWithClient creates a provider with a custom HTTP client.
func NewNominatimProviderWithClient(client HTTPClient, opts NominatimOptions, log *slog.Logger) *NominatimProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = NominatimBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = NominatimUserAgent
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}

	return &NominatimProvider{client: client, opts: opts, limiter: limiter, log: log}
}

// Geocode resolves query, retrying with less specific variants when Nominatim has no match.
// "Lakeside Road 4, Baidam, Pokhara, Nepal" is tried as given, then without its leading
// components down to "Pokhara, Nepal".
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	variants := queryFallbacks(query)
	for level, variant := range variants {
		coords, err := np.search(ctx, variant)
		if err == nil {
			if level > 0 {
				np.log.InfoContext(ctx, "Geocoded using fallback query",
					"original", query, "fallback", variant, "fallback_level", level)
			}
			return coords, nil
		}
		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return nil, err
		}
		np.log.DebugContext(ctx, "Query variant returned no results", "variant", variant, "fallback_level", level)
	}

	np.log.WarnContext(ctx, "All query fallbacks exhausted", "query", query, "variants_tried", len(variants))
	return nil, ErrNominatimEmptyResponse
}

// queryFallbacks lists query followed by suffixes that drop leading comma separated parts.
func queryFallbacks(query string) []string {
	query = strings.TrimSpace(query)
	parts := strings.Split(query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	variants := []string{query}
	for start := 1; len(parts)-start >= minFallbackParts; start++ {
		variants = append(variants, strings.Join(parts[start:], ", "))
	}

	return variants
}

func (np *NominatimProvider) search(ctx context.Context, query string) (*models.Coordinates, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL, err := url.Parse(np.opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", np.opts.Language)
	if np.opts.CountryCodes != "" {
		params.Set("countrycodes", np.opts.CountryCodes)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err = json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
