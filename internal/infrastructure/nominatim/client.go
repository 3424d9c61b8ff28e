package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/place-directory/internal/config"
	"github.com/place-directory/internal/domain"
	"github.com/place-directory/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	email      string
	logger     *zap.Logger
}

// NewClient creates a geocoding client for the Nominatim search API.
// UserAgent and email identify the application per the provider's usage
// policy.
func NewClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		email:     cfg.ContactEmail,
		logger:    logger,
	}
}

// searchResult is one entry of the provider's jsonv2 search response.
// Coordinates arrive as strings.
type searchResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Geocode resolves the full address string to its single best match.
// Returns (nil, nil) when the provider finds nothing.
func (c *client) Geocode(ctx context.Context, fullAddress string) (*domain.GeocodeResult, error) {
	params := url.Values{}
	params.Set("q", fullAddress)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if c.email != "" {
		params.Set("email", c.email)
	}

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	c.logger.Debug("Calling geocoding provider",
		zap.String("query", fullAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Geocoding provider returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("geocoder error: status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 {
		c.logger.Debug("Geocoding provider found no match",
			zap.String("query", fullAddress))
		return nil, nil
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in response: %w", err)
	}

	c.logger.Debug("Geocoding provider match",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("postcode", best.Address.Postcode))

	return &domain.GeocodeResult{
		Latitude:   lat,
		Longitude:  lon,
		PostalCode: best.Address.Postcode,
	}, nil
}
