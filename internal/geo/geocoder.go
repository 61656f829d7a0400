package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
)

// Geocoder turns a free-text address into a coordinate. A nil result means
// "no match" and callers fall back to the device position.
type Geocoder interface {
	Resolve(ctx context.Context, addressLine, pincode string) *domain.Coordinate
}

// NominatimConfig configures the OpenStreetMap search client
type NominatimConfig struct {
	BaseURL       string
	Country       string
	UserAgent     string
	RatePerSecond float64
	Timeout       time.Duration
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder queries the public Nominatim /search endpoint
type NominatimGeocoder struct {
	cfg        NominatimConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatimGeocoder(cfg NominatimConfig) *NominatimGeocoder {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &NominatimGeocoder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Resolve never returns an error: transport failures, bad payloads and empty
// result sets all come back as nil.
func (g *NominatimGeocoder) Resolve(ctx context.Context, addressLine, pincode string) *domain.Coordinate {
	q := g.query(addressLine, pincode)
	logger.ExternalServiceCall("nominatim", "search", "q", q)

	coord, err := g.search(ctx, q)
	logger.ExternalServiceResult("nominatim", "search", err, "found", coord != nil)
	if err != nil {
		return nil
	}
	return coord
}

func (g *NominatimGeocoder) query(addressLine, pincode string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{addressLine, pincode, g.cfg.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (g *NominatimGeocoder) search(ctx context.Context, q string) (*domain.Coordinate, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")
	if g.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", g.cfg.UserAgent)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}
	return &domain.Coordinate{Lat: lat, Lng: lng}, nil
}
