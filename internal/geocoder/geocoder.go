// Package geocoder resolves addresses and postal codes to coordinates.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/devcamper/devcamper-api/internal/config"
)

var ErrNoResults = errors.New("geocoder: no results")

// Location is one geocoding match.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	StateCode        string  `json:"stateCode"`
	Zipcode          string  `json:"zipcode"`
	CountryCode      string  `json:"countryCode"`
}

// Geocoder is the narrow interface the services depend on.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Location, error)
}

// First returns the best match for address, or ErrNoResults.
func First(ctx context.Context, g Geocoder, address string) (Location, error) {
	locs, err := g.Geocode(ctx, address)
	if err != nil {
		return Location{}, err
	}
	if len(locs) == 0 {
		return Location{}, ErrNoResults
	}
	return locs[0], nil
}

// New builds the configured provider, wrapped in a Redis cache when a
// client is given.
func New(cfg config.GeocoderConfig, rdb *redis.Client) (Geocoder, error) {
	var g Geocoder
	switch cfg.Provider {
	case "mapquest":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEOCODER_API_KEY is required for provider %q", cfg.Provider)
		}
		g = NewMapQuest(cfg.URL, cfg.APIKey, nil)
	case "static":
		g = NewStatic(nil)
	default:
		return nil, fmt.Errorf("unsupported geocoder provider %q", cfg.Provider)
	}
	if rdb != nil {
		g = NewRedisCache(rdb, cfg.CacheTTL, g)
	}
	return g, nil
}

// Static answers from a fixed table. Lookups are case-insensitive.
type Static struct {
	mu      sync.RWMutex
	entries map[string]Location
}

func NewStatic(entries map[string]Location) *Static {
	s := &Static{entries: map[string]Location{}}
	for k, v := range entries {
		s.entries[normalize(k)] = v
	}
	return s
}

// Add registers or replaces an entry.
func (s *Static) Add(address string, loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[normalize(address)] = loc
}

func (s *Static) Geocode(ctx context.Context, address string) ([]Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if loc, ok := s.entries[normalize(address)]; ok {
		return []Location{loc}, nil
	}
	return nil, nil
}

func normalize(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
