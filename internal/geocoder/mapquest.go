package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devcamper/devcamper-api/pkg/metrics"
)

// MapQuest calls the MapQuest geocoding v1 address endpoint.
type MapQuest struct {
	endpoint string
	key      string
	client   *http.Client
}

func NewMapQuest(endpoint, key string, client *http.Client) *MapQuest {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MapQuest{endpoint: endpoint, key: key, client: client}
}

type mapquestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			AdminArea5 string `json:"adminArea5"`
			AdminArea3 string `json:"adminArea3"`
			AdminArea1 string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (m *MapQuest) Geocode(ctx context.Context, address string) ([]Location, error) {
	q := url.Values{}
	q.Set("key", m.key)
	q.Set("location", address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("provider", "error").Inc()
		return nil, fmt.Errorf("mapquest request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.GeocodeLookups.WithLabelValues("provider", "error").Inc()
		return nil, fmt.Errorf("mapquest returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var mr mapquestResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("mapquest decode: %w", err)
	}
	if mr.Info.StatusCode != 0 {
		metrics.GeocodeLookups.WithLabelValues("provider", "error").Inc()
		return nil, fmt.Errorf("mapquest status %d: %s", mr.Info.StatusCode, strings.Join(mr.Info.Messages, "; "))
	}

	var out []Location
	for _, r := range mr.Results {
		for _, l := range r.Locations {
			parts := []string{}
			for _, p := range []string{l.Street, l.AdminArea5, strings.TrimSpace(l.AdminArea3 + " " + l.PostalCode), l.AdminArea1} {
				if p != "" {
					parts = append(parts, p)
				}
			}
			out = append(out, Location{
				Latitude:         l.LatLng.Lat,
				Longitude:        l.LatLng.Lng,
				FormattedAddress: strings.Join(parts, ", "),
				Street:           l.Street,
				City:             l.AdminArea5,
				StateCode:        l.AdminArea3,
				Zipcode:          l.PostalCode,
				CountryCode:      l.AdminArea1,
			})
		}
	}
	result := "hit"
	if len(out) == 0 {
		result = "miss"
	}
	metrics.GeocodeLookups.WithLabelValues("provider", result).Inc()
	return out, nil
}
