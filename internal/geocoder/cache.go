package geocoder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/metrics"
)

// RedisCache memoizes non-empty lookups of the wrapped geocoder.
// Cache errors degrade to a direct provider call.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	next   Geocoder
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration, next Geocoder) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, next: next, prefix: "geocode:"}
}

func (c *RedisCache) key(address string) string {
	return c.prefix + normalize(address)
}

func (c *RedisCache) Geocode(ctx context.Context, address string) ([]Location, error) {
	b, err := c.client.Get(ctx, c.key(address)).Bytes()
	switch {
	case err == nil:
		var locs []Location
		if jerr := json.Unmarshal(b, &locs); jerr == nil {
			metrics.GeocodeLookups.WithLabelValues("cache", "hit").Inc()
			return locs, nil
		}
	case err != redis.Nil:
		logger.Warnf("geocode cache read failed: %v", err)
	}
	metrics.GeocodeLookups.WithLabelValues("cache", "miss").Inc()

	locs, err := c.next.Geocode(ctx, address)
	if err != nil || len(locs) == 0 {
		return locs, err
	}
	if b, err := json.Marshal(locs); err == nil {
		if err := c.client.Set(ctx, c.key(address), b, c.ttl).Err(); err != nil {
			logger.Warnf("geocode cache write failed: %v", err)
		}
	}
	return locs, nil
}
