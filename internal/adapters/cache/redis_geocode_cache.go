package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"day-planner-service/internal/domain"
)

const redisGeocodePrefix = "geocode:"

// RedisGeocodeCache stores postcode -> coordinate mappings in Redis. Useful
// when several planner instances share one cache without a SQL database.
// Values are stored as "lat,lon"; entries expire after TTL (0 = no expiry).
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// Fetch cached coordinates for the given keys.
func (r *RedisGeocodeCache) GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinates, error) {
	if r.Client == nil {
		return nil, errors.New("redis geocode cache: client is nil")
	}

	uniq := make([]string, 0, len(keys))
	redisKeys := make([]string, 0, len(keys))
	seen := map[string]struct{}{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
		redisKeys = append(redisKeys, redisGeocodePrefix+k)
	}

	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	values, err := r.Client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis geocode cache: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range values {
		if v == nil {
			continue
		}
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var lat, lon float64
		if _, err := fmt.Sscanf(raw, "%f,%f", &lat, &lon); err != nil {
			return nil, fmt.Errorf("get redis geocode cache: parse value for %q: %w", uniq[i], err)
		}
		out[uniq[i]] = domain.Coordinates{Lat: lat, Lon: lon}
	}

	return out, nil
}

// Store key -> coordinate mappings in the cache.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, entries map[string]domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("redis geocode cache: client is nil")
	}

	if len(entries) == 0 {
		return nil
	}

	pipe := r.Client.Pipeline()
	for key, c := range entries {
		if strings.TrimSpace(key) == "" {
			return errors.New("insert redis geocode cache: empty key")
		}
		pipe.Set(ctx, redisGeocodePrefix+key, fmt.Sprintf("%.7f,%.7f", c.Lat, c.Lon), r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis geocode cache: %w", err)
	}
	return nil
}
