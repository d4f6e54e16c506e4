package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const geometryKeyPrefix = "transit:geometry:"

// RedisGeometryCache shares optimized route geometry between instances.
// Entries expire after ttl; zero keeps them forever.
type RedisGeometryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeometryCache(client *redis.Client, ttl time.Duration) *RedisGeometryCache {
	return &RedisGeometryCache{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the server answers.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return client, nil
}

func (r *RedisGeometryCache) Get(ctx context.Context, waypoints []domain.LatLng) (_ []domain.LatLng, _ bool, err error) {
	defer obs.Time(ctx, "geometry.cache.Get")(&err)

	raw, err := r.client.Get(ctx, geometryKeyPrefix+GeometryKey(waypoints)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geometry cache: %w", err)
	}

	var out []domain.LatLng
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, fmt.Errorf("get geometry cache: decode: %w", err)
	}
	return out, true, nil
}

func (r *RedisGeometryCache) Put(ctx context.Context, waypoints []domain.LatLng, geometry []domain.LatLng) error {
	b, err := json.Marshal(geometry)
	if err != nil {
		return fmt.Errorf("put geometry cache: encode: %w", err)
	}

	if err := r.client.Set(ctx, geometryKeyPrefix+GeometryKey(waypoints), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("put geometry cache: %w", err)
	}
	return nil
}
