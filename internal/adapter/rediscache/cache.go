// Package rediscache keeps the most recent reading per region in Redis so the
// read API can serve current conditions without hitting Postgres on every
// request. The cache is best-effort: a miss or a Redis outage falls back to
// the store.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karangue/heatwave-alert-service/internal/domain"
)

const keyPrefix = "weather:latest:"

// Cache wraps a Redis client with the snapshot schema.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects a snapshot cache. The TTL bounds staleness when ingestion
// stalls; expired keys simply force a store read.
func New(addr string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SetLatest stores the reading as the region's current snapshot.
func (c *Cache) SetLatest(ctx context.Context, reading domain.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key(reading.RegionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the cached snapshot for a region, reporting a miss
// without error.
func (c *Cache) GetLatest(ctx context.Context, regionID int64) (domain.Reading, bool, error) {
	data, err := c.client.Get(ctx, key(regionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Reading{}, false, nil
	}
	if err != nil {
		return domain.Reading{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	var reading domain.Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		return domain.Reading{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return reading, true, nil
}

// GetLatestMany fetches snapshots for several regions in one round trip.
// Absent regions are simply missing from the result map.
func (c *Cache) GetLatestMany(ctx context.Context, regionIDs []int64) (map[int64]domain.Reading, error) {
	if len(regionIDs) == 0 {
		return map[int64]domain.Reading{}, nil
	}

	keys := make([]string, len(regionIDs))
	for i, id := range regionIDs {
		keys[i] = key(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget snapshots: %w", err)
	}

	result := make(map[int64]domain.Reading, len(regionIDs))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var reading domain.Reading
		if err := json.Unmarshal([]byte(s), &reading); err != nil {
			continue
		}
		result[regionIDs[i]] = reading
	}
	return result, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func key(regionID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, regionID)
}
