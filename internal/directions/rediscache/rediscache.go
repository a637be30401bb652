// Package rediscache stores resolved directions paths in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yusuferdem16/zero-emission/pkg/geo"
)

// Cache implements directions.Cache on a Redis client.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New wraps an existing client. A non-positive ttl means one hour.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Open connects to addr. It returns nil when addr is empty, which disables
// caching.
func Open(addr, pass string, db int, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	return New(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

func (c *Cache) Get(ctx context.Context, key string) ([]geo.Point, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	path, err := decode(s)
	if err != nil {
		return nil, false, fmt.Errorf("cached path %s: %w", key, err)
	}
	return path, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, path []geo.Point) error {
	s, err := encode(path)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, s, c.ttl).Err()
}

// encode stores a path as a JSON array of [lng, lat] pairs.
func encode(path []geo.Point) (string, error) {
	pairs := make([][2]float64, len(path))
	for i, p := range path {
		pairs[i] = [2]float64{p.Lng, p.Lat}
	}
	b, err := json.Marshal(pairs)
	return string(b), err
}

func decode(s string) ([]geo.Point, error) {
	var pairs [][2]float64
	if err := json.Unmarshal([]byte(s), &pairs); err != nil {
		return nil, err
	}
	if len(pairs) < 2 {
		return nil, fmt.Errorf("path has %d points", len(pairs))
	}
	path := make([]geo.Point, len(pairs))
	for i, p := range pairs {
		path[i] = geo.Pt(p[1], p[0])
	}
	return path, nil
}
