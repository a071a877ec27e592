package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/junaidrashid-git/farmfresh-api/metrics"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productsKey   = "catalog:products"
	farmersKey    = "catalog:farmers"
	generationKey = "catalog:gen"
)

// RedisClient is the subset of go-redis used here.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Catalog caches the full product and farmer lists as JSON snapshots.
// Snapshots are stored under the current generation; Invalidate bumps the
// generation, so a snapshot loaded before a write can never be read after it.
// A nil *Catalog, or one without a client, always loads from the source.
// Redis failures fall back to the loader and are only logged.
type Catalog struct {
	client  RedisClient
	prefix  string
	ttl     time.Duration
	metrics *metrics.Collector
	log     *zap.Logger
}

type Options struct {
	Prefix  string
	TTL     time.Duration
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

func NewCatalog(client RedisClient, opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	return &Catalog{
		client:  client,
		prefix:  opts.Prefix,
		ttl:     opts.TTL,
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
}

// Connect opens a redis client and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: ping failed: %w", addr, err)
	}
	return client, nil
}

func (c *Catalog) Products(ctx context.Context, load func(context.Context) ([]models.Product, error)) ([]models.Product, error) {
	return getOrLoad(ctx, c, productsKey, load)
}

func (c *Catalog) Farmers(ctx context.Context, load func(context.Context) ([]models.Farmer, error)) ([]models.Farmer, error) {
	return getOrLoad(ctx, c, farmersKey, load)
}

// Invalidate retires both snapshots. Called after any catalog write.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	gen, err := c.client.Incr(ctx, c.prefix+generationKey).Result()
	if err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.Error(err))
		return
	}
	// Old generations also expire on their own; this only frees memory early.
	prev := strconv.FormatInt(gen-1, 10)
	_ = c.client.Del(ctx, c.prefix+productsKey+":"+prev, c.prefix+farmersKey+":"+prev).Err()
}

// generation returns the current snapshot generation, 0 before the first write.
func (c *Catalog) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, c.prefix+generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func getOrLoad[T any](ctx context.Context, c *Catalog, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn("catalog cache read failed", zap.String("key", generationKey), zap.Error(err))
		c.metrics.CacheLookup(false)
		return load(ctx)
	}
	key = c.prefix + key + ":" + gen

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			c.metrics.CacheLookup(true)
			return cached, nil
		}
		c.log.Warn("discarding corrupt catalog cache entry", zap.String("key", key), zap.Error(jsonErr))
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.CacheLookup(false)

	fresh, err := load(ctx)
	if err != nil {
		return fresh, err
	}
	if data, err := json.Marshal(fresh); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return fresh, nil
}
