package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

const keyPrefix = "offers:"

// RedisConfig holds connection settings for the shared cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache stores ranked offers as JSON with a native key TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache connects and pings the server before returning.
func NewRedisCache(ctx context.Context, cfg RedisConfig, ttl time.Duration, logger zerolog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return NewRedisCacheFromClient(client, ttl, logger), nil
}

func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func redisKey(fingerprint string) string {
	return keyPrefix + fingerprint
}

// Get treats redis errors and undecodable payloads as misses.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) ([]domain.Offer, bool) {
	data, err := c.client.Get(ctx, redisKey(fingerprint)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache read failed")
		}
		c.misses.Add(1)
		return nil, false
	}

	var offers []domain.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		c.logger.Warn().Err(err).Str("fingerprint", fingerprint).Msg("cache payload undecodable")
		c.misses.Add(1)
		return nil, false
	}

	if offers == nil {
		offers = []domain.Offer{}
	}
	c.hits.Add(1)
	return offers, true
}

func (c *RedisCache) Set(ctx context.Context, fingerprint string, offers []domain.Offer) error {
	if offers == nil {
		offers = []domain.Offer{}
	}
	payload, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("encode offers: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Stats scans for offer keys; Keys is -1 when the scan fails.
func (c *RedisCache) Stats(ctx context.Context) Stats {
	var keys int64
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys++
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache key scan failed")
		keys = -1
	}
	return newStats("redis", keys, c.hits.Load(), c.misses.Load(), c.ttl)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ ResultCache = (*RedisCache)(nil)
