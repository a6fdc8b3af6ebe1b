package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/fieldtrack_backend/logging"
)

const geocodeKeyPrefix = "geocode:"

// RedisAddressCache shares resolved addresses between replicas.
type RedisAddressCache struct {
	client *redis.Client
}

func NewRedisAddressCache(client *redis.Client) *RedisAddressCache {
	return &RedisAddressCache{client: client}
}

func (c *RedisAddressCache) Get(ctx context.Context, key string) (string, bool) {
	address, err := c.client.Get(ctx, geocodeKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Debug().Err(err).Msg("redis geocode lookup failed")
		}
		return "", false
	}
	return address, true
}

func (c *RedisAddressCache) Set(ctx context.Context, key, address string, ttl time.Duration) {
	if err := c.client.Set(ctx, geocodeKeyPrefix+key, address, ttl).Err(); err != nil {
		logging.Debug().Err(err).Msg("redis geocode store failed")
	}
}

func (c *RedisAddressCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, geocodeKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
