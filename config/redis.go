package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HSouheill/fieldtrack_backend/logging"
)

// ConnectRedis returns nil when addr is empty or Redis does not answer; the
// geocode cache then stays process-local.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logging.Warn().Err(err).Msg("Redis connection failed, shared geocode cache disabled")
		_ = client.Close()
		return nil
	}

	logging.Info().Str("addr", addr).Msg("connected to Redis")
	return client
}
