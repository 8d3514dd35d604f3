// Package redis provides Redis client utilities.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/config"
)

// NewClient creates a new Redis client instance. The cache is an
// optimization only, so an unreachable Redis is logged rather than fatal;
// callers degrade to uncached reads.
func NewClient(cfg *config.Config) *redis.Client {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	}

	// Enable TLS for production environments when password is set
	if cfg.RedisPassword != "" {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(options)

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Redis unreachable, stats caching disabled", "addr", options.Addr, "error", err)
	}

	return client
}
