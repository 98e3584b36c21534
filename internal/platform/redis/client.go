// Package redis opens the shared go-redis client used by the message limiter.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"talentlink/internal/platform/config"
)

// Options turns config into go-redis options. Zero pool size keeps the driver default.
func Options(cfg config.RedisConfig) (*goredis.Options, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// Open connects and pings. ok is false when no URL is configured; callers then
// run without rate limiting.
func Open(ctx context.Context, cfg config.RedisConfig) (client *goredis.Client, ok bool, err error) {
	if cfg.URL == "" {
		return nil, false, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, false, err
	}
	client = goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, false, fmt.Errorf("ping redis: %w", err)
	}
	return client, true, nil
}

// HealthCheck adapts a client to the router's health check signature.
func HealthCheck(client goredis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
