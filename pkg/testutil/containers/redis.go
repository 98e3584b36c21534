//go:build integration

package containers

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"talentlink/internal/platform/config"
	"talentlink/internal/platform/redis"
)

// RedisContainer is a throwaway Redis reached through the same client setup the server uses.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	Client    *goredis.Client
}

func newRedisContainer(ctx context.Context) (*RedisContainer, error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, err
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	client, _, err := redis.Open(ctx, config.RedisConfig{URL: uri, PoolSize: 4})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &RedisContainer{Container: container, Client: client}, nil
}

// FlushAll drops limiter windows left by an earlier test.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

func GetRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	rc, err := shared.redis()
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	return rc
}
