package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentlink/internal/platform/config"
)

func TestOptions(t *testing.T) {
	opts, err := Options(config.RedisConfig{
		URL:          "redis://:secret@cache:6380/3",
		PoolSize:     7,
		MinIdleConns: 2,
		DialTimeout:  time.Second,
		ReadTimeout:  200 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.Equal(t, 200*time.Millisecond, opts.ReadTimeout)
}

func TestOptions_RejectsBadURL(t *testing.T) {
	_, err := Options(config.RedisConfig{URL: "http://cache:6379"})
	assert.Error(t, err)
}

func TestOpen_Disabled(t *testing.T) {
	client, ok, err := Open(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, client)
}
