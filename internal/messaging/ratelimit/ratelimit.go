// Package ratelimit bounds how many messages one sender can send per window.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const callTimeout = 250 * time.Millisecond

// RedisLimiter is a fixed-window counter shared by every server instance.
// A nil limiter allows everything. Redis errors fail open.
type RedisLimiter struct {
	client redis.Scripter
	script *redis.Script
	limit  int
	window time.Duration
	prefix string
	logger *slog.Logger
}

type Option func(*RedisLimiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *RedisLimiter) {
		l.logger = logger
	}
}

func WithPrefix(prefix string) Option {
	return func(l *RedisLimiter) {
		l.prefix = prefix
	}
}

// NewRedisLimiter returns nil when client is nil so callers can wire it unconditionally.
func NewRedisLimiter(client redis.Scripter, limit int, window time.Duration, opts ...Option) *RedisLimiter {
	if client == nil {
		return nil
	}
	l := &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		limit:  limit,
		window: window,
		prefix: "talentlink:msg",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow consumes one unit for key and reports whether it was within the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + ":" + key}, ttl, l.limit).Int64()
	if err != nil {
		if l.logger != nil {
			l.logger.WarnContext(ctx, "rate limiter unavailable, allowing request", "error", err)
		}
		return true
	}
	return allowed == 1
}
