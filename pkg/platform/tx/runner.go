package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "talentlink/pkg/domain-errors"
)

// Runner provides a transactional boundary. key names the aggregate being mutated;
// implementations that lock in process serialize callers sharing a key.
type Runner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// DefaultTimeout bounds a transaction when ctx has no deadline.
const DefaultTimeout = 5 * time.Second

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func aborted(err error) error {
	return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
}

// PostgresRunner runs fn inside a database transaction carried in the context.
// The key is ignored; row locks taken inside fn provide serialization.
type PostgresRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	return Run(ctx, r.db, fn)
}

// numShards spreads in-memory transactions across independent locks.
const numShards = 128

// ShardedRunner serializes callers sharing a key with one of numShards mutexes.
// It is the in-memory counterpart of PostgresRunner: writes made inside fn are not
// rolled back, so fn must perform its fallible steps before its state changes.
type ShardedRunner struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

func NewShardedRunner() *ShardedRunner {
	return &ShardedRunner{}
}

func (r *ShardedRunner) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	shard := hashString(key) % numShards
	r.shards[shard].Lock()
	defer r.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	return fn(ctx)
}

// hashString is FNV-1a.
func hashString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
