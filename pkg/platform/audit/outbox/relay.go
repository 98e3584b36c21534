package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Relay periodically drains the outbox into the publisher.
type Relay struct {
	store     Store
	publisher Publisher
	breaker   *CircuitBreaker
	logger    *slog.Logger
	metrics   *Metrics
	interval  time.Duration
	batchSize int
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(r *Relay) { r.breaker = cb }
}

func NewRelay(store Store, publisher Publisher, opts ...Option) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		breaker:   NewCircuitBreaker(5, 30*time.Second),
		logger:    slog.Default(),
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drains the outbox every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.WarnContext(ctx, "audit outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns the number of records published.
// Batches keep being drained until a short batch signals the backlog is empty.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	if !r.breaker.Allow() {
		r.metrics.IncBreakerSkips()
		return 0, nil
	}

	total := 0
	for {
		n, err := r.store.Drain(ctx, r.batchSize, r.publisher.Publish)
		if err != nil {
			r.metrics.IncPublishFailures()
			if r.breaker.RecordFailure() {
				r.metrics.SetBreakerState(true)
				r.logger.ErrorContext(ctx, "audit outbox relay circuit opened", "error", err)
			}
			return total, err
		}
		r.breaker.RecordSuccess()
		r.metrics.SetBreakerState(false)
		r.metrics.AddPublished(n)
		total += n
		if n < r.batchSize {
			return total, nil
		}
	}
}
