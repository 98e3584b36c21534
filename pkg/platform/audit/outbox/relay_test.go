package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps pending records in memory and mirrors the Drain contract.
type fakeStore struct {
	mu        sync.Mutex
	pending   []Record
	published []Record
}

func (s *fakeStore) add(n int) {
	for i := 0; i < n; i++ {
		s.pending = append(s.pending, Record{
			ID:          uuid.New(),
			AggregateID: uuid.NewString(),
			EventType:   "VIEW_CONTACT",
			Payload:     []byte(`{}`),
			CreatedAt:   time.Now(),
		})
	}
}

func (s *fakeStore) Drain(ctx context.Context, limit int, fn func(context.Context, []Record) error) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(limit, len(s.pending))
	if n == 0 {
		return 0, nil
	}
	batch := append([]Record{}, s.pending[:n]...)
	if err := fn(ctx, batch); err != nil {
		return 0, err
	}
	s.pending = s.pending[n:]
	s.published = append(s.published, batch...)
	return n, nil
}

type fakePublisher struct {
	err   error
	calls int
	seen  []Record
}

func (p *fakePublisher) Publish(_ context.Context, records []Record) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.seen = append(p.seen, records...)
	return nil
}

func TestRelayOnce_DrainsBacklogInBatches(t *testing.T) {
	store := &fakeStore{}
	store.add(7)
	pub := &fakePublisher{}
	relay := NewRelay(store, pub, WithBatchSize(3))

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 3, pub.calls)
	assert.Empty(t, store.pending)
	assert.Len(t, pub.seen, 7)
}

func TestRelayOnce_FailedPublishLeavesRecordsPending(t *testing.T) {
	store := &fakeStore{}
	store.add(2)
	pub := &fakePublisher{err: errors.New("broker down")}
	relay := NewRelay(store, pub)

	n, err := relay.RelayOnce(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.pending, 2)
	assert.Empty(t, store.published)
}

func TestRelayOnce_BreakerOpensAndSkips(t *testing.T) {
	store := &fakeStore{}
	store.add(1)
	pub := &fakePublisher{err: errors.New("broker down")}
	relay := NewRelay(store, pub, WithCircuitBreaker(NewCircuitBreaker(2, time.Hour)))

	_, err := relay.RelayOnce(context.Background())
	require.Error(t, err)
	_, err = relay.RelayOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, pub.calls)

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, pub.calls, "open breaker should skip publishing")
}

func TestRelayRun_StopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	store.add(1)
	pub := &fakePublisher{}
	relay := NewRelay(store, pub, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.published) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
