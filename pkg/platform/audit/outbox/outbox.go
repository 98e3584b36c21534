// Package outbox relays audit entries written to the outbox table onto Kafka.
//
// The audit store inserts the outbox row in the same transaction as the audit entry,
// so an entry is published if and only if it was committed. The relay claims
// pending rows with FOR UPDATE SKIP LOCKED, publishes them, and marks them published
// in the same transaction; several relays may run side by side.
package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one pending outbox row.
type Record struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// Store claims pending records. Drain hands up to limit records to fn and marks them
// published only when fn returns nil.
type Store interface {
	Drain(ctx context.Context, limit int, fn func(ctx context.Context, records []Record) error) (int, error)
}

// Publisher delivers records to the downstream log.
type Publisher interface {
	Publish(ctx context.Context, records []Record) error
}
