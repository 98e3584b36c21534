// Package compliance persists disclosure audit entries synchronously. A failed
// write is returned to the caller, which decides whether the disclosure stands.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "talentlink/pkg/domain"
	audit "talentlink/pkg/platform/audit"
	"talentlink/pkg/requestcontext"
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// New wraps store. With the postgres audit store, Append also writes the outbox row.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit completes and validates entry, then appends it. Inside a transaction
// context the append joins that transaction.
func (p *Publisher) Emit(ctx context.Context, entry audit.Entry) error {
	started := time.Now()
	entry = complete(ctx, entry)
	if err := entry.Validate(); err != nil {
		return err
	}

	if err := p.store.Append(ctx, entry); err != nil {
		p.metrics.persistFailed(entry.Action)
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit append failed",
				"action", entry.Action,
				"category", entry.Action.Category(),
				"actor_id", entry.ActorID,
				"subject_id", entry.SubjectID,
				"request_id", entry.RequestID,
				"error", err,
			)
		}
		return fmt.Errorf("append audit entry: %w", err)
	}

	p.metrics.persisted(entry.Action, time.Since(started))
	return nil
}

func complete(ctx context.Context, entry audit.Entry) audit.Entry {
	if uuid.UUID(entry.ID) == uuid.Nil {
		entry.ID = id.AuditEntryID(uuid.New())
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	return entry
}
