// Package audit records privileged disclosures.
//
// Record appends one entry. RecordContactView couples the VIEW_CONTACT entry with the
// application's contact-viewed flag so that the pair commits together or not at all,
// and at most once per application.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appmodels "talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

// Emitter persists a single entry, joining the transaction carried by ctx if any.
type Emitter interface {
	Emit(ctx context.Context, entry pkgaudit.Entry) error
}

// ContactFlagStore is the slice of the application store the logger locks and marks.
type ContactFlagStore interface {
	FindForUpdate(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
	MarkContactViewed(ctx context.Context, appID id.ApplicationID, now time.Time) (bool, error)
}

// Logger is the audit logger used after projection.
type Logger struct {
	emitter Emitter
	apps    ContactFlagStore
	tx      tx.Runner
	logger  *slog.Logger
}

type Option func(*Logger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.logger = logger
	}
}

func New(emitter Emitter, apps ContactFlagStore, runner tx.Runner, opts ...Option) *Logger {
	l := &Logger{
		emitter: emitter,
		apps:    apps,
		tx:      runner,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends entry, stamping the request id and time from ctx when unset.
func (l *Logger) Record(ctx context.Context, entry pkgaudit.Entry) error {
	return l.emitter.Emit(ctx, stamp(ctx, entry))
}

// RecordContactView records VIEW_CONTACT for appID unless it was already recorded.
// It reports whether this call wrote the entry. Concurrent callers for the same
// application produce exactly one entry; the others return (false, nil).
func (l *Logger) RecordContactView(ctx context.Context, appID id.ApplicationID, entry pkgaudit.Entry) (bool, error) {
	entry = stamp(ctx, entry)
	entry.Action = pkgaudit.ActionViewContact
	entry.ResourceType = pkgaudit.ResourceApplication
	entry.ResourceID = appID.String()

	recorded := false
	err := l.tx.RunInTx(ctx, appID.String(), func(txCtx context.Context) error {
		app, err := l.apps.FindForUpdate(txCtx, appID)
		if err != nil {
			return err
		}
		if app.ContactViewed {
			return nil
		}
		if err := l.emitter.Emit(txCtx, entry); err != nil {
			return err
		}
		marked, err := l.apps.MarkContactViewed(txCtx, appID, entry.Timestamp)
		if err != nil {
			return err
		}
		if !marked {
			// Another writer set the flag first; roll back our entry.
			return sentinel.ErrAlreadyUsed
		}
		recorded = true
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return false, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, dErrors.New(dErrors.CodeNotFound, "application not found")
	default:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record contact view")
	}

	if recorded && l.logger != nil {
		l.logger.InfoContext(ctx, "contact view recorded",
			"application_id", appID,
			"actor_id", entry.ActorID,
			"request_id", entry.RequestID,
		)
	}
	return recorded, nil
}

func stamp(ctx context.Context, entry pkgaudit.Entry) pkgaudit.Entry {
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	return entry
}

