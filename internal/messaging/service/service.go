// Package service sends messages on application threads.
//
// Only the owning industry can open a thread, and only while the application is
// SHORTLISTED or INTERVIEW_SCHEDULED. The opening message and its MESSAGE_INITIATE
// audit entry commit together. Candidates reply on threads that already exist.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	appmodels "talentlink/internal/application/models"
	"talentlink/internal/messaging/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, msg *models.Message) error
	HasThread(ctx context.Context, appID id.ApplicationID) (bool, error)
	ListThreads(ctx context.Context, userID id.UserID) ([]models.Thread, error)
}

// ApplicationLocker loads an application and locks it for the surrounding transaction.
type ApplicationLocker interface {
	FindForUpdate(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
}

// AuditRecorder appends audit entries, joining the transaction in ctx.
type AuditRecorder interface {
	Record(ctx context.Context, entry pkgaudit.Entry) error
}

// Limiter bounds send rate per sender. A nil Limiter allows everything.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Service struct {
	store   Store
	apps    ApplicationLocker
	audit   AuditRecorder
	tx      tx.Runner
	limiter Limiter
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithLimiter(l Limiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

func New(store Store, apps ApplicationLocker, audit AuditRecorder, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		apps:   apps,
		audit:  audit,
		tx:     runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send posts body on the thread of appID on behalf of senderID.
func (s *Service) Send(ctx context.Context, senderID id.UserID, role id.Role, appID id.ApplicationID, body string) (*models.Message, error) {
	if role != id.RoleIndustry && role != id.RoleCandidate {
		return nil, dErrors.New(dErrors.CodeForbidden, "role cannot send messages")
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, senderID.String()) {
		return nil, dErrors.New(dErrors.CodeRateLimited, "too many messages, try again later")
	}

	now := requestcontext.Now(ctx)
	var (
		msg       *models.Message
		initiated bool
	)
	err := s.tx.RunInTx(ctx, appID.String(), func(ctx context.Context) error {
		app, err := s.apps.FindForUpdate(ctx, appID)
		if err != nil {
			return err
		}
		hasThread, err := s.store.HasThread(ctx, appID)
		if err != nil {
			return err
		}
		recipient, err := checkSend(app, senderID, role, hasThread)
		if err != nil {
			return err
		}
		msg, err = models.NewMessage(id.MessageID(uuid.New()), appID, senderID, role, recipient, body, now)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}

		if !hasThread {
			initiated = true
			if err := s.audit.Record(ctx, pkgaudit.Entry{
				ActorID:      senderID,
				ActorRole:    role,
				SubjectID:    app.CandidateID,
				Action:       pkgaudit.ActionMessageInitiate,
				ResourceType: pkgaudit.ResourceApplication,
				ResourceID:   appID.String(),
				LegalBasis:   "application " + app.Status.String(),
				Timestamp:    now,
			}); err != nil {
				return err
			}
		}
		return s.store.Create(ctx, msg)
	})
	if err != nil {
		return nil, translate(err)
	}

	s.logger.InfoContext(ctx, "message sent",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID,
		"sender_role", role,
		"initiated", initiated,
	)
	return msg, nil
}

// checkSend enforces who may post on app and returns the recipient.
//  1. Sender must be the application's industry or candidate
//  2. Opening a thread: industry only, messaging-eligible status
//  3. Continuing a thread: the application must still be an active relationship
func checkSend(app *appmodels.Application, senderID id.UserID, role id.Role, hasThread bool) (id.UserID, error) {
	var recipient id.UserID
	switch role {
	case id.RoleIndustry:
		if app.IndustryID != senderID {
			return recipient, dErrors.New(dErrors.CodeForbidden, "application belongs to another industry")
		}
		recipient = app.CandidateID
	case id.RoleCandidate:
		if app.CandidateID != senderID {
			return recipient, dErrors.New(dErrors.CodeForbidden, "application belongs to another candidate")
		}
		recipient = app.IndustryID
	}

	if !hasThread {
		if role != id.RoleIndustry {
			return recipient, dErrors.New(dErrors.CodeFailedPrecondition, "candidates can only reply to an existing conversation")
		}
		if !app.CanBeMessagedBy(senderID) {
			return recipient, dErrors.New(dErrors.CodeFailedPrecondition,
				"messaging requires a SHORTLISTED or INTERVIEW_SCHEDULED application")
		}
		return recipient, nil
	}
	if !app.IsActiveRelationship() {
		return recipient, dErrors.New(dErrors.CodeFailedPrecondition, "application is closed")
	}
	return recipient, nil
}

// Threads lists the conversations userID takes part in, newest first.
func (s *Service) Threads(ctx context.Context, userID id.UserID) ([]models.Thread, error) {
	threads, err := s.store.ListThreads(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conversations")
	}
	return threads, nil
}

func translate(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to send message")
}
