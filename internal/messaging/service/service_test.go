package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"talentlink/internal/audit"
	appmodels "talentlink/internal/application/models"
	appstore "talentlink/internal/application/store"
	"talentlink/internal/messaging/store"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/audit/publishers/compliance"
	auditmemory "talentlink/pkg/platform/audit/store/memory"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	apps     *appstore.InMemory
	messages *store.InMemory
	entries  *auditmemory.InMemoryStore
	service  *Service
	app      *appmodels.Application
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), now)
	s.apps = appstore.NewInMemory()
	s.messages = store.NewInMemory()
	s.entries = auditmemory.NewInMemoryStore()
	runner := tx.NewShardedRunner()
	logger := audit.New(compliance.New(s.entries), s.apps, runner)
	s.service = New(s.messages, s.apps, logger, runner)

	opp, err := appmodels.NewOpportunity(id.OpportunityID(uuid.New()), id.UserID(uuid.New()), "Plant Engineer", now)
	s.Require().NoError(err)
	s.Require().NoError(s.apps.CreateOpportunity(s.ctx, opp))
	s.app, err = appmodels.NewApplication(id.ApplicationID(uuid.New()), opp, id.UserID(uuid.New()), "", now)
	s.Require().NoError(err)
	s.Require().NoError(s.apps.Create(s.ctx, s.app))
}

func (s *ServiceSuite) setStatus(status appmodels.Status) {
	s.app.Status = status
	s.Require().NoError(s.apps.UpdateStatus(s.ctx, s.app))
}

func (s *ServiceSuite) industrySend(body string) error {
	_, err := s.service.Send(s.ctx, s.app.IndustryID, id.RoleIndustry, s.app.ID, body)
	return err
}

// =============================================================================
// Initiation gate
// =============================================================================

func (s *ServiceSuite) TestIndustryInitiation() {
	s.Run("blocked before shortlisting", func() {
		for _, st := range []appmodels.Status{appmodels.StatusPending, appmodels.StatusReviewed} {
			s.setStatus(st)
			err := s.industrySend("Hello")
			s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition), "status %s", st)
		}
		s.Empty(s.entries.All())
	})

	s.Run("allowed once shortlisted and audited once", func() {
		s.setStatus(appmodels.StatusShortlisted)
		s.Require().NoError(s.industrySend("Hello"))
		s.Require().NoError(s.industrySend("Are you free Tuesday?"))

		entries := s.entries.All()
		s.Require().Len(entries, 1)
		s.Equal(pkgaudit.ActionMessageInitiate, entries[0].Action)
		s.Equal(s.app.CandidateID, entries[0].SubjectID)
	})
}

func (s *ServiceSuite) TestOtherIndustryForbidden() {
	s.setStatus(appmodels.StatusShortlisted)
	_, err := s.service.Send(s.ctx, id.UserID(uuid.New()), id.RoleIndustry, s.app.ID, "Hi")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

// =============================================================================
// Replies
// =============================================================================

func (s *ServiceSuite) TestCandidateReply() {
	s.Run("cannot open a thread", func() {
		s.setStatus(appmodels.StatusShortlisted)
		_, err := s.service.Send(s.ctx, s.app.CandidateID, id.RoleCandidate, s.app.ID, "Hi")
		s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	})

	s.Run("replies on an existing thread", func() {
		s.Require().NoError(s.industrySend("Hello"))
		msg, err := s.service.Send(s.ctx, s.app.CandidateID, id.RoleCandidate, s.app.ID, "Thanks!")
		s.Require().NoError(err)
		s.Equal(s.app.IndustryID, msg.RecipientID)
		s.Len(s.entries.All(), 1, "replies are not audited")
	})

	s.Run("no messages once the application closes", func() {
		s.setStatus(appmodels.StatusWithdrawn)
		_, err := s.service.Send(s.ctx, s.app.CandidateID, id.RoleCandidate, s.app.ID, "One more thing")
		s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	})
}

func (s *ServiceSuite) TestThreads() {
	s.setStatus(appmodels.StatusInterviewScheduled)
	s.Require().NoError(s.industrySend("Hello"))

	threads, err := s.service.Threads(s.ctx, s.app.CandidateID)
	s.Require().NoError(err)
	s.Require().Len(threads, 1)
	s.Equal(s.app.IndustryID, threads[0].PartnerOf(s.app.CandidateID))
	s.Equal(1, threads[0].MessageCount)
}

// =============================================================================
// Validation and limits
// =============================================================================

func (s *ServiceSuite) TestEmptyBodyRejected() {
	s.setStatus(appmodels.StatusShortlisted)
	err := s.industrySend("   ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.entries.All())
}

func (s *ServiceSuite) TestRateLimited() {
	s.setStatus(appmodels.StatusShortlisted)
	limited := New(s.messages, s.apps, audit.New(compliance.New(s.entries), s.apps, tx.NewShardedRunner()),
		tx.NewShardedRunner(), WithLimiter(denyAll{}))
	_, err := limited.Send(s.ctx, s.app.IndustryID, id.RoleIndustry, s.app.ID, "Hello")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *ServiceSuite) TestAdminCannotSend() {
	_, err := s.service.Send(s.ctx, uuidUser(), id.RoleAdmin, s.app.ID, "Hello")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func uuidUser() id.UserID {
	return id.UserID(uuid.New())
}
