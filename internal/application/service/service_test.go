package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"talentlink/internal/application/models"
	"talentlink/internal/application/store"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

type stubThreads struct {
	has bool
}

func (s stubThreads) HasThreadBetween(context.Context, id.UserID, id.UserID) (bool, error) {
	return s.has, nil
}

type stubCandidates map[id.UserID]bool

func (s stubCandidates) CandidateExists(_ context.Context, candidateID id.UserID) (bool, error) {
	return s[candidateID], nil
}

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	store      *store.InMemory
	threads    *stubThreads
	service    *Service
	industryID id.UserID
	candidate  id.UserID
	opp        *models.Opportunity
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC))
	s.store = store.NewInMemory()
	s.threads = &stubThreads{}
	s.industryID = id.UserID(uuid.New())
	s.candidate = id.UserID(uuid.New())
	s.service = New(s.store, tx.NewShardedRunner(),
		WithThreadReader(s.threads),
		WithCandidateChecker(stubCandidates{s.candidate: true}),
	)

	var err error
	s.opp, err = s.service.CreateOpportunity(s.ctx, s.industryID, id.RoleIndustry, "Graduate Engineer")
	s.Require().NoError(err)
}

func (s *ServiceSuite) apply() *models.Application {
	app, err := s.service.Apply(s.ctx, s.candidate, id.RoleCandidate, s.opp.ID, "Hello")
	s.Require().NoError(err)
	return app
}

func (s *ServiceSuite) move(app *models.Application, to models.Status) *models.Application {
	updated, err := s.service.Transition(s.ctx, s.industryID, id.RoleIndustry, app.ID, models.TransitionRequest{To: to})
	s.Require().NoError(err)
	return updated
}

// =============================================================================
// Apply
// =============================================================================

func (s *ServiceSuite) TestApply() {
	s.Run("creates a pending application owned by the posting industry", func() {
		app := s.apply()
		s.Equal(models.StatusPending, app.Status)
		s.Equal(s.industryID, app.IndustryID)
		s.False(app.ContactViewed)
	})

	s.Run("rejects a second application to the same opportunity", func() {
		_, err := s.service.Apply(s.ctx, s.candidate, id.RoleCandidate, s.opp.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects non-candidates", func() {
		_, err := s.service.Apply(s.ctx, s.industryID, id.RoleIndustry, s.opp.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("requires a candidate profile", func() {
		_, err := s.service.Apply(s.ctx, id.UserID(uuid.New()), id.RoleCandidate, s.opp.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	})

	s.Run("unknown opportunity", func() {
		_, err := s.service.Apply(s.ctx, s.candidate, id.RoleCandidate, id.OpportunityID(uuid.New()), "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Transition
// =============================================================================

func (s *ServiceSuite) TestTransition() {
	s.Run("industry moves the pipeline forward and stamps review time", func() {
		app := s.move(s.apply(), models.StatusShortlisted)
		s.Equal(models.StatusShortlisted, app.Status)
		s.Require().NotNil(app.ReviewedAt)

		stored, err := s.service.Get(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusShortlisted, stored.Status)
	})

	s.Run("rejection requires a reason", func() {
		app := s.freshApplication()
		_, err := s.service.Transition(s.ctx, s.industryID, id.RoleIndustry, app.ID,
			models.TransitionRequest{To: models.StatusRejected})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		stored, err := s.service.Get(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, stored.Status)
		s.Nil(stored.ReviewedAt)
	})

	s.Run("rejection with reason", func() {
		app := s.freshApplication()
		updated, err := s.service.Transition(s.ctx, s.industryID, id.RoleIndustry, app.ID,
			models.TransitionRequest{To: models.StatusRejected, Reason: "role filled"})
		s.Require().NoError(err)
		s.Equal("role filled", updated.RejectionReason)
		s.NotNil(updated.ReviewedAt)
	})

	s.Run("backward move fails precondition", func() {
		app := s.move(s.freshApplication(), models.StatusShortlisted)
		_, err := s.service.Transition(s.ctx, s.industryID, id.RoleIndustry, app.ID,
			models.TransitionRequest{To: models.StatusReviewed})
		s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	})

	s.Run("candidate withdraws own application", func() {
		app := s.freshApplication()
		updated, err := s.service.Transition(s.ctx, s.candidate, id.RoleCandidate, app.ID,
			models.TransitionRequest{To: models.StatusWithdrawn})
		s.Require().NoError(err)
		s.Equal(models.StatusWithdrawn, updated.Status)
		s.Nil(updated.ReviewedAt)
	})

	s.Run("other industry is forbidden", func() {
		app := s.freshApplication()
		_, err := s.service.Transition(s.ctx, id.UserID(uuid.New()), id.RoleIndustry, app.ID,
			models.TransitionRequest{To: models.StatusReviewed})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("interview scheduling records the slot", func() {
		at := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
		app := s.freshApplication()
		updated, err := s.service.Transition(s.ctx, s.industryID, id.RoleIndustry, app.ID,
			models.TransitionRequest{To: models.StatusInterviewScheduled, InterviewAt: &at})
		s.Require().NoError(err)
		s.Equal(at, *updated.InterviewAt)

		interviews, err := s.service.Interviews(s.ctx, s.candidate, id.RoleCandidate)
		s.Require().NoError(err)
		s.Require().Len(interviews, 1)
		s.Equal(app.ID, interviews[0].ID)
	})
}

// freshApplication applies a new candidate to a new opportunity of the same industry.
func (s *ServiceSuite) freshApplication() *models.Application {
	opp, err := s.service.CreateOpportunity(s.ctx, s.industryID, id.RoleIndustry, "Role "+uuid.NewString())
	s.Require().NoError(err)
	app, err := s.service.Apply(s.ctx, s.candidate, id.RoleCandidate, opp.ID, "")
	s.Require().NoError(err)
	return app
}

// =============================================================================
// Relationship tracking
// =============================================================================

func (s *ServiceSuite) TestCanMessage() {
	app := s.apply()
	s.False(s.service.CanMessage(s.industryID, app), "pending application is not messaging-eligible")

	app = s.move(app, models.StatusShortlisted)
	s.True(s.service.CanMessage(s.industryID, app))
	s.False(s.service.CanMessage(id.UserID(uuid.New()), app), "non-owning industry")

	app = s.move(app, models.StatusInterviewScheduled)
	s.True(s.service.CanMessage(s.industryID, app))

	app = s.move(app, models.StatusSelected)
	s.False(s.service.CanMessage(s.industryID, app))
}

func (s *ServiceSuite) TestRelationship() {
	s.Run("none without application or thread", func() {
		rel, err := s.service.Relationship(s.ctx, s.candidate, s.industryID)
		s.Require().NoError(err)
		s.False(rel.Exists())
		s.Nil(rel.Carrier)
	})

	var app *models.Application
	s.Run("active application", func() {
		app = s.apply()
		rel, err := s.service.RelationshipFor(s.ctx, app)
		s.Require().NoError(err)
		s.True(rel.HasApplication)
		s.Require().NotNil(rel.ApplicationID)
		s.Equal(app.ID, *rel.ApplicationID)
		s.Require().NotNil(rel.Carrier)
		s.Equal(app.ID, *rel.Carrier)
	})

	s.Run("withdrawn application no longer counts", func() {
		apps, err := s.service.ForViewer(s.ctx, s.candidate, id.RoleCandidate)
		s.Require().NoError(err)
		for _, a := range apps {
			_, err := s.service.Transition(s.ctx, s.candidate, id.RoleCandidate, a.ID,
				models.TransitionRequest{To: models.StatusWithdrawn})
			s.Require().NoError(err)
		}
		rel, err := s.service.Relationship(s.ctx, s.candidate, s.industryID)
		s.Require().NoError(err)
		s.False(rel.Exists())
		s.Nil(rel.Carrier)
	})

	s.Run("message thread", func() {
		s.threads.has = true
		rel, err := s.service.Relationship(s.ctx, s.candidate, s.industryID)
		s.Require().NoError(err)
		s.True(rel.HasMessageThread)
		s.True(rel.Exists())
		s.Require().NotNil(rel.Carrier, "a thread-only link still names an application")
		s.Equal(app.ID, *rel.Carrier)
	})
}

func (s *ServiceSuite) TestHasViewedContact() {
	app := s.apply()
	s.False(s.service.HasViewedContact(app))
	app.ApplyContactViewed(time.Now())
	s.True(s.service.HasViewedContact(app))
}
