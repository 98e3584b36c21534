package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	appmodels "talentlink/internal/application/models"
	appstore "talentlink/internal/application/store"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/audit/publishers/compliance"
	auditmemory "talentlink/pkg/platform/audit/store/memory"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

type LoggerSuite struct {
	suite.Suite
	ctx     context.Context
	apps    *appstore.InMemory
	entries *auditmemory.InMemoryStore
	logger  *Logger
	app     *appmodels.Application
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) SetupTest() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), now), "req-1")
	s.apps = appstore.NewInMemory()
	s.entries = auditmemory.NewInMemoryStore()
	s.logger = New(compliance.New(s.entries), s.apps, tx.NewShardedRunner())

	opp, err := appmodels.NewOpportunity(id.OpportunityID(uuid.New()), id.UserID(uuid.New()), "Data Analyst", now)
	s.Require().NoError(err)
	s.Require().NoError(s.apps.CreateOpportunity(s.ctx, opp))
	s.app, err = appmodels.NewApplication(id.ApplicationID(uuid.New()), opp, id.UserID(uuid.New()), "", now)
	s.Require().NoError(err)
	s.Require().NoError(s.apps.Create(s.ctx, s.app))
}

func (s *LoggerSuite) entry() pkgaudit.Entry {
	return pkgaudit.Entry{
		ActorID:      s.app.IndustryID,
		ActorRole:    id.RoleIndustry,
		SubjectID:    s.app.CandidateID,
		PremiumGated: true,
		LegalBasis:   "premium_relationship",
	}
}

// =============================================================================
// Record
// =============================================================================

func (s *LoggerSuite) TestRecord_StampsRequestMetadata() {
	e := s.entry()
	e.Action = pkgaudit.ActionAccessPremiumFeature
	e.ResourceType = pkgaudit.ResourceCandidate
	e.ResourceID = s.app.CandidateID.String()

	s.Require().NoError(s.logger.Record(s.ctx, e))

	all := s.entries.All()
	s.Require().Len(all, 1)
	s.Equal("req-1", all[0].RequestID)
	s.Equal(requestcontext.Now(s.ctx), all[0].Timestamp)
}

// =============================================================================
// RecordContactView
// =============================================================================

func (s *LoggerSuite) TestRecordContactView_FirstViewWritesEntryAndFlag() {
	recorded, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
	s.Require().NoError(err)
	s.True(recorded)

	stored, err := s.apps.FindByID(s.ctx, s.app.ID)
	s.Require().NoError(err)
	s.True(stored.ContactViewed)
	s.Require().NotNil(stored.ContactViewedAt)

	entries, err := s.entries.ListByResource(s.ctx, pkgaudit.ResourceApplication, s.app.ID.String())
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(pkgaudit.ActionViewContact, entries[0].Action)
}

func (s *LoggerSuite) TestRecordContactView_SecondViewSkips() {
	_, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
	s.Require().NoError(err)

	recorded, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
	s.Require().NoError(err)
	s.False(recorded)
	s.Len(s.entries.All(), 1)
}

func (s *LoggerSuite) TestRecordContactView_ConcurrentViewsWriteOnce() {
	const viewers = 32
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wrote int
	)
	for range viewers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recorded, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
			assert.NoError(s.T(), err)
			if recorded {
				mu.Lock()
				wrote++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wrote)
	s.Len(s.entries.All(), 1)
}

func (s *LoggerSuite) TestRecordContactView_AuditFailureLeavesFlagUnset() {
	s.entries.FailAppends(errors.New("disk full"))

	_, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	stored, err := s.apps.FindByID(s.ctx, s.app.ID)
	s.Require().NoError(err)
	s.False(stored.ContactViewed, "flag must not be set without its audit entry")

	s.entries.FailAppends(nil)
	recorded, err := s.logger.RecordContactView(s.ctx, s.app.ID, s.entry())
	s.Require().NoError(err)
	s.True(recorded)
}

func (s *LoggerSuite) TestRecordContactView_UnknownApplication() {
	_, err := s.logger.RecordContactView(s.ctx, id.ApplicationID(uuid.New()), s.entry())
	require.Error(s.T(), err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
