package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

var now = time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

func newApp(t *testing.T) *Application {
	t.Helper()
	opp, err := NewOpportunity(id.OpportunityID(uuid.New()), id.UserID(uuid.New()), "Backend intern", now)
	require.NoError(t, err)
	app, err := NewApplication(id.ApplicationID(uuid.New()), opp, id.UserID(uuid.New()), "hello", now)
	require.NoError(t, err)
	return app
}

func TestNewApplication(t *testing.T) {
	app := newApp(t)
	assert.Equal(t, StatusPending, app.Status)
	assert.False(t, app.ContactViewed)
	assert.Nil(t, app.ReviewedAt)
}

func TestCanBeMessagedBy(t *testing.T) {
	app := newApp(t)
	owner := app.IndustryID
	other := id.UserID(uuid.New())

	for _, s := range allStatuses {
		app.Status = s
		eligible := s == StatusShortlisted || s == StatusInterviewScheduled
		assert.Equal(t, eligible, app.CanBeMessagedBy(owner), "owner in %s", s)
		assert.False(t, app.CanBeMessagedBy(other), "non-owner in %s", s)
	}
}

func TestRejectionRequiresReason(t *testing.T) {
	app := newApp(t)

	err := app.CanTransition(app.IndustryID, id.RoleIndustry, TransitionRequest{To: StatusRejected, Reason: "   "})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, StatusPending, app.Status)

	req := TransitionRequest{To: StatusRejected, Reason: "Position filled"}
	require.NoError(t, app.CanTransition(app.IndustryID, id.RoleIndustry, req))
	app.ApplyTransition(id.RoleIndustry, req, now)

	assert.Equal(t, StatusRejected, app.Status)
	assert.Equal(t, "Position filled", app.RejectionReason)
	require.NotNil(t, app.ReviewedAt)
	assert.Equal(t, now, *app.ReviewedAt)
}

func TestCanTransition_Actors(t *testing.T) {
	app := newApp(t)

	t.Run("other industry is forbidden", func(t *testing.T) {
		err := app.CanTransition(id.UserID(uuid.New()), id.RoleIndustry, TransitionRequest{To: StatusReviewed})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("industry cannot withdraw", func(t *testing.T) {
		err := app.CanTransition(app.IndustryID, id.RoleIndustry, TransitionRequest{To: StatusWithdrawn})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("candidate cannot shortlist", func(t *testing.T) {
		err := app.CanTransition(app.CandidateID, id.RoleCandidate, TransitionRequest{To: StatusShortlisted})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("candidate withdraws own application", func(t *testing.T) {
		assert.NoError(t, app.CanTransition(app.CandidateID, id.RoleCandidate, TransitionRequest{To: StatusWithdrawn}))
	})

	t.Run("admin cannot transition", func(t *testing.T) {
		err := app.CanTransition(id.UserID(uuid.New()), id.RoleAdmin, TransitionRequest{To: StatusReviewed})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestCanTransition_TerminalIsPrecondition(t *testing.T) {
	app := newApp(t)
	app.Status = StatusSelected
	err := app.CanTransition(app.IndustryID, id.RoleIndustry, TransitionRequest{To: StatusRejected, Reason: "late"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
}

func TestApplyTransition_Interview(t *testing.T) {
	app := newApp(t)
	app.Status = StatusShortlisted
	at := now.Add(72 * time.Hour)

	req := TransitionRequest{To: StatusInterviewScheduled, InterviewAt: &at}
	require.NoError(t, app.CanTransition(app.IndustryID, id.RoleIndustry, req))
	app.ApplyTransition(id.RoleIndustry, req, now)

	require.NotNil(t, app.InterviewAt)
	assert.Equal(t, at, *app.InterviewAt)

	bad := TransitionRequest{To: StatusSelected, InterviewAt: &at}
	err := app.CanTransition(app.IndustryID, id.RoleIndustry, bad)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestApplyContactViewed_IsPermanent(t *testing.T) {
	app := newApp(t)
	app.ApplyContactViewed(now)
	first := *app.ContactViewedAt

	app.ApplyContactViewed(now.Add(time.Hour))
	assert.True(t, app.ContactViewed)
	assert.Equal(t, first, *app.ContactViewedAt)
}

func TestClone_IsIndependent(t *testing.T) {
	app := newApp(t)
	app.ApplyContactViewed(now)
	cp := app.Clone()
	*cp.ContactViewedAt = now.Add(time.Hour)
	assert.Equal(t, now, *app.ContactViewedAt)
}
