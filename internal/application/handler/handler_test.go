package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"talentlink/internal/application/handler/mocks"
	"talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service  *mocks.MockService
	router   chi.Router
	industry id.UserID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.industry = id.UserID(uuid.New())
}

func (s *HandlerSuite) TestCreateOpportunity() {
	oppID := id.OpportunityID(uuid.New())
	s.service.EXPECT().CreateOpportunity(gomock.Any(), s.industry, id.RoleIndustry, "Backend Engineer").
		Return(&models.Opportunity{ID: oppID, IndustryID: s.industry, Title: "Backend Engineer"}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/opportunities", map[string]string{"title": "  Backend Engineer "})
	rr := testutil.Do(s.router, testutil.AsUser(req, s.industry, id.RoleIndustry))

	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	body := testutil.Decode[OpportunityResponse](s.T(), rr)
	s.Equal(oppID.String(), body.ID)
}

func (s *HandlerSuite) TestCreateOpportunityRequiresTitle() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/opportunities", map[string]string{"title": " "})
	rr := testutil.Do(s.router, testutil.AsUser(req, s.industry, id.RoleIndustry))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *HandlerSuite) TestUnauthenticated() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]string{"opportunity_id": uuid.NewString()})
	rr := testutil.Do(s.router, req)
	testutil.AssertError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}

func (s *HandlerSuite) TestApply() {
	candidate := id.UserID(uuid.New())
	oppID := id.OpportunityID(uuid.New())
	appID := id.ApplicationID(uuid.New())
	s.service.EXPECT().Apply(gomock.Any(), candidate, id.RoleCandidate, oppID, "hello").
		Return(&models.Application{ID: appID, OpportunityID: oppID, CandidateID: candidate, IndustryID: s.industry, Status: models.StatusPending}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]string{
		"opportunity_id": oppID.String(),
		"cover_letter":   "hello",
	})
	rr := testutil.Do(s.router, testutil.AsUser(req, candidate, id.RoleCandidate))

	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())
	body := testutil.DecodeMap(s.T(), rr)
	s.Equal("PENDING", body["status"])
	s.NotContains(body, "company")
	s.NotContains(rr.Body.String(), s.industry.String(), "write responses never carry the counterpart")
}

func (s *HandlerSuite) TestApplyDuplicate() {
	candidate := id.UserID(uuid.New())
	s.service.EXPECT().Apply(gomock.Any(), candidate, id.RoleCandidate, gomock.Any(), "").
		Return(nil, dErrors.New(dErrors.CodeConflict, "already applied"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]string{"opportunity_id": uuid.NewString()})
	rr := testutil.Do(s.router, testutil.AsUser(req, candidate, id.RoleCandidate))
	testutil.AssertError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
}

func (s *HandlerSuite) TestApplyInvalidOpportunityID() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]string{"opportunity_id": "nope"})
	rr := testutil.Do(s.router, testutil.AsUser(req, id.UserID(uuid.New()), id.RoleCandidate))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
}

func (s *HandlerSuite) TestTransition() {
	appID := id.ApplicationID(uuid.New())
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	matches := gomock.Cond(func(x any) bool {
		req, ok := x.(models.TransitionRequest)
		return ok && req.To == models.StatusInterviewScheduled && req.InterviewAt != nil && req.InterviewAt.Equal(at)
	})
	s.service.EXPECT().Transition(gomock.Any(), s.industry, id.RoleIndustry, appID, matches).
		Return(&models.Application{ID: appID, Status: models.StatusInterviewScheduled, InterviewAt: &at}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/"+appID.String()+"/status", map[string]any{
		"status":       "interview_scheduled",
		"interview_at": at,
	})
	rr := testutil.Do(s.router, testutil.AsUser(req, s.industry, id.RoleIndustry))

	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	body := testutil.Decode[ApplicationStateResponse](s.T(), rr)
	s.Equal("INTERVIEW_SCHEDULED", body.Status)
	s.Require().NotNil(body.InterviewAt)
	s.True(at.Equal(*body.InterviewAt))
}

func (s *HandlerSuite) TestTransitionUnknownStatus() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/"+uuid.NewString()+"/status", map[string]string{"status": "HIRED"})
	rr := testutil.Do(s.router, testutil.AsUser(req, s.industry, id.RoleIndustry))
	testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *HandlerSuite) TestTransitionNotAllowed() {
	appID := id.ApplicationID(uuid.New())
	s.service.EXPECT().Transition(gomock.Any(), s.industry, id.RoleIndustry, appID, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeFailedPrecondition, "transition not allowed"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications/"+appID.String()+"/status", map[string]string{"status": "PENDING"})
	rr := testutil.Do(s.router, testutil.AsUser(req, s.industry, id.RoleIndustry))
	testutil.AssertError(s.T(), rr, http.StatusConflict, string(dErrors.CodeFailedPrecondition))
}
