// Package service tracks the relationships that lift redaction: applications, their
// lifecycle, and whether a company may open a conversation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"talentlink/internal/application/models"
	"talentlink/internal/disclosure"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

// Store is the persistence surface for opportunities and applications.
type Store interface {
	CreateOpportunity(ctx context.Context, opp *models.Opportunity) error
	FindOpportunity(ctx context.Context, opportunityID id.OpportunityID) (*models.Opportunity, error)
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	FindForUpdate(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	ListByCandidate(ctx context.Context, candidateID id.UserID) ([]*models.Application, error)
	ListByIndustry(ctx context.Context, industryID id.UserID) ([]*models.Application, error)
	ListBetween(ctx context.Context, candidateID, industryID id.UserID) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, app *models.Application) error
}

// ThreadReader reports message threads between two parties.
type ThreadReader interface {
	HasThreadBetween(ctx context.Context, candidateID, industryID id.UserID) (bool, error)
}

// CandidateChecker confirms a candidate profile exists before it can apply.
type CandidateChecker interface {
	CandidateExists(ctx context.Context, candidateID id.UserID) (bool, error)
}

type Service struct {
	store      Store
	threads    ThreadReader
	candidates CandidateChecker
	tx         tx.Runner
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithThreadReader lets Relationship count message threads. Without it only
// applications establish a relationship.
func WithThreadReader(threads ThreadReader) Option {
	return func(s *Service) {
		s.threads = threads
	}
}

func WithCandidateChecker(c CandidateChecker) Option {
	return func(s *Service) {
		s.candidates = c
	}
}

func New(store Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tx:     runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOpportunity publishes a posting owned by industryID.
func (s *Service) CreateOpportunity(ctx context.Context, industryID id.UserID, role id.Role, title string) (*models.Opportunity, error) {
	if role != id.RoleIndustry {
		return nil, dErrors.New(dErrors.CodeForbidden, "only industries can post opportunities")
	}
	opp, err := models.NewOpportunity(id.OpportunityID(uuid.New()), industryID, title, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.store.CreateOpportunity(ctx, opp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create opportunity")
	}
	s.logger.InfoContext(ctx, "opportunity created",
		"request_id", requestcontext.RequestID(ctx),
		"opportunity_id", opp.ID,
		"industry_id", industryID,
	)
	return opp, nil
}

// Apply creates a PENDING application. A candidate applies at most once per opportunity.
func (s *Service) Apply(ctx context.Context, candidateID id.UserID, role id.Role, opportunityID id.OpportunityID, coverLetter string) (*models.Application, error) {
	if role != id.RoleCandidate {
		return nil, dErrors.New(dErrors.CodeForbidden, "only candidates can apply")
	}
	if s.candidates != nil {
		ok, err := s.candidates.CandidateExists(ctx, candidateID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidate")
		}
		if !ok {
			return nil, dErrors.New(dErrors.CodeFailedPrecondition, "create a candidate profile before applying")
		}
	}

	opp, err := s.store.FindOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, translate(err, "opportunity not found")
	}
	app, err := models.NewApplication(id.ApplicationID(uuid.New()), opp, candidateID, coverLetter, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.store.Create(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "already applied to this opportunity")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.logger.InfoContext(ctx, "application created",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"opportunity_id", opportunityID,
	)
	return app, nil
}

func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.store.FindByID(ctx, appID)
	if err != nil {
		return nil, translate(err, "application not found")
	}
	return app, nil
}

// ForViewer lists the applications the viewer is a party to: submitted ones for a
// candidate, received ones for an industry.
func (s *Service) ForViewer(ctx context.Context, userID id.UserID, role id.Role) ([]*models.Application, error) {
	var (
		apps []*models.Application
		err  error
	)
	switch role {
	case id.RoleCandidate:
		apps, err = s.store.ListByCandidate(ctx, userID)
	case id.RoleIndustry:
		apps, err = s.store.ListByIndustry(ctx, userID)
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "role has no applications")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// Interviews lists the viewer's applications currently in INTERVIEW_SCHEDULED.
func (s *Service) Interviews(ctx context.Context, userID id.UserID, role id.Role) ([]*models.Application, error) {
	apps, err := s.ForViewer(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	out := apps[:0]
	for _, app := range apps {
		if app.Status == models.StatusInterviewScheduled {
			out = append(out, app)
		}
	}
	return out, nil
}

// Transition moves appID through the state machine on behalf of actorID.
func (s *Service) Transition(ctx context.Context, actorID id.UserID, role id.Role, appID id.ApplicationID, req models.TransitionRequest) (*models.Application, error) {
	now := requestcontext.Now(ctx)
	var (
		updated *models.Application
		from    models.Status
	)
	err := s.tx.RunInTx(ctx, appID.String(), func(ctx context.Context) error {
		app, err := s.store.FindForUpdate(ctx, appID)
		if err != nil {
			return err
		}
		if err := app.CanTransition(actorID, role, req); err != nil {
			return err
		}
		from = app.Status
		app.ApplyTransition(role, req, now)
		if err := s.store.UpdateStatus(ctx, app); err != nil {
			return err
		}
		updated = app
		return nil
	})
	if err != nil {
		return nil, translate(err, "application not found")
	}

	s.logger.InfoContext(ctx, "application status changed",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID,
		"from", from,
		"to", updated.Status,
		"actor_role", role,
	)
	return updated, nil
}

// CanMessage reports whether industryID may start a conversation on app.
func (s *Service) CanMessage(industryID id.UserID, app *models.Application) bool {
	return app.CanBeMessagedBy(industryID)
}

// HasViewedContact reports whether VIEW_CONTACT was already recorded for app.
func (s *Service) HasViewedContact(app *models.Application) bool {
	return app.ContactViewed
}

// Relationship returns the platform-recorded link between a candidate and an industry.
// Withdrawn and rejected applications do not count.
func (s *Service) Relationship(ctx context.Context, candidateID, industryID id.UserID) (disclosure.Relationship, error) {
	apps, err := s.store.ListBetween(ctx, candidateID, industryID)
	if err != nil {
		return disclosure.Relationship{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load relationship")
	}
	// apps is newest first.
	var rel disclosure.Relationship
	for _, app := range apps {
		if app.IsActiveRelationship() {
			rel.HasApplication = true
			appID := app.ID
			rel.Carrier = &appID
			break
		}
	}
	if s.threads != nil {
		rel.HasMessageThread, err = s.threads.HasThreadBetween(ctx, candidateID, industryID)
		if err != nil {
			return disclosure.Relationship{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load message threads")
		}
	}
	if rel.Carrier == nil && rel.HasMessageThread && len(apps) > 0 {
		appID := apps[0].ID
		rel.Carrier = &appID
	}
	return rel, nil
}

// RelationshipFor returns the relationship established by app itself, for views made
// in the context of that application.
func (s *Service) RelationshipFor(ctx context.Context, app *models.Application) (disclosure.Relationship, error) {
	rel, err := s.Relationship(ctx, app.CandidateID, app.IndustryID)
	if err != nil {
		return disclosure.Relationship{}, err
	}
	appID := app.ID
	rel.ApplicationID = &appID
	return rel, nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func translate(err error, notFound string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "application store failure")
}
