// Package service runs the disclosure pipeline for every cross-role read:
// load subject and relationship, decide, project, then audit when required.
//
// Audit policy:
//   - VIEW_CONTACT: an industry sees a candidate's owner-controlled fields through
//     premium plus relationship, in the context of an application. At most once per
//     application.
//   - ACCESS_PREMIUM_FEATURE: a standalone profile view in which any field was
//     disclosed because of premium. Recorded on every such view.
//
// An audit write that fails after projection is logged and counted; the view is
// still returned.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	appmodels "talentlink/internal/application/models"
	"talentlink/internal/disclosure"
	"talentlink/internal/disclosure/metrics"
	msgmodels "talentlink/internal/messaging/models"
	profile "talentlink/internal/profile/models"
	"talentlink/internal/subscription"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	pkgaudit "talentlink/pkg/platform/audit"
	"talentlink/pkg/requestcontext"
)

const tracerName = "talentlink/disclosure"

// relationshipConcurrency bounds parallel relationship lookups for list views.
const relationshipConcurrency = 8

type ProfileReader interface {
	Candidate(ctx context.Context, candidateID id.UserID) (*profile.Candidate, error)
	Company(ctx context.Context, companyID id.UserID) (*profile.Company, error)
	Candidates(ctx context.Context, ids []id.UserID) (map[id.UserID]*profile.Candidate, error)
	Companies(ctx context.Context, ids []id.UserID) (map[id.UserID]*profile.Company, error)
}

type ApplicationReader interface {
	Get(ctx context.Context, appID id.ApplicationID) (*appmodels.Application, error)
	ForViewer(ctx context.Context, userID id.UserID, role id.Role) ([]*appmodels.Application, error)
	Interviews(ctx context.Context, userID id.UserID, role id.Role) ([]*appmodels.Application, error)
	Relationship(ctx context.Context, candidateID, industryID id.UserID) (disclosure.Relationship, error)
}

type ThreadLister interface {
	Threads(ctx context.Context, userID id.UserID) ([]msgmodels.Thread, error)
}

type EntitlementResolver interface {
	Resolve(ctx context.Context, userID id.UserID) (subscription.Entitlement, error)
}

type AuditLogger interface {
	Record(ctx context.Context, entry pkgaudit.Entry) error
	RecordContactView(ctx context.Context, appID id.ApplicationID, entry pkgaudit.Entry) (bool, error)
}

type Service struct {
	profiles     ProfileReader
	applications ApplicationReader
	threads      ThreadLister
	entitlements EntitlementResolver
	audit        AuditLogger
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithThreadLister enables Conversations.
func WithThreadLister(t ThreadLister) Option {
	return func(s *Service) {
		s.threads = t
	}
}

func New(profiles ProfileReader, applications ApplicationReader, entitlements EntitlementResolver, audit AuditLogger, opts ...Option) *Service {
	s := &Service{
		profiles:     profiles,
		applications: applications,
		entitlements: entitlements,
		audit:        audit,
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildViewer constructs the ViewerContext once per request from the authenticated
// identity and a fresh entitlement read.
func (s *Service) BuildViewer(ctx context.Context) (disclosure.Viewer, error) {
	userID := requestcontext.UserID(ctx)
	role := requestcontext.Role(ctx)
	if userID.IsNil() || !role.IsValid() {
		return disclosure.Viewer{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	ent, err := s.entitlements.Resolve(ctx, userID)
	if err != nil {
		return disclosure.Viewer{}, err
	}
	return disclosure.Viewer{
		UserID:           userID,
		Role:             role,
		Premium:          ent.Active,
		PremiumExpiresAt: ent.ExpiresAt,
	}, nil
}

// =============================================================================
// Standalone profiles
// =============================================================================

func (s *Service) CandidateProfile(ctx context.Context, viewer disclosure.Viewer, candidateID id.UserID) (_ *disclosure.CandidateView, err error) {
	ctx, finish := s.start(ctx, "candidate_profile", viewer)
	defer func() { finish(err) }()

	var (
		c   *profile.Candidate
		rel disclosure.Relationship
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.profiles.Candidate(gctx, candidateID)
		return err
	})
	g.Go(func() error {
		var err error
		rel, err = s.relationshipWithCandidate(gctx, viewer, candidateID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d, err := s.decide(disclosure.CandidateSubject(c), viewer, rel)
	if err != nil {
		return nil, err
	}
	view := disclosure.ProjectCandidate(c, d)
	s.auditPremiumAccess(ctx, viewer, c.ID, pkgaudit.ResourceCandidate, d)
	if rel.Carrier != nil {
		s.recordContactView(ctx, viewer, *rel.Carrier, c.ID, d)
	}
	return &view, nil
}

func (s *Service) CompanyProfile(ctx context.Context, viewer disclosure.Viewer, companyID id.UserID) (_ *disclosure.CompanyView, err error) {
	ctx, finish := s.start(ctx, "company_profile", viewer)
	defer func() { finish(err) }()

	var (
		c   *profile.Company
		rel disclosure.Relationship
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = s.profiles.Company(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		rel, err = s.relationshipWithCompany(gctx, viewer, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d, err := s.decide(disclosure.CompanySubject(c), viewer, rel)
	if err != nil {
		return nil, err
	}
	view := disclosure.ProjectCompany(c, d)
	s.auditPremiumAccess(ctx, viewer, c.ID, pkgaudit.ResourceCompany, d)
	return &view, nil
}

// =============================================================================
// Application context
// =============================================================================

// Application projects one application for a party to it or an admin.
func (s *Service) Application(ctx context.Context, viewer disclosure.Viewer, appID id.ApplicationID) (_ *disclosure.ApplicationView, err error) {
	ctx, finish := s.start(ctx, "application", viewer)
	defer func() { finish(err) }()

	app, err := s.applications.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !canSee(viewer, app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not a party to this application")
	}
	views, err := s.projectApplications(ctx, viewer, []*appmodels.Application{app})
	if err != nil {
		return nil, err
	}
	view := disclosure.ProjectApplication(app, views[0].candidate, views[0].company)
	return &view, nil
}

// Applications lists the viewer's submitted or received applications.
func (s *Service) Applications(ctx context.Context, viewer disclosure.Viewer) (_ []disclosure.ApplicationView, err error) {
	ctx, finish := s.start(ctx, "applications", viewer)
	defer func() { finish(err) }()

	apps, err := s.applications.ForViewer(ctx, viewer.UserID, viewer.Role)
	if err != nil {
		return nil, err
	}
	parts, err := s.projectApplications(ctx, viewer, apps)
	if err != nil {
		return nil, err
	}
	out := make([]disclosure.ApplicationView, 0, len(apps))
	for i, app := range apps {
		out = append(out, disclosure.ProjectApplication(app, parts[i].candidate, parts[i].company))
	}
	return out, nil
}

// Interviews lists the viewer's INTERVIEW_SCHEDULED applications.
func (s *Service) Interviews(ctx context.Context, viewer disclosure.Viewer) (_ []disclosure.InterviewView, err error) {
	ctx, finish := s.start(ctx, "interviews", viewer)
	defer func() { finish(err) }()

	apps, err := s.applications.Interviews(ctx, viewer.UserID, viewer.Role)
	if err != nil {
		return nil, err
	}
	parts, err := s.projectApplications(ctx, viewer, apps)
	if err != nil {
		return nil, err
	}
	out := make([]disclosure.InterviewView, 0, len(apps))
	for i, app := range apps {
		out = append(out, disclosure.ProjectInterview(app, parts[i].candidate, parts[i].company))
	}
	return out, nil
}

// Conversations lists the viewer's message partners. Each thread belongs to an
// application, so partner views follow the application-context audit rule.
func (s *Service) Conversations(ctx context.Context, viewer disclosure.Viewer) (_ []disclosure.ConversationView, err error) {
	ctx, finish := s.start(ctx, "conversations", viewer)
	defer func() { finish(err) }()

	if viewer.Role != id.RoleCandidate && viewer.Role != id.RoleIndustry {
		return nil, dErrors.New(dErrors.CodeForbidden, "role has no conversations")
	}
	if s.threads == nil {
		return []disclosure.ConversationView{}, nil
	}
	threads, err := s.threads.Threads(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	apps := make([]*appmodels.Application, 0, len(threads))
	for _, t := range threads {
		app, err := s.applications.Get(ctx, t.ApplicationID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "conversation without application")
		}
		apps = append(apps, app)
	}
	parts, err := s.projectApplications(ctx, viewer, apps)
	if err != nil {
		return nil, err
	}
	out := make([]disclosure.ConversationView, 0, len(threads))
	for i, t := range threads {
		out = append(out, disclosure.ProjectConversation(t, parts[i].candidate, parts[i].company))
	}
	return out, nil
}

// counterpart is the projected other side of one application.
type counterpart struct {
	candidate *disclosure.CandidateView
	company   *disclosure.CompanyView
}

type pair struct {
	candidate id.UserID
	industry  id.UserID
}

// projectApplications projects the side of each application the viewer is entitled
// to see: the candidate for industries, the company for candidates, both for admins.
// Subjects are batch-loaded; relationships are resolved once per counterpart.
func (s *Service) projectApplications(ctx context.Context, viewer disclosure.Viewer, apps []*appmodels.Application) ([]counterpart, error) {
	out := make([]counterpart, len(apps))
	if len(apps) == 0 {
		return out, nil
	}
	showCandidate := viewer.Role == id.RoleIndustry || viewer.IsAdmin()
	showCompany := viewer.Role == id.RoleCandidate || viewer.IsAdmin()

	var (
		candidates map[id.UserID]*profile.Candidate
		companies  map[id.UserID]*profile.Company
		rels       map[pair]disclosure.Relationship
	)
	g, gctx := errgroup.WithContext(ctx)
	if showCandidate {
		g.Go(func() error {
			var err error
			candidates, err = s.profiles.Candidates(gctx, uniqueIDs(apps, func(a *appmodels.Application) id.UserID { return a.CandidateID }))
			return err
		})
	}
	if showCompany {
		g.Go(func() error {
			var err error
			companies, err = s.profiles.Companies(gctx, uniqueIDs(apps, func(a *appmodels.Application) id.UserID { return a.IndustryID }))
			return err
		})
	}
	if !viewer.IsAdmin() {
		g.Go(func() error {
			var err error
			rels, err = s.relationships(gctx, apps)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, app := range apps {
		rel := rels[pair{candidate: app.CandidateID, industry: app.IndustryID}]
		appID := app.ID
		rel.ApplicationID = &appID

		if showCandidate {
			c, ok := candidates[app.CandidateID]
			if !ok {
				return nil, dErrors.New(dErrors.CodeInternal, "application references a missing candidate")
			}
			d, err := s.decide(disclosure.CandidateSubject(c), viewer, rel)
			if err != nil {
				return nil, err
			}
			view := disclosure.ProjectCandidate(c, d)
			out[i].candidate = &view
			s.auditContactView(ctx, viewer, app, d)
		}
		if showCompany {
			c, ok := companies[app.IndustryID]
			if !ok {
				return nil, dErrors.New(dErrors.CodeInternal, "application references a missing company")
			}
			d, err := s.decide(disclosure.CompanySubject(c), viewer, rel)
			if err != nil {
				return nil, err
			}
			view := disclosure.ProjectCompany(c, d)
			out[i].company = &view
		}
	}
	return out, nil
}

func (s *Service) relationships(ctx context.Context, apps []*appmodels.Application) (map[pair]disclosure.Relationship, error) {
	seen := make(map[pair]struct{})
	var pairs []pair
	for _, app := range apps {
		p := pair{candidate: app.CandidateID, industry: app.IndustryID}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}

	results := make([]disclosure.Relationship, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(relationshipConcurrency)
	for i, p := range pairs {
		g.Go(func() error {
			rel, err := s.applications.Relationship(gctx, p.candidate, p.industry)
			results[i] = rel
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[pair]disclosure.Relationship, len(pairs))
	for i, p := range pairs {
		out[p] = results[i]
	}
	return out, nil
}

// =============================================================================
// Pipeline steps
// =============================================================================

func (s *Service) decide(subject disclosure.Subject, viewer disclosure.Viewer, rel disclosure.Relationship) (disclosure.Decision, error) {
	d, err := disclosure.Decide(subject, viewer, rel)
	if err != nil {
		return disclosure.Decision{}, err
	}
	s.metrics.ObserveDecision(d)
	return d, nil
}

// relationshipWithCandidate is the platform link between an industry viewer and a
// candidate. Other viewers have none.
func (s *Service) relationshipWithCandidate(ctx context.Context, viewer disclosure.Viewer, candidateID id.UserID) (disclosure.Relationship, error) {
	if viewer.Role != id.RoleIndustry {
		return disclosure.Relationship{}, nil
	}
	return s.applications.Relationship(ctx, candidateID, viewer.UserID)
}

func (s *Service) relationshipWithCompany(ctx context.Context, viewer disclosure.Viewer, companyID id.UserID) (disclosure.Relationship, error) {
	if viewer.Role != id.RoleCandidate {
		return disclosure.Relationship{}, nil
	}
	return s.applications.Relationship(ctx, viewer.UserID, companyID)
}

func (s *Service) auditContactView(ctx context.Context, viewer disclosure.Viewer, app *appmodels.Application, d disclosure.Decision) {
	if app.ContactViewed {
		return
	}
	s.recordContactView(ctx, viewer, app.ID, app.CandidateID, d)
}

// recordContactView records VIEW_CONTACT against appID when an industry viewer was
// shown the candidate's contact or name on the strength of premium plus relationship.
func (s *Service) recordContactView(ctx context.Context, viewer disclosure.Viewer, appID id.ApplicationID, candidateID id.UserID, d disclosure.Decision) {
	if viewer.Role != id.RoleIndustry {
		return
	}
	if d.Contact.Basis != disclosure.BasisPremiumRelationship && d.Name.Basis != disclosure.BasisPremiumRelationship {
		return
	}
	_, err := s.audit.RecordContactView(ctx, appID, pkgaudit.Entry{
		ActorID:      viewer.UserID,
		ActorRole:    viewer.Role,
		SubjectID:    candidateID,
		PremiumGated: true,
		LegalBasis:   d.LegalBasis(),
	})
	if err != nil {
		s.auditFailed(ctx, pkgaudit.ActionViewContact, viewer, err)
	}
}

func (s *Service) auditPremiumAccess(ctx context.Context, viewer disclosure.Viewer, subjectID id.UserID, resourceType string, d disclosure.Decision) {
	if !d.PremiumGated() {
		return
	}
	err := s.audit.Record(ctx, pkgaudit.Entry{
		ActorID:      viewer.UserID,
		ActorRole:    viewer.Role,
		SubjectID:    subjectID,
		Action:       pkgaudit.ActionAccessPremiumFeature,
		ResourceType: resourceType,
		ResourceID:   subjectID.String(),
		PremiumGated: true,
		LegalBasis:   d.LegalBasis(),
	})
	if err != nil {
		s.auditFailed(ctx, pkgaudit.ActionAccessPremiumFeature, viewer, err)
	}
}

func (s *Service) auditFailed(ctx context.Context, action pkgaudit.Action, viewer disclosure.Viewer, err error) {
	s.metrics.IncAuditFailure(action)
	s.logger.ErrorContext(ctx, "audit write failed after disclosure",
		"request_id", requestcontext.RequestID(ctx),
		"action", action,
		"actor_id", viewer.UserID,
		"error", err,
	)
}

// start opens a span and returns a finisher that records duration and outcome.
func (s *Service) start(ctx context.Context, operation string, viewer disclosure.Viewer) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "disclosure."+operation,
		trace.WithAttributes(
			attribute.String("viewer.role", viewer.Role.String()),
			attribute.Bool("viewer.premium", viewer.Premium),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.MessageOf(err))
		}
		span.End()
		s.metrics.ObservePipelineDuration(operation, time.Since(started).Seconds())
	}
}

func canSee(viewer disclosure.Viewer, app *appmodels.Application) bool {
	switch viewer.Role {
	case id.RoleAdmin:
		return true
	case id.RoleCandidate:
		return app.CandidateID == viewer.UserID
	case id.RoleIndustry:
		return app.IndustryID == viewer.UserID
	default:
		return false
	}
}

func uniqueIDs(apps []*appmodels.Application, pick func(*appmodels.Application) id.UserID) []id.UserID {
	seen := make(map[id.UserID]struct{}, len(apps))
	out := make([]id.UserID, 0, len(apps))
	for _, app := range apps {
		uid := pick(app)
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}
