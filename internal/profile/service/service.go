package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"talentlink/internal/identity"
	"talentlink/internal/profile/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/platform/tx"
	"talentlink/pkg/requestcontext"
)

// Store is the persistence surface for accounts and subject profiles.
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccount(ctx context.Context, userID id.UserID) (*models.Account, error)
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	CreateCompany(ctx context.Context, c *models.Company) error
	FindCandidate(ctx context.Context, candidateID id.UserID) (*models.Candidate, error)
	FindCompany(ctx context.Context, companyID id.UserID) (*models.Company, error)
	FindCandidates(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Candidate, error)
	FindCompanies(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Company, error)
	UpdateCandidateVisibility(ctx context.Context, candidateID id.UserID, v models.CandidateVisibility, now time.Time) error
	UpdateCompanyVisibility(ctx context.Context, companyID id.UserID, v models.CompanyVisibility, now time.Time) error
	UpdateCandidateName(ctx context.Context, candidateID id.UserID, name string, now time.Time) error
}

// Service owns subject creation and the subject's own visibility preferences.
type Service struct {
	store          Store
	tx             tx.Runner
	logger         *slog.Logger
	newAnonymousID func() (string, error)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAnonymousIDGenerator replaces the pseudonym source; tests use it to pin labels.
func WithAnonymousIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		s.newAnonymousID = fn
	}
}

func New(store Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:          store,
		tx:             runner,
		logger:         slog.Default(),
		newAnonymousID: identity.NewAnonymousID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VisibilityChange carries a partial preference update; nil fields keep their value.
type VisibilityChange struct {
	ShowFullName    *bool
	ShowCompanyName *bool
	ShowContact     *bool
	ShowLocation    *bool
}

// Visibility is the resulting preference set of either subject kind.
type Visibility struct {
	Candidate *models.CandidateVisibility
	Company   *models.CompanyVisibility
}

// CreateCandidate registers the candidate profile of userID and assigns its pseudonym.
func (s *Service) CreateCandidate(ctx context.Context, userID id.UserID, details models.CandidateDetails) (*models.Candidate, error) {
	now := requestcontext.Now(ctx)
	anonymousID, err := s.newAnonymousID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate anonymous id")
	}
	c, err := models.NewCandidate(userID, anonymousID, details, now)
	if err != nil {
		return nil, toValidation(err)
	}

	err = s.tx.RunInTx(ctx, userID.String(), func(ctx context.Context) error {
		if err := s.ensureAccount(ctx, userID, id.RoleCandidate, now); err != nil {
			return err
		}
		return s.store.CreateCandidate(ctx, c)
	})
	if err != nil {
		return nil, translateCreate(err, "candidate")
	}

	s.logger.InfoContext(ctx, "candidate profile created",
		"request_id", requestcontext.RequestID(ctx),
		"candidate_id", c.ID,
	)
	return c, nil
}

// CreateCompany registers the company profile of userID and assigns its pseudonym.
func (s *Service) CreateCompany(ctx context.Context, userID id.UserID, details models.CompanyDetails) (*models.Company, error) {
	now := requestcontext.Now(ctx)
	anonymousID, err := s.newAnonymousID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate anonymous id")
	}
	c, err := models.NewCompany(userID, anonymousID, details, now)
	if err != nil {
		return nil, toValidation(err)
	}

	err = s.tx.RunInTx(ctx, userID.String(), func(ctx context.Context) error {
		if err := s.ensureAccount(ctx, userID, id.RoleIndustry, now); err != nil {
			return err
		}
		return s.store.CreateCompany(ctx, c)
	})
	if err != nil {
		return nil, translateCreate(err, "company")
	}

	s.logger.InfoContext(ctx, "company profile created",
		"request_id", requestcontext.RequestID(ctx),
		"company_id", c.ID,
	)
	return c, nil
}

// ensureAccount creates the entitlement row on first profile creation. An existing
// account must carry the same role.
func (s *Service) ensureAccount(ctx context.Context, userID id.UserID, role id.Role, now time.Time) error {
	existing, err := s.store.FindAccount(ctx, userID)
	switch {
	case err == nil:
		if existing.Role != role {
			return dErrors.New(dErrors.CodeForbidden, "account role does not match profile kind")
		}
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return s.store.CreateAccount(ctx, &models.Account{ID: userID, Role: role, CreatedAt: now})
	default:
		return err
	}
}

// UpdateVisibility changes the caller's own preferences. The subject is always the
// authenticated caller, so no other actor can reach another subject's settings.
func (s *Service) UpdateVisibility(ctx context.Context, ownerID id.UserID, role id.Role, change VisibilityChange) (*Visibility, error) {
	now := requestcontext.Now(ctx)
	switch role {
	case id.RoleCandidate:
		if change.ShowCompanyName != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "show_company_name does not apply to candidates")
		}
		return s.updateCandidateVisibility(ctx, ownerID, change, now)
	case id.RoleIndustry:
		if change.ShowFullName != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "show_full_name does not apply to companies")
		}
		return s.updateCompanyVisibility(ctx, ownerID, change, now)
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "role has no visibility preferences")
	}
}

func (s *Service) updateCandidateVisibility(ctx context.Context, ownerID id.UserID, change VisibilityChange, now time.Time) (*Visibility, error) {
	var result models.CandidateVisibility
	err := s.tx.RunInTx(ctx, ownerID.String(), func(ctx context.Context) error {
		c, err := s.store.FindCandidate(ctx, ownerID)
		if err != nil {
			return err
		}
		v := c.Visibility
		apply(&v.ShowFullName, change.ShowFullName)
		apply(&v.ShowContact, change.ShowContact)
		apply(&v.ShowLocation, change.ShowLocation)
		result = v
		return s.store.UpdateCandidateVisibility(ctx, ownerID, v, now)
	})
	if err != nil {
		return nil, translateLookup(err, "candidate profile not found")
	}
	s.logger.InfoContext(ctx, "candidate visibility updated",
		"request_id", requestcontext.RequestID(ctx),
		"candidate_id", ownerID,
	)
	return &Visibility{Candidate: &result}, nil
}

func (s *Service) updateCompanyVisibility(ctx context.Context, ownerID id.UserID, change VisibilityChange, now time.Time) (*Visibility, error) {
	var result models.CompanyVisibility
	err := s.tx.RunInTx(ctx, ownerID.String(), func(ctx context.Context) error {
		c, err := s.store.FindCompany(ctx, ownerID)
		if err != nil {
			return err
		}
		v := c.Visibility
		apply(&v.ShowCompanyName, change.ShowCompanyName)
		apply(&v.ShowContact, change.ShowContact)
		apply(&v.ShowLocation, change.ShowLocation)
		result = v
		return s.store.UpdateCompanyVisibility(ctx, ownerID, v, now)
	})
	if err != nil {
		return nil, translateLookup(err, "company profile not found")
	}
	s.logger.InfoContext(ctx, "company visibility updated",
		"request_id", requestcontext.RequestID(ctx),
		"company_id", ownerID,
	)
	return &Visibility{Company: &result}, nil
}

// RenameCandidate changes the caller's own full name.
func (s *Service) RenameCandidate(ctx context.Context, ownerID id.UserID, role id.Role, fullName string) (*models.Candidate, error) {
	if role != id.RoleCandidate {
		return nil, dErrors.New(dErrors.CodeForbidden, "only candidates have a full name")
	}
	now := requestcontext.Now(ctx)
	var renamed *models.Candidate
	err := s.tx.RunInTx(ctx, ownerID.String(), func(ctx context.Context) error {
		c, err := s.store.FindCandidate(ctx, ownerID)
		if err != nil {
			return err
		}
		if err := c.Rename(fullName, now); err != nil {
			return toValidation(err)
		}
		renamed = c
		return s.store.UpdateCandidateName(ctx, ownerID, c.FullName, now)
	})
	if err != nil {
		return nil, translateLookup(err, "candidate profile not found")
	}
	s.logger.InfoContext(ctx, "candidate renamed",
		"request_id", requestcontext.RequestID(ctx),
		"candidate_id", ownerID,
	)
	return renamed, nil
}

func apply(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Candidate returns the stored candidate. The result is raw subject data and must
// pass through the disclosure pipeline before leaving the process.
func (s *Service) Candidate(ctx context.Context, candidateID id.UserID) (*models.Candidate, error) {
	c, err := s.store.FindCandidate(ctx, candidateID)
	if err != nil {
		return nil, translateLookup(err, "candidate not found")
	}
	return c, nil
}

// CandidateExists reports whether candidateID has a candidate profile.
func (s *Service) CandidateExists(ctx context.Context, candidateID id.UserID) (bool, error) {
	_, err := s.store.FindCandidate(ctx, candidateID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) Company(ctx context.Context, companyID id.UserID) (*models.Company, error) {
	c, err := s.store.FindCompany(ctx, companyID)
	if err != nil {
		return nil, translateLookup(err, "company not found")
	}
	return c, nil
}

func (s *Service) Candidates(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Candidate, error) {
	out, err := s.store.FindCandidates(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load candidates")
	}
	return out, nil
}

func (s *Service) Companies(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Company, error) {
	out, err := s.store.FindCompanies(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load companies")
	}
	return out, nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func translateCreate(err error, kind string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, kind+" profile already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create "+kind+" profile")
}

func translateLookup(err error, notFound string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
}
