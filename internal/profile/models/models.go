package models

import (
	"strings"
	"time"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	strutil "talentlink/pkg/platform/strings"
)

const (
	maxNameLength     = 128
	maxLocationLength = 128
	maxContactLength  = 254
)

// Account is the entitlement record of a user. Billing owns IsPremium and
// PremiumExpiresAt; this service only reads them.
type Account struct {
	ID               id.UserID
	Role             id.Role
	IsPremium        bool
	PremiumExpiresAt *time.Time
	CreatedAt        time.Time
}

// CandidateVisibility holds the candidate's own disclosure choices.
type CandidateVisibility struct {
	ShowFullName bool `json:"show_full_name"`
	ShowContact  bool `json:"show_contact"`
	ShowLocation bool `json:"show_location"`
}

// Candidate is a job-seeker subject.
//
// Invariants:
//   - AnonymousID is non-empty, assigned at construction and never changed
//   - FullName is non-empty
//   - Visibility is only mutated by the candidate themselves
type Candidate struct {
	ID          id.UserID
	AnonymousID string
	FullName    string
	Email       string
	Phone       string
	Location    string
	Headline    string
	Skills      []string
	Visibility  CandidateVisibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyVisibility holds the company's own disclosure choices.
type CompanyVisibility struct {
	ShowCompanyName bool `json:"show_company_name"`
	ShowContact     bool `json:"show_contact"`
	ShowLocation    bool `json:"show_location"`
}

// Company is an industry subject.
//
// Invariants:
//   - AnonymousID is non-empty, assigned at construction and never changed
//   - CompanyName is non-empty
type Company struct {
	ID           id.UserID
	AnonymousID  string
	CompanyName  string
	ContactEmail string
	ContactPhone string
	Location     string
	Sector       string
	Description  string
	Visibility   CompanyVisibility
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CandidateDetails are the mutable attributes supplied at creation.
type CandidateDetails struct {
	FullName string
	Email    string
	Phone    string
	Location string
	Headline string
	Skills   []string
}

// CompanyDetails are the mutable attributes supplied at creation.
type CompanyDetails struct {
	CompanyName  string
	ContactEmail string
	ContactPhone string
	Location     string
	Sector       string
	Description  string
}

// NewCandidate builds a candidate with all fields hidden by default.
func NewCandidate(candidateID id.UserID, anonymousID string, d CandidateDetails, now time.Time) (*Candidate, error) {
	if candidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "candidate id cannot be nil")
	}
	if anonymousID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "candidate anonymous id cannot be empty")
	}
	name, err := normalizeFullName(d.FullName)
	if err != nil {
		return nil, err
	}
	d.FullName = name
	if len(d.Email) > maxContactLength || len(d.Phone) > maxContactLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contact details too long")
	}
	if len(d.Location) > maxLocationLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "location must be 128 characters or less")
	}
	return &Candidate{
		ID:          candidateID,
		AnonymousID: anonymousID,
		FullName:    d.FullName,
		Email:       strings.TrimSpace(d.Email),
		Phone:       strings.TrimSpace(d.Phone),
		Location:    strings.TrimSpace(d.Location),
		Headline:    strings.TrimSpace(d.Headline),
		Skills:      strutil.NormalizeTags(d.Skills),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename replaces the candidate's full name. The anonymous id is untouched, so the
// pseudonym other viewers see stays the same.
func (c *Candidate) Rename(fullName string, now time.Time) error {
	name, err := normalizeFullName(fullName)
	if err != nil {
		return err
	}
	c.FullName = name
	c.UpdatedAt = now
	return nil
}

func normalizeFullName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "full name cannot be empty")
	}
	if len(s) > maxNameLength {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "full name must be 128 characters or less")
	}
	return s, nil
}

// NewCompany builds a company with all fields hidden by default.
func NewCompany(companyID id.UserID, anonymousID string, d CompanyDetails, now time.Time) (*Company, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company id cannot be nil")
	}
	if anonymousID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company anonymous id cannot be empty")
	}
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	if d.CompanyName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name cannot be empty")
	}
	if len(d.CompanyName) > maxNameLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name must be 128 characters or less")
	}
	if len(d.ContactEmail) > maxContactLength || len(d.ContactPhone) > maxContactLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contact details too long")
	}
	if len(d.Location) > maxLocationLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "location must be 128 characters or less")
	}
	return &Company{
		ID:           companyID,
		AnonymousID:  anonymousID,
		CompanyName:  d.CompanyName,
		ContactEmail: strings.TrimSpace(d.ContactEmail),
		ContactPhone: strings.TrimSpace(d.ContactPhone),
		Location:     strings.TrimSpace(d.Location),
		Sector:       strings.TrimSpace(d.Sector),
		Description:  strings.TrimSpace(d.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ApplyVisibility replaces the candidate's preferences.
func (c *Candidate) ApplyVisibility(v CandidateVisibility, now time.Time) {
	c.Visibility = v
	c.UpdatedAt = now
}

// ApplyVisibility replaces the company's preferences.
func (c *Company) ApplyVisibility(v CompanyVisibility, now time.Time) {
	c.Visibility = v
	c.UpdatedAt = now
}

// Clone returns a deep copy so callers can hand out entities without sharing slices.
func (c *Candidate) Clone() *Candidate {
	cp := *c
	cp.Skills = append([]string(nil), c.Skills...)
	return &cp
}

func (c *Company) Clone() *Company {
	cp := *c
	return &cp
}
