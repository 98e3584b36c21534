package models

import (
	"strings"
	"time"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

const (
	maxTitleLength       = 200
	maxCoverLetterLength = 4000
	maxReasonLength      = 1000
)

// Opportunity is a posting owned by one industry.
type Opportunity struct {
	ID         id.OpportunityID
	IndustryID id.UserID
	Title      string
	CreatedAt  time.Time
}

func NewOpportunity(opportunityID id.OpportunityID, industryID id.UserID, title string, now time.Time) (*Opportunity, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "opportunity title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "opportunity title must be 200 characters or less")
	}
	return &Opportunity{ID: opportunityID, IndustryID: industryID, Title: title, CreatedAt: now}, nil
}

// Application links a candidate to an opportunity and carries the relationship state
// that gates disclosure and messaging.
//
// Invariants:
//   - IndustryID is the owner of OpportunityID, copied at creation
//   - Status changes only through CanTransition
//   - ContactViewed never returns to false once set
//   - RejectionReason is non-empty iff Status is REJECTED
type Application struct {
	ID              id.ApplicationID
	OpportunityID   id.OpportunityID
	CandidateID     id.UserID
	IndustryID      id.UserID
	Status          Status
	CoverLetter     string
	ContactViewed   bool
	ContactViewedAt *time.Time
	ReviewedAt      *time.Time
	RejectionReason string
	InterviewAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewApplication(appID id.ApplicationID, opp *Opportunity, candidateID id.UserID, coverLetter string, now time.Time) (*Application, error) {
	if candidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "candidate id cannot be nil")
	}
	if len(coverLetter) > maxCoverLetterLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "cover letter must be 4000 characters or less")
	}
	return &Application{
		ID:            appID,
		OpportunityID: opp.ID,
		CandidateID:   candidateID,
		IndustryID:    opp.IndustryID,
		Status:        StatusPending,
		CoverLetter:   strings.TrimSpace(coverLetter),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsParty reports whether userID is the candidate or the owning industry.
func (a *Application) IsParty(userID id.UserID) bool {
	return a.CandidateID == userID || a.IndustryID == userID
}

// CanBeMessagedBy reports whether industryID may initiate messaging on this application.
func (a *Application) CanBeMessagedBy(industryID id.UserID) bool {
	return a.Status.IsMessagingEligible() && a.IndustryID == industryID
}

// IsActiveRelationship reports whether the application still links its parties for
// disclosure purposes. Withdrawn and rejected applications no longer do.
func (a *Application) IsActiveRelationship() bool {
	return a.Status != StatusWithdrawn && a.Status != StatusRejected
}

// TransitionRequest describes a requested status change.
type TransitionRequest struct {
	To          Status
	Reason      string
	InterviewAt *time.Time
}

// CanTransition checks the transition table and the actor's right to request it.
// Industries drive the forward pipeline and rejection on applications they own;
// candidates may only withdraw their own application.
func (a *Application) CanTransition(actorID id.UserID, actorRole id.Role, req TransitionRequest) error {
	switch actorRole {
	case id.RoleIndustry:
		if a.IndustryID != actorID {
			return dErrors.New(dErrors.CodeForbidden, "application belongs to another industry")
		}
		if req.To == StatusWithdrawn {
			return dErrors.New(dErrors.CodeForbidden, "only the candidate can withdraw an application")
		}
	case id.RoleCandidate:
		if a.CandidateID != actorID {
			return dErrors.New(dErrors.CodeForbidden, "application belongs to another candidate")
		}
		if req.To != StatusWithdrawn {
			return dErrors.New(dErrors.CodeForbidden, "candidates can only withdraw applications")
		}
	default:
		return dErrors.New(dErrors.CodeForbidden, "role cannot change application status")
	}

	if req.To == StatusRejected {
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			return dErrors.New(dErrors.CodeValidation, "rejection reason is required")
		}
		if len(reason) > maxReasonLength {
			return dErrors.New(dErrors.CodeValidation, "rejection reason must be 1000 characters or less")
		}
	}
	if req.InterviewAt != nil && req.To != StatusInterviewScheduled {
		return dErrors.New(dErrors.CodeValidation, "interview_at only applies to INTERVIEW_SCHEDULED")
	}
	if !CanTransition(a.Status, req.To) {
		return dErrors.New(dErrors.CodeFailedPrecondition,
			"cannot move application from "+a.Status.String()+" to "+req.To.String())
	}
	return nil
}

// ApplyTransition sets the new status and its side fields. Call CanTransition first.
func (a *Application) ApplyTransition(actorRole id.Role, req TransitionRequest, now time.Time) {
	a.Status = req.To
	a.UpdatedAt = now
	if actorRole == id.RoleIndustry {
		a.ReviewedAt = &now
	}
	switch req.To {
	case StatusRejected:
		a.RejectionReason = strings.TrimSpace(req.Reason)
	case StatusInterviewScheduled:
		if req.InterviewAt != nil {
			at := *req.InterviewAt
			a.InterviewAt = &at
		}
	}
}

// ApplyContactViewed marks the contact as seen. It never clears the flag.
func (a *Application) ApplyContactViewed(now time.Time) {
	if a.ContactViewed {
		return
	}
	a.ContactViewed = true
	a.ContactViewedAt = &now
}

// Clone returns a copy that shares no pointers with a.
func (a *Application) Clone() *Application {
	cp := *a
	cp.ContactViewedAt = clonePtr(a.ContactViewedAt)
	cp.ReviewedAt = clonePtr(a.ReviewedAt)
	cp.InterviewAt = clonePtr(a.InterviewAt)
	return &cp
}

func clonePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
