package handler

import (
	"strings"
	"time"

	"talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

// CreateOpportunityRequest is the body for POST /opportunities.
type CreateOpportunityRequest struct {
	Title string `json:"title"`
}

func (r *CreateOpportunityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// ApplyRequest is the body for POST /applications.
type ApplyRequest struct {
	OpportunityID string `json:"opportunity_id"`
	CoverLetter   string `json:"cover_letter"`

	parsedOpportunityID id.OpportunityID
}

func (r *ApplyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	oppID, err := id.ParseOpportunityID(strings.TrimSpace(r.OpportunityID))
	if err != nil {
		return err
	}
	r.parsedOpportunityID = oppID
	return nil
}

// TransitionBody is the body for POST /applications/{id}/status.
type TransitionBody struct {
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	InterviewAt *time.Time `json:"interview_at,omitempty"`

	parsed models.TransitionRequest
}

// Validate parses the target status. Whether the transition is allowed is decided
// by the service against the stored application.
func (r *TransitionBody) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = models.TransitionRequest{
		To:          status,
		Reason:      strings.TrimSpace(r.Reason),
		InterviewAt: r.InterviewAt,
	}
	return nil
}
