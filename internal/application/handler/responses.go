package handler

import (
	"time"

	"talentlink/internal/application/models"
)

// OpportunityResponse is returned to the owning industry.
type OpportunityResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplicationStateResponse carries the state of an application after a write. It
// never embeds the counterpart; that goes through GET /applications/{id}.
type ApplicationStateResponse struct {
	ID              string     `json:"id"`
	OpportunityID   string     `json:"opportunity_id"`
	Status          string     `json:"status"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	InterviewAt     *time.Time `json:"interview_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toOpportunityResponse(o *models.Opportunity) OpportunityResponse {
	return OpportunityResponse{ID: o.ID.String(), Title: o.Title, CreatedAt: o.CreatedAt}
}

func toStateResponse(a *models.Application) ApplicationStateResponse {
	return ApplicationStateResponse{
		ID:              a.ID.String(),
		OpportunityID:   a.OpportunityID.String(),
		Status:          a.Status.String(),
		ReviewedAt:      a.ReviewedAt,
		RejectionReason: a.RejectionReason,
		InterviewAt:     a.InterviewAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
