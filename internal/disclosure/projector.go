package disclosure

import (
	"time"

	application "talentlink/internal/application/models"
	messaging "talentlink/internal/messaging/models"
	profile "talentlink/internal/profile/models"
)

// LocationHidden replaces a redacted location.
const LocationHidden = "Location Hidden"

// CandidateView is the view-safe projection of a candidate. Redacted contact fields
// are null; the primary id is only present when the name is disclosed.
type CandidateView struct {
	ID          *string  `json:"id,omitempty"`
	DisplayName string   `json:"display_name"`
	Anonymized  bool     `json:"anonymized"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Location    string   `json:"location"`
	Headline    string   `json:"headline,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// CompanyView is the view-safe projection of a company.
type CompanyView struct {
	ID           *string `json:"id,omitempty"`
	DisplayName  string  `json:"display_name"`
	Anonymized   bool    `json:"anonymized"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Location     string  `json:"location"`
	Sector       string  `json:"sector,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// ApplicationView embeds the counterpart subject, projected through the same
// ProjectCandidate/ProjectCompany path as a standalone profile.
type ApplicationView struct {
	ID              string         `json:"id"`
	OpportunityID   string         `json:"opportunity_id"`
	Status          string         `json:"status"`
	CoverLetter     string         `json:"cover_letter,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	InterviewAt     *time.Time     `json:"interview_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Candidate       *CandidateView `json:"candidate,omitempty"`
	Company         *CompanyView   `json:"company,omitempty"`
}

// InterviewView is an INTERVIEW_SCHEDULED application as listed on the calendar.
type InterviewView struct {
	ApplicationID string         `json:"application_id"`
	OpportunityID string         `json:"opportunity_id"`
	InterviewAt   *time.Time     `json:"interview_at,omitempty"`
	Candidate     *CandidateView `json:"candidate,omitempty"`
	Company       *CompanyView   `json:"company,omitempty"`
}

// ConversationView is one message partner in the viewer's inbox.
type ConversationView struct {
	ApplicationID string         `json:"application_id"`
	LastMessage   string         `json:"last_message"`
	LastMessageAt time.Time      `json:"last_message_at"`
	MessageCount  int            `json:"message_count"`
	Candidate     *CandidateView `json:"candidate,omitempty"`
	Company       *CompanyView   `json:"company,omitempty"`
}

func strPtr(s string) *string {
	return &s
}

// ProjectCandidate builds a new view of c under d. c is not modified.
func ProjectCandidate(c *profile.Candidate, d Decision) CandidateView {
	v := CandidateView{
		DisplayName: d.Label,
		Anonymized:  !d.Name.Disclosed,
		Location:    LocationHidden,
		Headline:    c.Headline,
		Skills:      append([]string(nil), c.Skills...),
	}
	if d.Name.Disclosed {
		v.ID = strPtr(c.ID.String())
		v.DisplayName = c.FullName
	}
	if d.Contact.Disclosed {
		v.Email = strPtr(c.Email)
		v.Phone = strPtr(c.Phone)
	}
	if d.Location.Disclosed {
		v.Location = c.Location
	}
	return v
}

// ProjectCompany builds a new view of c under d. c is not modified.
func ProjectCompany(c *profile.Company, d Decision) CompanyView {
	v := CompanyView{
		DisplayName: d.Label,
		Anonymized:  !d.Name.Disclosed,
		Location:    LocationHidden,
		Sector:      c.Sector,
		Description: c.Description,
	}
	if d.Name.Disclosed {
		v.ID = strPtr(c.ID.String())
		v.DisplayName = c.CompanyName
	}
	if d.Contact.Disclosed {
		v.ContactEmail = strPtr(c.ContactEmail)
		v.ContactPhone = strPtr(c.ContactPhone)
	}
	if d.Location.Disclosed {
		v.Location = c.Location
	}
	return v
}

// ProjectApplication wraps already-projected counterparts. Pass nil for a side the
// viewer should not see.
func ProjectApplication(app *application.Application, candidate *CandidateView, company *CompanyView) ApplicationView {
	return ApplicationView{
		ID:              app.ID.String(),
		OpportunityID:   app.OpportunityID.String(),
		Status:          app.Status.String(),
		CoverLetter:     app.CoverLetter,
		ReviewedAt:      copyTime(app.ReviewedAt),
		RejectionReason: app.RejectionReason,
		InterviewAt:     copyTime(app.InterviewAt),
		CreatedAt:       app.CreatedAt,
		Candidate:       candidate,
		Company:         company,
	}
}

func ProjectInterview(app *application.Application, candidate *CandidateView, company *CompanyView) InterviewView {
	return InterviewView{
		ApplicationID: app.ID.String(),
		OpportunityID: app.OpportunityID.String(),
		InterviewAt:   copyTime(app.InterviewAt),
		Candidate:     candidate,
		Company:       company,
	}
}

func ProjectConversation(thread messaging.Thread, candidate *CandidateView, company *CompanyView) ConversationView {
	return ConversationView{
		ApplicationID: thread.ApplicationID.String(),
		LastMessage:   thread.LastMessage,
		LastMessageAt: thread.LastMessageAt,
		MessageCount:  thread.MessageCount,
		Candidate:     candidate,
		Company:       company,
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
