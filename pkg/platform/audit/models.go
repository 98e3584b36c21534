package audit

import (
	"time"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

// Action names a privileged disclosure or gated action.
type Action string

const (
	// ActionViewContact records the first time an industry sees a candidate's
	// contact details through an application. At most once per application.
	ActionViewContact Action = "VIEW_CONTACT"

	// ActionAccessPremiumFeature records a premium-only disclosure outside any
	// application context, such as a standalone profile view.
	ActionAccessPremiumFeature Action = "ACCESS_PREMIUM_FEATURE"

	// ActionMessageInitiate records an industry opening a conversation with a candidate.
	ActionMessageInitiate Action = "MESSAGE_INITIATE"
)

// EventCategory classifies audit entries for retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers disclosures of personal data to a third party.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers gated feature usage that discloses no contact data.
	CategoryOperations EventCategory = "operations"
)

var actionCategories = map[Action]EventCategory{
	ActionViewContact:          CategoryCompliance,
	ActionMessageInitiate:      CategoryCompliance,
	ActionAccessPremiumFeature: CategoryOperations,
}

// Category returns the category for this action. Unknown actions default to compliance.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryCompliance
}

func (a Action) IsValid() bool {
	_, ok := actionCategories[a]
	return ok
}

// Resource types referenced by audit entries.
const (
	ResourceApplication = "application"
	ResourceCandidate   = "candidate_profile"
	ResourceCompany     = "company_profile"
)

// Entry is an append-only record of a privileged disclosure.
type Entry struct {
	ID           id.AuditEntryID
	ActorID      id.UserID
	ActorRole    id.Role
	SubjectID    id.UserID
	Action       Action
	ResourceType string
	ResourceID   string
	// PremiumGated is true when the disclosure was possible only because the actor
	// held an active premium subscription.
	PremiumGated bool
	// LegalBasis is the disclosure basis that lifted redaction.
	LegalBasis string
	RequestID  string
	Timestamp  time.Time
}

// Validate checks the fields every stored entry must carry.
func (e Entry) Validate() error {
	if e.ActorID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "audit entry requires actor")
	}
	if e.SubjectID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "audit entry requires subject")
	}
	if !e.Action.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "audit entry has unknown action")
	}
	if e.ResourceType == "" || e.ResourceID == "" {
		return dErrors.New(dErrors.CodeValidation, "audit entry requires resource")
	}
	return nil
}
