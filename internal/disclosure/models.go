// Package disclosure decides and applies field-level redaction for cross-role views.
//
// Decide is the only place that answers "is this field visible to this viewer";
// the projectors apply a Decision to build view structs. Both are pure.
package disclosure

import (
	"time"

	"talentlink/internal/identity"
	profile "talentlink/internal/profile/models"
	id "talentlink/pkg/domain"
)

// Viewer is the identity and entitlement of the caller, built once per request.
// Premium is already resolved against the request clock.
type Viewer struct {
	UserID           id.UserID
	Role             id.Role
	Premium          bool
	PremiumExpiresAt *time.Time
}

func (v Viewer) IsAdmin() bool {
	return v.Role == id.RoleAdmin
}

// Relationship is the platform-recorded connection between viewer and subject.
// The zero value means no relationship.
type Relationship struct {
	HasApplication   bool
	HasMessageThread bool
	// ApplicationID is set when the view happens in the context of one application.
	ApplicationID *id.ApplicationID
	// Carrier is the application a contact disclosure is recorded against outside an
	// application context: the newest active application, else the newest application
	// between the pair when only a message thread links them.
	Carrier *id.ApplicationID
}

// Exists reports whether any qualifying relationship links viewer and subject.
func (r Relationship) Exists() bool {
	return r.HasApplication || r.HasMessageThread
}

// Subject is the policy-relevant slice of a candidate or company.
type Subject struct {
	ID           id.UserID
	Kind         identity.Kind
	AnonymousID  string
	ShowName     bool
	ShowContact  bool
	ShowLocation bool
}

func CandidateSubject(c *profile.Candidate) Subject {
	return Subject{
		ID:           c.ID,
		Kind:         identity.KindCandidate,
		AnonymousID:  c.AnonymousID,
		ShowName:     c.Visibility.ShowFullName,
		ShowContact:  c.Visibility.ShowContact,
		ShowLocation: c.Visibility.ShowLocation,
	}
}

func CompanySubject(c *profile.Company) Subject {
	return Subject{
		ID:           c.ID,
		Kind:         identity.KindCompany,
		AnonymousID:  c.AnonymousID,
		ShowName:     c.Visibility.ShowCompanyName,
		ShowContact:  c.Visibility.ShowContact,
		ShowLocation: c.Visibility.ShowLocation,
	}
}

// Field is a redactable attribute. For companies FieldName is the company name.
type Field string

const (
	FieldName     Field = "name"
	FieldContact  Field = "contact"
	FieldLocation Field = "location"
)

// Basis records which rule decided a field.
type Basis string

const (
	BasisAdmin               Basis = "admin"
	BasisSelf                Basis = "self"
	BasisOwnerPreference     Basis = "owner_preference"
	BasisPremiumRelationship Basis = "premium_relationship"
	BasisPremium             Basis = "premium"
	BasisRedacted            Basis = "redacted"
)

// IsPremiumGated reports whether the basis depends on the viewer's subscription.
func (b Basis) IsPremiumGated() bool {
	return b == BasisPremium || b == BasisPremiumRelationship
}

type FieldDecision struct {
	Disclosed bool
	Basis     Basis
}

// Decision is the per-request visibility verdict for one subject. Never persisted.
type Decision struct {
	Name     FieldDecision
	Contact  FieldDecision
	Location FieldDecision
	// Label is the pseudonym shown in place of a redacted name.
	Label string
}

// Fields returns the decisions keyed by field.
func (d Decision) Fields() map[Field]FieldDecision {
	return map[Field]FieldDecision{
		FieldName:     d.Name,
		FieldContact:  d.Contact,
		FieldLocation: d.Location,
	}
}

// PremiumGated reports whether any field was disclosed only because of premium.
func (d Decision) PremiumGated() bool {
	return d.Name.Basis.IsPremiumGated() ||
		d.Contact.Basis.IsPremiumGated() ||
		d.Location.Basis.IsPremiumGated()
}

// LegalBasis summarizes why premium-gated fields were disclosed, for audit entries.
func (d Decision) LegalBasis() string {
	if d.Contact.Basis == BasisPremiumRelationship || d.Name.Basis == BasisPremiumRelationship {
		return "premium subscription with an existing application or message relationship"
	}
	if d.PremiumGated() {
		return "premium subscription access to policy-controlled fields"
	}
	return ""
}
