package disclosure

import (
	"talentlink/internal/identity"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

// ownerControlled lists the fields premium alone cannot unlock once the owner hides
// them. Candidate name and any contact are owner-controlled; company name and
// location are policy-controlled.
func ownerControlled(kind identity.Kind, field Field) bool {
	switch field {
	case FieldContact:
		return true
	case FieldName:
		return kind == identity.KindCandidate
	default:
		return false
	}
}

// Decide computes the visibility of every field of subject for viewer.
// A missing relationship is not an error: it yields redaction. A subject without a
// pseudonym is an integrity failure and the whole decision fails closed.
func Decide(subject Subject, viewer Viewer, rel Relationship) (Decision, error) {
	label, err := identity.Label(subject.Kind, subject.AnonymousID)
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "subject pseudonym unavailable")
	}
	return Decision{
		Name:     decideField(subject, viewer, rel, FieldName, subject.ShowName),
		Contact:  decideField(subject, viewer, rel, FieldContact, subject.ShowContact),
		Location: decideField(subject, viewer, rel, FieldLocation, subject.ShowLocation),
		Label:    label,
	}, nil
}

// decideField applies the rule chain to one field. First match wins:
//  1. Admin viewer
//  2. Self view
//  3. Owner preference to show the field
//  4. Active premium, plus a relationship for owner-controlled fields
//  5. Redacted
func decideField(subject Subject, viewer Viewer, rel Relationship, field Field, preference bool) FieldDecision {
	// Rule 1: Admin viewer
	if viewer.Role == id.RoleAdmin {
		return FieldDecision{Disclosed: true, Basis: BasisAdmin}
	}

	// Rule 2: Self view
	if !viewer.UserID.IsNil() && viewer.UserID == subject.ID {
		return FieldDecision{Disclosed: true, Basis: BasisSelf}
	}

	// Rule 3: Owner preference
	if preference {
		return FieldDecision{Disclosed: true, Basis: BasisOwnerPreference}
	}

	// Rule 4: Premium entitlement
	if viewer.Premium {
		if !ownerControlled(subject.Kind, field) {
			return FieldDecision{Disclosed: true, Basis: BasisPremium}
		}
		if rel.Exists() {
			return FieldDecision{Disclosed: true, Basis: BasisPremiumRelationship}
		}
	}

	// Rule 5: Redacted
	return FieldDecision{Disclosed: false, Basis: BasisRedacted}
}
