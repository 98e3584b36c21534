// Package domain holds the typed identifiers and value objects shared across modules.
//
// Typed IDs prevent passing an application id where a user id is expected. Construct
// them with the Parse* functions at trust boundaries; direct conversion from
// uuid.UUID is reserved for stores and tests.
package domain

import (
	"github.com/google/uuid"

	dErrors "talentlink/pkg/domain-errors"
)

type (
	UserID        uuid.UUID
	ApplicationID uuid.UUID
	OpportunityID uuid.UUID
	MessageID     uuid.UUID
	AuditEntryID  uuid.UUID
)

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id OpportunityID) String() string { return uuid.UUID(id).String() }
func (id MessageID) String() string     { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string  { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OpportunityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseUserID parses a user (candidate, industry, institute or admin account) id.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application ID")
	return ApplicationID(u), err
}

func ParseOpportunityID(s string) (OpportunityID, error) {
	u, err := parseUUID(s, "opportunity ID")
	return OpportunityID(u), err
}

func ParseMessageID(s string) (MessageID, error) {
	u, err := parseUUID(s, "message ID")
	return MessageID(u), err
}

// maxIDLength bounds input before handing it to uuid.Parse.
const maxIDLength = 64

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
