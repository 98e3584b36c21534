package domain

import (
	"strings"

	dErrors "talentlink/pkg/domain-errors"
)

// Role is the platform role of an account.
// Invariant: the value is one of the four supported roles.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleIndustry  Role = "INDUSTRY"
	RoleInstitute Role = "INSTITUTE"
	RoleAdmin     Role = "ADMIN"
)

var validRoles = map[Role]bool{
	RoleCandidate: true,
	RoleIndustry:  true,
	RoleInstitute: true,
	RoleAdmin:     true,
}

// ParseRole constructs a Role from external input (token claims, request bodies).
// Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if r == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}
