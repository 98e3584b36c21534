// Package identity assigns and renders subject pseudonyms.
//
// An anonymous id is 128 random bits, allocated once when the subject is created
// and never derived from the primary key. Label is a pure function of that value.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Kind selects the label format.
type Kind string

const (
	KindCandidate Kind = "candidate"
	KindCompany   Kind = "company"
)

const anonymousIDBytes = 16

// Label suffix lengths per kind.
const (
	candidateSuffixLen = 8
	companySuffixLen   = 6
)

// ErrMissingAnonymousID signals a subject persisted without a pseudonym. Callers must
// fail the request rather than show any real attribute in its place.
var ErrMissingAnonymousID = errors.New("subject has no anonymous identifier")

// NewAnonymousID returns a fresh hex-encoded anonymous id.
func NewAnonymousID() (string, error) {
	b := make([]byte, anonymousIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Label renders the display pseudonym, e.g. "Candidate #ab12cd34" or "Company #9f00e1".
func Label(kind Kind, anonymousID string) (string, error) {
	if anonymousID == "" {
		return "", ErrMissingAnonymousID
	}
	switch kind {
	case KindCandidate:
		return "Candidate #" + suffix(anonymousID, candidateSuffixLen), nil
	case KindCompany:
		return "Company #" + suffix(anonymousID, companySuffixLen), nil
	default:
		return "", fmt.Errorf("unknown subject kind %q", kind)
	}
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
