// Package sentinel names the storage outcomes services branch on. Stores wrap
// them with the entity id; services translate them to domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no row for the key.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a unique key (account id, anonymous id, candidate+opportunity) is taken.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyUsed: a one-shot flag such as contact_viewed was set by an earlier request.
	ErrAlreadyUsed = errors.New("already used")
)
