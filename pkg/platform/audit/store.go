package audit

import (
	"context"

	id "talentlink/pkg/domain"
)

// Store persists audit entries. There is no update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListBySubject(ctx context.Context, subjectID id.UserID) ([]Entry, error)
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]Entry, error)
}
