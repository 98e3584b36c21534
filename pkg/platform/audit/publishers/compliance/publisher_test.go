package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	audit "talentlink/pkg/platform/audit"
	"talentlink/pkg/platform/audit/store/memory"
	"talentlink/pkg/requestcontext"
)

func entry() audit.Entry {
	return audit.Entry{
		ActorID:      id.UserID(uuid.New()),
		ActorRole:    id.RoleIndustry,
		SubjectID:    id.UserID(uuid.New()),
		Action:       audit.ActionMessageInitiate,
		ResourceType: audit.ResourceApplication,
		ResourceID:   uuid.NewString(),
	}
}

func TestEmit_CompletesFromRequestContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), fixed), "req-9")

	require.NoError(t, New(store).Emit(ctx, entry()))

	all := store.All()
	require.Len(t, all, 1)
	assert.NotEqual(t, uuid.Nil, uuid.UUID(all[0].ID))
	assert.Equal(t, fixed, all[0].Timestamp)
	assert.Equal(t, "req-9", all[0].RequestID)
}

func TestEmit_KeepsCallerValues(t *testing.T) {
	store := memory.NewInMemoryStore()
	e := entry()
	e.ID = id.AuditEntryID(uuid.New())
	e.Timestamp = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	e.RequestID = "outer"
	ctx := requestcontext.WithRequestID(context.Background(), "inner")

	require.NoError(t, New(store).Emit(ctx, e))

	got := store.All()[0]
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Timestamp, got.Timestamp)
	assert.Equal(t, "outer", got.RequestID)
}

func TestEmit_RejectsInvalidEntry(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := New(store)

	e := entry()
	e.SubjectID = id.UserID{}
	err := p.Emit(context.Background(), e)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Empty(t, store.All())
}

func TestEmit_ReturnsStoreFailure(t *testing.T) {
	store := memory.NewInMemoryStore()
	store.FailAppends(errors.New("disk full"))
	p := New(store)

	err := p.Emit(context.Background(), entry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
