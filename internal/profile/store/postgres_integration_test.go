//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentlink/internal/profile/models"
	"talentlink/internal/profile/store"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/testutil/containers"
)

func seedCandidate(t *testing.T, s *store.Postgres, anonymousID string) *models.Candidate {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	userID := id.UserID(uuid.New())
	require.NoError(t, s.CreateAccount(ctx, &models.Account{ID: userID, Role: id.RoleCandidate, CreatedAt: now}))
	c, err := models.NewCandidate(userID, anonymousID, models.CandidateDetails{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Skills:   []string{"cobol", "compilers"},
	}, now)
	require.NoError(t, err)
	require.NoError(t, s.CreateCandidate(ctx, c))
	return c
}

func TestPostgres_CandidateRoundTrip(t *testing.T) {
	pg := containers.GetPostgresContainer(t)
	pg.Reset(t)
	s := store.NewPostgres(pg.DB)
	ctx := context.Background()

	c := seedCandidate(t, s, "c0ffee00c0ffee00c0ffee00a1b2c3d4")

	got, err := s.FindCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.AnonymousID, got.AnonymousID)
	assert.Equal(t, []string{"cobol", "compilers"}, got.Skills)
	assert.False(t, got.Visibility.ShowFullName)

	require.NoError(t, s.UpdateCandidateVisibility(ctx, c.ID, models.CandidateVisibility{ShowContact: true}, time.Now()))
	require.NoError(t, s.UpdateCandidateName(ctx, c.ID, "Grace B. Hopper", time.Now()))
	got, err = s.FindCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Visibility.ShowContact)
	assert.Equal(t, "Grace B. Hopper", got.FullName)
	assert.Equal(t, c.AnonymousID, got.AnonymousID, "pseudonym survives profile edits")
}

func TestPostgres_AnonymousIDUnique(t *testing.T) {
	pg := containers.GetPostgresContainer(t)
	pg.Reset(t)
	s := store.NewPostgres(pg.DB)
	ctx := context.Background()

	seedCandidate(t, s, "0123456789abcdef0123456789abcdef")

	userID := id.UserID(uuid.New())
	require.NoError(t, s.CreateAccount(ctx, &models.Account{ID: userID, Role: id.RoleCandidate, CreatedAt: time.Now()}))
	dup, err := models.NewCandidate(userID, "0123456789abcdef0123456789abcdef", models.CandidateDetails{FullName: "Ada"}, time.Now())
	require.NoError(t, err)
	err = s.CreateCandidate(ctx, dup)
	assert.True(t, errors.Is(err, sentinel.ErrConflict))
}

func TestPostgres_BatchLoadAndPremium(t *testing.T) {
	pg := containers.GetPostgresContainer(t)
	pg.Reset(t)
	s := store.NewPostgres(pg.DB)
	ctx := context.Background()

	a := seedCandidate(t, s, uuid.NewString())
	b := seedCandidate(t, s, uuid.NewString())

	found, err := s.FindCandidates(ctx, []id.UserID{a.ID, b.ID, id.UserID(uuid.New())})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
	require.NoError(t, s.SetPremium(ctx, a.ID, true, &expires))
	account, err := s.FindAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, account.IsPremium)
	require.NotNil(t, account.PremiumExpiresAt)
	assert.True(t, expires.Equal(*account.PremiumExpiresAt))
}
