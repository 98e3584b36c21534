package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentlink/internal/messaging/models"
	id "talentlink/pkg/domain"
)

func TestInMemory_Threads(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	candidate := id.UserID(uuid.New())
	industry := id.UserID(uuid.New())
	appID := id.ApplicationID(uuid.New())
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	first, err := models.NewMessage(id.MessageID(uuid.New()), appID, industry, id.RoleIndustry, candidate, "Hello", base)
	require.NoError(t, err)
	reply, err := models.NewMessage(id.MessageID(uuid.New()), appID, candidate, id.RoleCandidate, industry, "Hi", base.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, reply))

	has, err := s.HasThread(ctx, appID)
	require.NoError(t, err)
	assert.True(t, has)

	between, err := s.HasThreadBetween(ctx, candidate, industry)
	require.NoError(t, err)
	assert.True(t, between)

	between, err = s.HasThreadBetween(ctx, industry, candidate)
	require.NoError(t, err)
	assert.False(t, between, "parties are ordered (candidate, industry)")

	threads, err := s.ListThreads(ctx, industry)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "Hi", threads[0].LastMessage)
	assert.Equal(t, 2, threads[0].MessageCount)
	assert.Equal(t, candidate, threads[0].CandidateID)

	msgs, err := s.ListByApplication(ctx, appID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Body)

	assert.Error(t, s.Create(ctx, first), "duplicate message id")
}
