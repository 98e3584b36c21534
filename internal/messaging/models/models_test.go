package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

func TestNewMessage(t *testing.T) {
	industry := id.UserID(uuid.New())
	candidate := id.UserID(uuid.New())
	appID := id.ApplicationID(uuid.New())
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("trims the body", func(t *testing.T) {
		msg, err := NewMessage(id.MessageID(uuid.New()), appID, industry, id.RoleIndustry, candidate, "  hello \n", now)
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Body)
		assert.Equal(t, now, msg.SentAt)
	})

	tests := []struct {
		name      string
		body      string
		recipient id.UserID
	}{
		{"blank body", "   ", candidate},
		{"oversized body", strings.Repeat("x", maxBodyLength+1), candidate},
		{"message to self", "hi", industry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage(id.MessageID(uuid.New()), appID, industry, id.RoleIndustry, tt.recipient, tt.body, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func TestThreadPartnerOf(t *testing.T) {
	thread := Thread{CandidateID: id.UserID(uuid.New()), IndustryID: id.UserID(uuid.New())}
	assert.Equal(t, thread.IndustryID, thread.PartnerOf(thread.CandidateID))
	assert.Equal(t, thread.CandidateID, thread.PartnerOf(thread.IndustryID))
}
