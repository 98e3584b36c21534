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

var now = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func TestNewCandidate(t *testing.T) {
	candidateID := id.UserID(uuid.New())

	t.Run("hides everything by default", func(t *testing.T) {
		c, err := NewCandidate(candidateID, "aid", CandidateDetails{FullName: "  Ada Lovelace "}, now)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", c.FullName)
		assert.Equal(t, CandidateVisibility{}, c.Visibility)
		assert.Equal(t, now, c.CreatedAt)
	})

	cases := map[string]struct {
		id      id.UserID
		anonID  string
		details CandidateDetails
	}{
		"nil id":          {id.UserID{}, "aid", CandidateDetails{FullName: "Ada"}},
		"no anonymous id": {candidateID, "", CandidateDetails{FullName: "Ada"}},
		"empty name":      {candidateID, "aid", CandidateDetails{FullName: "   "}},
		"long name":       {candidateID, "aid", CandidateDetails{FullName: strings.Repeat("a", 129)}},
		"long location":   {candidateID, "aid", CandidateDetails{FullName: "Ada", Location: strings.Repeat("x", 129)}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCandidate(tc.id, tc.anonID, tc.details, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func TestNewCompany(t *testing.T) {
	companyID := id.UserID(uuid.New())

	c, err := NewCompany(companyID, "aid", CompanyDetails{CompanyName: "Acme"}, now)
	require.NoError(t, err)
	assert.Equal(t, CompanyVisibility{}, c.Visibility)

	_, err = NewCompany(companyID, "", CompanyDetails{CompanyName: "Acme"}, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewCompany(companyID, "aid", CompanyDetails{}, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestApplyVisibility_KeepsAnonymousID(t *testing.T) {
	c, err := NewCandidate(id.UserID(uuid.New()), "aid-1", CandidateDetails{FullName: "Ada"}, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	c.ApplyVisibility(CandidateVisibility{ShowFullName: true}, later)

	assert.True(t, c.Visibility.ShowFullName)
	assert.Equal(t, "aid-1", c.AnonymousID)
	assert.Equal(t, later, c.UpdatedAt)
}

func TestClone_DoesNotShareSkills(t *testing.T) {
	c, err := NewCandidate(id.UserID(uuid.New()), "aid", CandidateDetails{FullName: "Ada", Skills: []string{"go"}}, now)
	require.NoError(t, err)

	cp := c.Clone()
	cp.Skills[0] = "rust"
	assert.Equal(t, "go", c.Skills[0])
}

func TestNewCandidate_NormalizesSkills(t *testing.T) {
	c, err := NewCandidate(id.UserID(uuid.New()), "aid", CandidateDetails{
		FullName: "Ada",
		Skills:   []string{" Go", "go", "", "distributed   systems"},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "distributed systems"}, c.Skills)
}
