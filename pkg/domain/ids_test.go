package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "talentlink/pkg/domain-errors"
)

func TestParsers_RejectMalformedInput(t *testing.T) {
	parsers := map[string]func(string) error{
		"user":        func(s string) error { _, err := ParseUserID(s); return err },
		"application": func(s string) error { _, err := ParseApplicationID(s); return err },
		"opportunity": func(s string) error { _, err := ParseOpportunityID(s); return err },
		"message":     func(s string) error { _, err := ParseMessageID(s); return err },
	}
	inputs := []string{
		"",
		"   ",
		"candidate-42",
		uuid.Nil.String(),
		strings.Repeat("f", maxIDLength+1),
		"550e8400\x00-e29b-41d4-a716-446655440000",
	}

	for name, parse := range parsers {
		for _, in := range inputs {
			err := parse(in)
			require.Error(t, err, "%s parser accepted %q", name, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	}
}

func TestParseApplicationID_NamesTheField(t *testing.T) {
	_, err := ParseApplicationID("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application ID")
}

func TestParseUserID_AcceptsAnyCase(t *testing.T) {
	raw := uuid.New()
	lower, err := ParseUserID(raw.String())
	require.NoError(t, err)
	upper, err := ParseUserID(strings.ToUpper(raw.String()))
	require.NoError(t, err)

	assert.Equal(t, UserID(raw), lower)
	assert.Equal(t, lower, upper)
	assert.False(t, lower.IsNil())
	assert.Equal(t, raw.String(), lower.String())
}

func TestParseRole(t *testing.T) {
	for _, in := range []string{"candidate", " Industry ", "INSTITUTE", "admin"} {
		r, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.True(t, r.IsValid())
	}

	for _, in := range []string{"", "recruiter", "ADMINS"} {
		_, err := ParseRole(in)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), in)
	}
}

func FuzzParseOpportunityID(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("opportunity")
	f.Fuzz(func(t *testing.T, input string) {
		got, err := ParseOpportunityID(input)
		if err != nil {
			return
		}
		if got.IsNil() {
			t.Fatal("nil id accepted")
		}
		again, err := ParseOpportunityID(got.String())
		if err != nil || again != got {
			t.Fatalf("canonical form did not round-trip: %v", err)
		}
	})
}
