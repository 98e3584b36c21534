package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

func newService() *JWTService {
	return NewJWTService("test-signing-key", "test-issuer", "test-audience")
}

func TestIssueAndValidate(t *testing.T) {
	s := newService()
	userID := id.UserID(uuid.New())

	token, err := s.Issue(userID, id.RoleIndustry, time.Hour)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "INDUSTRY", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken_Rejects(t *testing.T) {
	s := newService()
	userID := id.UserID(uuid.New())

	expired, err := s.Issue(userID, id.RoleCandidate, -time.Hour)
	require.NoError(t, err)
	wrongAudience, err := NewJWTService("test-signing-key", "test-issuer", "other-audience").Issue(userID, id.RoleCandidate, time.Hour)
	require.NoError(t, err)
	wrongKey, err := NewJWTService("another-key", "test-issuer", "test-audience").Issue(userID, id.RoleCandidate, time.Hour)
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: userID.String()}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"garbage", "invalid-token-string", "invalid token"},
		{"expired", expired, "token has expired"},
		{"wrong audience", wrongAudience, "invalid token"},
		{"wrong key", wrongKey, "invalid token"},
		{"unexpected algorithm", hs512, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateToken(tt.token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
			assert.Equal(t, tt.message, dErrors.MessageOf(err))
		})
	}
}

func TestValidator(t *testing.T) {
	s := newService()
	userID := id.UserID(uuid.New())
	token, err := s.Issue(userID, id.RoleCandidate, time.Hour)
	require.NoError(t, err)

	claims, err := s.Validator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "CANDIDATE", claims.Role)
}
