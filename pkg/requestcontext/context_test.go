package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "talentlink/pkg/domain"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, UserID(ctx).IsNil())
	assert.Equal(t, id.Role(""), Role(ctx))
	assert.Empty(t, RequestID(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestWithAuthAndTime(t *testing.T) {
	user := id.UserID(uuid.New())
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	ctx := WithTime(WithRequestID(WithAuth(context.Background(), user, id.RoleIndustry), "req-1"), at)

	assert.Equal(t, user, UserID(ctx))
	assert.Equal(t, id.RoleIndustry, Role(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, at, Now(ctx))
}
