// Package requestcontext carries the values a request is served under: who is
// calling, under which role, its request id, and the request clock. Middleware
// writes them; services read them without touching net/http.
package requestcontext

import (
	"context"
	"time"

	id "talentlink/pkg/domain"
)

type ctxKey int

const (
	keyUserID ctxKey = iota
	keyRole
	keyRequestID
	keyNow
)

// UserID is the authenticated caller, or the nil id for anonymous contexts.
func UserID(ctx context.Context) id.UserID {
	v, _ := ctx.Value(keyUserID).(id.UserID)
	return v
}

// Role is the caller's role claim, or "" when unauthenticated.
func Role(ctx context.Context) id.Role {
	v, _ := ctx.Value(keyRole).(id.Role)
	return v
}

// WithAuth records the caller identity left behind by the auth middleware.
func WithAuth(ctx context.Context, userID id.UserID, role id.Role) context.Context {
	ctx = context.WithValue(ctx, keyUserID, userID)
	return context.WithValue(ctx, keyRole, role)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now is the request clock. Outside a request (relay loop, tests without
// WithTime) it is the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyNow).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyNow, t)
}
