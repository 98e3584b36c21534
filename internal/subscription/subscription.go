// Package subscription resolves premium entitlement at the moment of use.
//
// Entitlement is never cached: billing can lapse or extend premium between any two
// requests, so every ViewerContext is built from a fresh account read.
package subscription

import (
	"context"
	"errors"
	"time"

	"talentlink/internal/profile/models"
	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
	"talentlink/pkg/platform/sentinel"
	"talentlink/pkg/requestcontext"
)

// IsPremiumActive reports whether account holds premium at now. A set flag with a
// missing or past expiry is not premium.
func IsPremiumActive(account *models.Account, now time.Time) bool {
	if account == nil || !account.IsPremium || account.PremiumExpiresAt == nil {
		return false
	}
	return account.PremiumExpiresAt.After(now)
}

// Entitlement is the resolved premium state of one viewer for one request.
type Entitlement struct {
	Active    bool
	ExpiresAt *time.Time
}

type AccountReader interface {
	FindAccount(ctx context.Context, userID id.UserID) (*models.Account, error)
}

// Gate reads accounts and resolves entitlement against the request clock.
type Gate struct {
	accounts AccountReader
}

func NewGate(accounts AccountReader) *Gate {
	return &Gate{accounts: accounts}
}

// Resolve returns the viewer's entitlement at requestcontext.Now(ctx). A viewer
// without an account row has no entitlement.
func (g *Gate) Resolve(ctx context.Context, userID id.UserID) (Entitlement, error) {
	account, err := g.accounts.FindAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Entitlement{}, nil
		}
		return Entitlement{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return Entitlement{
		Active:    IsPremiumActive(account, requestcontext.Now(ctx)),
		ExpiresAt: account.PremiumExpiresAt,
	}, nil
}
