package guard

import (
	"context"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
)

// AuthContext is the per-request identity a guard chain evaluates. Built
// from JWT claims and the user record by the transport layer.
type AuthContext struct {
	UserID      uint
	Role        string
	KYCTier     models.KYCTier
	KYCStatus   string
	IsActive    bool
	IsSuspended bool
	SuspendedAt time.Time
	Reason      string
}

// Check is one atomic authorization predicate. It returns nil on pass and a
// typed error on failure, logging the decision either way.
type Check func(ctx context.Context, ac AuthContext) error

// Operation is a unit of work executed only after its guards pass.
type Operation func(ctx context.Context, ac AuthContext) error

// Guard wraps an Operation with a pre-check, failing fast before the
// wrapped work runs. Guards compose by sequential application.
type Guard func(Operation) Operation

// TierCeilings maps each KYC tier to its per-transaction ceiling. Tier 0
// has no entry and cannot transact.
type TierCeilings map[models.KYCTier]money.Money

// DefaultTierCeilings returns the platform per-transaction ceilings.
func DefaultTierCeilings() TierCeilings {
	return TierCeilings{
		models.TierBasic: money.MustFromMajor(50_000, money.NGN),
		models.TierFull:  money.MustFromMajor(500_000, money.NGN),
	}
}
