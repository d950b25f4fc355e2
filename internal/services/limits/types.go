package limits

import (
	"context"
	"time"

	"ajopay/internal/domain/money"
)

// Period is a rolling-window span for withdrawal limits.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// WithdrawalLimit is the immutable ceiling for one period: at most MaxCount
// withdrawals summing to at most MaxAmount. Constructed once at service
// initialization.
type WithdrawalLimit struct {
	Period    Period
	MaxCount  int
	MaxAmount money.Money
}

// UsageAggregate is actual usage within a window, queried fresh from the
// transaction store on every evaluation.
type UsageAggregate struct {
	Count  int
	Amount money.Money
}

// Config carries the three window ceilings, in the fixed evaluation order.
type Config struct {
	Daily   WithdrawalLimit
	Weekly  WithdrawalLimit
	Monthly WithdrawalLimit
}

// HistoryRepository supplies withdrawal usage aggregates. Both queries are
// scoped to completed withdrawals for a single user since a window start.
type HistoryRepository interface {
	CountSince(ctx context.Context, userID uint, since time.Time) (int, error)
	AmountSince(ctx context.Context, userID uint, since time.Time, currency money.Currency) (money.Money, error)
}

// Service checks a proposed withdrawal against all three rolling windows.
type Service interface {
	CheckWithdrawalLimits(ctx context.Context, userID uint, proposed money.Money) error
}
