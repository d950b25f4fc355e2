// Package errors defines the typed error taxonomy for policy decisions.
// Each kind is a distinct struct carrying the fields the transport layer is
// allowed to surface; raw persistence errors never reach a client.
package errors

import (
	"fmt"
	"time"

	"ajopay/internal/domain/money"
)

// InsufficientFundsError indicates the wallet balance cannot cover a debit.
type InsufficientFundsError struct {
	Available money.Money
	Required  money.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, required %s", e.Available, e.Required)
}

// WithdrawalLimitExceededError indicates a rolling-window ceiling was breached.
// LimitType is "count" or "amount"; Period names the first violated window.
type WithdrawalLimitExceededError struct {
	Period    string
	Limit     int
	Current   int
	LimitType string
}

func (e *WithdrawalLimitExceededError) Error() string {
	return fmt.Sprintf("%s withdrawal limit exceeded (%s): %d of %d used",
		e.Period, e.LimitType, e.Current, e.Limit)
}

// InsufficientKycTierError indicates the user's KYC tier is below the tier an
// operation requires.
type InsufficientKycTierError struct {
	UserID       uint
	RequiredTier int
	CurrentTier  int
	Operation    string
}

func (e *InsufficientKycTierError) Error() string {
	return fmt.Sprintf("operation %q requires KYC tier %d, user %d has tier %d",
		e.Operation, e.RequiredTier, e.UserID, e.CurrentTier)
}

// UnauthorizedError indicates a failed permission, role, status or
// transaction-limit check.
type UnauthorizedError struct {
	Action string
	UserID uint
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("user %d is not authorized to %s", e.UserID, e.Action)
}

// AccountSuspendedError indicates the account is suspended.
type AccountSuspendedError struct {
	UserID      uint
	SuspendedAt time.Time
	Reason      string
}

func (e *AccountSuspendedError) Error() string {
	return fmt.Sprintf("account %d suspended: %s", e.UserID, e.Reason)
}

// RepositoryError wraps any persistence-layer failure. Operation names the
// repository call, Entity the aggregate it was reading or writing.
type RepositoryError struct {
	Operation string
	Entity    string
	Cause     error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s on %s failed: %v", e.Operation, e.Entity, e.Cause)
}

func (e *RepositoryError) Unwrap() error { return e.Cause }

// RateLimitExceededError indicates the per-user sliding window for an
// endpoint is exhausted.
type RateLimitExceededError struct {
	UserID   uint
	Endpoint string
	Limit    int
	ResetAt  time.Time
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("rate limit of %d exceeded for user %d on %s", e.Limit, e.UserID, e.Endpoint)
}
