// Package limits implements the rolling-window withdrawal policy: per-user
// daily, weekly and monthly ceilings on withdrawal count and amount.
package limits

import (
	"context"
	"log"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/errors"
	"ajopay/internal/models"
	"ajopay/internal/services/audit"
)

type service struct {
	history HistoryRepository
	audit   audit.Service
	config  Config
	now     func() time.Time
}

// NewService creates the withdrawal policy service. The config is copied and
// never mutated afterwards.
func NewService(history HistoryRepository, auditSvc audit.Service, config Config) Service {
	if history == nil {
		panic("history repository is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}
	return &service{
		history: history,
		audit:   auditSvc,
		config:  config,
		now:     time.Now,
	}
}

// DefaultConfig returns the platform ceilings: 5/₦100,000 daily,
// 15/₦500,000 weekly, 30/₦2,000,000 monthly.
func DefaultConfig() Config {
	return Config{
		Daily:   WithdrawalLimit{Period: PeriodDaily, MaxCount: 5, MaxAmount: money.MustFromMajor(100_000, money.NGN)},
		Weekly:  WithdrawalLimit{Period: PeriodWeekly, MaxCount: 15, MaxAmount: money.MustFromMajor(500_000, money.NGN)},
		Monthly: WithdrawalLimit{Period: PeriodMonthly, MaxCount: 30, MaxAmount: money.MustFromMajor(2_000_000, money.NGN)},
	}
}

// CheckWithdrawalLimits evaluates the three windows in the fixed
// daily→weekly→monthly order and fails on the first violated one. Usage is
// queried fresh for each window; the service holds no per-user state.
func (s *service) CheckWithdrawalLimits(ctx context.Context, userID uint, proposed money.Money) error {
	for _, limit := range []WithdrawalLimit{s.config.Daily, s.config.Weekly, s.config.Monthly} {
		usage, err := s.fetchUsage(ctx, userID, limit.Period, proposed.Currency())
		if err != nil {
			return err
		}

		exceeded, limitType, err := limit.WouldExceed(usage.Count, usage.Amount, proposed)
		if err != nil {
			return err
		}
		if exceeded {
			s.emit(ctx, userID, limit, usage, models.AuditStatusFailure, limitType)
			log.Printf("limits: user %d exceeded %s withdrawal limit (%s): count=%d amount=%s",
				userID, limit.Period, limitType, usage.Count, usage.Amount)
			return &errors.WithdrawalLimitExceededError{
				Period:    string(limit.Period),
				Limit:     limit.MaxCount,
				Current:   usage.Count,
				LimitType: limitType,
			}
		}
	}

	s.emit(ctx, userID, s.config.Monthly, UsageAggregate{}, models.AuditStatusSuccess, "")
	return nil
}

func (s *service) fetchUsage(ctx context.Context, userID uint, period Period, currency money.Currency) (UsageAggregate, error) {
	since := PeriodStart(period, s.now())

	count, err := s.history.CountSince(ctx, userID, since)
	if err != nil {
		return UsageAggregate{}, &errors.RepositoryError{
			Operation: "count_since_" + string(period),
			Entity:    "transaction",
			Cause:     err,
		}
	}

	amount, err := s.history.AmountSince(ctx, userID, since, currency)
	if err != nil {
		return UsageAggregate{}, &errors.RepositoryError{
			Operation: "amount_since_" + string(period),
			Entity:    "transaction",
			Cause:     err,
		}
	}

	return UsageAggregate{Count: count, Amount: amount}, nil
}

func (s *service) emit(ctx context.Context, userID uint, limit WithdrawalLimit, usage UsageAggregate, status, limitType string) {
	details := map[string]interface{}{
		"period": string(limit.Period),
	}
	severity := models.AuditSeverityLow
	if status == models.AuditStatusFailure {
		details["limit_type"] = limitType
		details["current_count"] = usage.Count
		details["max_count"] = limit.MaxCount
		severity = models.AuditSeverityMedium
	}

	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryFinancial,
		Severity: severity,
		Action:   "withdrawal_limit_check",
		UserID:   userID,
		Status:   status,
		Details:  details,
	})
}
