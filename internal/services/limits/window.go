package limits

import (
	"time"

	"ajopay/internal/domain/money"
)

// Limit types reported on a violation.
const (
	LimitTypeCount  = "count"
	LimitTypeAmount = "amount"
)

// WouldExceed reports whether admitting one more withdrawal of
// proposedAmount would push usage strictly past the ceiling. The ceiling is
// inclusive: usage landing exactly on MaxCount or MaxAmount is allowed.
// Pure function; limitType is empty unless exceeded.
func (l WithdrawalLimit) WouldExceed(currentCount int, currentAmount, proposedAmount money.Money) (bool, string, error) {
	if currentCount+1 > l.MaxCount {
		return true, LimitTypeCount, nil
	}

	total, err := currentAmount.Add(proposedAmount)
	if err != nil {
		return false, "", err
	}
	over, err := total.GreaterThan(l.MaxAmount)
	if err != nil {
		return false, "", err
	}
	if over {
		return true, LimitTypeAmount, nil
	}
	return false, "", nil
}

// PeriodStart computes the window's start boundary for a reference instant,
// always in UTC: start of calendar day, start of ISO week (Monday), or
// start of calendar month.
func PeriodStart(p Period, ref time.Time) time.Time {
	ref = ref.UTC()
	switch p {
	case PeriodDaily:
		return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeekly:
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		monday := ref.AddDate(0, 0, -daysSinceMonday)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodMonthly:
		return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return ref
}
