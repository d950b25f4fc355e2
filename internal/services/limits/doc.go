/*
Package limits enforces rolling-window withdrawal ceilings.

A withdrawal is checked against three windows in a fixed order: daily,
weekly, monthly. Each window has an inclusive ceiling on both the number of
withdrawals and their cumulative amount. The first violated window aborts
the evaluation and names itself in the returned error.

Usage:

	svc := limits.NewService(historyRepo, auditSvc, limits.DefaultConfig())

	err := svc.CheckWithdrawalLimits(ctx, userID, amount)
	var exceeded *errors.WithdrawalLimitExceededError
	if stderrors.As(err, &exceeded) {
	    // exceeded.Period, exceeded.LimitType tell the caller what tripped
	}

Usage aggregates are fetched fresh from the transaction store on every
evaluation; the service holds no mutable state, so re-evaluating the same
request with no intervening withdrawal yields an identical result.

The pre-flight check here and the eventual debit run in different
transactions. The authoritative enforcement is the re-check the wallet
service performs inside the debit transaction; see the wallet package.
*/
package limits
