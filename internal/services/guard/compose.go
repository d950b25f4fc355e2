package guard

import (
	"context"
	"log"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
	"ajopay/internal/services/audit"
)

// RunGuards applies checks in order, returning the first failure.
func RunGuards(ctx context.Context, ac AuthContext, checks ...Check) error {
	for _, check := range checks {
		if err := check(ctx, ac); err != nil {
			return err
		}
	}
	return nil
}

// wrap lifts a Check into a Guard.
func wrap(check Check) Guard {
	return func(next Operation) Operation {
		return func(ctx context.Context, ac AuthContext) error {
			if err := check(ctx, ac); err != nil {
				return err
			}
			return next(ctx, ac)
		}
	}
}

// Compose chains guards left to right: the first guard's check runs first.
func Compose(guards ...Guard) Guard {
	return func(op Operation) Operation {
		for i := len(guards) - 1; i >= 0; i-- {
			op = guards[i](op)
		}
		return op
	}
}

// RequireKYCTier wraps an operation with a KYC tier check.
func (e *Engine) RequireKYCTier(required models.KYCTier, operation string) Guard {
	return wrap(e.CheckKYCTier(required, operation))
}

// RequirePermission wraps an operation with a permission check.
func (e *Engine) RequirePermission(permission string) Guard {
	return wrap(e.CheckPermission(permission))
}

// RequireRole wraps an operation with a role check.
func (e *Engine) RequireRole(role string) Guard {
	return wrap(e.CheckRole(role))
}

// RequireActiveAccount wraps an operation with the account-status check.
func (e *Engine) RequireActiveAccount() Guard {
	return wrap(e.CheckAccountStatus())
}

// RequireTransactionLimit wraps an operation with a per-transaction
// ceiling check.
func (e *Engine) RequireTransactionLimit(amount money.Money, limitType string) Guard {
	return wrap(e.CheckTransactionLimit(amount, limitType))
}

// AuthorizeOperation is the composite entry point: verifies account status,
// records the authorization, and logs it. Callers run it before any
// operation-specific guards.
func (e *Engine) AuthorizeOperation(ctx context.Context, ac AuthContext, operation, resource string) error {
	if err := e.CheckAccountStatus()(ctx, ac); err != nil {
		return err
	}

	e.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryAuthorization,
		Severity: models.AuditSeverityLow,
		Action:   "authorize_operation",
		UserID:   ac.UserID,
		Status:   models.AuditStatusSuccess,
		Details:  map[string]interface{}{"operation": operation, "resource": resource},
	})
	log.Printf("guard: authorized user %d for %s on %s", ac.UserID, operation, resource)
	return nil
}
