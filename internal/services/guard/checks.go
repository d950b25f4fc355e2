// Package guard provides composable authorization checks for financial
// operations: KYC tier, permission, role, account status and transaction
// limits, each failing fast with a typed error.
package guard

import (
	"context"
	"log"

	"ajopay/internal/domain/money"
	"ajopay/internal/errors"
	"ajopay/internal/models"
	"ajopay/internal/services/audit"
)

type Engine struct {
	audit    audit.Service
	ceilings TierCeilings
}

// NewEngine creates a guard engine. Ceilings default to the platform values
// when nil.
func NewEngine(auditSvc audit.Service, ceilings TierCeilings) *Engine {
	if auditSvc == nil {
		panic("audit service is required")
	}
	if ceilings == nil {
		ceilings = DefaultTierCeilings()
	}
	return &Engine{audit: auditSvc, ceilings: ceilings}
}

// CheckKYCTier fails unless the user's tier is at least required.
func (e *Engine) CheckKYCTier(required models.KYCTier, operation string) Check {
	return func(ctx context.Context, ac AuthContext) error {
		if ac.KYCTier < required {
			log.Printf("guard: kyc tier check failed for user %d: need %s, have %s (op=%s)",
				ac.UserID, required, ac.KYCTier, operation)
			e.emit(ctx, ac.UserID, models.AuditCategoryKYC, "kyc_tier_check", models.AuditStatusFailure,
				map[string]interface{}{"required_tier": int(required), "current_tier": int(ac.KYCTier), "operation": operation})
			return &errors.InsufficientKycTierError{
				UserID:       ac.UserID,
				RequiredTier: int(required),
				CurrentTier:  int(ac.KYCTier),
				Operation:    operation,
			}
		}
		e.emit(ctx, ac.UserID, models.AuditCategoryKYC, "kyc_tier_check", models.AuditStatusSuccess,
			map[string]interface{}{"operation": operation})
		return nil
	}
}

// CheckPermission resolves the permission's required tier from the static
// table. Permissions above tier 0 additionally require an approved KYC
// status.
func (e *Engine) CheckPermission(permission string) Check {
	return func(ctx context.Context, ac AuthContext) error {
		required, known := models.PermissionTierRequirements[permission]
		fail := func() error {
			log.Printf("guard: permission %q denied for user %d (tier=%s status=%s)",
				permission, ac.UserID, ac.KYCTier, ac.KYCStatus)
			e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "permission_check", models.AuditStatusFailure,
				map[string]interface{}{"permission": permission})
			return &errors.UnauthorizedError{Action: permission, UserID: ac.UserID}
		}

		if !known || ac.KYCTier < required {
			return fail()
		}
		if required > models.TierUnverified && ac.KYCStatus != models.KYCStatusApproved {
			return fail()
		}

		e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "permission_check", models.AuditStatusSuccess,
			map[string]interface{}{"permission": permission})
		return nil
	}
}

// CheckRole fails unless the user holds the target role. Admins pass every
// role check.
func (e *Engine) CheckRole(role string) Check {
	return func(ctx context.Context, ac AuthContext) error {
		if ac.Role != role && ac.Role != "admin" {
			log.Printf("guard: role check failed for user %d: need %q, have %q", ac.UserID, role, ac.Role)
			e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "role_check", models.AuditStatusFailure,
				map[string]interface{}{"required_role": role, "current_role": ac.Role})
			return &errors.UnauthorizedError{Action: "role:" + role, UserID: ac.UserID}
		}
		e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "role_check", models.AuditStatusSuccess,
			map[string]interface{}{"role": role})
		return nil
	}
}

// CheckAccountStatus fails for inactive accounts before the suspension
// check runs, so a suspended-and-inactive account reports inactive.
func (e *Engine) CheckAccountStatus() Check {
	return func(ctx context.Context, ac AuthContext) error {
		if !ac.IsActive {
			log.Printf("guard: account %d is inactive", ac.UserID)
			e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "account_status_check", models.AuditStatusFailure,
				map[string]interface{}{"reason": "inactive"})
			return &errors.UnauthorizedError{Action: "account_access", UserID: ac.UserID}
		}
		if ac.IsSuspended {
			log.Printf("guard: account %d is suspended: %s", ac.UserID, ac.Reason)
			e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "account_status_check", models.AuditStatusFailure,
				map[string]interface{}{"reason": "suspended"})
			return &errors.AccountSuspendedError{UserID: ac.UserID, SuspendedAt: ac.SuspendedAt, Reason: ac.Reason}
		}
		e.emit(ctx, ac.UserID, models.AuditCategoryAuthorization, "account_status_check", models.AuditStatusSuccess, nil)
		return nil
	}
}

// CheckTransactionLimit fails when the amount is above the per-transaction
// ceiling for the user's KYC tier. limitType names the operation family in
// logs and audit events.
func (e *Engine) CheckTransactionLimit(amount money.Money, limitType string) Check {
	return func(ctx context.Context, ac AuthContext) error {
		ceiling, ok := e.ceilings[ac.KYCTier]
		over := !ok
		if ok {
			if exceeds, err := amount.GreaterThan(ceiling); err != nil || exceeds {
				over = true
			}
		}
		if over {
			log.Printf("guard: %s limit check failed for user %d: amount=%s tier=%s",
				limitType, ac.UserID, amount, ac.KYCTier)
			e.emit(ctx, ac.UserID, models.AuditCategoryFinancial, "transaction_limit_check", models.AuditStatusFailure,
				map[string]interface{}{"limit_type": limitType, "tier": int(ac.KYCTier)})
			return &errors.UnauthorizedError{Action: limitType + "_limit", UserID: ac.UserID}
		}
		e.emit(ctx, ac.UserID, models.AuditCategoryFinancial, "transaction_limit_check", models.AuditStatusSuccess,
			map[string]interface{}{"limit_type": limitType})
		return nil
	}
}

func (e *Engine) emit(ctx context.Context, userID uint, category, action, status string, details map[string]interface{}) {
	severity := models.AuditSeverityLow
	if status == models.AuditStatusFailure {
		severity = models.AuditSeverityMedium
	}
	e.audit.LogEvent(ctx, audit.Event{
		Category: category,
		Severity: severity,
		Action:   action,
		UserID:   userID,
		Status:   status,
		Details:  details,
	})
}
