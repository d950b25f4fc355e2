package guard

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/errors"
	"ajopay/internal/models"
	"ajopay/internal/services/audit"

	"github.com/stretchr/testify/assert"
)

// recordingAudit captures emitted events without any storage.
type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) LogEvent(ctx context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

func (r *recordingAudit) QueryEvents(ctx context.Context, filter audit.Filter) ([]audit.Event, error) {
	return nil, nil
}

func (r *recordingAudit) GetStatistics(ctx context.Context, since time.Time) (audit.Statistics, error) {
	return audit.Statistics{}, nil
}

func activeUser(tier models.KYCTier) AuthContext {
	return AuthContext{
		UserID:    9,
		Role:      "user",
		KYCTier:   tier,
		KYCStatus: models.KYCStatusApproved,
		IsActive:  true,
	}
}

func TestCheckKYCTier(t *testing.T) {
	sink := &recordingAudit{}
	e := NewEngine(sink, nil)
	ctx := context.Background()

	assert.NoError(t, e.CheckKYCTier(models.TierBasic, "withdraw")(ctx, activeUser(models.TierFull)))

	err := e.CheckKYCTier(models.TierFull, "withdraw")(ctx, activeUser(models.TierBasic))
	var tierErr *errors.InsufficientKycTierError
	assert.True(t, stderrors.As(err, &tierErr))
	assert.Equal(t, 2, tierErr.RequiredTier)
	assert.Equal(t, 1, tierErr.CurrentTier)
	assert.Equal(t, "withdraw", tierErr.Operation)

	// One event per decision, pass and fail alike.
	assert.Len(t, sink.events, 2)
	assert.Equal(t, models.AuditStatusSuccess, sink.events[0].Status)
	assert.Equal(t, models.AuditStatusFailure, sink.events[1].Status)
}

func TestCheckPermission(t *testing.T) {
	e := NewEngine(&recordingAudit{}, nil)
	ctx := context.Background()

	t.Run("tier sufficient and approved", func(t *testing.T) {
		assert.NoError(t, e.CheckPermission(models.PermissionWithdraw)(ctx, activeUser(models.TierBasic)))
	})

	t.Run("tier too low", func(t *testing.T) {
		err := e.CheckPermission(models.PermissionWithdrawBank)(ctx, activeUser(models.TierBasic))
		var unauthorized *errors.UnauthorizedError
		assert.True(t, stderrors.As(err, &unauthorized))
		assert.Equal(t, models.PermissionWithdrawBank, unauthorized.Action)
	})

	t.Run("kyc not approved", func(t *testing.T) {
		ac := activeUser(models.TierBasic)
		ac.KYCStatus = models.KYCStatusPending
		assert.Error(t, e.CheckPermission(models.PermissionWithdraw)(ctx, ac))
	})

	t.Run("tier-zero permission ignores kyc status", func(t *testing.T) {
		ac := activeUser(models.TierUnverified)
		ac.KYCStatus = models.KYCStatusPending
		assert.NoError(t, e.CheckPermission(models.PermissionWalletRead)(ctx, ac))
	})

	t.Run("unknown permission denied", func(t *testing.T) {
		assert.Error(t, e.CheckPermission("nonexistent:write")(ctx, activeUser(models.TierFull)))
	})
}

func TestCheckRole(t *testing.T) {
	e := NewEngine(&recordingAudit{}, nil)
	ctx := context.Background()

	assert.NoError(t, e.CheckRole("user")(ctx, activeUser(models.TierBasic)))

	admin := activeUser(models.TierBasic)
	admin.Role = "admin"
	assert.NoError(t, e.CheckRole("auditor")(ctx, admin), "admin passes any role check")

	err := e.CheckRole("auditor")(ctx, activeUser(models.TierBasic))
	var unauthorized *errors.UnauthorizedError
	assert.True(t, stderrors.As(err, &unauthorized))
}

func TestCheckAccountStatus(t *testing.T) {
	e := NewEngine(&recordingAudit{}, nil)
	ctx := context.Background()

	t.Run("active and not suspended", func(t *testing.T) {
		assert.NoError(t, e.CheckAccountStatus()(ctx, activeUser(models.TierBasic)))
	})

	t.Run("suspended", func(t *testing.T) {
		ac := activeUser(models.TierBasic)
		ac.IsSuspended = true
		ac.Reason = "chargeback review"

		err := e.CheckAccountStatus()(ctx, ac)
		var suspended *errors.AccountSuspendedError
		assert.True(t, stderrors.As(err, &suspended))
		assert.Equal(t, "chargeback review", suspended.Reason)
	})

	t.Run("inactive reported before suspended", func(t *testing.T) {
		ac := activeUser(models.TierBasic)
		ac.IsActive = false
		ac.IsSuspended = true

		err := e.CheckAccountStatus()(ctx, ac)
		var unauthorized *errors.UnauthorizedError
		assert.True(t, stderrors.As(err, &unauthorized), "inactive must short-circuit the suspension check")
	})
}

func TestCheckTransactionLimit(t *testing.T) {
	e := NewEngine(&recordingAudit{}, nil)
	ctx := context.Background()

	t.Run("within tier ceiling", func(t *testing.T) {
		amt := money.MustFromMajor(40_000, money.NGN)
		assert.NoError(t, e.CheckTransactionLimit(amt, "withdrawal")(ctx, activeUser(models.TierBasic)))
	})

	t.Run("exactly at ceiling", func(t *testing.T) {
		amt := money.MustFromMajor(50_000, money.NGN)
		assert.NoError(t, e.CheckTransactionLimit(amt, "withdrawal")(ctx, activeUser(models.TierBasic)))
	})

	t.Run("above tier ceiling", func(t *testing.T) {
		amt := money.MustFromMajor(50_001, money.NGN)
		err := e.CheckTransactionLimit(amt, "withdrawal")(ctx, activeUser(models.TierBasic))
		var unauthorized *errors.UnauthorizedError
		assert.True(t, stderrors.As(err, &unauthorized))
	})

	t.Run("unverified tier has no ceiling", func(t *testing.T) {
		amt := money.MustFromMajor(1, money.NGN)
		assert.Error(t, e.CheckTransactionLimit(amt, "withdrawal")(ctx, activeUser(models.TierUnverified)))
	})
}
