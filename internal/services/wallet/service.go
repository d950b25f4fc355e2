package wallet

import (
	"context"
	"fmt"
	"log"
	"time"

	"ajopay/internal/domain/money"
	domainerrors "ajopay/internal/errors"
	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/repositories/cache"
	"ajopay/internal/services/audit"
	"ajopay/internal/services/fees"
	"ajopay/internal/services/guard"
	"ajopay/internal/services/limits"
	"ajopay/internal/services/payout"

	"github.com/google/uuid"
)

type service struct {
	repo    repositories.WalletRepository
	cache   *cache.CacheService
	limits  limits.Service
	fees    *fees.Calculator
	guards  *guard.Engine
	audit   audit.Service
	payouts payout.Service
	config  WalletConfig
	metrics MetricsCollector
	now     func() time.Time
}

// NewService creates a new wallet service. The payout service may be nil
// when bank withdrawals are disabled.
func NewService(
	repo repositories.WalletRepository,
	cacheSvc *cache.CacheService,
	limitsSvc limits.Service,
	feeCalc *fees.Calculator,
	guards *guard.Engine,
	auditSvc audit.Service,
	payouts payout.Service,
	config WalletConfig,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if limitsSvc == nil {
		panic("limits service is required")
	}
	if feeCalc == nil {
		panic("fee calculator is required")
	}
	if guards == nil {
		panic("guard engine is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = money.NGN
	}
	if config.Limits == (limits.Config{}) {
		config.Limits = limits.DefaultConfig()
	}
	if config.ProcessingTimeout == 0 {
		config.ProcessingTimeout = DefaultTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cacheSvc,
		limits:  limitsSvc,
		fees:    feeCalc,
		guards:  guards,
		audit:   auditSvc,
		payouts: payouts,
		config:  config,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if w, err := s.cache.GetWallet(ctx, userID); err == nil {
			return w, nil
		}
	}

	w, err := s.repo.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheWallet(ctx, w)
	}
	return w, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency money.Currency) (*models.Wallet, error) {
	if !currency.Valid() {
		currency = s.config.DefaultCurrency
	}

	w := &models.Wallet{
		UserID:   userID,
		Currency: currency,
		Status:   models.WalletStatusActive,
	}
	if err := s.repo.Create(w); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheWallet(ctx, w)
	}
	return w, nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount money.Money, description string) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if w.Status != models.WalletStatusActive {
			return ErrWalletLocked
		}

		w.BalanceKobo += amount.Minor()
		if err := tx.Update(w); err != nil {
			return err
		}

		return tx.CreateTransaction(ctx, &models.Transaction{
			Reference:   uuid.NewString(),
			Type:        models.TransactionTypeDeposit,
			ReceiverID:  userID,
			SenderID:    userID,
			AmountKobo:  amount.Minor(),
			Currency:    amount.Currency(),
			Description: description,
			Status:      models.TransactionStatusCompleted,
		})
	})
	if err != nil {
		s.metrics.RecordError("credit", err.Error())
		return err
	}

	s.invalidateWallet(ctx, userID)
	s.metrics.RecordTransaction("credit", amount)
	return nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount money.Money, description string) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if w.Status != models.WalletStatusActive {
			return ErrWalletLocked
		}
		if w.BalanceKobo < amount.Minor() {
			return &domainerrors.InsufficientFundsError{Available: w.Balance(), Required: amount}
		}

		w.BalanceKobo -= amount.Minor()
		if err := tx.Update(w); err != nil {
			return err
		}

		return tx.CreateTransaction(ctx, &models.Transaction{
			Reference:   uuid.NewString(),
			Type:        models.TransactionTypeTransfer,
			SenderID:    userID,
			AmountKobo:  amount.Minor(),
			Currency:    amount.Currency(),
			Description: description,
			Status:      models.TransactionStatusCompleted,
		})
	})
	if err != nil {
		s.metrics.RecordError("debit", err.Error())
		return err
	}

	s.invalidateWallet(ctx, userID)
	s.metrics.RecordTransaction("debit", amount)
	return nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (money.Money, error) {
	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return money.Money{}, err
	}
	return w.Balance(), nil
}

func (s *service) ValidateBalance(ctx context.Context, userID uint, amount money.Money) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if w.BalanceKobo < amount.Minor() {
		return &domainerrors.InsufficientFundsError{Available: w.Balance(), Required: amount}
	}
	return nil
}

// Withdraw is the authoritative withdrawal path. Guards and the fee gate
// run first; then the rolling-window limits and the debit are evaluated
// inside one database transaction against a locked wallet row, so a racing
// withdrawal from the same user cannot slip past the ceiling between check
// and debit.
func (s *service) Withdraw(ctx context.Context, req WithdrawalRequest) (*WithdrawalReceipt, error) {
	started := s.now()
	defer func() {
		s.metrics.RecordOperationDuration("withdraw", time.Since(started))
	}()

	if req.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if req.Destination != models.DestinationBank && req.Destination != models.DestinationWallet {
		return nil, ErrInvalidDestination
	}

	if err := s.guards.AuthorizeOperation(ctx, req.Auth, "withdraw", "wallet"); err != nil {
		return nil, err
	}

	permission := models.PermissionWithdraw
	if req.Destination == models.DestinationBank {
		permission = models.PermissionWithdrawBank
	}
	err := guard.RunGuards(ctx, req.Auth,
		s.guards.CheckPermission(permission),
		s.guards.CheckTransactionLimit(req.Amount, "withdrawal"),
	)
	if err != nil {
		return nil, err
	}

	feeResult := s.fees.Calculate(fees.FeeRequest{
		Amount:      req.Amount,
		Destination: req.Destination,
		UserTier:    req.Auth.KYCTier,
	})
	if !feeResult.Gate.Allowed {
		s.audit.LogEvent(ctx, audit.Event{
			Category: models.AuditCategoryKYC,
			Severity: models.AuditSeverityMedium,
			Action:   "withdrawal_kyc_gate",
			UserID:   req.Auth.UserID,
			Status:   models.AuditStatusFailure,
			Details:  map[string]interface{}{"reason": feeResult.Gate.Reason},
		})
		return nil, &domainerrors.InsufficientKycTierError{
			UserID:       req.Auth.UserID,
			RequiredTier: int(feeResult.Gate.RequiredTier),
			CurrentTier:  int(feeResult.Gate.CurrentTier),
			Operation:    "withdraw",
		}
	}

	// Pre-flight window check; also emits the limit audit event.
	if err := s.limits.CheckWithdrawalLimits(ctx, req.Auth.UserID, req.Amount); err != nil {
		return nil, err
	}

	receipt := &WithdrawalReceipt{
		Reference:   uuid.NewString(),
		Amount:      req.Amount,
		Fee:         feeResult.Fee,
		NetAmount:   feeResult.NetAmount,
		FeeType:     feeResult.FeeType,
		Destination: req.Destination,
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByUserIDForUpdate(ctx, req.Auth.UserID)
		if err != nil {
			return err
		}
		if w.Status != models.WalletStatusActive {
			return ErrWalletLocked
		}

		// Re-check the windows under the row lock; the pre-flight result
		// may be stale by now.
		if err := s.recheckLimits(ctx, tx, req.Auth.UserID, req.Amount); err != nil {
			return err
		}

		if w.BalanceKobo < req.Amount.Minor() {
			return &domainerrors.InsufficientFundsError{Available: w.Balance(), Required: req.Amount}
		}

		w.BalanceKobo -= req.Amount.Minor()
		if err := tx.Update(w); err != nil {
			return err
		}

		if err := tx.CreateTransaction(ctx, &models.Transaction{
			Reference:   receipt.Reference,
			Type:        models.TransactionTypeWithdrawal,
			SenderID:    req.Auth.UserID,
			AmountKobo:  req.Amount.Minor(),
			FeeKobo:     feeResult.Fee.Minor(),
			Currency:    req.Amount.Currency(),
			Destination: req.Destination,
			Description: req.Description,
			Status:      models.TransactionStatusCompleted,
			Metadata: models.NewJSON(map[string]interface{}{
				"fee_type":   feeResult.FeeType,
				"net_amount": feeResult.NetAmount.Minor(),
			}),
		}); err != nil {
			return err
		}

		if !feeResult.Fee.IsZero() {
			if err := tx.CreateTransaction(ctx, &models.Transaction{
				Reference:   uuid.NewString(),
				Type:        models.TransactionTypeFee,
				SenderID:    req.Auth.UserID,
				AmountKobo:  feeResult.Fee.Minor(),
				Currency:    req.Amount.Currency(),
				Description: "withdrawal fee",
				Status:      models.TransactionStatusCompleted,
				Metadata: models.NewJSON(map[string]interface{}{
					"withdrawal_reference": receipt.Reference,
				}),
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.metrics.RecordError("withdraw", err.Error())
		return nil, err
	}

	if req.Destination == models.DestinationBank && s.payouts != nil {
		providerID, err := s.payouts.SendBankPayout(ctx, payout.Request{
			Reference: receipt.Reference,
			UserID:    req.Auth.UserID,
			Amount:    feeResult.NetAmount,
			BankRef:   req.BankRef,
		})
		if err != nil {
			// The debit is committed; the payout is retried out of band.
			log.Printf("wallet: payout for %s failed, queued for retry: %v", receipt.Reference, err)
		} else {
			log.Printf("wallet: payout %s sent for %s", providerID, receipt.Reference)
		}
	}

	s.invalidateWallet(ctx, req.Auth.UserID)
	s.metrics.RecordTransaction("withdrawal", req.Amount)
	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryFinancial,
		Severity: models.AuditSeverityLow,
		Action:   "withdrawal",
		UserID:   req.Auth.UserID,
		Status:   models.AuditStatusSuccess,
		Details: map[string]interface{}{
			"reference":   receipt.Reference,
			"destination": req.Destination,
			"amount":      req.Amount.Minor(),
			"fee":         feeResult.Fee.Minor(),
		},
	})

	return receipt, nil
}

// recheckLimits evaluates the three windows against transaction-scoped
// aggregates.
func (s *service) recheckLimits(ctx context.Context, tx repositories.WalletRepository, userID uint, proposed money.Money) error {
	for _, limit := range []limits.WithdrawalLimit{s.config.Limits.Daily, s.config.Limits.Weekly, s.config.Limits.Monthly} {
		since := limits.PeriodStart(limit.Period, s.now())

		count, err := tx.CountWithdrawalsSince(ctx, userID, since)
		if err != nil {
			return &domainerrors.RepositoryError{Operation: "count_since_" + string(limit.Period), Entity: "transaction", Cause: err}
		}
		amount, err := tx.SumWithdrawalsSince(ctx, userID, since, proposed.Currency())
		if err != nil {
			return &domainerrors.RepositoryError{Operation: "amount_since_" + string(limit.Period), Entity: "transaction", Cause: err}
		}

		exceeded, limitType, err := limit.WouldExceed(count, amount, proposed)
		if err != nil {
			return err
		}
		if exceeded {
			return &domainerrors.WithdrawalLimitExceededError{
				Period:    string(limit.Period),
				Limit:     limit.MaxCount,
				Current:   count,
				LimitType: limitType,
			}
		}
	}
	return nil
}

func (s *service) LockWallet(ctx context.Context, walletID uint, reason string) error {
	if err := s.repo.UpdateStatus(walletID, models.WalletStatusLocked, reason); err != nil {
		return fmt.Errorf("failed to lock wallet: %w", err)
	}
	return nil
}

func (s *service) UnlockWallet(ctx context.Context, walletID uint) error {
	if err := s.repo.UpdateStatus(walletID, models.WalletStatusActive, ""); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}
	return nil
}

func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("wallet: failed to invalidate cache for user %d: %v", userID, err)
	}
}
