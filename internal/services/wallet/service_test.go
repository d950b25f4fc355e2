package wallet

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/errors"
	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/audit"
	"ajopay/internal/services/fees"
	"ajopay/internal/services/guard"
	"ajopay/internal/services/limits"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func ngn(major float64) money.Money {
	return money.MustFromMajor(major, money.NGN)
}

// MockWalletRepository mocks the persistence layer. ExecuteInTransaction
// runs the callback against the same mock, so in-transaction expectations
// are set on it directly.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(wallet *models.Wallet) error {
	return m.Called(wallet).Error(0)
}

func (m *MockWalletRepository) GetByID(id uint) (*models.Wallet, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(wallet *models.Wallet) error {
	return m.Called(wallet).Error(0)
}

func (m *MockWalletRepository) UpdateStatus(walletID uint, status, reason string) error {
	return m.Called(walletID, status, reason).Error(0)
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockWalletRepository) CountWithdrawalsSince(ctx context.Context, userID uint, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockWalletRepository) SumWithdrawalsSince(ctx context.Context, userID uint, since time.Time, currency money.Currency) (money.Money, error) {
	args := m.Called(ctx, userID, since, currency)
	return args.Get(0).(money.Money), args.Error(1)
}

func (m *MockWalletRepository) ExecuteInTransaction(fn func(tx repositories.WalletRepository) error) error {
	return fn(m)
}

// MockLimitsService mocks the pre-flight window check.
type MockLimitsService struct {
	mock.Mock
}

func (m *MockLimitsService) CheckWithdrawalLimits(ctx context.Context, userID uint, proposed money.Money) error {
	return m.Called(ctx, userID, proposed).Error(0)
}

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

func authFor(userID uint, tier models.KYCTier) guard.AuthContext {
	return guard.AuthContext{
		UserID:    userID,
		Role:      "user",
		KYCTier:   tier,
		KYCStatus: models.KYCStatusApproved,
		IsActive:  true,
	}
}

type walletFixture struct {
	repo   *MockWalletRepository
	limits *MockLimitsService
	sink   *recordingAudit
	svc    *service
}

func newFixture(t *testing.T) *walletFixture {
	t.Helper()
	repo := &MockWalletRepository{}
	limitsSvc := &MockLimitsService{}
	sink := &recordingAudit{}
	svc := &service{
		repo:   repo,
		limits: limitsSvc,
		fees:   fees.NewCalculator(fees.DefaultSchedule()),
		guards: guard.NewEngine(sink, guard.DefaultTierCeilings()),
		audit:  sink,
		config: WalletConfig{
			DefaultCurrency:   money.NGN,
			Limits:            limits.DefaultConfig(),
			ProcessingTimeout: DefaultTimeout,
		},
		metrics: &NoopMetricsCollector{},
		now:     func() time.Time { return testNow },
	}
	return &walletFixture{repo: repo, limits: limitsSvc, sink: sink, svc: svc}
}

func (f *walletFixture) expectCleanWindows(userID uint) {
	f.repo.On("CountWithdrawalsSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(0, nil)
	f.repo.On("SumWithdrawalsSince", mock.Anything, userID, mock.AnythingOfType("time.Time"), money.NGN).
		Return(money.Zero(money.NGN), nil)
}

func TestWithdrawWalletDestination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uint(7)

	w := &models.Wallet{ID: 1, UserID: userID, BalanceKobo: ngn(80_000).Minor(), Currency: money.NGN, Status: models.WalletStatusActive}
	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(20_000)).Return(nil)
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)
	f.expectCleanWindows(userID)
	f.repo.On("Update", mock.AnythingOfType("*models.Wallet")).Return(nil)
	f.repo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil)

	receipt, err := f.svc.Withdraw(ctx, WithdrawalRequest{
		Auth:        authFor(userID, models.TierBasic),
		Amount:      ngn(20_000),
		Destination: models.DestinationWallet,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, receipt.Reference)
	// Below the percentage threshold, wallet destination carries no fee.
	assert.True(t, receipt.Fee.IsZero())
	assert.Equal(t, ngn(20_000), receipt.NetAmount)
	assert.Equal(t, ngn(60_000).Minor(), w.BalanceKobo)
	f.repo.AssertExpectations(t)
	f.limits.AssertExpectations(t)
}

func TestWithdrawBankFeeAndLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uint(7)

	w := &models.Wallet{ID: 1, UserID: userID, BalanceKobo: ngn(500_000).Minor(), Currency: money.NGN, Status: models.WalletStatusActive}
	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(200_000)).Return(nil)
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)
	f.expectCleanWindows(userID)
	f.repo.On("Update", mock.AnythingOfType("*models.Wallet")).Return(nil)

	var txns []*models.Transaction
	f.repo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Run(func(args mock.Arguments) {
			txns = append(txns, args.Get(1).(*models.Transaction))
		}).Return(nil)

	receipt, err := f.svc.Withdraw(ctx, WithdrawalRequest{
		Auth:        authFor(userID, models.TierFull),
		Amount:      ngn(200_000),
		Destination: models.DestinationBank,
	})

	assert.NoError(t, err)
	// ₦50 base + 0.5% of ₦200,000 = ₦1,050.
	assert.Equal(t, ngn(1_050), receipt.Fee)
	assert.Equal(t, ngn(198_950), receipt.NetAmount)

	// One withdrawal row plus one fee row.
	assert.Len(t, txns, 2)
	assert.Equal(t, models.TransactionTypeWithdrawal, txns[0].Type)
	assert.Equal(t, receipt.Reference, txns[0].Reference)
	assert.Equal(t, ngn(1_050).Minor(), txns[0].FeeKobo)
	assert.Equal(t, models.TransactionTypeFee, txns[1].Type)
	assert.Equal(t, ngn(1_050).Minor(), txns[1].AmountKobo)
}

func TestWithdrawGuardCeilingBlocks(t *testing.T) {
	f := newFixture(t)

	// ₦600,000 is over every per-transaction ceiling; the guard chain
	// rejects before fees are even priced.
	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(7, models.TierBasic),
		Amount:      ngn(600_000),
		Destination: models.DestinationWallet,
	})

	var authErr *errors.UnauthorizedError
	assert.True(t, stderrors.As(err, &authErr))
	f.repo.AssertNotCalled(t, "GetByUserIDForUpdate", mock.Anything, mock.Anything)
}

func TestWithdrawKYCGateDenied(t *testing.T) {
	f := newFixture(t)
	// Loosen the per-transaction ceilings so the fee gate, not the guard
	// chain, is the binding constraint.
	f.svc.guards = guard.NewEngine(f.sink, guard.TierCeilings{
		models.TierBasic: ngn(1_000_000),
		models.TierFull:  ngn(1_000_000),
	})

	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(7, models.TierBasic),
		Amount:      ngn(100_000),
		Destination: models.DestinationWallet,
	})

	var tierErr *errors.InsufficientKycTierError
	assert.True(t, stderrors.As(err, &tierErr))
	assert.Equal(t, int(models.TierFull), tierErr.RequiredTier)
	assert.Equal(t, int(models.TierBasic), tierErr.CurrentTier)
	f.repo.AssertNotCalled(t, "GetByUserIDForUpdate", mock.Anything, mock.Anything)
}

func TestWithdrawPreflightLimitBlocks(t *testing.T) {
	f := newFixture(t)
	userID := uint(7)

	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(10_000)).
		Return(&errors.WithdrawalLimitExceededError{Period: "daily", Limit: 5, Current: 5, LimitType: "count"})

	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(userID, models.TierBasic),
		Amount:      ngn(10_000),
		Destination: models.DestinationWallet,
	})

	var limitErr *errors.WithdrawalLimitExceededError
	assert.True(t, stderrors.As(err, &limitErr))
	assert.Equal(t, "daily", limitErr.Period)
	f.repo.AssertNotCalled(t, "GetByUserIDForUpdate", mock.Anything, mock.Anything)
}

func TestWithdrawRecheckCatchesRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uint(7)

	w := &models.Wallet{ID: 1, UserID: userID, BalanceKobo: ngn(500_000).Minor(), Currency: money.NGN, Status: models.WalletStatusActive}
	// Pre-flight saw room, but by the time the row lock is held a racing
	// withdrawal has filled the daily count.
	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(10_000)).Return(nil)
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)
	f.repo.On("CountWithdrawalsSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(5, nil)
	f.repo.On("SumWithdrawalsSince", mock.Anything, userID, mock.AnythingOfType("time.Time"), money.NGN).
		Return(ngn(60_000), nil)

	_, err := f.svc.Withdraw(ctx, WithdrawalRequest{
		Auth:        authFor(userID, models.TierBasic),
		Amount:      ngn(10_000),
		Destination: models.DestinationWallet,
	})

	var limitErr *errors.WithdrawalLimitExceededError
	assert.True(t, stderrors.As(err, &limitErr))
	assert.Equal(t, "daily", limitErr.Period)
	assert.Equal(t, ngn(500_000).Minor(), w.BalanceKobo, "balance must be untouched")
	f.repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uint(7)

	w := &models.Wallet{ID: 1, UserID: userID, BalanceKobo: ngn(5_000).Minor(), Currency: money.NGN, Status: models.WalletStatusActive}
	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(10_000)).Return(nil)
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)
	f.expectCleanWindows(userID)

	_, err := f.svc.Withdraw(ctx, WithdrawalRequest{
		Auth:        authFor(userID, models.TierBasic),
		Amount:      ngn(10_000),
		Destination: models.DestinationWallet,
	})

	var fundsErr *errors.InsufficientFundsError
	assert.True(t, stderrors.As(err, &fundsErr))
	assert.Equal(t, ngn(5_000), fundsErr.Available)
	assert.Equal(t, ngn(10_000), fundsErr.Required)
}

func TestWithdrawLockedWallet(t *testing.T) {
	f := newFixture(t)
	userID := uint(7)

	w := &models.Wallet{ID: 1, UserID: userID, BalanceKobo: ngn(50_000).Minor(), Currency: money.NGN, Status: models.WalletStatusLocked}
	f.limits.On("CheckWithdrawalLimits", mock.Anything, userID, ngn(1_000)).Return(nil)
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)

	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(userID, models.TierBasic),
		Amount:      ngn(1_000),
		Destination: models.DestinationWallet,
	})

	assert.ErrorIs(t, err, ErrWalletLocked)
}

func TestWithdrawInvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(7, models.TierBasic),
		Amount:      money.Zero(money.NGN),
		Destination: models.DestinationWallet,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        authFor(7, models.TierBasic),
		Amount:      ngn(1_000),
		Destination: "cash",
	})
	assert.ErrorIs(t, err, ErrInvalidDestination)
}

func TestWithdrawSuspendedAccount(t *testing.T) {
	f := newFixture(t)

	auth := authFor(7, models.TierBasic)
	auth.IsSuspended = true
	auth.Reason = "fraud review"

	_, err := f.svc.Withdraw(context.Background(), WithdrawalRequest{
		Auth:        auth,
		Amount:      ngn(1_000),
		Destination: models.DestinationWallet,
	})

	var suspErr *errors.AccountSuspendedError
	assert.True(t, stderrors.As(err, &suspErr))
	assert.Equal(t, "fraud review", suspErr.Reason)
}

func TestCreditAndDebit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uint(3)

	w := &models.Wallet{ID: 2, UserID: userID, BalanceKobo: 0, Currency: money.NGN, Status: models.WalletStatusActive}
	f.repo.On("GetByUserIDForUpdate", mock.Anything, userID).Return(w, nil)
	f.repo.On("Update", mock.AnythingOfType("*models.Wallet")).Return(nil)
	f.repo.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil)

	assert.NoError(t, f.svc.Credit(ctx, userID, ngn(1_500), "ajo contribution"))
	assert.Equal(t, ngn(1_500).Minor(), w.BalanceKobo)

	assert.NoError(t, f.svc.Debit(ctx, userID, ngn(500), "group fee"))
	assert.Equal(t, ngn(1_000).Minor(), w.BalanceKobo)

	err := f.svc.Debit(ctx, userID, ngn(5_000), "too much")
	var fundsErr *errors.InsufficientFundsError
	assert.True(t, stderrors.As(err, &fundsErr))
}

func TestGetBalance(t *testing.T) {
	f := newFixture(t)
	userID := uint(3)

	w := &models.Wallet{ID: 2, UserID: userID, BalanceKobo: ngn(250).Minor(), Currency: money.NGN, Status: models.WalletStatusActive}
	f.repo.On("GetByUserID", userID).Return(w, nil)

	balance, err := f.svc.GetBalance(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, ngn(250), balance)

	f.repo.On("GetByUserID", uint(99)).Return(nil, repositories.ErrWalletNotFound)
	_, err = f.svc.GetBalance(context.Background(), uint(99))
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
