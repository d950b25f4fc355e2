package kyc

import (
	"context"
	"testing"
	"time"

	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) Create(v *models.KYCVerification) error {
	return m.Called(v).Error(0)
}

func (m *MockKYCRepository) GetLatestByUser(userID uint) (*models.KYCVerification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCVerification), args.Error(1)
}

func (m *MockKYCRepository) GetByID(id uint) (*models.KYCVerification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCVerification), args.Error(1)
}

func (m *MockKYCRepository) Update(v *models.KYCVerification) error {
	return m.Called(v).Error(0)
}

func (m *MockKYCRepository) ListPending(limit int) ([]models.KYCVerification, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KYCVerification), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) GetTokenVersion(userID uint) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

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

func TestSubmitCreatesPendingVerification(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	sink := &recordingAudit{}
	svc := NewService(repo, userRepo, sink)
	ctx := context.Background()

	user := &models.User{KYCTier: models.TierUnverified, KYCStatus: models.KYCStatusPending}
	user.ID = 4
	userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)
	repo.On("GetLatestByUser", uint(4)).Return(nil, repositories.ErrKYCNotFound)
	repo.On("Create", mock.AnythingOfType("*models.KYCVerification")).Return(nil)
	userRepo.On("Update", user).Return(nil)

	verification, err := svc.Submit(ctx, 4, models.TierBasic, "NIN-12345678", "https://docs.example/scan.png")

	assert.NoError(t, err)
	assert.Equal(t, models.KYCStatusPending, verification.Status)
	assert.Equal(t, models.TierBasic, verification.Tier)
	assert.Len(t, sink.events, 1)
	assert.Equal(t, "kyc_submit", sink.events[0].Action)
	repo.AssertExpectations(t)
}

func TestSubmitRejectsDowngrade(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	svc := NewService(repo, userRepo, &recordingAudit{})

	user := &models.User{KYCTier: models.TierFull, KYCStatus: models.KYCStatusApproved}
	user.ID = 4
	userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)

	_, err := svc.Submit(context.Background(), 4, models.TierBasic, "NIN-12345678", "")
	assert.ErrorIs(t, err, ErrInvalidTier)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmitBlocksDuplicatePending(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	svc := NewService(repo, userRepo, &recordingAudit{})

	user := &models.User{KYCTier: models.TierUnverified}
	user.ID = 4
	userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)
	pending := &models.KYCVerification{UserID: 4, Tier: models.TierBasic, Status: models.KYCStatusPending}
	repo.On("GetLatestByUser", uint(4)).Return(pending, nil)

	_, err := svc.Submit(context.Background(), 4, models.TierBasic, "NIN-12345678", "")
	assert.ErrorIs(t, err, ErrPendingSubmission)
}

func TestApproveUpgradesTier(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	sink := &recordingAudit{}
	svc := NewService(repo, userRepo, sink)

	verification := &models.KYCVerification{UserID: 4, Tier: models.TierFull, Status: models.KYCStatusPending}
	verification.ID = 11
	repo.On("GetByID", uint(11)).Return(verification, nil)
	repo.On("Update", verification).Return(nil)

	user := &models.User{KYCTier: models.TierBasic, KYCStatus: models.KYCStatusPending}
	user.ID = 4
	userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)
	userRepo.On("Update", user).Return(nil)

	assert.NoError(t, svc.Approve(context.Background(), 11, 99))
	assert.Equal(t, models.KYCStatusApproved, verification.Status)
	assert.Equal(t, models.TierFull, user.KYCTier)
	assert.Equal(t, models.KYCStatusApproved, user.KYCStatus)
	assert.Equal(t, "kyc_approve", sink.events[0].Action)
}

func TestApproveAlreadyDecided(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	svc := NewService(repo, userRepo, &recordingAudit{})

	verification := &models.KYCVerification{UserID: 4, Tier: models.TierBasic, Status: models.KYCStatusApproved}
	verification.ID = 11
	repo.On("GetByID", uint(11)).Return(verification, nil)

	assert.ErrorIs(t, svc.Approve(context.Background(), 11, 99), ErrAlreadyDecided)
}

func TestRejectKeepsExistingTier(t *testing.T) {
	repo := &MockKYCRepository{}
	userRepo := &MockUserRepository{}
	sink := &recordingAudit{}
	svc := NewService(repo, userRepo, sink)

	verification := &models.KYCVerification{UserID: 4, Tier: models.TierFull, Status: models.KYCStatusPending}
	verification.ID = 12
	repo.On("GetByID", uint(12)).Return(verification, nil)
	repo.On("Update", verification).Return(nil)

	// Already holds basic; the failed full-tier attempt must not demote.
	user := &models.User{KYCTier: models.TierBasic, KYCStatus: models.KYCStatusPending}
	user.ID = 4
	userRepo.On("GetByID", mock.Anything, uint(4)).Return(user, nil)
	userRepo.On("Update", user).Return(nil)

	assert.NoError(t, svc.Reject(context.Background(), 12, 99, "document unreadable"))
	assert.Equal(t, models.KYCStatusRejected, verification.Status)
	assert.Equal(t, models.TierBasic, user.KYCTier)
	assert.Equal(t, models.KYCStatusApproved, user.KYCStatus)
	assert.Equal(t, models.AuditStatusFailure, sink.events[0].Status)
}
