package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"ajopay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Save(ctx context.Context, event *models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepo) Query(ctx context.Context, filter Filter) ([]models.AuditEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditEvent), args.Error(1)
}

func (m *MockRepo) Stats(ctx context.Context, since time.Time) (Statistics, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(Statistics), args.Error(1)
}

func TestLogEvent(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	var saved *models.AuditEvent
	repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*models.AuditEvent)
	}).Return(nil)

	svc.LogEvent(context.Background(), Event{
		Category: models.AuditCategoryFinancial,
		Severity: models.AuditSeverityMedium,
		Action:   "withdrawal_limit_check",
		UserID:   42,
		Status:   models.AuditStatusSuccess,
	})

	repo.AssertExpectations(t)
	assert.NotEmpty(t, saved.ID, "event should get a generated ID")
	assert.False(t, saved.CreatedAt.IsZero(), "event should get a timestamp")
	assert.Equal(t, uint(42), saved.UserID)
}

func TestLogEventSwallowsStorageFailure(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	// Must not panic and has no error to return.
	svc.LogEvent(context.Background(), Event{
		Category: models.AuditCategorySystem,
		Action:   "startup",
		Status:   models.AuditStatusWarning,
	})

	repo.AssertExpectations(t)
}

func TestQueryEvents(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	rows := []models.AuditEvent{
		{ID: "a", Category: models.AuditCategoryAuthorization, Action: "kyc_tier_check", UserID: 1, Status: models.AuditStatusFailure},
	}
	repo.On("Query", mock.Anything, mock.Anything).Return(rows, nil)

	events, err := svc.QueryEvents(context.Background(), Filter{UserID: 1})
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "kyc_tier_check", events[0].Action)
}

func TestGetStatisticsWrapsRepoFailure(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("Stats", mock.Anything, mock.Anything).Return(Statistics{}, errors.New("timeout"))

	_, err := svc.GetStatistics(context.Background(), time.Now().Add(-24*time.Hour))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "audit_event")
}
