package audit

import (
	"context"
	"time"

	"ajopay/internal/models"
)

// Service is the audit sink consumed by the policy engine. LogEvent never
// fails; storage errors are swallowed after an operational log line.
type Service interface {
	LogEvent(ctx context.Context, event Event)
	QueryEvents(ctx context.Context, filter Filter) ([]Event, error)
	GetStatistics(ctx context.Context, since time.Time) (Statistics, error)
}

// Repository persists audit events.
type Repository interface {
	Save(ctx context.Context, event *models.AuditEvent) error
	Query(ctx context.Context, filter Filter) ([]models.AuditEvent, error)
	Stats(ctx context.Context, since time.Time) (Statistics, error)
}
