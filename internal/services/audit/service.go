// Package audit provides the structured event sink for policy decisions.
// Every authorization, KYC and limit decision emits exactly one event here.
package audit

import (
	"context"
	"log"
	"time"

	"ajopay/internal/errors"

	"github.com/google/uuid"
)

type service struct {
	repo Repository
}

// NewService creates a new audit service.
func NewService(repo Repository) Service {
	if repo == nil {
		panic("audit repository is required")
	}
	return &service{repo: repo}
}

// LogEvent assigns an ID and timestamp and persists the event. A sink
// failure must never fail the decision that emitted it, so errors are
// logged and dropped.
func (s *service) LogEvent(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Save(ctx, eventToModel(event)); err != nil {
		log.Printf("audit: failed to persist event %s (%s/%s): %v",
			event.ID, event.Category, event.Action, err)
	}
}

func (s *service) QueryEvents(ctx context.Context, filter Filter) ([]Event, error) {
	rows, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, &errors.RepositoryError{Operation: "query", Entity: "audit_event", Cause: err}
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, modelToEvent(row))
	}
	return events, nil
}

func (s *service) GetStatistics(ctx context.Context, since time.Time) (Statistics, error) {
	stats, err := s.repo.Stats(ctx, since)
	if err != nil {
		return Statistics{}, &errors.RepositoryError{Operation: "stats", Entity: "audit_event", Cause: err}
	}
	return stats, nil
}
