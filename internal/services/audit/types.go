package audit

import (
	"time"

	"ajopay/internal/models"
)

// Event is a single policy-decision record. Category, Severity and Status
// use the constant sets in the models package.
type Event struct {
	ID        string
	Category  string
	Severity  string
	Action    string
	UserID    uint
	Status    string
	Details   map[string]interface{}
	CreatedAt time.Time
}

// Filter narrows an event query. Zero fields are ignored.
type Filter struct {
	Category string
	Action   string
	UserID   uint
	Since    time.Time
	Until    time.Time
	Limit    int
}

// Statistics summarizes stored events since a reference time.
type Statistics struct {
	TotalEvents int64
	Failures    int64
	ByCategory  map[string]int64
	ByStatus    map[string]int64
}

func eventToModel(e Event) *models.AuditEvent {
	return &models.AuditEvent{
		ID:        e.ID,
		Category:  e.Category,
		Severity:  e.Severity,
		Action:    e.Action,
		UserID:    e.UserID,
		Status:    e.Status,
		Details:   models.NewJSON(e.Details),
		CreatedAt: e.CreatedAt,
	}
}

func modelToEvent(m models.AuditEvent) Event {
	return Event{
		ID:        m.ID,
		Category:  m.Category,
		Severity:  m.Severity,
		Action:    m.Action,
		UserID:    m.UserID,
		Status:    m.Status,
		Details:   map[string]interface{}(m.Details),
		CreatedAt: m.CreatedAt,
	}
}
