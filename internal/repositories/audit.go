package repositories

import (
	"context"
	"fmt"
	"time"

	"ajopay/internal/models"
	"ajopay/internal/services/audit"

	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates the Postgres-backed audit store.
func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Save(ctx context.Context, event *models.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to save audit event: %w", err)
	}
	return nil
}

func (r *auditRepository) Query(ctx context.Context, filter audit.Filter) ([]models.AuditEvent, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditEvent{})

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at < ?", filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var events []models.AuditEvent
	if err := q.Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	return events, nil
}

func (r *auditRepository) Stats(ctx context.Context, since time.Time) (audit.Statistics, error) {
	stats := audit.Statistics{
		ByCategory: make(map[string]int64),
		ByStatus:   make(map[string]int64),
	}

	base := r.db.WithContext(ctx).Model(&models.AuditEvent{}).Where("created_at >= ?", since)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalEvents).Error; err != nil {
		return audit.Statistics{}, fmt.Errorf("failed to count audit events: %w", err)
	}

	type bucket struct {
		Key   string
		Total int64
	}

	var byCategory []bucket
	err := base.Session(&gorm.Session{}).
		Select("category AS key, COUNT(*) AS total").
		Group("category").
		Scan(&byCategory).Error
	if err != nil {
		return audit.Statistics{}, fmt.Errorf("failed to group audit events by category: %w", err)
	}
	for _, b := range byCategory {
		stats.ByCategory[b.Key] = b.Total
	}

	var byStatus []bucket
	err = base.Session(&gorm.Session{}).
		Select("status AS key, COUNT(*) AS total").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return audit.Statistics{}, fmt.Errorf("failed to group audit events by status: %w", err)
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Total
	}
	stats.Failures = stats.ByStatus[models.AuditStatusFailure]

	return stats, nil
}
