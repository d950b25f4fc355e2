package models

import "time"

// Audit event categories
const (
	AuditCategoryAuthentication = "authentication"
	AuditCategoryAuthorization  = "authorization"
	AuditCategoryFinancial      = "financial"
	AuditCategoryKYC            = "kyc"
	AuditCategoryDataAccess     = "data_access"
	AuditCategorySystem         = "system"
)

// Audit event severities
const (
	AuditSeverityLow    = "low"
	AuditSeverityMedium = "medium"
	AuditSeverityHigh   = "high"
)

// Audit event statuses
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
	AuditStatusWarning = "warning"
)

// AuditEvent is one persisted policy-decision record. Every authorization,
// KYC and limit decision emits exactly one.
type AuditEvent struct {
	ID        string `gorm:"primarykey"`
	Category  string `gorm:"not null;index"`
	Severity  string `gorm:"not null"`
	Action    string `gorm:"not null;index"`
	UserID    uint   `gorm:"index"`
	Status    string `gorm:"not null"`
	Details   JSON   `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"index"`
}
