package models

import (
	"fmt"

	"gorm.io/gorm"
)

// KYCTier is the verification level attached to a user. Tiers only move
// upward, through the external verification workflow.
type KYCTier int

const (
	TierUnverified KYCTier = 0
	TierBasic      KYCTier = 1
	TierFull       KYCTier = 2
)

func (t KYCTier) String() string {
	switch t {
	case TierUnverified:
		return "unverified"
	case TierBasic:
		return "basic"
	case TierFull:
		return "full"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// KYC verification statuses
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

type KYCVerification struct {
	gorm.Model
	UserID     uint    `gorm:"not null;index"`
	Tier       KYCTier `gorm:"default:0"`
	Status     string  `gorm:"default:'pending'"`
	DocumentID string
	ScanURL    string
}
