package models

import (
	"time"

	"gorm.io/gorm"
)

// User statuses
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

type User struct {
	gorm.Model
	Email               string  `gorm:"uniqueIndex;not null"`
	Password            string  `gorm:"not null"`
	Name                string  `gorm:"not null"`
	Phone               string  `gorm:"uniqueIndex;not null"`
	Role                string  `gorm:"default:'user'"`
	WalletID            *uint   `gorm:"unique;default:null"`
	Wallet              *Wallet `gorm:"foreignKey:WalletID"`
	Status              string  `gorm:"default:'active'"`
	StatusReason        string  `gorm:"default:''"`
	SuspendedAt         *time.Time
	KYCTier             KYCTier `gorm:"default:0"`
	KYCStatus           string  `gorm:"default:'pending'"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int `gorm:"default:1"`
}

// IsActive reports whether the account may transact at all.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// IsSuspended reports whether the account is under an enforcement hold.
func (u *User) IsSuspended() bool { return u.Status == UserStatusSuspended }
