package models

import (
	"time"

	"ajopay/internal/domain/money"

	"gorm.io/gorm"
)

// Wallet statuses
const (
	WalletStatusActive = "active"
	WalletStatusLocked = "locked"
)

// Wallet holds a single-currency balance in minor units (kobo).
type Wallet struct {
	ID           uint           `gorm:"primarykey"`
	UserID       uint           `gorm:"uniqueIndex;not null"`
	BalanceKobo  int64          `gorm:"default:0"`
	Currency     money.Currency `gorm:"default:'NGN'"`
	Status       string         `gorm:"default:'active'"`
	StatusReason string         `gorm:"default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Balance always starts at zero regardless of caller input.
	w.BalanceKobo = 0
	return nil
}

// Balance returns the balance as a Money value.
func (w *Wallet) Balance() money.Money {
	m, err := money.New(w.BalanceKobo, w.Currency)
	if err != nil {
		return money.Zero(money.NGN)
	}
	return m
}
