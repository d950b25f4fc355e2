package models

import (
	"time"

	"ajopay/internal/domain/money"
)

// Transaction types
const (
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeTransfer   = "TRANSFER"
	TransactionTypeFee        = "FEE"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Withdrawal destinations
const (
	DestinationBank   = "bank"
	DestinationWallet = "wallet"
)

// Transaction is the persisted record of every money movement. Amounts are
// minor units; the rolling-window aggregates sum over AmountKobo.
type Transaction struct {
	ID          uint           `gorm:"primarykey"`
	Reference   string         `gorm:"uniqueIndex;not null"`
	Type        string         `gorm:"not null;index:idx_tx_user_type_time,priority:2"`
	SenderID    uint           `gorm:"not null;index:idx_tx_user_type_time,priority:1"`
	ReceiverID  uint           `gorm:"default:0"`
	AmountKobo  int64          `gorm:"not null"`
	FeeKobo     int64          `gorm:"default:0"`
	Currency    money.Currency `gorm:"default:'NGN'"`
	Destination string         `gorm:"default:''"`
	Description string
	Status      string `gorm:"not null;default:'pending'"`
	Metadata    JSON   `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"index:idx_tx_user_type_time,priority:3"`
	UpdatedAt   time.Time
}

// Amount returns the transaction amount as a Money value.
func (t *Transaction) Amount() money.Money {
	m, err := money.New(t.AmountKobo, t.Currency)
	if err != nil {
		return money.Zero(money.NGN)
	}
	return m
}
