package wallet

import (
	"context"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
)

// Service defines the main wallet service interface.
type Service interface {
	// Core wallet operations
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CreateWallet(ctx context.Context, userID uint, currency money.Currency) (*models.Wallet, error)
	Credit(ctx context.Context, userID uint, amount money.Money, description string) error
	Debit(ctx context.Context, userID uint, amount money.Money, description string) error

	// Balance operations
	GetBalance(ctx context.Context, userID uint) (money.Money, error)
	ValidateBalance(ctx context.Context, userID uint, amount money.Money) error

	// The authoritative withdrawal path: guards, fees, limit re-check and
	// debit in one database transaction.
	Withdraw(ctx context.Context, req WithdrawalRequest) (*WithdrawalReceipt, error)

	// Wallet management
	LockWallet(ctx context.Context, walletID uint, reason string) error
	UnlockWallet(ctx context.Context, walletID uint) error
}
