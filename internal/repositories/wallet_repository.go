package repositories

import (
	"context"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
)

// WalletRepository defines wallet persistence operations. GetByUserIDForUpdate
// takes a row lock and is only meaningful inside ExecuteInTransaction.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error
	UpdateStatus(walletID uint, status, reason string) error
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// Withdrawal aggregates, scoped to this repository's transaction when
	// called inside ExecuteInTransaction.
	CountWithdrawalsSince(ctx context.Context, userID uint, since time.Time) (int, error)
	SumWithdrawalsSince(ctx context.Context, userID uint, since time.Time, currency money.Currency) (money.Money, error)

	// ExecuteInTransaction runs fn against a repository bound to one
	// database transaction; fn returning an error rolls everything back.
	ExecuteInTransaction(fn func(tx WalletRepository) error) error
}
