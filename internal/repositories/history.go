package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"

	"gorm.io/gorm"
)

// TransactionHistoryRepository supplies the usage aggregates the withdrawal
// policy consumes, and records completed transactions.
type TransactionHistoryRepository interface {
	CountSince(ctx context.Context, userID uint, since time.Time) (int, error)
	AmountSince(ctx context.Context, userID uint, since time.Time, currency money.Currency) (money.Money, error)
	Record(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}

type transactionHistoryRepository struct {
	db *gorm.DB
}

func NewTransactionHistoryRepository(db *gorm.DB) TransactionHistoryRepository {
	return &transactionHistoryRepository{db: db}
}

// countWithdrawalsSince counts completed withdrawals for a user since the
// window start. Shared with the wallet repository so the in-transaction
// re-check runs the same query.
func countWithdrawalsSince(ctx context.Context, db *gorm.DB, userID uint, since time.Time) (int, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("sender_id = ? AND type = ? AND status = ? AND created_at >= ?",
			userID, models.TransactionTypeWithdrawal, models.TransactionStatusCompleted, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}
	return int(count), nil
}

// sumWithdrawalsSince sums completed withdrawal amounts in minor units.
func sumWithdrawalsSince(ctx context.Context, db *gorm.DB, userID uint, since time.Time, currency money.Currency) (money.Money, error) {
	var totalKobo int64
	err := db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("sender_id = ? AND type = ? AND status = ? AND currency = ? AND created_at >= ?",
			userID, models.TransactionTypeWithdrawal, models.TransactionStatusCompleted, currency, since).
		Select("COALESCE(SUM(amount_kobo), 0)").
		Scan(&totalKobo).Error
	if err != nil {
		return money.Money{}, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	return money.New(totalKobo, currency)
}

func (r *transactionHistoryRepository) CountSince(ctx context.Context, userID uint, since time.Time) (int, error) {
	return countWithdrawalsSince(ctx, r.db, userID, since)
}

func (r *transactionHistoryRepository) AmountSince(ctx context.Context, userID uint, since time.Time, currency money.Currency) (money.Money, error) {
	return sumWithdrawalsSince(ctx, r.db, userID, since, currency)
}

func (r *transactionHistoryRepository) Record(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (r *transactionHistoryRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
