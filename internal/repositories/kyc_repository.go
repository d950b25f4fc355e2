package repositories

import (
	"errors"
	"fmt"

	"ajopay/internal/models"

	"gorm.io/gorm"
)

var ErrKYCNotFound = errors.New("kyc verification not found")

// KYCRepository persists verification submissions.
type KYCRepository interface {
	Create(verification *models.KYCVerification) error
	GetLatestByUser(userID uint) (*models.KYCVerification, error)
	GetByID(id uint) (*models.KYCVerification, error)
	Update(verification *models.KYCVerification) error
	ListPending(limit int) ([]models.KYCVerification, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) Create(verification *models.KYCVerification) error {
	if err := r.db.Create(verification).Error; err != nil {
		return fmt.Errorf("failed to create kyc verification: %w", err)
	}
	return nil
}

func (r *kycRepository) GetLatestByUser(userID uint) (*models.KYCVerification, error) {
	var verification models.KYCVerification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc verification: %w", err)
	}
	return &verification, nil
}

func (r *kycRepository) GetByID(id uint) (*models.KYCVerification, error) {
	var verification models.KYCVerification
	if err := r.db.First(&verification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, fmt.Errorf("failed to get kyc verification: %w", err)
	}
	return &verification, nil
}

func (r *kycRepository) Update(verification *models.KYCVerification) error {
	if err := r.db.Save(verification).Error; err != nil {
		return fmt.Errorf("failed to update kyc verification: %w", err)
	}
	return nil
}

func (r *kycRepository) ListPending(limit int) ([]models.KYCVerification, error) {
	if limit <= 0 {
		limit = 50
	}
	var verifications []models.KYCVerification
	err := r.db.Where("status = ?", models.KYCStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&verifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending kyc verifications: %w", err)
	}
	return verifications, nil
}
