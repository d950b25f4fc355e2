// Package kyc handles verification submissions and the tier upgrades they
// unlock. Tiers only move upward; a rejected submission leaves the user's
// current tier untouched.
package kyc

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/audit"
)

var (
	ErrPendingSubmission = errors.New("a verification is already pending")
	ErrAlreadyDecided    = errors.New("verification already decided")
	ErrInvalidTier       = errors.New("requested tier must be above current tier")
)

type Service interface {
	Submit(ctx context.Context, userID uint, tier models.KYCTier, documentID, scanURL string) (*models.KYCVerification, error)
	GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error)
	ListPending(ctx context.Context, limit int) ([]models.KYCVerification, error)
	Approve(ctx context.Context, verificationID uint, reviewerID uint) error
	Reject(ctx context.Context, verificationID uint, reviewerID uint, reason string) error
}

type service struct {
	repo     repositories.KYCRepository
	userRepo repositories.UserRepository
	audit    audit.Service
}

func NewService(repo repositories.KYCRepository, userRepo repositories.UserRepository, auditSvc audit.Service) Service {
	if repo == nil {
		panic("kyc repository is required")
	}
	if userRepo == nil {
		panic("user repository is required")
	}
	if auditSvc == nil {
		panic("audit service is required")
	}
	return &service{repo: repo, userRepo: userRepo, audit: auditSvc}
}

func (s *service) Submit(ctx context.Context, userID uint, tier models.KYCTier, documentID, scanURL string) (*models.KYCVerification, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if tier <= user.KYCTier {
		return nil, ErrInvalidTier
	}

	if latest, err := s.repo.GetLatestByUser(userID); err == nil && latest.Status == models.KYCStatusPending {
		return nil, ErrPendingSubmission
	}

	verification := &models.KYCVerification{
		UserID:     userID,
		Tier:       tier,
		Status:     models.KYCStatusPending,
		DocumentID: documentID,
		ScanURL:    scanURL,
	}
	if err := s.repo.Create(verification); err != nil {
		return nil, err
	}

	user.KYCStatus = models.KYCStatusPending
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("kyc: failed to mark user %d pending: %v", userID, err)
	}

	s.emit(ctx, userID, "kyc_submit", models.AuditStatusSuccess, map[string]interface{}{
		"verification_id": verification.ID,
		"requested_tier":  int(tier),
	})
	return verification, nil
}

func (s *service) GetStatus(ctx context.Context, userID uint) (*models.KYCVerification, error) {
	return s.repo.GetLatestByUser(userID)
}

func (s *service) ListPending(ctx context.Context, limit int) ([]models.KYCVerification, error) {
	return s.repo.ListPending(limit)
}

func (s *service) Approve(ctx context.Context, verificationID uint, reviewerID uint) error {
	verification, err := s.repo.GetByID(verificationID)
	if err != nil {
		return err
	}
	if verification.Status != models.KYCStatusPending {
		return ErrAlreadyDecided
	}

	verification.Status = models.KYCStatusApproved
	if err := s.repo.Update(verification); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, verification.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if verification.Tier > user.KYCTier {
		user.KYCTier = verification.Tier
	}
	user.KYCStatus = models.KYCStatusApproved
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to upgrade user tier: %w", err)
	}

	s.emit(ctx, verification.UserID, "kyc_approve", models.AuditStatusSuccess, map[string]interface{}{
		"verification_id": verification.ID,
		"tier":            int(verification.Tier),
		"reviewer_id":     reviewerID,
	})
	return nil
}

func (s *service) Reject(ctx context.Context, verificationID uint, reviewerID uint, reason string) error {
	verification, err := s.repo.GetByID(verificationID)
	if err != nil {
		return err
	}
	if verification.Status != models.KYCStatusPending {
		return ErrAlreadyDecided
	}

	verification.Status = models.KYCStatusRejected
	if err := s.repo.Update(verification); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, verification.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	// The previous approval, if any, stands; only the pending flag clears.
	if user.KYCTier > models.TierUnverified {
		user.KYCStatus = models.KYCStatusApproved
	} else {
		user.KYCStatus = models.KYCStatusRejected
	}
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	s.emit(ctx, verification.UserID, "kyc_reject", models.AuditStatusFailure, map[string]interface{}{
		"verification_id": verification.ID,
		"reviewer_id":     reviewerID,
		"reason":          reason,
	})
	return nil
}

func (s *service) emit(ctx context.Context, userID uint, action, status string, details map[string]interface{}) {
	severity := models.AuditSeverityLow
	if status == models.AuditStatusFailure {
		severity = models.AuditSeverityMedium
	}
	s.audit.LogEvent(ctx, audit.Event{
		Category: models.AuditCategoryKYC,
		Severity: severity,
		Action:   action,
		UserID:   userID,
		Status:   status,
		Details:  details,
	})
}
