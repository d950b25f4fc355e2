package handlers

import (
	"errors"

	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/kyc"
	"ajopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	kycService kyc.Service
}

func NewKYCHandler(kycService kyc.Service) *KYCHandler {
	return &KYCHandler{
		kycService: kycService,
	}
}

func (h *KYCHandler) Submit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Tier       int    `json:"tier"`
		DocumentID string `json:"document_id"`
		ScanURL    string `json:"scan_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.DocumentID == "" {
		return response.BadRequest(c, "document_id is required")
	}
	tier := models.KYCTier(input.Tier)
	if tier != models.TierBasic && tier != models.TierFull {
		return response.BadRequest(c, "tier must be 1 (basic) or 2 (full)")
	}

	verification, err := h.kycService.Submit(c.Context(), claims.UserID, tier, input.DocumentID, input.ScanURL)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrPendingSubmission), errors.Is(err, kyc.ErrInvalidTier):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "failed to submit verification")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "verification submitted",
		"data": fiber.Map{
			"id":     verification.ID,
			"tier":   verification.Tier.String(),
			"status": verification.Status,
		},
	})
}

func (h *KYCHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	verification, err := h.kycService.GetStatus(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return response.Error(c, fiber.StatusNotFound, "no verification on file")
		}
		return response.ServerError(c, "failed to get verification status")
	}

	return response.Success(c, "verification status retrieved", fiber.Map{
		"id":        verification.ID,
		"tier":      verification.Tier.String(),
		"status":    verification.Status,
		"submitted": verification.CreatedAt,
	})
}

func (h *KYCHandler) ListPending(c *fiber.Ctx) error {
	verifications, err := h.kycService.ListPending(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return response.ServerError(c, "failed to list pending verifications")
	}

	return response.Success(c, "pending verifications retrieved", fiber.Map{
		"verifications": verifications,
		"count":         len(verifications),
	})
}

func (h *KYCHandler) Approve(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid verification id")
	}

	if err := h.kycService.Approve(c.Context(), uint(id), claims.UserID); err != nil {
		return kycDecisionError(c, err)
	}

	return response.Success(c, "verification approved", nil)
}

func (h *KYCHandler) Reject(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid verification id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := h.kycService.Reject(c.Context(), uint(id), claims.UserID, input.Reason); err != nil {
		return kycDecisionError(c, err)
	}

	return response.Success(c, "verification rejected", nil)
}

func kycDecisionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrKYCNotFound):
		return response.Error(c, fiber.StatusNotFound, "verification not found")
	case errors.Is(err, kyc.ErrAlreadyDecided):
		return response.Error(c, fiber.StatusConflict, err.Error())
	}
	return response.ServerError(c, "failed to process verification decision")
}
