package handlers

import (
	"ajopay/internal/domain/money"
	apperrors "ajopay/internal/errors"
	"ajopay/internal/middleware"
	"ajopay/internal/models"
	"ajopay/internal/services/auth"
	"ajopay/internal/services/wallet"
	"ajopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
	authService   auth.Service
}

func NewWalletHandler(walletService wallet.Service, authService auth.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		authService:   authService,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return policyError(c, err)
	}

	return response.Success(c, "wallet retrieved", fiber.Map{
		"wallet": fiber.Map{
			"id":       w.ID,
			"balance":  w.Balance().String(),
			"currency": w.Currency,
			"status":   w.Status,
		},
	})
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	balance, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return policyError(c, err)
	}

	return response.Success(c, "balance retrieved", fiber.Map{
		"balance":  balance.String(),
		"minor":    balance.Minor(),
		"currency": balance.Currency(),
	})
}

func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	amount, err := money.FromMajor(input.Amount, money.NGN)
	if err != nil || amount.IsZero() {
		return response.BadRequest(c, "amount must be greater than 0")
	}

	if err := h.walletService.Credit(c.Context(), claims.UserID, amount, input.Description); err != nil {
		return policyError(c, err)
	}

	return response.Success(c, "credit successful", fiber.Map{
		"amount": amount.String(),
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount      float64 `json:"amount"`
		Destination string  `json:"destination"`
		BankRef     string  `json:"bank_ref"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	amount, err := money.FromMajor(input.Amount, money.NGN)
	if err != nil || amount.IsZero() {
		return response.BadRequest(c, "amount must be greater than 0")
	}
	if input.Destination == models.DestinationBank && input.BankRef == "" {
		return response.BadRequest(c, "bank_ref is required for bank withdrawals")
	}

	// Account status and tier come from the user record, not the token, so
	// a mid-session suspension takes effect immediately.
	user, err := h.authService.GetUserByID(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "failed to load account")
	}

	receipt, err := h.walletService.Withdraw(c.Context(), wallet.WithdrawalRequest{
		Auth:        middleware.AuthContextFromClaims(claims, user),
		Amount:      amount,
		Destination: input.Destination,
		BankRef:     input.BankRef,
		Description: input.Description,
	})
	if err != nil {
		return policyError(c, err)
	}

	return response.Success(c, "withdrawal successful", fiber.Map{
		"reference":   receipt.Reference,
		"amount":      receipt.Amount.String(),
		"fee":         receipt.Fee.String(),
		"net_amount":  receipt.NetAmount.String(),
		"fee_type":    receipt.FeeType,
		"destination": receipt.Destination,
	})
}

func (h *WalletHandler) Lock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid wallet id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := h.walletService.LockWallet(c.Context(), uint(id), input.Reason); err != nil {
		return response.ServerError(c, "failed to lock wallet")
	}
	return response.Success(c, "wallet locked", nil)
}

func (h *WalletHandler) Unlock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid wallet id")
	}

	if err := h.walletService.UnlockWallet(c.Context(), uint(id)); err != nil {
		return response.ServerError(c, "failed to unlock wallet")
	}
	return response.Success(c, "wallet unlocked", nil)
}

// policyError maps a typed policy error to its HTTP status and sanitized
// message.
func policyError(c *fiber.Ctx, err error) error {
	switch err {
	case wallet.ErrWalletNotFound:
		return response.Error(c, fiber.StatusNotFound, "wallet not found")
	case wallet.ErrInvalidAmount, wallet.ErrInvalidDestination:
		return response.BadRequest(c, err.Error())
	case wallet.ErrWalletLocked:
		return response.Error(c, fiber.StatusForbidden, "wallet is locked")
	}
	return response.Error(c, apperrors.HTTPStatus(err), apperrors.UserMessage(err))
}
