package handlers

import (
	"errors"
	"log"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
	"ajopay/internal/repositories"
	"ajopay/internal/services/auth"
	"ajopay/internal/services/wallet"
	"ajopay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService   auth.Service
	walletService wallet.Service
}

func NewAuthHandler(authService auth.Service, walletService wallet.Service) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		walletService: walletService,
	}
}

// extractUserClaims is a helper to pull validated claims from the context.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	user, err := h.authService.Register(c.Context(), auth.RegisterInput{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return response.Error(c, fiber.StatusConflict, "an account with this email or phone already exists")
		}
		return response.BadRequest(c, err.Error())
	}

	// Every account gets a naira wallet on creation.
	if _, err := h.walletService.CreateWallet(c.Context(), user.ID, money.NGN); err != nil {
		log.Printf("handlers: failed to create wallet for user %d: %v", user.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "registration successful",
		"data": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if input.Email == "" && input.Phone == "" {
		return response.BadRequest(c, "email or phone is required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Context(), input.Email, input.Phone, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountLocked) {
			return response.Error(c, fiber.StatusForbidden, "account temporarily locked, try again later")
		}
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	return response.Success(c, "login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"kyc_tier":   user.KYCTier.String(),
			"kyc_status": user.KYCStatus,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return response.BadRequest(c, "refresh token is required")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(c.Context(), input.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	return response.Success(c, "tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		log.Printf("handlers: logout failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "failed to log out")
	}

	return response.Success(c, "logged out", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := h.authService.ChangePassword(c.Context(), claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "password changed", nil)
}
