// Package middleware provides HTTP middleware for the application:
// JWT authentication, permission checks and per-user rate limiting for the
// fiber web framework.
package middleware

import (
	"log"
	"strings"

	"ajopay/internal/models"
	"ajopay/internal/services/auth"
	"ajopay/internal/services/guard"
	"ajopay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware handles JWT token validation. It extracts the bearer token
// from the Authorization header, validates signature, expiry and token
// version, and stores the claims in the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("middleware: token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	// A password change or logout bumps the stored version and invalidates
	// every previously issued token.
	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("middleware: error getting token version for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if claims.TokenVersion != currentVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	if claims.Role != "admin" {
		log.Printf("middleware: admin access denied for user %d (role=%s)", claims.UserID, claims.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}

	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		// Admins hold every permission.
		if claims.Role == "admin" {
			return c.Next()
		}
		if claims.HasPermission(permission) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
}

// AuthContextFromClaims builds the identity the guard chain evaluates from
// the claims and the freshly loaded user record. Account status always comes
// from the record, never the token.
func AuthContextFromClaims(claims *models.UserClaims, user *models.User) guard.AuthContext {
	ac := guard.AuthContext{
		UserID:      user.ID,
		Role:        user.Role,
		KYCTier:     user.KYCTier,
		KYCStatus:   user.KYCStatus,
		IsActive:    user.IsActive(),
		IsSuspended: user.IsSuspended(),
		Reason:      user.StatusReason,
	}
	if user.SuspendedAt != nil {
		ac.SuspendedAt = *user.SuspendedAt
	}
	return ac
}
