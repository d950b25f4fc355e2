package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried through the request context. KYC
// tier and status ride along so guard checks never need a user lookup.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	KYCTier      KYCTier  `json:"kyc_tier"`
	KYCStatus    string   `json:"kyc_status"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission.
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
