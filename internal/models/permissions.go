package models

// Permission constants
const (
	// Wallet permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"

	// Transaction permissions
	PermissionTransactionRead  = "transaction:read"
	PermissionTransactionWrite = "transaction:write"

	// Withdrawal permissions
	PermissionWithdraw     = "withdrawal:create"
	PermissionWithdrawBank = "withdrawal:bank"

	// User permissions
	PermissionChangePassword = "user:change-password"
	PermissionUserRead       = "user:read"
	PermissionUserWrite      = "user:write"

	// KYC permissions
	PermissionKYCSubmit = "kyc:submit"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"
)

// PermissionTierRequirements maps each permission to the minimum KYC tier it
// requires. Permissions above tier 0 additionally require an approved KYC
// status.
var PermissionTierRequirements = map[string]KYCTier{
	PermissionWalletRead:       TierUnverified,
	PermissionWalletWrite:      TierBasic,
	PermissionTransactionRead:  TierUnverified,
	PermissionTransactionWrite: TierBasic,
	PermissionWithdraw:         TierBasic,
	PermissionWithdrawBank:     TierFull,
	PermissionChangePassword:   TierUnverified,
	PermissionUserRead:         TierUnverified,
	PermissionUserWrite:        TierUnverified,
	PermissionKYCSubmit:        TierUnverified,
	PermissionReadAdmin:        TierUnverified,
	PermissionWriteAdmin:       TierUnverified,
}

// GetDefaultPermissions returns default permissions based on role.
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionWithdraw,
			PermissionWithdrawBank,
			PermissionUserRead,
			PermissionUserWrite,
			PermissionChangePassword,
			PermissionKYCSubmit,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "user":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionWithdraw,
			PermissionWithdrawBank,
			PermissionUserRead,
			PermissionChangePassword,
			PermissionKYCSubmit,
		}
	default:
		return []string{}
	}
}
