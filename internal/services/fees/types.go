package fees

import (
	"ajopay/internal/domain/money"
	"ajopay/internal/models"
)

// Fee types
const (
	FeeTypeFixed      = "fixed"
	FeeTypePercentage = "percentage"
	FeeTypeHybrid     = "hybrid"
)

// FeeRequest describes a proposed withdrawal to price.
type FeeRequest struct {
	Amount      money.Money
	Destination string // models.DestinationBank or models.DestinationWallet
	UserTier    models.KYCTier
}

// Breakdown itemizes a computed fee.
type Breakdown struct {
	BaseFee       money.Money
	PercentageFee money.Money
	KYCAdjustment money.Money
}

// GateCheck reports whether the user's KYC tier admits the amount at all.
type GateCheck struct {
	Allowed      bool
	RequiredTier models.KYCTier
	CurrentTier  models.KYCTier
	Reason       string
}

// FeeResult is the complete pricing decision. Ephemeral; computed per
// request and never persisted here.
type FeeResult struct {
	Fee       money.Money
	NetAmount money.Money
	FeeType   string
	Breakdown Breakdown
	Gate      GateCheck
}

// Schedule is the fee configuration: flat base per destination, a
// basis-point percentage above a threshold, and a cap applied to bank
// destinations only.
type Schedule struct {
	BankBaseFee      money.Money
	WalletBaseFee    money.Money
	PercentBps       int64
	PercentThreshold money.Money
	BankFeeCap       money.Money

	// Per-transaction KYC ceilings driving the gate.
	BasicTierCeiling money.Money
	FullTierCeiling  money.Money
}
