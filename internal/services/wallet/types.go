package wallet

import (
	"time"

	"ajopay/internal/domain/money"
	"ajopay/internal/services/guard"
	"ajopay/internal/services/limits"
)

// WalletConfig holds configuration for wallet operations.
type WalletConfig struct {
	DefaultCurrency   money.Currency
	Limits            limits.Config
	ProcessingTimeout time.Duration
}

// WithdrawalRequest describes one withdrawal attempt. Auth carries the
// caller identity the guard chain evaluates.
type WithdrawalRequest struct {
	Auth        guard.AuthContext
	Amount      money.Money
	Destination string // models.DestinationBank or models.DestinationWallet
	BankRef     string // provider destination token, bank withdrawals only
	Description string
}

// WithdrawalReceipt is returned on a successful withdrawal.
type WithdrawalReceipt struct {
	Reference   string
	Amount      money.Money
	Fee         money.Money
	NetAmount   money.Money
	FeeType     string
	Destination string
}

// MetricsCollector defines the interface for collecting wallet metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount money.Money)
	RecordError(operation, errType string)
}
