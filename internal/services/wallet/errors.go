package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDestination = errors.New("invalid withdrawal destination")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrWalletLocked       = errors.New("wallet is locked")
	ErrTransactionFailed  = errors.New("transaction failed")
)
