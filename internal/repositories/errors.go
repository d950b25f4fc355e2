package repositories

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrDuplicateUser       = errors.New("user already exists")
	ErrDuplicateReference  = errors.New("transaction reference already exists")
)
