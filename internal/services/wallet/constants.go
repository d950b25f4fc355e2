package wallet

import "time"

// Default configuration values
const (
	DefaultTimeout = 30 * time.Second
)

// Cache keys and durations
const (
	WalletCachePrefix = "wallet:"
	CacheDuration     = 5 * time.Minute
)
