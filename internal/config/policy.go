package config

import "ajopay/internal/domain/money"

// PolicyConfig is the static policy surface: withdrawal ceilings per rolling
// window, KYC-tier ceilings, and the fee schedule. Constructed once at
// startup; never mutated afterwards.
type PolicyConfig struct {
	DailyMaxCount    int
	DailyMaxAmount   money.Money
	WeeklyMaxCount   int
	WeeklyMaxAmount  money.Money
	MonthlyMaxCount  int
	MonthlyMaxAmount money.Money

	// Per-transaction ceilings by KYC tier. Tier 0 cannot withdraw.
	BasicTierCeiling money.Money
	FullTierCeiling  money.Money

	BankBaseFee      money.Money
	WalletBaseFee    money.Money
	PercentFeeBps    int64 // basis points applied above PercentThreshold
	PercentThreshold money.Money
	BankFeeCap       money.Money
}

// LoadPolicyConfig reads policy values from the environment with the
// platform defaults. Amounts are configured in naira.
func LoadPolicyConfig() PolicyConfig {
	ngn := func(key string, def int64) money.Money {
		m, err := money.New(GetInt64Env(key, def*100), money.NGN)
		if err != nil {
			return money.Zero(money.NGN)
		}
		return m
	}

	return PolicyConfig{
		DailyMaxCount:    GetIntEnv("WITHDRAWAL_DAILY_MAX_COUNT", 5),
		DailyMaxAmount:   ngn("WITHDRAWAL_DAILY_MAX_KOBO", 100_000),
		WeeklyMaxCount:   GetIntEnv("WITHDRAWAL_WEEKLY_MAX_COUNT", 15),
		WeeklyMaxAmount:  ngn("WITHDRAWAL_WEEKLY_MAX_KOBO", 500_000),
		MonthlyMaxCount:  GetIntEnv("WITHDRAWAL_MONTHLY_MAX_COUNT", 30),
		MonthlyMaxAmount: ngn("WITHDRAWAL_MONTHLY_MAX_KOBO", 2_000_000),

		BasicTierCeiling: ngn("KYC_BASIC_CEILING_KOBO", 50_000),
		FullTierCeiling:  ngn("KYC_FULL_CEILING_KOBO", 500_000),

		BankBaseFee:      ngn("FEE_BANK_BASE_KOBO", 50),
		WalletBaseFee:    ngn("FEE_WALLET_BASE_KOBO", 0),
		PercentFeeBps:    GetInt64Env("FEE_PERCENT_BPS", 50),
		PercentThreshold: ngn("FEE_PERCENT_THRESHOLD_KOBO", 100_000),
		BankFeeCap:       ngn("FEE_BANK_CAP_KOBO", 2_000),
	}
}
