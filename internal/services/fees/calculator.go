// Package fees computes withdrawal fees and net payout amounts, gated by
// the user's KYC tier. Calculation is a total function: every input yields
// a FeeResult, with the gate flagging denials instead of an error.
package fees

import (
	"fmt"

	"ajopay/internal/domain/money"
	"ajopay/internal/models"
)

type Calculator struct {
	schedule Schedule
}

// NewCalculator creates a fee calculator with the given schedule.
func NewCalculator(schedule Schedule) *Calculator {
	return &Calculator{schedule: schedule}
}

// DefaultSchedule returns the platform fee schedule: ₦50 bank base fee, free
// wallet withdrawals, 0.5% above ₦100,000, bank fees capped at ₦2,000.
func DefaultSchedule() Schedule {
	return Schedule{
		BankBaseFee:      money.MustFromMajor(50, money.NGN),
		WalletBaseFee:    money.Zero(money.NGN),
		PercentBps:       50,
		PercentThreshold: money.MustFromMajor(100_000, money.NGN),
		BankFeeCap:       money.MustFromMajor(2_000, money.NGN),
		BasicTierCeiling: money.MustFromMajor(50_000, money.NGN),
		FullTierCeiling:  money.MustFromMajor(500_000, money.NGN),
	}
}

// RequiredTier returns the minimum KYC tier for an amount: Basic up to the
// basic ceiling, Full above it.
func (c *Calculator) RequiredTier(amount money.Money) models.KYCTier {
	if amount.Minor() <= c.schedule.BasicTierCeiling.Minor() {
		return models.TierBasic
	}
	return models.TierFull
}

// Calculate prices a withdrawal. The KYC gate runs first: a denied gate
// short-circuits all fee math, returning a zero fee and the full requested
// amount as net. Fee arithmetic is integer minor-unit math throughout.
func (c *Calculator) Calculate(req FeeRequest) FeeResult {
	currency := req.Amount.Currency()
	zero := money.Zero(currency)

	required := c.RequiredTier(req.Amount)
	if req.UserTier < required {
		return FeeResult{
			Fee:       zero,
			NetAmount: req.Amount,
			FeeType:   FeeTypeFixed,
			Breakdown: Breakdown{BaseFee: zero, PercentageFee: zero, KYCAdjustment: zero},
			Gate: GateCheck{
				Allowed:      false,
				RequiredTier: required,
				CurrentTier:  req.UserTier,
				Reason: fmt.Sprintf("withdrawal of %s requires KYC tier %s, current tier is %s",
					req.Amount, required, req.UserTier),
			},
		}
	}

	baseMinor := c.schedule.WalletBaseFee.Minor()
	if req.Destination == models.DestinationBank {
		baseMinor = c.schedule.BankBaseFee.Minor()
	}

	var percentMinor int64
	if req.Amount.Minor() > c.schedule.PercentThreshold.Minor() {
		percentMinor = req.Amount.Minor() * c.schedule.PercentBps / 10_000
	}

	totalMinor := baseMinor + percentMinor
	if req.Destination == models.DestinationBank && totalMinor > c.schedule.BankFeeCap.Minor() {
		totalMinor = c.schedule.BankFeeCap.Minor()
	}

	netMinor := req.Amount.Minor() - totalMinor
	if netMinor < 0 {
		netMinor = 0
	}

	feeType := FeeTypeFixed
	if percentMinor > 0 {
		feeType = FeeTypeHybrid
	}

	return FeeResult{
		Fee:       mustMoney(totalMinor, currency),
		NetAmount: mustMoney(netMinor, currency),
		FeeType:   feeType,
		Breakdown: Breakdown{
			BaseFee:       mustMoney(baseMinor, currency),
			PercentageFee: mustMoney(percentMinor, currency),
			KYCAdjustment: zero,
		},
		Gate: GateCheck{
			Allowed:      true,
			RequiredTier: required,
			CurrentTier:  req.UserTier,
			Reason:       fmt.Sprintf("KYC tier requirement %s met", required),
		},
	}
}

// mustMoney converts computed minor units back to Money. Inputs are clamped
// non-negative above, so construction cannot fail.
func mustMoney(minor int64, currency money.Currency) money.Money {
	m, err := money.New(minor, currency)
	if err != nil {
		return money.Zero(currency)
	}
	return m
}
