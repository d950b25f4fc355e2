// Package money provides the monetary value type used across the application.
// Amounts are held in integer minor units (kobo, cents) so that limit and fee
// arithmetic never goes through floating point.
package money

import (
	"errors"
	"fmt"
	"math"
)

// Currency is an ISO-4217 currency code supported by the platform.
type Currency string

const (
	NGN Currency = "NGN"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidCurrency  = errors.New("invalid currency")
)

// Money is an immutable amount in minor units of a single currency.
type Money struct {
	minor    int64
	currency Currency
}

// New creates a Money from minor units (kobo).
func New(minor int64, currency Currency) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	if !currency.Valid() {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{minor: minor, currency: currency}, nil
}

// FromMajor creates a Money from major units (naira, dollars), rounding
// half-up to the nearest minor unit.
func FromMajor(value float64, currency Currency) (Money, error) {
	if value < 0 {
		return Money{}, ErrNegativeAmount
	}
	return New(int64(math.Round(value*100)), currency)
}

// MustFromMajor is FromMajor for static configuration values.
func MustFromMajor(value float64, currency Currency) Money {
	m, err := FromMajor(value, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{minor: 0, currency: currency}
}

func (c Currency) Valid() bool {
	switch c {
	case NGN, USD, EUR, GBP:
		return true
	}
	return false
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.minor }

// Major returns the amount in major units. For display only; comparisons
// must go through Cmp and friends.
func (m Money) Major() float64 { return float64(m.minor) / 100 }

func (m Money) Currency() Currency { return m.currency }

func (m Money) IsZero() bool { return m.minor == 0 }

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// Subtract returns m - other, failing if the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.minor > m.minor {
		return Money{}, ErrNegativeAmount
	}
	return Money{minor: m.minor - other.minor, currency: m.currency}, nil
}

// Cmp returns -1, 0 or 1 comparing m to other.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	switch {
	case m.minor < other.minor:
		return -1, nil
	case m.minor > other.minor:
		return 1, nil
	}
	return 0, nil
}

func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c < 0, err
}

func (m Money) GreaterThan(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c > 0, err
}

func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	c, err := m.Cmp(other)
	return c >= 0, err
}

// String formats the amount with two decimal places, e.g. "NGN 50000.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.currency, m.minor/100, m.minor%100)
}
