package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		currency Currency
		wantErr  error
	}{
		{name: "valid amount", minor: 5000000, currency: NGN},
		{name: "zero amount", minor: 0, currency: USD},
		{name: "negative amount", minor: -1, currency: NGN, wantErr: ErrNegativeAmount},
		{name: "unknown currency", minor: 100, currency: Currency("XAU"), wantErr: ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.minor, tt.currency)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.minor, m.Minor())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestFromMajor(t *testing.T) {
	m, err := FromMajor(50000, NGN)
	assert.NoError(t, err)
	assert.Equal(t, int64(5000000), m.Minor())

	// Rounding half-up at the kobo boundary.
	m, err = FromMajor(0.005, NGN)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), m.Minor())

	_, err = FromMajor(-50, NGN)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAdd(t *testing.T) {
	a := MustFromMajor(100, NGN)
	b := MustFromMajor(250.50, NGN)

	sum, err := a.Add(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(35050), sum.Minor())

	// Operands are untouched.
	assert.Equal(t, int64(10000), a.Minor())
}

func TestAddCurrencyMismatch(t *testing.T) {
	a := MustFromMajor(100, NGN)
	b := MustFromMajor(100, USD)

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Subtract(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Cmp(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSubtract(t *testing.T) {
	a := MustFromMajor(100, NGN)
	b := MustFromMajor(40, NGN)

	diff, err := a.Subtract(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(6000), diff.Minor())

	_, err = b.Subtract(a)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComparisons(t *testing.T) {
	small := MustFromMajor(100, NGN)
	large := MustFromMajor(200, NGN)
	equal := MustFromMajor(100, NGN)

	lt, err := small.LessThan(large)
	assert.NoError(t, err)
	assert.True(t, lt)

	gte, err := small.GreaterThanOrEqual(equal)
	assert.NoError(t, err)
	assert.True(t, gte)

	gt, err := small.GreaterThan(large)
	assert.NoError(t, err)
	assert.False(t, gt)
}

func TestString(t *testing.T) {
	assert.Equal(t, "NGN 50000.00", MustFromMajor(50000, NGN).String())
	assert.Equal(t, "USD 12.05", MustFromMajor(12.05, USD).String())
	assert.Equal(t, "NGN 0.00", Zero(NGN).String())
}
