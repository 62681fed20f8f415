package amortize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_DocumentedFixture(t *testing.T) {
	// 100000 at 5.2% over 25 years (300 months).
	sched, err := Compute(dec("100000"), dec("5.2"), dec("25"))
	require.NoError(t, err)
	assert.True(t, sched.MonthlyPayment.Equal(dec("596.30")),
		"monthly = %s", sched.MonthlyPayment)
	assert.True(t, sched.TotalInterest.Equal(dec("78890.46")),
		"total interest = %s", sched.TotalInterest)
}

func TestCompute_KnownSchedules(t *testing.T) {
	tests := []struct {
		principal, rate, term string
		wantMonthly           string
		wantInterest          string
	}{
		{"50000", "9.6", "5", "1052.54", "13152.29"},
		{"1000", "12", "1", "88.85", "66.19"},
		{"250000", "5.2", "25", "1490.75", "197226.14"},
		{"30000", "7.5", "6", "518.70", "7346.64"},
		// Fractional years resolving to whole months.
		{"20000", "9.6", "2.5", "752.51", "2575.42"},
	}
	for _, tt := range tests {
		sched, err := Compute(dec(tt.principal), dec(tt.rate), dec(tt.term))
		require.NoError(t, err, "%s @ %s%% over %sy", tt.principal, tt.rate, tt.term)
		assert.True(t, sched.MonthlyPayment.Equal(dec(tt.wantMonthly)),
			"%s @ %s%% over %sy: monthly = %s, want %s",
			tt.principal, tt.rate, tt.term, sched.MonthlyPayment, tt.wantMonthly)
		assert.True(t, sched.TotalInterest.Equal(dec(tt.wantInterest)),
			"%s @ %s%% over %sy: interest = %s, want %s",
			tt.principal, tt.rate, tt.term, sched.TotalInterest, tt.wantInterest)
	}
}

func TestCompute_InterestFree(t *testing.T) {
	sched, err := Compute(dec("12000"), decimal.Zero, dec("1"))
	require.NoError(t, err)
	assert.True(t, sched.MonthlyPayment.Equal(dec("1000")))
	assert.True(t, sched.TotalInterest.IsZero(), "interest-free loan must have zero interest")

	// Principal not evenly divisible by months still owes zero interest.
	sched, err = Compute(dec("1000"), decimal.Zero, dec("1"))
	require.NoError(t, err)
	assert.True(t, sched.MonthlyPayment.Equal(dec("83.33")))
	assert.True(t, sched.TotalInterest.IsZero())
}

func TestCompute_PaymentAlwaysPositive(t *testing.T) {
	cases := []struct {
		principal, rate, term string
	}{
		{"1", "0", "1"},
		{"100", "9.6", "10"},
		{"50", "0.001", "5"},
		{"999999999", "19.9", "30"},
	}
	for _, tt := range cases {
		sched, err := Compute(dec(tt.principal), dec(tt.rate), dec(tt.term))
		require.NoError(t, err)
		assert.True(t, sched.MonthlyPayment.Sign() > 0,
			"%s @ %s%% over %sy: monthly must be positive", tt.principal, tt.rate, tt.term)
		assert.True(t, sched.TotalInterest.Sign() >= 0,
			"%s @ %s%% over %sy: interest must be non-negative", tt.principal, tt.rate, tt.term)
	}
}

func TestCompute_InvalidPrincipal(t *testing.T) {
	for _, principal := range []string{"0", "-1", "-50000"} {
		_, err := Compute(dec(principal), dec("5.2"), dec("10"))
		assert.ErrorIs(t, err, ErrInvalidPrincipal, "principal %s", principal)
	}
}

func TestCompute_InvalidTerm(t *testing.T) {
	for _, term := range []string{"0", "-1", "0.1", "1.001"} {
		_, err := Compute(dec("1000"), dec("5.2"), dec(term))
		assert.ErrorIs(t, err, ErrInvalidTerm, "term %s", term)
	}
}

func TestCompute_DegenerateSchedule(t *testing.T) {
	// Negative rates have no sensible fixed payment.
	_, err := Compute(dec("1000"), dec("-5"), dec("1"))
	assert.ErrorIs(t, err, ErrDegenerateSchedule)

	// Pathological rate/term combinations overflow the growth factor.
	_, err = Compute(dec("1000"), dec("1000000000"), dec("1000000"))
	assert.ErrorIs(t, err, ErrDegenerateSchedule)
}

func TestCompute_Deterministic(t *testing.T) {
	first, err := Compute(dec("100000"), dec("5.2"), dec("25"))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Compute(dec("100000"), dec("5.2"), dec("25"))
		require.NoError(t, err)
		assert.True(t, first.MonthlyPayment.Equal(again.MonthlyPayment))
		assert.True(t, first.TotalInterest.Equal(again.TotalInterest))
	}
}
