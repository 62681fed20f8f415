// Package amortize computes fixed monthly payment schedules for
// fully-amortizing loans.
//
// Money values are decimal. The closed-form payment for a nonzero rate is
// evaluated in IEEE-754 float64 and then rounded half-away-from-zero to
// cents, which keeps results reproducible bit-for-bit across platforms.
// Interest-free schedules divide in exact decimal arithmetic so that the
// total interest is exactly zero.
package amortize

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPrincipal is returned when principal <= 0.
	ErrInvalidPrincipal = errors.New("principal must be positive")
	// ErrInvalidTerm is returned when the term is not a positive whole
	// number of months.
	ErrInvalidTerm = errors.New("term must be a positive whole number of months")
	// ErrDegenerateSchedule is returned when the payment formula has no
	// finite solution for the given rate and term.
	ErrDegenerateSchedule = errors.New("no finite payment exists for this rate and term")
)

var twelve = decimal.NewFromInt(12)

// Schedule is the result of amortizing a loan: the fixed monthly payment and
// the total interest paid over the full term, both rounded to cents.
type Schedule struct {
	MonthlyPayment decimal.Decimal
	TotalInterest  decimal.Decimal
}

// Compute amortizes principal at annualRatePercent over termYears.
//
// termYears may be fractional (2.5 years = 30 months) but must resolve to a
// whole number of months. TotalInterest is derived from the unrounded
// monthly payment, then rounded, so rounding error never compounds across
// the term.
func Compute(principal, annualRatePercent, termYears decimal.Decimal) (Schedule, error) {
	if principal.Sign() <= 0 {
		return Schedule{}, ErrInvalidPrincipal
	}

	months, err := monthsIn(termYears)
	if err != nil {
		return Schedule{}, err
	}

	if annualRatePercent.IsZero() {
		// principal / n, exact in decimal; no interest by definition.
		monthly := principal.Div(decimal.NewFromInt(months))
		return Schedule{
			MonthlyPayment: monthly.Round(2),
			TotalInterest:  decimal.Zero,
		}, nil
	}
	if annualRatePercent.Sign() < 0 {
		return Schedule{}, ErrDegenerateSchedule
	}

	// M = P * r * (1+r)^n / ((1+r)^n - 1), evaluated in float64.
	p, _ := principal.Float64()
	rate, _ := annualRatePercent.Float64()
	r := rate / 100.0 / 12.0
	n := float64(months)

	growth := math.Pow(1+r, n)
	denominator := growth - 1
	if denominator == 0 {
		return Schedule{}, ErrDegenerateSchedule
	}

	monthly := p * r * growth / denominator
	if !isFiniteAndPositive(monthly) {
		return Schedule{}, ErrDegenerateSchedule
	}

	totalInterest := monthly*n - p
	return Schedule{
		MonthlyPayment: decimal.NewFromFloat(monthly).Round(2),
		TotalInterest:  decimal.NewFromFloat(totalInterest).Round(2),
	}, nil
}

// monthsIn converts a term in years to a whole month count.
func monthsIn(termYears decimal.Decimal) (int64, error) {
	if termYears.Sign() <= 0 {
		return 0, ErrInvalidTerm
	}
	months := termYears.Mul(twelve)
	if !months.IsInteger() {
		return 0, ErrInvalidTerm
	}
	return months.IntPart(), nil
}

func isFiniteAndPositive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
