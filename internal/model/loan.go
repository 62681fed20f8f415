package model

import "github.com/shopspring/decimal"

// LoanStatus represents the lifecycle state of a loan application.
type LoanStatus string

const (
	StatusPending  LoanStatus = "pending"
	StatusApproved LoanStatus = "approved"
	StatusRejected LoanStatus = "rejected"
)

// ValidLoanStatus reports whether s is a known status.
func ValidLoanStatus(s LoanStatus) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether s permits no further transitions. Only pending
// records may move, and only to approved or rejected.
func (s LoanStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// LoanApplication is a single row in loans.csv. MonthlyPayment and
// TotalInterest are frozen at submission time and never recomputed, even if
// catalog rates later change.
type LoanApplication struct {
	ID             string
	Username       string
	LoanType       string
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal // annual percent, snapshot of the catalog rate
	TermYears      decimal.Decimal
	MonthlyPayment decimal.Decimal
	TotalInterest  decimal.Decimal
	Status         LoanStatus
}
