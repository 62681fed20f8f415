package loanstore

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/catalog"
	"github.com/loanbook-dev/loanbook/internal/id"
	"github.com/loanbook-dev/loanbook/internal/model"
)

// ValidationError describes a single store invariant violation.
type ValidationError struct {
	LoanID      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("loan %s: %s", e.LoanID, e.Description)
}

// Check scans a full record set for invariant violations: well-formed unique
// ids, known statuses and loan types, positive principals, and money fields
// carrying at most two decimal places. Used by the verify command.
func Check(apps []model.LoanApplication, products *catalog.Catalog) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(apps))
	for _, app := range apps {
		if _, err := id.ParseLoanID(app.ID); err != nil {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("malformed id: %v", err),
			})
		}
		if seen[app.ID] {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: "duplicate id",
			})
		}
		seen[app.ID] = true

		if !model.ValidLoanStatus(app.Status) {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("unknown status %q", app.Status),
			})
		}

		if !products.Exists(app.LoanType) {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("unknown loan type %q", app.LoanType),
			})
		}

		if app.Principal.Sign() <= 0 {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("principal %s is not positive", app.Principal),
			})
		}

		if app.TermYears.Sign() <= 0 {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("term %s is not positive", app.TermYears),
			})
		}

		if !wholeCents(app.MonthlyPayment) {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("monthly_payment %s has more than 2 decimal places", app.MonthlyPayment),
			})
		}
		if !wholeCents(app.TotalInterest) {
			errs = append(errs, ValidationError{
				LoanID:      app.ID,
				Description: fmt.Sprintf("total_interest %s has more than 2 decimal places", app.TotalInterest),
			})
		}
	}

	return errs
}

var hundred = decimal.NewFromInt(100)

func wholeCents(v decimal.Decimal) bool {
	cents := v.Mul(hundred)
	return cents.Equal(cents.Floor())
}
