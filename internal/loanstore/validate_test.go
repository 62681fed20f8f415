package loanstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbook-dev/loanbook/internal/catalog"
	"github.com/loanbook-dev/loanbook/internal/model"
)

func TestCheck_CleanStore(t *testing.T) {
	apps := []model.LoanApplication{
		pendingApp("LN-000001", "alice"),
		pendingApp("LN-000002", "bob"),
	}
	errs := Check(apps, catalog.Default())
	assert.Empty(t, errs)
}

func TestCheck_DuplicateID(t *testing.T) {
	apps := []model.LoanApplication{
		pendingApp("LN-000001", "alice"),
		pendingApp("LN-000001", "bob"),
	}
	errs := Check(apps, catalog.Default())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate id")
}

func TestCheck_MalformedID(t *testing.T) {
	apps := []model.LoanApplication{pendingApp("7", "alice")}
	errs := Check(apps, catalog.Default())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "malformed id")
}

func TestCheck_UnknownLoanType(t *testing.T) {
	app := pendingApp("LN-000001", "alice")
	app.LoanType = "Yacht Loan"
	errs := Check([]model.LoanApplication{app}, catalog.Default())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown loan type")
}

func TestCheck_BadAmounts(t *testing.T) {
	app := pendingApp("LN-000001", "alice")
	app.Principal = dec("0")
	app.TermYears = dec("-1")
	app.MonthlyPayment = dec("160.403")

	errs := Check([]model.LoanApplication{app}, catalog.Default())
	assert.Len(t, errs, 3)
}
