package loanstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/model"
)

// Header is the CSV header for loans.csv.
const Header = "id,username,loan_type,amount,interest_rate,term_years,monthly_payment,total_interest,status"

const (
	numFields   = 9
	colID       = 0
	colUsername = 1
	colLoanType = 2
	colAmount   = 3
	colRate     = 4
	colTerm     = 5
	colMonthly  = 6
	colInterest = 7
	colStatus   = 8
)

// ReadApplications reads all loan applications from a loans.csv reader.
func ReadApplications(r io.Reader) ([]model.LoanApplication, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading loans CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var apps []model.LoanApplication
	for i, rec := range records[1:] {
		app, err := UnmarshalApplication(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// WriteApplications writes applications to a loans.csv writer (including header).
func WriteApplications(w io.Writer, apps []model.LoanApplication) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, app := range apps {
		if err := cw.Write(MarshalApplication(app)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendApplications appends applications to an existing loans.csv writer (no header).
func AppendApplications(w io.Writer, apps []model.LoanApplication) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, app := range apps {
		if err := cw.Write(MarshalApplication(app)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalApplication converts a LoanApplication to a CSV row.
func MarshalApplication(app model.LoanApplication) []string {
	row := make([]string, numFields)
	row[colID] = app.ID
	row[colUsername] = app.Username
	row[colLoanType] = app.LoanType
	row[colAmount] = app.Principal.StringFixed(2)
	row[colRate] = app.InterestRate.String()
	row[colTerm] = app.TermYears.String()
	row[colMonthly] = app.MonthlyPayment.StringFixed(2)
	row[colInterest] = app.TotalInterest.StringFixed(2)
	row[colStatus] = string(app.Status)
	return row
}

// UnmarshalApplication converts a CSV row to a LoanApplication.
func UnmarshalApplication(record []string) (model.LoanApplication, error) {
	if len(record) != numFields {
		return model.LoanApplication{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	rate, err := decimal.NewFromString(record[colRate])
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parsing interest_rate %q: %w", record[colRate], err)
	}

	term, err := decimal.NewFromString(record[colTerm])
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parsing term_years %q: %w", record[colTerm], err)
	}

	monthly, err := decimal.NewFromString(record[colMonthly])
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parsing monthly_payment %q: %w", record[colMonthly], err)
	}

	interest, err := decimal.NewFromString(record[colInterest])
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parsing total_interest %q: %w", record[colInterest], err)
	}

	status := model.LoanStatus(record[colStatus])
	if !model.ValidLoanStatus(status) {
		return model.LoanApplication{}, fmt.Errorf("unknown status %q", record[colStatus])
	}

	return model.LoanApplication{
		ID:             record[colID],
		Username:       record[colUsername],
		LoanType:       record[colLoanType],
		Principal:      amount,
		InterestRate:   rate,
		TermYears:      term,
		MonthlyPayment: monthly,
		TotalInterest:  interest,
		Status:         status,
	}, nil
}
