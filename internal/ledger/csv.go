package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/model"
)

// Header is the CSV header for accounts.csv.
const Header = "username,password_hash,email,income,role,balance"

const (
	numFields  = 6
	colUser    = 0
	colPwHash  = 1
	colEmail   = 2
	colIncome  = 3
	colRole    = 4
	colBalance = 5
)

// ReadAccounts reads all accounts from an accounts.csv reader.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts to an accounts.csv writer (including header).
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colUser] = acct.Username
	row[colPwHash] = acct.PasswordHash
	row[colEmail] = acct.Email
	row[colIncome] = acct.MonthlyIncome.StringFixed(2)
	row[colRole] = string(acct.Role)
	row[colBalance] = acct.Balance.StringFixed(2)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	income, err := decimal.NewFromString(record[colIncome])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing income %q: %w", record[colIncome], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	role := model.Role(record[colRole])
	if !model.ValidRole(role) {
		return model.Account{}, fmt.Errorf("unknown role %q", record[colRole])
	}

	return model.Account{
		Username:      record[colUser],
		PasswordHash:  record[colPwHash],
		Email:         record[colEmail],
		MonthlyIncome: income,
		Role:          role,
		Balance:       balance,
	}, nil
}
