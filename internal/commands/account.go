package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/identity"
	"github.com/loanbook-dev/loanbook/internal/model"
)

func newAccountCommand(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newAccountCreateCommand(dataDir))
	cmd.AddCommand(newAccountShowCommand(dataDir))
	cmd.AddCommand(newAccountLoginCommand(dataDir))
	cmd.AddCommand(newAccountResetPasswordCommand(dataDir))
	cmd.AddCommand(newAccountSetIncomeCommand(dataDir))

	return cmd
}

func newAccountCreateCommand(dataDir *string) *cobra.Command {
	var (
		email    string
		income   string
		role     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountCreate(*dataDir, args[0], email, income, role, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&income, "income", "0", "monthly income")
	cmd.Flags().StringVar(&role, "role", string(model.RoleClient), "account role (admin or client)")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runAccountCreate(dataDir, username, email, income, role, password string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	monthlyIncome, err := decimal.NewFromString(income)
	if err != nil {
		return fmt.Errorf("invalid income %q: %w", income, err)
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return err
	}

	acct := model.Account{
		Username:      username,
		PasswordHash:  hash,
		Email:         email,
		MonthlyIncome: monthlyIncome,
		Role:          model.Role(role),
		Balance:       decimal.Zero,
	}
	if err := e.accounts.Create(acct); err != nil {
		return err
	}

	e.commit("account: create " + username)
	fmt.Printf("Account %q created as %s\n", username, role)
	return nil
}

func newAccountShowCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show USERNAME",
		Short: "Show an account's balance, income and recent loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountShow(*dataDir, args[0])
		},
	}
}

func runAccountShow(dataDir, username string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	acct, err := e.accounts.Get(username)
	if err != nil {
		return err
	}

	fmt.Printf("Username:        %s\n", acct.Username)
	fmt.Printf("Role:            %s\n", acct.Role)
	fmt.Printf("Email:           %s\n", acct.Email)
	fmt.Printf("Monthly income:  %s\n", acct.MonthlyIncome.StringFixed(2))
	fmt.Printf("Balance:         %s\n", acct.Balance.StringFixed(2))

	loans, err := e.wf.ForUser(username)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		return nil
	}

	// Last five applications, newest last, like the account summary panel.
	if len(loans) > 5 {
		loans = loans[len(loans)-5:]
	}
	fmt.Println("Recent loans:")
	for _, l := range loans {
		fmt.Printf("  %s  %-13s %10s  %s/mo  %s\n",
			l.ID, l.LoanType, l.Principal.StringFixed(2), l.MonthlyPayment.StringFixed(2), l.Status)
	}
	return nil
}

func newAccountLoginCommand(dataDir *string) *cobra.Command {
	var (
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Verify credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountLogin(*dataDir, args[0], password, role)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("password")
	cmd.Flags().StringVar(&role, "role", "", "required role (admin or client)")

	return cmd
}

func runAccountLogin(dataDir, username, password, role string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	acct, err := e.accounts.Get(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return identity.ErrBadCredentials
	}
	if err := identity.VerifyPassword(acct.PasswordHash, password); err != nil {
		return err
	}
	if role != "" && acct.Role != model.Role(role) {
		return fmt.Errorf("account %q is not a %s account", username, role)
	}

	fmt.Printf("Welcome %s (%s). Balance: %s\n", acct.Username, acct.Role, acct.Balance.StringFixed(2))
	return nil
}

func newAccountResetPasswordCommand(dataDir *string) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password USERNAME",
		Short: "Replace an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountResetPassword(*dataDir, args[0], password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runAccountResetPassword(dataDir, username, password string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return err
	}
	if err := e.accounts.SetPasswordHash(username, hash); err != nil {
		return err
	}

	e.commit("account: reset password for " + username)
	fmt.Printf("Password updated for %q\n", username)
	return nil
}

func newAccountSetIncomeCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set-income USERNAME INCOME",
		Short: "Update an account's monthly income",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountSetIncome(*dataDir, args[0], args[1])
		},
	}
}

func runAccountSetIncome(dataDir, username, income string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	monthlyIncome, err := decimal.NewFromString(income)
	if err != nil {
		return fmt.Errorf("invalid income %q: %w", income, err)
	}
	if err := e.accounts.UpdateIncome(username, monthlyIncome); err != nil {
		return err
	}

	e.commit("account: set income for " + username)
	fmt.Printf("Income updated for %q\n", username)
	return nil
}
