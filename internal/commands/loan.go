package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/model"
	"github.com/loanbook-dev/loanbook/internal/workflow"
)

func newLoanCommand(dataDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Quote, submit and decide loan applications",
	}

	cmd.AddCommand(newLoanQuoteCommand(dataDir))
	cmd.AddCommand(newLoanApplyCommand(dataDir))
	cmd.AddCommand(newLoanListCommand(dataDir))
	cmd.AddCommand(newLoanApproveCommand(dataDir))
	cmd.AddCommand(newLoanRejectCommand(dataDir))

	return cmd
}

func parseLoanRequest(args []string) (username, loanType string, principal, termYears decimal.Decimal, err error) {
	username = args[0]
	loanType = args[1]

	principal, err = decimal.NewFromString(args[2])
	if err != nil {
		return "", "", decimal.Zero, decimal.Zero, fmt.Errorf("invalid amount %q: %w", args[2], err)
	}
	termYears, err = decimal.NewFromString(args[3])
	if err != nil {
		return "", "", decimal.Zero, decimal.Zero, fmt.Errorf("invalid term %q: %w", args[3], err)
	}
	return username, loanType, principal, termYears, nil
}

func newLoanQuoteCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quote USERNAME TYPE AMOUNT TERM_YEARS",
		Short: "Preview a loan without submitting it",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoanQuote(*dataDir, args)
		},
	}
}

func runLoanQuote(dataDir string, args []string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	username, loanType, principal, termYears, err := parseLoanRequest(args)
	if err != nil {
		return err
	}

	q, err := e.wf.Quote(username, loanType, principal, termYears)
	if err != nil {
		return err
	}

	fmt.Printf("Loan type:       %s (%s%% annual)\n", q.LoanType, q.AnnualRatePercent)
	fmt.Printf("Amount:          %s\n", q.Principal.StringFixed(2))
	fmt.Printf("Term:            %s years\n", q.TermYears)
	fmt.Printf("Monthly payment: %s\n", q.MonthlyPayment.StringFixed(2))
	fmt.Printf("Total interest:  %s\n", q.TotalInterest.StringFixed(2))
	if q.NeedsConfirmation {
		fmt.Printf("Warning: debt ratio %s exceeds the affordability limit; applying requires --acknowledge-debt-ratio\n", q.DebtRatio)
	}
	return nil
}

func newLoanApplyCommand(dataDir *string) *cobra.Command {
	var acknowledge bool

	cmd := &cobra.Command{
		Use:   "apply USERNAME TYPE AMOUNT TERM_YEARS",
		Short: "Submit a loan application (pending until decided)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoanApply(*dataDir, args, acknowledge)
		},
	}

	cmd.Flags().BoolVar(&acknowledge, "acknowledge-debt-ratio", false,
		"submit even though the payment exceeds the affordability limit")

	return cmd
}

func runLoanApply(dataDir string, args []string, acknowledge bool) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	username, loanType, principal, termYears, err := parseLoanRequest(args)
	if err != nil {
		return err
	}

	app, err := e.wf.Submit(username, loanType, principal, termYears, acknowledge)
	var warning *workflow.DebtRatioWarning
	if errors.As(err, &warning) {
		fmt.Printf("Not submitted: %v\n", warning)
		fmt.Println("Re-run with --acknowledge-debt-ratio to submit anyway, or reduce the amount / extend the term.")
		return err
	}
	if err != nil {
		return err
	}

	e.commit("loan: submit " + app.ID + " for " + username)
	fmt.Printf("Application %s submitted: %s/mo for %s years (pending approval)\n",
		app.ID, app.MonthlyPayment.StringFixed(2), app.TermYears)
	return nil
}

func newLoanListCommand(dataDir *string) *cobra.Command {
	var (
		status string
		user   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loan applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoanList(*dataDir, status, user)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, approved, rejected)")
	cmd.Flags().StringVar(&user, "user", "", "filter by username")

	return cmd
}

func runLoanList(dataDir, status, user string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	apps, err := e.loans.All()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tTYPE\tAMOUNT\tTERM\tMONTHLY\tSTATUS")
	for _, app := range apps {
		if status != "" && app.Status != model.LoanStatus(status) {
			continue
		}
		if user != "" && app.Username != user {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, app.Username, app.LoanType,
			app.Principal.StringFixed(2), app.TermYears,
			app.MonthlyPayment.StringFixed(2), app.Status)
	}
	return tw.Flush()
}

func newLoanApproveCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "approve LOAN_ID",
		Short: "Approve a pending application and credit the borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoanApprove(*dataDir, args[0])
		},
	}
}

func runLoanApprove(dataDir, loanID string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	app, err := e.wf.Approve(loanID)
	var recon *workflow.ReconciliationError
	if errors.As(err, &recon) {
		// The status is durably approved but the credit failed. Spell it
		// out rather than letting it read like an ordinary failure.
		fmt.Fprintf(os.Stderr, "NEEDS RECONCILIATION: %v\n", recon)
		return err
	}
	if err != nil {
		return err
	}

	e.commit("loan: approve " + loanID)
	fmt.Printf("Loan %s approved; %s credited to %q\n",
		app.ID, app.Principal.StringFixed(2), app.Username)
	return nil
}

func newLoanRejectCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reject LOAN_ID",
		Short: "Reject a pending application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoanReject(*dataDir, args[0])
		},
	}
}

func runLoanReject(dataDir, loanID string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	app, err := e.wf.Reject(loanID)
	if err != nil {
		return err
	}

	e.commit("loan: reject " + loanID)
	fmt.Printf("Loan %s rejected\n", app.ID)
	return nil
}
