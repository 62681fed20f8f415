package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/audit"
)

func newAuditCommand(dataDir *string) *cobra.Command {
	var action string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the workflow audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(*dataDir, action)
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "filter by action (submit, approve, reject)")

	return cmd
}

func runAudit(dataDir, action string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	entries, err := audit.Read(e.dataDir)
	if err != nil {
		return err
	}
	if action != "" {
		entries = audit.FilterAction(entries, action)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tLOAN\tUSER\tAMOUNT")
	for _, entry := range entries {
		amount := ""
		if !entry.Amount.IsZero() {
			amount = entry.Amount.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Format(time.RFC3339), entry.Action, entry.LoanID, entry.Username, amount)
	}
	return tw.Flush()
}
