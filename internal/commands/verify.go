package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/loanstore"
)

func newVerifyCommand(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check loan store invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(*dataDir)
		},
	}
}

func runVerify(dataDir string) error {
	e, err := openEnv(dataDir)
	if err != nil {
		return err
	}

	apps, err := e.loans.All()
	if err != nil {
		return err
	}

	errs := loanstore.Check(apps, e.products)
	if len(errs) == 0 {
		fmt.Printf("OK: %d records, no violations\n", len(apps))
		return nil
	}

	for _, ve := range errs {
		fmt.Println(ve.Error())
	}
	return fmt.Errorf("%d invariant violations", len(errs))
}
