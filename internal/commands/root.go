package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dataDir string

	rootCmd := &cobra.Command{
		Use:     "loanbook",
		Short:   "File-backed personal loan origination",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".", "loanbook data directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(&dataDir))
	rootCmd.AddCommand(newLoanCommand(&dataDir))
	rootCmd.AddCommand(newAuditCommand(&dataDir))
	rootCmd.AddCommand(newVerifyCommand(&dataDir))

	return rootCmd
}
