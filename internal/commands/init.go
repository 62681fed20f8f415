package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loanbook-dev/loanbook/internal/config"
	"github.com/loanbook-dev/loanbook/internal/gitops"
	"github.com/loanbook-dev/loanbook/internal/ledger"
	"github.com/loanbook-dev/loanbook/internal/loanstore"
)

func newInitCommand() *cobra.Command {
	var bankName string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new loanbook data dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, bankName)
		},
	}

	cmd.Flags().StringVar(&bankName, "bank", "", "bank name (required)")
	_ = cmd.MarkFlagRequired("bank")

	return cmd
}

func runInit(dir, bankName string) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// Write loanbook.yaml.
	cfg := config.Default(bankName)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed empty stores so the initial commit captures the layout.
	accountsPath := filepath.Join(dir, ledger.FileName)
	if err := os.WriteFile(accountsPath, []byte(ledger.Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing accounts store: %w", err)
	}
	loansPath := filepath.Join(dir, loanstore.FileName)
	if err := os.WriteFile(loansPath, []byte(loanstore.Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing loan store: %w", err)
	}

	// Initialize git and create the first commit of the trail.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, "init: "+bankName, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized loanbook data dir at %s (%s)\n", dir, hash)
	return nil
}
