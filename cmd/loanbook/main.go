package main

import (
	"os"

	"github.com/loanbook-dev/loanbook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
