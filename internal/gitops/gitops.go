// Package gitops keeps the loanbook data dir under version control so every
// ledger and loan store rewrite leaves a recoverable history.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies the committer for data dir commits.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a git repository at the data dir.
func Init(dataDir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dataDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// CommitAll stages the whole data dir and commits. Returns the short hash.
func CommitAll(dataDir, message string, author Author) (string, error) {
	add := exec.Command("git", "add", "-A")
	add.Dir = dataDir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.Command("git", "commit", "-m", message, "--author", author.String())
	commit.Dir = dataDir
	// The committer falls back to the author so commits work without a
	// global git identity.
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+author.Name,
		"GIT_COMMITTER_EMAIL="+author.Email,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dataDir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether the data dir is under git.
func IsRepo(dataDir string) bool {
	_, err := os.Stat(filepath.Join(dataDir, ".git"))
	return err == nil
}
