package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbook-dev/loanbook/internal/ledger"
	"github.com/loanbook-dev/loanbook/internal/loanstore"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "loanbook-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "loanbook")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/loanbook")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runLoanbook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runLoanbook(t, "init", dir, "--bank", "First Example Bank")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	for _, f := range []string{"loanbook.yaml", ledger.FileName, loanstore.FileName} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, "file %s should exist", f)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runLoanbook(t, "init", dir, "--bank", "First Example Bank")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "loanbook.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: First Example Bank")
	assert.Contains(t, contents, "debt_ratio_limit: 0.5")
	assert.Contains(t, contents, "Housing Loan")
}

func TestInit_SeedsEmptyStores(t *testing.T) {
	dir := t.TempDir()
	_, err := runLoanbook(t, "init", dir, "--bank", "Test Bank")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ledger.FileName))
	require.NoError(t, err)
	assert.Equal(t, ledger.Header+"\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, loanstore.FileName))
	require.NoError(t, err)
	assert.Equal(t, loanstore.Header+"\n", string(data))
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runLoanbook(t, "init", dir, "--bank", "Test Bank")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Test Bank")
}

func TestInit_RequiresBank(t *testing.T) {
	dir := t.TempDir()
	_, err := runLoanbook(t, "init", dir)
	require.Error(t, err, "init without --bank should fail")
}
