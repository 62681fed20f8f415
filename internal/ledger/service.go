// Package ledger is the durable store of account balances and incomes,
// keyed by username. All mutations rewrite accounts.csv atomically.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/fsatomic"
	"github.com/loanbook-dev/loanbook/internal/model"
)

// FileName is the accounts store file inside the data dir.
const FileName = "accounts.csv"

var (
	// ErrNotFound is returned when no account has the given username.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateUsername is returned when creating an account whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNegativeAmount is returned when crediting a negative amount.
	ErrNegativeAmount = errors.New("credit amount must be non-negative")
)

// Service provides serialized access to the account ledger.
type Service struct {
	mu   sync.Mutex
	path string
}

// NewService creates a ledger Service rooted at dataDir.
func NewService(dataDir string) *Service {
	return &Service{path: filepath.Join(dataDir, FileName)}
}

// Get returns the account with the given username.
func (s *Service) Get(username string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.read()
	if err != nil {
		return model.Account{}, err
	}
	for _, acct := range accounts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return model.Account{}, fmt.Errorf("account %q: %w", username, ErrNotFound)
}

// All returns every account, read fresh from disk.
func (s *Service) All() ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Create persists a new account. The username must be unused, and income
// and balance must be non-negative.
func (s *Service) Create(acct model.Account) error {
	if acct.Username == "" {
		return errors.New("username is required")
	}
	if !model.ValidRole(acct.Role) {
		return fmt.Errorf("unknown role %q", acct.Role)
	}
	if acct.MonthlyIncome.Sign() < 0 {
		return errors.New("income must be non-negative")
	}
	if acct.Balance.Sign() < 0 {
		return errors.New("balance must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.read()
	if err != nil {
		return err
	}
	for _, existing := range accounts {
		if existing.Username == acct.Username {
			return fmt.Errorf("account %q: %w", acct.Username, ErrDuplicateUsername)
		}
	}

	return s.write(append(accounts, acct))
}

// Credit atomically increases the account's balance by amount and persists.
// Safe to call exactly once per loan approval.
func (s *Service) Credit(username string, amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(username, func(acct *model.Account) {
		acct.Balance = acct.Balance.Add(amount)
	})
}

// UpdateIncome replaces the account's monthly income.
func (s *Service) UpdateIncome(username string, income decimal.Decimal) error {
	if income.Sign() < 0 {
		return errors.New("income must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(username, func(acct *model.Account) {
		acct.MonthlyIncome = income
	})
}

// SetPasswordHash replaces the account's opaque password hash. The hash is
// computed by the identity collaborator; this store never inspects it.
func (s *Service) SetPasswordHash(username, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(username, func(acct *model.Account) {
		acct.PasswordHash = hash
	})
}

// update applies mutate to the named account and persists the full set.
// Callers must hold s.mu.
func (s *Service) update(username string, mutate func(*model.Account)) error {
	accounts, err := s.read()
	if err != nil {
		return err
	}

	for i := range accounts {
		if accounts[i].Username == username {
			mutate(&accounts[i])
			return s.write(accounts)
		}
	}
	return fmt.Errorf("account %q: %w", username, ErrNotFound)
}

func (s *Service) read() ([]model.Account, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	accounts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return accounts, nil
}

func (s *Service) write(accounts []model.Account) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	return fsatomic.WriteFile(s.path, func(w io.Writer) error {
		return WriteAccounts(w, accounts)
	})
}
