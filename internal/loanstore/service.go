// Package loanstore is the durable, append-mostly store of loan application
// records. Status changes rewrite loans.csv atomically; new ids come from a
// persisted watermark that survives restarts and record deletions.
package loanstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/loanbook-dev/loanbook/internal/fsatomic"
	"github.com/loanbook-dev/loanbook/internal/id"
	"github.com/loanbook-dev/loanbook/internal/model"
)

const (
	// FileName is the loan record file inside the data dir.
	FileName = "loans.csv"
	// SeqFileName holds the id watermark: the highest sequence ever issued.
	SeqFileName = "loans.seq"
)

var (
	// ErrNotFound is returned when no record has the given id.
	ErrNotFound = errors.New("loan application not found")
	// ErrInvalidTransition is returned when updating a record that is no
	// longer pending. Approved and rejected are terminal.
	ErrInvalidTransition = errors.New("loan application is not pending")
)

// Service provides serialized access to the loan record store.
type Service struct {
	mu      sync.Mutex
	dataDir string
}

// NewService creates a loan store Service rooted at dataDir.
func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

// NextID issues a globally unique loan id. The watermark is advanced and
// persisted before the id is handed out, so an id is never reused even if
// the caller crashes before appending its record.
func (s *Service) NextID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := s.readSeq()
	if err != nil {
		return "", err
	}
	seq++

	if err := s.writeSeq(seq); err != nil {
		return "", err
	}
	return id.FormatLoanID(seq), nil
}

// Append durably persists a fully-formed record. The caller supplies the id
// (from NextID); no fields are assigned here.
func (s *Service) Append(app model.LoanApplication) error {
	if app.ID == "" {
		return errors.New("record must carry an id")
	}
	if !model.ValidLoanStatus(app.Status) {
		return fmt.Errorf("unknown status %q", app.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.loansPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening loan store: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendApplications(f, []model.LoanApplication{app}); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}

// All returns every record in file order, read fresh from disk on each call.
func (s *Service) All() ([]model.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Get returns the record with the given id.
func (s *Service) Get(loanID string) (model.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.read()
	if err != nil {
		return model.LoanApplication{}, err
	}
	for _, app := range apps {
		if app.ID == loanID {
			return app, nil
		}
	}
	return model.LoanApplication{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
}

// UpdateStatus moves the pending record with the given id to newStatus and
// rewrites the store atomically. Returns the record as it was before the
// update. Either the entire updated set becomes visible or none of it does.
func (s *Service) UpdateStatus(loanID string, newStatus model.LoanStatus) (model.LoanApplication, error) {
	if !model.ValidLoanStatus(newStatus) {
		return model.LoanApplication{}, fmt.Errorf("unknown status %q", newStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.read()
	if err != nil {
		return model.LoanApplication{}, err
	}

	for i := range apps {
		if apps[i].ID != loanID {
			continue
		}
		previous := apps[i]
		if previous.Status.Terminal() {
			return model.LoanApplication{}, fmt.Errorf("loan %s is %s: %w", loanID, previous.Status, ErrInvalidTransition)
		}

		apps[i].Status = newStatus
		if err := s.write(apps); err != nil {
			return model.LoanApplication{}, err
		}
		return previous, nil
	}
	return model.LoanApplication{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
}

func (s *Service) loansPath() string {
	return filepath.Join(s.dataDir, FileName)
}

func (s *Service) seqPath() string {
	return filepath.Join(s.dataDir, SeqFileName)
}

func (s *Service) read() ([]model.LoanApplication, error) {
	path := s.loansPath()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening loan store %s: %w", path, err)
	}
	defer f.Close()

	apps, err := ReadApplications(f)
	if err != nil {
		return nil, fmt.Errorf("reading loan store %s: %w", path, err)
	}
	return apps, nil
}

func (s *Service) write(apps []model.LoanApplication) error {
	return fsatomic.WriteFile(s.loansPath(), func(w io.Writer) error {
		return WriteApplications(w, apps)
	})
}

func (s *Service) readSeq() (uint64, error) {
	data, err := os.ReadFile(s.seqPath())
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading id watermark: %w", err)
	}

	seq, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing id watermark %q: %w", strings.TrimSpace(string(data)), err)
	}
	return seq, nil
}

func (s *Service) writeSeq(seq uint64) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	return fsatomic.WriteFile(s.seqPath(), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d\n", seq)
		return err
	})
}
