// Package workflow orchestrates loan applications end to end: quoting,
// affordability gating, submission, and the pending → approved/rejected
// transition that credits the borrower's balance. It holds no persistent
// state of its own; the ledger and loan store own their records.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/amortize"
	"github.com/loanbook-dev/loanbook/internal/audit"
	"github.com/loanbook-dev/loanbook/internal/catalog"
	"github.com/loanbook-dev/loanbook/internal/ledger"
	"github.com/loanbook-dev/loanbook/internal/loanstore"
	"github.com/loanbook-dev/loanbook/internal/model"
	"github.com/loanbook-dev/loanbook/internal/quotecache"
)

var (
	// ErrUnknownLoanType is returned when the requested type is not in the catalog.
	ErrUnknownLoanType = errors.New("unknown loan type")
	// ErrTermOutOfRange is returned when the term is not positive or exceeds
	// the catalog maximum for the type.
	ErrTermOutOfRange = errors.New("term out of range for loan type")
	// ErrInvalidAmount is returned when the principal is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// DebtRatioWarning signals that the quoted payment exceeds the affordability
// limit. Not a failure: the caller may re-submit with an acknowledgement.
type DebtRatioWarning struct {
	Ratio          decimal.Decimal // monthly payment / monthly income
	MonthlyPayment decimal.Decimal
	Limit          decimal.Decimal
}

func (w *DebtRatioWarning) Error() string {
	return fmt.Sprintf("monthly payment %s exceeds %s of income (debt ratio %s)",
		w.MonthlyPayment.StringFixed(2), w.Limit.String(), w.Ratio.String())
}

// ReconciliationError reports an approval whose status was durably written
// but whose balance credit failed. The two stores disagree about money and
// an operator must reconcile them; this must never be reported as a plain
// failure.
type ReconciliationError struct {
	LoanID   string
	Username string
	Amount   decimal.Decimal
	Err      error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("loan %s approved but crediting %s to %q failed, stores need reconciliation: %v",
		e.LoanID, e.Amount.StringFixed(2), e.Username, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// Quote is a computed preview of a loan application. Producing one never
// persists a record.
type Quote struct {
	Username          string          `json:"username"`
	LoanType          string          `json:"loan_type"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TermYears         decimal.Decimal `json:"term_years"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	DebtRatio         decimal.Decimal `json:"debt_ratio"`
	NeedsConfirmation bool            `json:"needs_confirmation"`
}

// DefaultDebtRatioLimit gates affordability: warn when the monthly payment
// exceeds this share of monthly income.
var DefaultDebtRatioLimit = decimal.NewFromFloat(0.5)

// Options configures optional Workflow collaborators.
type Options struct {
	Quotes         quotecache.Cache // nil = process-local memory cache
	AuditDir       string           // "" = no audit trail
	DebtRatioLimit decimal.Decimal  // zero = DefaultDebtRatioLimit
}

// Workflow coordinates the catalog, calculator, ledger and loan store.
type Workflow struct {
	mu       sync.Mutex
	products *catalog.Catalog
	accounts *ledger.Service
	loans    *loanstore.Service
	quotes   quotecache.Cache
	auditDir string
	limit    decimal.Decimal
	now      func() time.Time
}

// New creates a Workflow over the given stores.
func New(products *catalog.Catalog, accounts *ledger.Service, loans *loanstore.Service, opts Options) *Workflow {
	quotes := opts.Quotes
	if quotes == nil {
		quotes = quotecache.NewMemory()
	}
	limit := opts.DebtRatioLimit
	if limit.IsZero() {
		limit = DefaultDebtRatioLimit
	}
	return &Workflow{
		products: products,
		accounts: accounts,
		loans:    loans,
		quotes:   quotes,
		auditDir: opts.AuditDir,
		limit:    limit,
		now:      time.Now,
	}
}

// Quote validates the request and computes a preview. No record is persisted
// no matter how often this is called.
func (w *Workflow) Quote(username, loanType string, principal, termYears decimal.Decimal) (Quote, error) {
	product, ok := w.products.Get(loanType)
	if !ok {
		return Quote{}, fmt.Errorf("%q (offered: %s): %w",
			loanType, strings.Join(w.products.Names(), ", "), ErrUnknownLoanType)
	}
	if !product.WithinTerm(termYears) {
		return Quote{}, fmt.Errorf("term %s for %q (max %d years): %w",
			termYears, loanType, product.MaxTermYears, ErrTermOutOfRange)
	}
	if principal.Sign() <= 0 {
		return Quote{}, fmt.Errorf("amount %s: %w", principal, ErrInvalidAmount)
	}

	acct, err := w.accounts.Get(username)
	if err != nil {
		return Quote{}, err
	}

	key := quoteKey(loanType, product.AnnualRatePercent, principal, termYears, acct.MonthlyIncome, w.limit)
	if cached, ok := w.quotes.Get(key); ok {
		var q Quote
		if err := json.Unmarshal([]byte(cached), &q); err == nil {
			q.Username = username
			return q, nil
		}
		// A corrupt cache entry is recomputed below.
	}

	sched, err := amortize.Compute(principal, product.AnnualRatePercent, termYears)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Username:          username,
		LoanType:          loanType,
		Principal:         principal,
		AnnualRatePercent: product.AnnualRatePercent,
		TermYears:         termYears,
		MonthlyPayment:    sched.MonthlyPayment,
		TotalInterest:     sched.TotalInterest,
	}

	ceiling := w.limit.Mul(acct.MonthlyIncome)
	q.NeedsConfirmation = sched.MonthlyPayment.Cmp(ceiling) > 0
	if acct.MonthlyIncome.Sign() > 0 {
		q.DebtRatio = sched.MonthlyPayment.Div(acct.MonthlyIncome).Round(4)
	}

	if data, err := json.Marshal(q); err == nil {
		if err := w.quotes.Set(key, string(data)); err != nil {
			log.Printf("warning: caching quote: %v", err)
		}
	}
	return q, nil
}

// Submit re-quotes the request and persists a pending application. When the
// quote trips the affordability gate and acknowledged is false, nothing is
// persisted and a *DebtRatioWarning is returned; calling again with
// acknowledged true confirms the submission.
func (w *Workflow) Submit(username, loanType string, principal, termYears decimal.Decimal, acknowledged bool) (model.LoanApplication, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	q, err := w.Quote(username, loanType, principal, termYears)
	if err != nil {
		return model.LoanApplication{}, err
	}

	if q.NeedsConfirmation && !acknowledged {
		return model.LoanApplication{}, &DebtRatioWarning{
			Ratio:          q.DebtRatio,
			MonthlyPayment: q.MonthlyPayment,
			Limit:          w.limit,
		}
	}

	loanID, err := w.loans.NextID()
	if err != nil {
		return model.LoanApplication{}, err
	}

	app := model.LoanApplication{
		ID:             loanID,
		Username:       username,
		LoanType:       loanType,
		Principal:      principal,
		InterestRate:   q.AnnualRatePercent,
		TermYears:      termYears,
		MonthlyPayment: q.MonthlyPayment,
		TotalInterest:  q.TotalInterest,
		Status:         model.StatusPending,
	}
	if err := w.loans.Append(app); err != nil {
		return model.LoanApplication{}, err
	}

	w.audit("submit", app.ID, username, principal, loanType)
	return app, nil
}

// Approve moves a pending application to approved and credits the owner's
// balance by exactly the principal. If the credit fails after the status was
// durably written, the inconsistency is surfaced as *ReconciliationError.
func (w *Workflow) Approve(loanID string) (model.LoanApplication, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.loans.Get(loanID)
	if err != nil {
		return model.LoanApplication{}, err
	}
	if rec.Status.Terminal() {
		return model.LoanApplication{}, fmt.Errorf("loan %s is %s: %w", loanID, rec.Status, loanstore.ErrInvalidTransition)
	}

	// An orphan record is surfaced before any state changes.
	if _, err := w.accounts.Get(rec.Username); err != nil {
		return model.LoanApplication{}, fmt.Errorf("loan %s owner: %w", loanID, err)
	}

	if _, err := w.loans.UpdateStatus(loanID, model.StatusApproved); err != nil {
		return model.LoanApplication{}, err
	}

	if err := w.accounts.Credit(rec.Username, rec.Principal); err != nil {
		return model.LoanApplication{}, &ReconciliationError{
			LoanID:   loanID,
			Username: rec.Username,
			Amount:   rec.Principal,
			Err:      err,
		}
	}

	w.audit("approve", loanID, rec.Username, rec.Principal, rec.LoanType)
	rec.Status = model.StatusApproved
	return rec, nil
}

// Reject moves a pending application to rejected. The ledger is untouched.
func (w *Workflow) Reject(loanID string) (model.LoanApplication, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.loans.UpdateStatus(loanID, model.StatusRejected)
	if err != nil {
		return model.LoanApplication{}, err
	}

	w.audit("reject", loanID, rec.Username, decimal.Zero, rec.LoanType)
	rec.Status = model.StatusRejected
	return rec, nil
}

// Pending returns all applications awaiting a decision, straight from the
// store.
func (w *Workflow) Pending() ([]model.LoanApplication, error) {
	return w.filter(func(app model.LoanApplication) bool {
		return app.Status == model.StatusPending
	})
}

// ForUser returns all applications submitted by username.
func (w *Workflow) ForUser(username string) ([]model.LoanApplication, error) {
	return w.filter(func(app model.LoanApplication) bool {
		return app.Username == username
	})
}

func (w *Workflow) filter(keep func(model.LoanApplication) bool) ([]model.LoanApplication, error) {
	apps, err := w.loans.All()
	if err != nil {
		return nil, err
	}
	var out []model.LoanApplication
	for _, app := range apps {
		if keep(app) {
			out = append(out, app)
		}
	}
	return out, nil
}

// audit records a workflow action. Audit problems never fail the money
// operation that triggered them.
func (w *Workflow) audit(action, loanID, username string, amount decimal.Decimal, details string) {
	if w.auditDir == "" {
		return
	}
	err := audit.Append(w.auditDir, []audit.Entry{{
		Timestamp: w.now(),
		Action:    action,
		LoanID:    loanID,
		Username:  username,
		Amount:    amount,
		Details:   details,
	}})
	if err != nil {
		log.Printf("warning: writing audit log: %v", err)
	}
}

// quoteKey covers every input the quote depends on. The catalog rate and
// the affordability limit are part of the key so a catalog or policy edit
// can never serve a stale entry, even through a shared Redis cache.
func quoteKey(loanType string, rate, principal, termYears, income, limit decimal.Decimal) string {
	return fmt.Sprintf("quote:%s:%s:%s:%s:%s:%s", loanType, rate, principal, termYears, income, limit)
}
