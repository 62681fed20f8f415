package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/loanbook-dev/loanbook/internal/catalog"
	"github.com/loanbook-dev/loanbook/internal/config"
	"github.com/loanbook-dev/loanbook/internal/gitops"
	"github.com/loanbook-dev/loanbook/internal/ledger"
	"github.com/loanbook-dev/loanbook/internal/loanstore"
	"github.com/loanbook-dev/loanbook/internal/quotecache"
	"github.com/loanbook-dev/loanbook/internal/workflow"
)

// env wires the stores and workflow over a loanbook data dir.
type env struct {
	dataDir  string
	cfg      *config.Config
	products *catalog.Catalog
	accounts *ledger.Service
	loans    *loanstore.Service
	wf       *workflow.Workflow
}

// openEnv loads loanbook.yaml from dataDir and assembles the services.
func openEnv(dataDir string) (*env, error) {
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}

	cfgPath := filepath.Join(absDir, config.FileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a loanbook data dir (run loanbook init)", absDir)
		}
		return nil, err
	}

	products := catalogFromConfig(cfg)
	accounts := ledger.NewService(absDir)
	loans := loanstore.NewService(absDir)

	var quotes quotecache.Cache
	if cfg.Cache.RedisAddr != "" {
		quotes = quotecache.NewRedis(cfg.Cache.RedisAddr)
	}

	wf := workflow.New(products, accounts, loans, workflow.Options{
		Quotes:         quotes,
		AuditDir:       absDir,
		DebtRatioLimit: decimal.NewFromFloat(cfg.Policy.DebtRatioLimit),
	})

	return &env{
		dataDir:  absDir,
		cfg:      cfg,
		products: products,
		accounts: accounts,
		loans:    loans,
		wf:       wf,
	}, nil
}

// commit records a data dir mutation in git when auto-commit is on.
func (e *env) commit(message string) {
	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.dataDir) {
		return
	}
	author := gitops.Author{Name: e.cfg.Git.AuthorName, Email: e.cfg.Git.AuthorEmail}
	if _, err := gitops.CommitAll(e.dataDir, message, author); err != nil {
		fmt.Fprintf(os.Stderr, "warning: git commit: %v\n", err)
	}
}

func catalogFromConfig(cfg *config.Config) *catalog.Catalog {
	if len(cfg.Catalog) == 0 {
		return catalog.Default()
	}
	products := make([]catalog.Product, len(cfg.Catalog))
	for i, p := range cfg.Catalog {
		products[i] = catalog.Product{
			Name:              p.Name,
			AnnualRatePercent: decimal.NewFromFloat(p.AnnualRatePercent),
			MaxTermYears:      p.MaxTermYears,
		}
	}
	return catalog.New(products)
}
