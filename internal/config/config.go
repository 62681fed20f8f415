package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a loanbook data dir.
const FileName = "loanbook.yaml"

// Config represents the top-level loanbook.yaml configuration.
type Config struct {
	Bank    BankConfig      `yaml:"bank"`
	Policy  PolicyConfig    `yaml:"policy"`
	Catalog []ProductConfig `yaml:"catalog"`
	Cache   CacheConfig     `yaml:"cache"`
	Git     GitConfig       `yaml:"git"`
}

// BankConfig identifies the operating institution.
type BankConfig struct {
	Name string `yaml:"name"`
}

// PolicyConfig controls the affordability gate.
type PolicyConfig struct {
	// DebtRatioLimit is the share of monthly income the monthly payment may
	// reach before a submission requires acknowledgement.
	DebtRatioLimit float64 `yaml:"debt_ratio_limit"`
}

// ProductConfig is one offered loan type.
type ProductConfig struct {
	Name              string  `yaml:"name"`
	AnnualRatePercent float64 `yaml:"annual_rate_percent"`
	MaxTermYears      int     `yaml:"max_term_years"`
}

// CacheConfig controls quote caching.
type CacheConfig struct {
	// RedisAddr enables a shared Redis quote cache when set ("host:port").
	// Empty means a process-local cache.
	RedisAddr string `yaml:"redis_addr,omitempty"`
}

// GitConfig controls git integration for the data dir.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a loanbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard product lineup.
func Default(bankName string) *Config {
	return &Config{
		Bank: BankConfig{Name: bankName},
		Policy: PolicyConfig{
			DebtRatioLimit: 0.5,
		},
		Catalog: []ProductConfig{
			{Name: "Housing Loan", AnnualRatePercent: 5.2, MaxTermYears: 25},
			{Name: "Auto Loan", AnnualRatePercent: 7.5, MaxTermYears: 6},
			{Name: "Personal Loan", AnnualRatePercent: 9.6, MaxTermYears: 10},
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Loanbook",
			AuthorEmail: "ops@loanbook.dev",
		},
	}
}
