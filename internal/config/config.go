// Package config loads ynabimport.yaml: ledger settings and the table of bank
// export formats. Secrets can be overridden from the environment or a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ynabimport/ynabimport/internal/format"
)

// FileName is the config file name at the repository root.
const FileName = "ynabimport.yaml"

// DefaultAPIURL is the YNAB API base URL.
const DefaultAPIURL = "https://api.ynab.com/v1"

// Config represents the top-level ynabimport.yaml configuration.
type Config struct {
	YNAB    YNABConfig            `yaml:"ynab"`
	History HistoryConfig         `yaml:"history"`
	Banks   map[string]BankFormat `yaml:"banks"`
}

// YNABConfig identifies the ledger and how to reach it.
type YNABConfig struct {
	APIURL      string `yaml:"api_url"`
	AccessToken string `yaml:"access_token"`
	BudgetID    string `yaml:"budget_id"`
}

// HistoryConfig locates the submission history database.
type HistoryConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the repo root
}

// BankFormat describes one bank export. Column fields take a header name or
// a list of header names.
type BankFormat struct {
	Payee        format.Locator        `yaml:"payee"`
	Amount       format.Locator        `yaml:"amount"`
	Date         format.Locator        `yaml:"date"`
	DateFormat   string                `yaml:"date_format"`
	AmountFormat format.SignConvention `yaml:"amount_format,omitempty"`
	AccountID    string                `yaml:"account_id"`
	BudgetID     string                `yaml:"budget_id,omitempty"`
}

// Environment variables that override file settings.
const (
	EnvAccessToken = "YNAB_ACCESS_TOKEN"
	EnvBudgetID    = "YNAB_BUDGET_ID"
	EnvAPIURL      = "YNAB_API_URL"
)

// Load reads a ynabimport.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.YNAB.APIURL == "" {
		cfg.YNAB.APIURL = DefaultAPIURL
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides ledger settings from the environment. envPath, when set,
// names a .env file to load first; variables already set win over it.
func (c *Config) ApplyEnv(envPath string) error {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	if v := os.Getenv(EnvAccessToken); v != "" {
		c.YNAB.AccessToken = v
	}
	if v := os.Getenv(EnvBudgetID); v != "" {
		c.YNAB.BudgetID = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.YNAB.APIURL = v
	}
	return nil
}

// ValidateLedger checks the settings needed to submit transactions.
func (c *Config) ValidateLedger() error {
	var missing []string
	if c.YNAB.APIURL == "" {
		missing = append(missing, "ynab.api_url")
	}
	if c.YNAB.AccessToken == "" {
		missing = append(missing, "ynab.access_token")
	}
	if c.YNAB.BudgetID == "" {
		for _, name := range c.bankNames() {
			if c.Banks[name].BudgetID == "" {
				missing = append(missing, "ynab.budget_id")
				break
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s (set it in %s or via %s/%s)",
			strings.Join(missing, ", "), FileName, EnvAccessToken, EnvBudgetID)
	}
	return nil
}

// BudgetFor returns the budget a source's transactions post to.
func (c *Config) BudgetFor(d format.Descriptor) string {
	if d.BudgetID != "" {
		return d.BudgetID
	}
	return c.YNAB.BudgetID
}

// HistoryPath returns the history database path for a repo root.
func (c *Config) HistoryPath(repoRoot string) string {
	p := c.History.Path
	if p == "" {
		p = filepath.Join(".ynabimport", "history.db")
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(repoRoot, p)
}

// Catalog builds the format catalog from the banks table. Every bank must
// name its payee, amount and date columns and a date format.
func (c *Config) Catalog() (*format.Catalog, error) {
	cat := format.NewCatalog()
	for _, name := range c.bankNames() {
		b := c.Banks[name]
		var errs []error
		if b.Payee.IsZero() {
			errs = append(errs, errors.New("payee column not set"))
		}
		if b.Amount.IsZero() {
			errs = append(errs, errors.New("amount column not set"))
		}
		if b.Date.IsZero() {
			errs = append(errs, errors.New("date column not set"))
		}
		if b.DateFormat == "" {
			errs = append(errs, errors.New("date_format not set"))
		}
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("bank %q: %w", name, err)
		}

		sign := b.AmountFormat
		if sign == "" {
			sign = format.SignAsIs
		}
		if err := cat.Register(format.Descriptor{
			Name:        name,
			Payee:       b.Payee,
			Amount:      b.Amount,
			Date:        b.Date,
			DatePattern: b.DateFormat,
			Sign:        sign,
			AccountID:   b.AccountID,
			BudgetID:    b.BudgetID,
		}); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (c *Config) bankNames() []string {
	names := make([]string, 0, len(c.Banks))
	for name := range c.Banks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Default returns a Config for a new project with one example bank format
// matching Chase checking exports.
func Default() *Config {
	return &Config{
		YNAB: YNABConfig{
			APIURL: DefaultAPIURL,
		},
		History: HistoryConfig{
			Path: filepath.Join(".ynabimport", "history.db"),
		},
		Banks: map[string]BankFormat{
			"chase": {
				Payee:        format.Single("Description"),
				Amount:       format.Single("Amount"),
				Date:         format.Single("Posting Date"),
				DateFormat:   "%m/%d/%Y",
				AmountFormat: format.SignAsIs,
				AccountID:    "",
			},
		},
	}
}
