package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynabimport/ynabimport/internal/format"
)

const sampleConfig = `ynab:
  access_token: file-token
  budget_id: budget-1
banks:
  chase:
    payee: Description
    amount: Amount
    date: Posting Date
    date_format: "%m/%d/%Y"
    account_id: acct-chase
  amex:
    payee: [Description, Extended Details]
    amount: Amount
    date: Date
    date_format: "%m/%d/%Y"
    amount_format: negative
    account_id: acct-amex
    budget_id: budget-2
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.YNAB.APIURL)
	assert.Equal(t, "file-token", cfg.YNAB.AccessToken)
	assert.Equal(t, "budget-1", cfg.YNAB.BudgetID)
	require.Len(t, cfg.Banks, 2)

	amex := cfg.Banks["amex"]
	assert.Equal(t, format.Joined("Description", "Extended Details"), amex.Payee)
	assert.Equal(t, format.SignNegative, amex.AmountFormat)
	assert.Equal(t, "budget-2", amex.BudgetID)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadAmountFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "banks:\n  x:\n    amount_format: sideways\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestCatalog(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"amex", "chase"}, cat.Names())

	chase, err := cat.DescriptorFor("Chase")
	require.NoError(t, err)
	assert.Equal(t, format.Single("Posting Date"), chase.Date)
	assert.Equal(t, "%m/%d/%Y", chase.DatePattern)
	assert.Equal(t, format.SignAsIs, chase.Sign)
	assert.Equal(t, "acct-chase", chase.AccountID)

	amex, err := cat.DescriptorFor("amex")
	require.NoError(t, err)
	assert.Equal(t, format.SignNegative, amex.Sign)
	assert.Equal(t, "budget-2", cfg.BudgetFor(amex))
	assert.Equal(t, "budget-1", cfg.BudgetFor(chase))

	_, err = cat.DescriptorFor("wells")
	assert.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestCatalog_MissingFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, "banks:\n  broken:\n    payee: Description\n"))
	require.NoError(t, err)

	_, err = cfg.Catalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bank "broken"`)
	assert.Contains(t, err.Error(), "amount column not set")
	assert.Contains(t, err.Error(), "date_format not set")
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	t.Setenv(EnvAccessToken, "env-token")
	t.Setenv(EnvBudgetID, "")
	t.Setenv(EnvAPIURL, "http://localhost:9999/v1")

	require.NoError(t, cfg.ApplyEnv(""))
	assert.Equal(t, "env-token", cfg.YNAB.AccessToken)
	assert.Equal(t, "budget-1", cfg.YNAB.BudgetID)
	assert.Equal(t, "http://localhost:9999/v1", cfg.YNAB.APIURL)
}

func TestApplyEnv_File(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("YNAB_BUDGET_ID=dotenv-budget\n"), 0o600))
	t.Setenv(EnvBudgetID, "")
	require.NoError(t, os.Unsetenv(EnvBudgetID))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envPath))
	assert.Equal(t, "dotenv-budget", cfg.YNAB.BudgetID)
}

func TestApplyEnv_IgnoresWorkingDirEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("YNAB_ACCESS_TOKEN=stray-token\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(EnvAccessToken, "")
	require.NoError(t, os.Unsetenv(EnvAccessToken))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(""))
	assert.Empty(t, cfg.YNAB.AccessToken)
	assert.Empty(t, os.Getenv(EnvAccessToken))
}

func TestApplyEnv_MissingFile(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidateLedger(t *testing.T) {
	cfg := Default()
	err := cfg.ValidateLedger()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ynab.access_token")
	assert.Contains(t, err.Error(), "ynab.budget_id")

	cfg.YNAB.AccessToken = "token"
	cfg.YNAB.BudgetID = "budget"
	assert.NoError(t, cfg.ValidateLedger())
}

func TestValidateLedger_PerBankBudget(t *testing.T) {
	cfg := Default()
	cfg.YNAB.AccessToken = "token"
	chase := cfg.Banks["chase"]
	chase.BudgetID = "budget-chase"
	cfg.Banks["chase"] = chase

	assert.NoError(t, cfg.ValidateLedger())
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/repo", ".ynabimport", "history.db"), cfg.HistoryPath("/repo"))

	cfg.History.Path = "/var/lib/ynabimport.db"
	assert.Equal(t, "/var/lib/ynabimport.db", cfg.HistoryPath("/repo"))

	cfg.History.Path = ""
	assert.Equal(t, filepath.Join("/repo", ".ynabimport", "history.db"), cfg.HistoryPath("/repo"))
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.YNAB.BudgetID = "budget-1"
	cfg.Banks["amex"] = BankFormat{
		Payee:        format.Joined("Description", "Memo"),
		Amount:       format.Single("Amount"),
		Date:         format.Single("Date"),
		DateFormat:   "%Y-%m-%d",
		AmountFormat: format.SignNegative,
		AccountID:    "acct-amex",
	}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.YNAB, got.YNAB)
	assert.Equal(t, cfg.History, got.History)
	assert.Equal(t, cfg.Banks, got.Banks)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "api_url: https://api.ynab.com/v1")
	assert.Contains(t, contents, "date: Posting Date")
	assert.Contains(t, contents, "date_format:")
	assert.Contains(t, contents, "%m/%d/%Y")
	assert.Contains(t, contents, "amount_format: as-is")
}
