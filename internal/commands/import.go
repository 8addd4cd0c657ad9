package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ynabimport/ynabimport/internal/config"
	"github.com/ynabimport/ynabimport/internal/export"
	"github.com/ynabimport/ynabimport/internal/format"
	"github.com/ynabimport/ynabimport/internal/history"
	"github.com/ynabimport/ynabimport/internal/importer"
	"github.com/ynabimport/ynabimport/internal/importlog"
	"github.com/ynabimport/ynabimport/internal/logger"
	"github.com/ynabimport/ynabimport/internal/model"
	"github.com/ynabimport/ynabimport/internal/ynab"
)

type importOptions struct {
	repoRoot  string
	envFile   string
	dryRun    bool
	keepGoing bool
	noArchive bool
}

func newImportCommand() *cobra.Command {
	var repoDir string
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Normalize bank exports in import/ and submit them to YNAB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := absRepo(repoDir)
			if err != nil {
				return err
			}
			opts.repoRoot = absDir
			return runImport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "env file with YNAB credentials (default <repo>/.env if present)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print normalized transactions as CSV instead of submitting")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "continue with the next file when one fails")
	cmd.Flags().BoolVar(&opts.noArchive, "no-archive", false, "leave submitted files in import/")

	return cmd
}

// importRun holds what one invocation of import shares across files.
type importRun struct {
	opts    importOptions
	id      string
	cfg     *config.Config
	catalog *format.Catalog
	client  *ynab.Client
	store   *history.Store
	log     zerolog.Logger
	preview []model.Transaction
}

func runImport(ctx context.Context, out io.Writer, opts importOptions) error {
	cfg, err := loadConfig(opts.repoRoot)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(envFile(opts)); err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	run := &importRun{
		opts:    opts,
		id:      uuid.NewString(),
		cfg:     cfg,
		catalog: catalog,
	}
	run.log = logger.FromContext(ctx).With().Str("run_id", run.id).Logger()

	if !opts.dryRun {
		if err := cfg.ValidateLedger(); err != nil {
			return err
		}
		run.client = ynab.NewClient(ynab.Config{
			APIURL:      cfg.YNAB.APIURL,
			AccessToken: cfg.YNAB.AccessToken,
		})
		store, err := history.Open(cfg.HistoryPath(opts.repoRoot))
		if err != nil {
			return err
		}
		defer store.Close()
		run.store = store
	}

	files, err := importer.Scan(opts.repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		run.log.Info().Str("dir", importer.ImportDir(opts.repoRoot)).Msg("no files to import")
		return nil
	}

	var failed int
	for _, f := range files {
		entry, err := run.processFile(ctx, f)
		if err != nil {
			failed++
			entry.Action = importlog.ActionFailed
			entry.Details = err.Error()
			run.log.Error().Err(err).Str("file", f.Name).Msg("import failed")
		}
		if logErr := importlog.Append(opts.repoRoot, []importlog.Entry{entry}); logErr != nil {
			run.log.Warn().Err(logErr).Msg("failed to write import log")
		}
		if err != nil && !opts.keepGoing {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}

	if opts.dryRun {
		if err := export.WriteTransactions(out, run.preview); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(files))
	}
	return nil
}

// processFile normalizes one export and hands it to the ledger. The returned
// entry is filled in even on error.
func (r *importRun) processFile(ctx context.Context, f importer.FileInfo) (importlog.Entry, error) {
	entry := importlog.Entry{
		Timestamp: time.Now(),
		RunID:     r.id,
		File:      f.Name,
		Source:    f.Source,
	}
	log := r.log.With().Str("file", f.Name).Str("source", f.Source).Logger()

	desc, err := r.catalog.DescriptorFor(f.Source)
	if err != nil {
		return entry, err
	}

	txns, err := normalizeFile(f.Path, desc)
	if err != nil {
		return entry, err
	}
	entry.Count = len(txns)
	log.Debug().Int("count", len(txns)).Msg("normalized")

	if len(txns) == 0 {
		entry.Action = importlog.ActionEmpty
		entry.Details = "no header row found"
		log.Warn().Msg("no transactions found, file left in place")
		return entry, nil
	}

	if r.opts.dryRun {
		entry.Action = importlog.ActionDryRun
		r.preview = append(r.preview, txns...)
		return entry, nil
	}

	budgetID := r.cfg.BudgetFor(desc)
	result, err := r.client.CreateTransactions(ctx, budgetID, txns)
	if err != nil {
		var submitErr *ynab.SubmitError
		if errors.As(err, &submitErr) {
			log.Debug().Int("batch", len(submitErr.Transactions)).Str("budget_id", submitErr.BudgetID).Msg("batch rejected")
		}
		return entry, err
	}

	entry.Action = importlog.ActionSubmitted
	entry.Details = fmt.Sprintf("budget %s, %d created, %d duplicates",
		budgetID, len(result.TransactionIDs), len(result.DuplicateImportIDs))
	log.Info().
		Int("created", len(result.TransactionIDs)).
		Int("duplicates", len(result.DuplicateImportIDs)).
		Msg("submitted")

	if err := r.store.Record(ctx, f.Source, f.Name, budgetID, txns); err != nil {
		log.Warn().Err(err).Msg("failed to record history")
	}

	if !r.opts.noArchive {
		if err := importer.MarkProcessed(r.opts.repoRoot, f.Name); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

func normalizeFile(path string, desc format.Descriptor) ([]model.Transaction, error) {
	rows, err := importer.OpenRows(path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return importer.NewNormalizer(desc).Normalize(rows)
}

// envFile picks the .env file: the flag, else <repo>/.env when it exists.
func envFile(opts importOptions) string {
	if opts.envFile != "" {
		return opts.envFile
	}
	p := filepath.Join(opts.repoRoot, ".env")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
