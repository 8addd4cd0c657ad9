package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ynabimport/ynabimport/internal/id"
	"github.com/ynabimport/ynabimport/internal/model"
)

// Submission is one recorded transaction.
type Submission struct {
	ID          int64
	BudgetID    string
	ImportID    string
	Occurrence  int // position among same-day, same-amount rows of its file
	AccountID   string
	Date        civil.Date
	Amount      int64
	Payee       string
	Source      string
	File        string
	SubmittedAt time.Time
}

// Store is an open history database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the history database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores txns as submitted to budgetID from one source file. Rows
// already present for the same budget and import id are updated in place.
// Every import id must be well formed and agree with its amount and date;
// otherwise nothing is recorded.
func (s *Store) Record(ctx context.Context, source, file, budgetID string, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	for _, txn := range txns {
		if err := checkImportID(txn); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submissions
			(budget_id, import_id, account_id, txn_date, amount, payee, source, file, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(budget_id, import_id) DO UPDATE SET
			account_id = excluded.account_id,
			txn_date = excluded.txn_date,
			amount = excluded.amount,
			payee = excluded.payee,
			source = excluded.source,
			file = excluded.file,
			submitted_at = excluded.submitted_at
	`)
	if err != nil {
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	at := s.now().UTC().Format(time.RFC3339)
	for _, txn := range txns {
		if _, err := stmt.ExecContext(ctx,
			budgetID,
			txn.ImportID,
			txn.AccountID,
			txn.Date.String(),
			txn.Amount,
			txn.Payee,
			source,
			file,
			at,
		); err != nil {
			return fmt.Errorf("recording %s: %w", txn.ImportID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// List returns the most recent submissions, newest first. A limit of zero or
// less returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, budget_id, import_id, account_id, txn_date, amount, payee, source, file, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var (
			sub      Submission
			date, at string
		)
		if err := rows.Scan(
			&sub.ID,
			&sub.BudgetID,
			&sub.ImportID,
			&sub.AccountID,
			&date,
			&sub.Amount,
			&sub.Payee,
			&sub.Source,
			&sub.File,
			&at,
		); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if sub.Date, err = civil.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		if sub.SubmittedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", at, err)
		}
		if _, _, sub.Occurrence, err = id.ParseImportID(sub.ImportID); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return subs, nil
}

// Count returns the number of recorded submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

func checkImportID(txn model.Transaction) error {
	amount, date, _, err := id.ParseImportID(txn.ImportID)
	if err != nil {
		return err
	}
	if amount != txn.Amount || date != txn.Date {
		return fmt.Errorf("import ID %q does not match amount %d on %s", txn.ImportID, txn.Amount, txn.Date)
	}
	return nil
}
