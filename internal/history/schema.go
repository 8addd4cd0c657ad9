// Package history records submitted transactions in a SQLite database. It is
// an audit trail only; imports never consult it to drop records.
package history

// Schema defines the SQL statements to create the history tables.
const Schema = `
-- One row per transaction handed to the ledger.
-- Resubmitting an import id to the same budget refreshes the row.
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    budget_id TEXT NOT NULL,
    import_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    txn_date TEXT NOT NULL,            -- YYYY-MM-DD
    amount INTEGER NOT NULL,           -- milliunits
    payee TEXT NOT NULL,
    source TEXT NOT NULL,
    file TEXT NOT NULL,
    submitted_at TEXT NOT NULL,        -- RFC 3339, UTC
    UNIQUE(budget_id, import_id)
);

CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at
    ON submissions(submitted_at);
`
