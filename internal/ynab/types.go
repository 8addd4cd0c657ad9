package ynab

import (
	"errors"
	"fmt"

	"github.com/ynabimport/ynabimport/internal/model"
)

// ErrEmptyBatch is returned when asked to submit no transactions.
var ErrEmptyBatch = errors.New("no transactions to submit")

// SaveTransaction is one transaction in a create request.
type SaveTransaction struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name,omitempty"`
	Cleared   string `json:"cleared"`
	ImportID  string `json:"import_id"`
}

// SaveTransactionsRequest is the body of POST /budgets/{id}/transactions.
type SaveTransactionsRequest struct {
	Transactions []SaveTransaction `json:"transactions"`
}

// SaveResult reports what the ledger did with a batch.
type SaveResult struct {
	TransactionIDs     []string `json:"transaction_ids"`
	DuplicateImportIDs []string `json:"duplicate_import_ids"`
	ServerKnowledge    int64    `json:"server_knowledge"`
}

// SaveTransactionsResponse wraps SaveResult.
type SaveTransactionsResponse struct {
	Data SaveResult `json:"data"`
}

// ErrorResponse represents an error body from the API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the structured API failure.
type ErrorDetail struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// APIError is a non-2xx response from the ledger.
type APIError struct {
	StatusCode int
	ErrorDetail
}

func (e *APIError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("ynab API error (status %d)", e.StatusCode)
	}
	if e.Detail == "" {
		return fmt.Sprintf("ynab API error (status %d): %s", e.StatusCode, e.Name)
	}
	return fmt.Sprintf("ynab API error (status %d): %s - %s", e.StatusCode, e.Name, e.Detail)
}

// SubmitError carries the batch that failed to submit.
type SubmitError struct {
	BudgetID     string
	Transactions []model.Transaction
	Err          error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submitting %d transactions to budget %s: %v", len(e.Transactions), e.BudgetID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// NewSaveTransaction converts a canonical record into the API shape.
func NewSaveTransaction(txn model.Transaction) SaveTransaction {
	return SaveTransaction{
		AccountID: txn.AccountID,
		Date:      txn.Date.String(),
		Amount:    txn.Amount,
		PayeeName: txn.Payee,
		Cleared:   txn.Cleared,
		ImportID:  txn.ImportID,
	}
}
