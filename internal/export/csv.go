// Package export renders canonical transactions as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/ynabimport/ynabimport/internal/model"
)

// Header is the CSV header for exported transactions.
const Header = "import_id,date,payee,amount,cleared,account_id"

const (
	numFields   = 6
	colImportID = 0
	colDate     = 1
	colPayee    = 2
	colAmount   = 3
	colCleared  = 4
	colAcctID   = 5
)

// WriteTransactions writes txns to w, header first. Amounts are milliunits.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads transactions written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colImportID] = txn.ImportID
	row[colDate] = txn.Date.String()
	row[colPayee] = txn.Payee
	row[colAmount] = strconv.FormatInt(txn.Amount, 10)
	row[colCleared] = txn.Cleared
	row[colAcctID] = txn.AccountID
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := civil.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := strconv.ParseInt(record[colAmount], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		Payee:     record[colPayee],
		Date:      date,
		Amount:    amount,
		ImportID:  record[colImportID],
		Cleared:   record[colCleared],
		AccountID: record[colAcctID],
	}, nil
}
