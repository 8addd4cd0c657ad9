package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/ynabimport/ynabimport/internal/format"
	"github.com/ynabimport/ynabimport/internal/id"
	"github.com/ynabimport/ynabimport/internal/model"
)

// RowReader yields raw rows in file order and io.EOF at the end.
// *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

// Normalizer turns the rows of one file into canonical transactions.
// It owns the resolved header columns and the import id counter, so a new
// Normalizer is needed per file.
type Normalizer struct {
	desc format.Descriptor

	used      bool
	payeeIdx  []int
	amountIdx []int
	dateIdx   []int
	ids       *id.Counter
}

// NewNormalizer creates a Normalizer bound to desc.
func NewNormalizer(desc format.Descriptor) *Normalizer {
	return &Normalizer{desc: desc, ids: id.NewCounter()}
}

// Normalize reads rows until io.EOF and returns one transaction per data row.
// Rows up to and including the header row are skipped. A file without a
// header row yields no transactions and no error.
func (n *Normalizer) Normalize(rows RowReader) ([]model.Transaction, error) {
	if n.used {
		return nil, ErrNormalizerUsed
	}
	n.used = true

	var txns []model.Transaction
	headerFound := false
	for line := 1; ; line++ {
		row, err := rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if !headerFound {
			ok, err := n.detectHeader(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", line, err)
			}
			headerFound = ok
			continue
		}

		txn, err := n.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// detectHeader reports whether row is the header row and caches its columns.
// The amount and date columns must be present once the payee column is.
func (n *Normalizer) detectHeader(row []string) (bool, error) {
	payeeIdx, ok := n.desc.Payee.Resolve(row)
	if !ok {
		return false, nil
	}

	amountIdx, err := resolveRequired(n.desc.Amount, row, "amount")
	if err != nil {
		return false, err
	}
	dateIdx, err := resolveRequired(n.desc.Date, row, "date")
	if err != nil {
		return false, err
	}

	n.payeeIdx = payeeIdx
	n.amountIdx = amountIdx
	n.dateIdx = dateIdx
	return true, nil
}

func resolveRequired(loc format.Locator, header []string, field string) ([]int, error) {
	idx, ok := loc.Resolve(header)
	if !ok {
		return nil, fmt.Errorf("%w: %s column %s not in header", ErrUnresolvedLocator, field, loc)
	}
	return idx, nil
}

func (n *Normalizer) parseRow(row []string) (model.Transaction, error) {
	date, err := n.parseDate(extract(row, n.dateIdx))
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := n.parseAmount(extract(row, n.amountIdx))
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Payee:     extract(row, n.payeeIdx),
		Date:      date,
		Amount:    amount,
		ImportID:  n.ids.Next(amount, date),
		Cleared:   model.ClearedStatus,
		AccountID: n.desc.AccountID,
	}, nil
}

// extract returns the cell at a single resolved index, or the cells of a
// joined locator separated by one space, in locator order.
func extract(row []string, indexes []int) string {
	if len(indexes) == 1 {
		return cell(row, indexes[0])
	}
	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		parts[i] = cell(row, idx)
	}
	return strings.Join(parts, " ")
}

func (n *Normalizer) parseDate(value string) (civil.Date, error) {
	d, err := parseDate(value, n.desc.DatePattern)
	if err != nil {
		return civil.Date{}, &DateParseError{Value: value, Pattern: n.desc.DatePattern, Err: err}
	}
	return d, nil
}

// parseAmount converts a decimal string to milliunits, flooring toward
// negative infinity, then applies the sign convention.
func (n *Normalizer) parseAmount(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, &AmountParseError{Value: value, Err: err}
	}
	milli := d.Shift(3).Floor()
	if milli.Abs().GreaterThan(maxMilliunits) {
		return 0, &AmountParseError{Value: value, Err: errors.New("amount out of range")}
	}
	return n.desc.Sign.Apply(milli.IntPart()), nil
}

var maxMilliunits = decimal.NewFromInt(1 << 62)

// cell returns row[idx], or "" when the row is too short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
