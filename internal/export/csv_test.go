package export

import (
	"bytes"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynabimport/ynabimport/internal/model"
)

func testTransactions() []model.Transaction {
	return []model.Transaction{
		{
			Payee:     "GITHUB",
			Date:      civil.Date{Year: 2025, Month: 1, Day: 3},
			Amount:    -4000,
			ImportID:  "YNAB:-4000:2025-01-03:1",
			Cleared:   model.ClearedStatus,
			AccountID: "acct-chase",
		},
		{
			Payee:     "Hardware, Inc.",
			Date:      civil.Date{Year: 2025, Month: 2, Day: 14},
			Amount:    19999,
			ImportID:  "YNAB:19999:2025-02-14:1",
			Cleared:   model.ClearedStatus,
			AccountID: "acct-card",
		},
	}
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, testTransactions()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "YNAB:-4000:2025-01-03:1,2025-01-03,GITHUB,-4000,cleared,acct-chase", lines[1])
	assert.Equal(t, `YNAB:19999:2025-02-14:1,2025-02-14,"Hardware, Inc.",19999,cleared,acct-card`, lines[2])
}

func TestWriteTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestReadTransactions(t *testing.T) {
	var buf bytes.Buffer
	want := testTransactions()
	require.NoError(t, WriteTransactions(&buf, want))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadTransactions_HeaderOnly(t *testing.T) {
	got, err := ReadTransactions(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalTransaction_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		errMsg string
	}{
		{"wrong width", []string{"a"}, "expected 6 fields"},
		{"bad date", []string{"id", "01/03/2025", "p", "1", "cleared", "a"}, "parsing date"},
		{"bad amount", []string{"id", "2025-01-03", "p", "4.00", "cleared", "a"}, "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTransaction(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestReadTransactions_BadRow(t *testing.T) {
	input := Header + "\nid,2025-01-03,p,abc,cleared,a\n"
	_, err := ReadTransactions(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
