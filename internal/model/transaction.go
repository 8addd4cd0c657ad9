package model

import "cloud.google.com/go/civil"

// ClearedStatus is the ledger cleared flag stamped on every imported record.
const ClearedStatus = "cleared"

// Transaction is a normalized, ledger-ready transaction.
type Transaction struct {
	Payee     string
	Date      civil.Date
	Amount    int64 // milliunits: decimal amount * 1000, floored
	ImportID  string
	Cleared   string
	AccountID string
}
