package id

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// Prefix starts every import id.
const Prefix = "YNAB"

// FormatBase returns the base import id like "YNAB:-4500:2024-01-02".
func FormatBase(amount int64, date civil.Date) string {
	return fmt.Sprintf("%s:%d:%04d-%02d-%02d", Prefix, amount, date.Year, int(date.Month), date.Day)
}

// FormatImportID returns an import id like "YNAB:-4500:2024-01-02:1".
func FormatImportID(base string, occurrence int) string {
	return base + ":" + strconv.Itoa(occurrence)
}

// Counter numbers repeated base ids in encounter order, starting at 1.
// The zero value is not usable; use NewCounter.
type Counter struct {
	seen map[string]int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{seen: make(map[string]int)}
}

// Next returns the import id for the next occurrence of (amount, date).
func (c *Counter) Next(amount int64, date civil.Date) string {
	base := FormatBase(amount, date)
	c.seen[base]++
	return FormatImportID(base, c.seen[base])
}

// ParseImportID parses "YNAB:-4500:2024-01-02:1" into amount, date, occurrence.
func ParseImportID(importID string) (amount int64, date civil.Date, occurrence int, err error) {
	parts := strings.Split(importID, ":")
	if len(parts) != 4 || parts[0] != Prefix {
		return 0, civil.Date{}, 0, fmt.Errorf("invalid import ID format: %q", importID)
	}

	amount, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, civil.Date{}, 0, fmt.Errorf("invalid amount in import ID %q: %w", importID, err)
	}

	date, err = civil.ParseDate(parts[2])
	if err != nil {
		return 0, civil.Date{}, 0, fmt.Errorf("invalid date in import ID %q: %w", importID, err)
	}

	occurrence, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, civil.Date{}, 0, fmt.Errorf("invalid occurrence in import ID %q: %w", importID, err)
	}
	if occurrence < 1 {
		return 0, civil.Date{}, 0, fmt.Errorf("invalid occurrence in import ID %q: must be positive", importID)
	}

	return amount, date, occurrence, nil
}
