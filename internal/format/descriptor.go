package format

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SignConvention says whether parsed amounts keep or flip their sign.
type SignConvention string

const (
	SignAsIs     SignConvention = "as-is"
	SignNegative SignConvention = "negative"
)

// UnmarshalYAML accepts "as-is", "negative", or an empty value (as-is).
func (s *SignConvention) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch SignConvention(raw) {
	case "", SignAsIs:
		*s = SignAsIs
	case SignNegative:
		*s = SignNegative
	default:
		return fmt.Errorf("line %d: unknown amount format %q (want %q or %q)", node.Line, raw, SignAsIs, SignNegative)
	}
	return nil
}

// Descriptor describes one source's CSV shape and value conventions.
type Descriptor struct {
	Name        string
	Payee       Locator
	Amount      Locator
	Date        Locator
	DatePattern string // strptime style, e.g. "%m/%d/%Y"
	Sign        SignConvention
	AccountID   string
	BudgetID    string // optional; empty means the configured default budget
}

// Apply flips amount when the convention is negative.
func (s SignConvention) Apply(amount int64) int64 {
	if s == SignNegative {
		return -amount
	}
	return amount
}
