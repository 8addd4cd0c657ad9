package format

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// LocatorKind tells a single-column locator apart from a joined one.
type LocatorKind int

const (
	// LocatorSingle names one column.
	LocatorSingle LocatorKind = iota
	// LocatorJoined names several columns whose cells are space-joined.
	LocatorJoined
)

// Locator references one or more columns by header name.
type Locator struct {
	kind  LocatorKind
	names []string
}

// Single returns a locator for one column.
func Single(name string) Locator {
	return Locator{kind: LocatorSingle, names: []string{name}}
}

// Joined returns a locator whose cells are joined in the given order.
func Joined(names ...string) Locator {
	return Locator{kind: LocatorJoined, names: slices.Clone(names)}
}

// Kind returns the locator variant.
func (l Locator) Kind() LocatorKind { return l.kind }

// Names returns the column names in declaration order.
func (l Locator) Names() []string { return slices.Clone(l.names) }

// IsZero reports whether the locator names no column.
func (l Locator) IsZero() bool { return len(l.names) == 0 }

// String renders the locator for listings: "Amount" or "[First Last]".
func (l Locator) String() string {
	if l.kind == LocatorJoined {
		return "[" + strings.Join(l.names, " ") + "]"
	}
	if len(l.names) == 0 {
		return ""
	}
	return l.names[0]
}

// Resolve returns the index of every named column in header, in locator
// order. The first matching column wins. ok is false when any name is absent.
func (l Locator) Resolve(header []string) (indexes []int, ok bool) {
	if len(l.names) == 0 {
		return nil, false
	}
	indexes = make([]int, len(l.names))
	for i, name := range l.names {
		idx := slices.Index(header, name)
		if idx < 0 {
			return nil, false
		}
		indexes[i] = idx
	}
	return indexes, true
}

// UnmarshalYAML accepts a scalar column name or a sequence of names.
func (l *Locator) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("line %d: empty column name", node.Line)
		}
		*l = Single(name)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("line %d: empty column list", node.Line)
		}
		*l = Joined(names...)
		return nil
	default:
		return fmt.Errorf("line %d: column locator must be a name or a list of names", node.Line)
	}
}

// MarshalYAML writes a single locator as a scalar and a joined one as a list.
func (l Locator) MarshalYAML() (any, error) {
	if l.kind == LocatorJoined {
		return l.names, nil
	}
	if len(l.names) == 0 {
		return "", nil
	}
	return l.names[0], nil
}
