package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownFormat is returned when no descriptor is registered for a source.
var ErrUnknownFormat = errors.New("unknown format")

// Catalog holds format descriptors by source name.
type Catalog struct {
	formats map[string]Descriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{formats: make(map[string]Descriptor)}
}

// Register adds a descriptor under its lower-cased name.
func (c *Catalog) Register(d Descriptor) error {
	key := strings.ToLower(strings.TrimSpace(d.Name))
	if key == "" {
		return errors.New("registering format: empty name")
	}
	if _, ok := c.formats[key]; ok {
		return fmt.Errorf("registering format: duplicate format %q", key)
	}
	d.Name = key
	c.formats[key] = d
	return nil
}

// DescriptorFor returns the descriptor registered for source.
func (c *Catalog) DescriptorFor(source string) (Descriptor, error) {
	d, ok := c.formats[strings.ToLower(source)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownFormat, source)
	}
	return d, nil
}

// Names returns the registered source names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.formats))
	for name := range c.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered formats.
func (c *Catalog) Len() int { return len(c.formats) }
