package source

import (
	"context"

	"github.com/jsondb/jsondb/internal/frontend/rest"
	"github.com/jsondb/jsondb/table"
)

// Catalog is an in-memory set of named tables. It satisfies rest.Client and
// healthcheck.Client. Names keep insertion order.
type Catalog struct {
	tables map[string]*table.Table
	names  []string
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: map[string]*table.Table{}}
}

// Load reads every path into the catalog. Tables register under their
// embedded name, falling back to the file basename.
func Load(paths []string, opts Options) (*Catalog, error) {
	c := NewCatalog()
	for _, path := range paths {
		t, err := FromFile(path, opts)
		if err != nil {
			return nil, err
		}
		c.Add(t)
	}
	return c, nil
}

// Add registers t under its name, replacing any previous table with the
// same name.
func (c *Catalog) Add(t *table.Table) {
	name := t.Name()
	if _, ok := c.tables[name]; !ok {
		c.names = append(c.names, name)
	}
	c.tables[name] = t
}

// Len reports the number of registered tables.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Last returns the most recently added table, or nil for an empty catalog.
func (c *Catalog) Last() *table.Table {
	if len(c.names) == 0 {
		return nil
	}
	return c.tables[c.names[len(c.names)-1]]
}

// GetTable satisfies rest.Client.
func (c *Catalog) GetTable(_ context.Context, name string) (*table.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, rest.ErrTableNotFound
	}
	return t, nil
}

// TableNames satisfies rest.Client. Names come back in insertion order.
func (c *Catalog) TableNames(context.Context) []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// IsHealthy satisfies healthcheck.Client.
func (c *Catalog) IsHealthy(context.Context) bool {
	return true
}
