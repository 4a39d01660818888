package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/starspread/starspread/internal/similartext"
	"github.com/starspread/starspread/schema"
)

// Fetcher is an in-memory schema.Fetcher for tests and examples.
type Fetcher struct {
	mu     sync.RWMutex
	tables map[string]*schema.TableSchema
}

var _ schema.Fetcher = (*Fetcher)(nil)

// NewFetcher creates an empty in-memory fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{tables: map[string]*schema.TableSchema{}}
}

// AddTable registers a pre-built table schema.
func (f *Fetcher) AddTable(t *schema.TableSchema) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[t.FullName()] = t
}

// AddTableFromColumns registers a table built from raw column metadata.
func (f *Fetcher) AddTableFromColumns(catalog, schemaName, table string, cols []schema.ColumnDef) error {
	t, err := schema.BuildTable(catalog, schemaName, table, cols)
	if err != nil {
		return err
	}
	f.AddTable(t)
	return nil
}

// FetchSchema implements schema.Fetcher.
func (f *Fetcher) FetchSchema(_ context.Context, catalog, schemaName, table string) (*schema.TableSchema, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	full := catalog + "." + schemaName + "." + table
	t, ok := f.tables[full]
	if !ok {
		names := make([]string, 0, len(f.tables))
		for name := range f.tables {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, schema.ErrTableNotFound.New(full + similartext.Find(names, full))
	}
	return t, nil
}
