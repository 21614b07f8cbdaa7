// Package tabular provides a sheet-like store: named tables with a header row
// and positional rows of string cells. Both the read path and the append path
// resolve columns through the header parsed at table-open time, so the header
// order is the single source of truth for the row layout.
package tabular

import (
	"context"
	"errors"
	"strings"
)

// ErrStoreUnavailable wraps failures to reach the underlying store.
var ErrStoreUnavailable = errors.New("tabular store unavailable")

// Row is one table row. Cell values are plain strings; typed interpretation is
// left to the caller.
type Row []string

// Table is a handle returned by EnsureTable. The column index is built once
// from the header row.
type Table struct {
	Name   string
	Header Row
	index  map[string]int
}

// NewTable builds a handle for the given header. Exposed for store
// implementations and tests.
func NewTable(name string, header Row) *Table {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return &Table{Name: name, Header: header, index: idx}
}

// Col resolves a column name case-insensitively. When there is no exact match
// it falls back to the first header containing the name as a substring; this
// fallback exists as a migration aid for renamed headers and can bind to the
// wrong column when names overlap. Returns -1 when nothing matches.
func (t *Table) Col(name string) int {
	target := strings.ToLower(strings.TrimSpace(name))
	if i, ok := t.index[target]; ok {
		return i
	}
	for i, h := range t.Header {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), target) {
			return i
		}
	}
	return -1
}

// NewRow returns a blank row sized to the table's header.
func (t *Table) NewRow() Row {
	return make(Row, len(t.Header))
}

// Set writes a value into the row at the named column, silently dropping the
// value when the column is absent.
func (t *Table) Set(r Row, column, value string) {
	if i := t.Col(column); i >= 0 && i < len(r) {
		r[i] = value
	}
}

// Get reads the named column from a row, returning "" when the column is
// absent or the row is short.
func (t *Table) Get(r Row, column string) string {
	i := t.Col(column)
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Store is the sheet-like store contract. Row numbers are 1-based and include
// the header row (row 1).
type Store interface {
	// EnsureTable returns the named table, creating it with the given header
	// row when absent. Calling it again with the same arguments is a no-op.
	EnsureTable(ctx context.Context, name string, header Row) (*Table, error)
	// ReadAll returns every row including the header.
	ReadAll(ctx context.Context, t *Table) ([]Row, error)
	// AppendRow appends one row positionally matching the header.
	AppendRow(ctx context.Context, t *Table, values Row) error
	// WriteCell overwrites a single cell. Negative column indexes no-op.
	WriteCell(ctx context.Context, t *Table, rowNumber, column int, value string) error
	// TableNames lists the tables present in the store.
	TableNames(ctx context.Context) ([]string, error)
	// Name identifies the underlying store for diagnostics.
	Name() string
}

// Blank reports whether every cell in the row is empty after trimming.
func Blank(r Row) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
