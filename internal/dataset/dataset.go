// Package dataset provides the column-oriented table read from and
// written to CSV at the tool boundary.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the inferred value kind of a source column.
type Kind string

const (
	KindInt    Kind = "int"
	KindReal   Kind = "real"
	KindString Kind = "string"
)

// Column is one named column of string cells with an inferred kind.
type Column struct {
	Name   string
	Values []string
	Kind   Kind

	distinct []string
}

// Len returns the number of cells.
func (c *Column) Len() int {
	return len(c.Values)
}

// Distinct returns the distinct non-empty values in first-seen order.
// Memoized; columns are read-only after load.
func (c *Column) Distinct() []string {
	if c.distinct != nil {
		return c.distinct
	}
	seen := make(map[string]struct{}, len(c.Values))
	out := make([]string, 0, 8)
	for _, v := range c.Values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	c.distinct = out
	return out
}

// InferKind classifies the cells of a column, ignoring blanks.
// All-blank columns are string.
func InferKind(values []string) Kind {
	kind := KindInt
	any := false
	for _, v := range values {
		if v == "" {
			continue
		}
		any = true
		if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			if kind == KindInt {
				kind = KindReal
			}
			continue
		}
		return KindString
	}
	if !any {
		return KindString
	}
	return kind
}

// Table is an ordered set of equal-length columns.
type Table struct {
	columns []Column
	index   map[string]int
}

// NewTable builds a table from columns, indexing them by name.
// Later duplicates shadow earlier ones in lookup but keep their position.
func NewTable(columns []Column) *Table {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i := range columns {
		t.index[columns[i].Name] = i
	}
	return t
}

// Columns returns the columns in file order.
func (t *Table) Columns() []Column {
	return t.columns
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q in dataset", name)
	}
	return &t.columns[i], nil
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Rows returns the number of rows (length of the longest column).
func (t *Table) Rows() int {
	n := 0
	for i := range t.columns {
		if l := len(t.columns[i].Values); l > n {
			n = l
		}
	}
	return n
}

// Append adds a column at the end of the table.
func (t *Table) Append(c Column) {
	t.columns = append(t.columns, c)
	t.index[c.Name] = len(t.columns) - 1
}
