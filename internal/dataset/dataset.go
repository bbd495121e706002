// Package dataset holds the in-memory table every analysis step reads from.
package dataset

import (
	"strings"

	"github.com/KaramelBytes/dana-cli/internal/common"
)

// Dataset is an immutable table of string cells with named columns.
type Dataset struct {
	// Source is the base name of the file the table came from, if any.
	Source  string
	columns []string
	rows    [][]string
	index   map[string]int
}

// FromRows builds a Dataset from a header and row-major cells.
func FromRows(columns []string, rows [][]string) (*Dataset, error) {
	const op = "dataset.FromRows"
	if len(columns) == 0 {
		return nil, common.E(common.ErrFormat, op, "dataset has no columns")
	}
	if len(rows) == 0 {
		return nil, common.E(common.ErrFormat, op, "dataset has no rows")
	}
	ds := &Dataset{
		columns: make([]string, len(columns)),
		rows:    make([][]string, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, common.E(common.ErrFormat, op, "column %d has no name", i+1)
		}
		if _, dup := ds.index[name]; dup {
			return nil, common.E(common.ErrFormat, op, "duplicate column name %q", name)
		}
		ds.columns[i] = name
		ds.index[name] = i
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, common.E(common.ErrFormat, op, "row %d has %d fields, want %d", i+1, len(r), len(columns))
		}
		cp := make([]string, len(r))
		for j, v := range r {
			cp[j] = strings.TrimSpace(v)
		}
		ds.rows[i] = cp
	}
	return ds, nil
}

// FromColumns builds a Dataset from column-major cells.
func FromColumns(columns []string, cols [][]string) (*Dataset, error) {
	if len(columns) != len(cols) {
		return nil, common.E(common.ErrFormat, "dataset.FromColumns", "%d names for %d columns", len(columns), len(cols))
	}
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = make([]string, len(cols))
	}
	for j, c := range cols {
		if len(c) != n {
			return nil, common.E(common.ErrFormat, "dataset.FromColumns", "column %q has %d values, want %d", columns[j], len(c), n)
		}
		for i, v := range c {
			rows[i][j] = v
		}
	}
	return FromRows(columns, rows)
}

// NumRows returns the row count; a nil Dataset has none.
func (d *Dataset) NumRows() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	if d == nil {
		return 0
	}
	return len(d.columns)
}

// Empty reports whether there is nothing to analyze.
func (d *Dataset) Empty() bool { return d.NumRows() == 0 || d.NumCols() == 0 }

// Columns returns a copy of the column names in file order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Index resolves a column name, exact match first, then case-insensitive.
func (d *Dataset) Index(name string) (int, bool) {
	if d == nil {
		return -1, false
	}
	key := strings.TrimSpace(name)
	if i, ok := d.index[key]; ok {
		return i, true
	}
	for i, c := range d.columns {
		if strings.EqualFold(c, key) {
			return i, true
		}
	}
	return -1, false
}

// ColumnAt returns a copy of the cells of column j.
func (d *Dataset) ColumnAt(j int) []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[j]
	}
	return out
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]string, error) {
	j, ok := d.Index(name)
	if !ok {
		return nil, common.E(common.ErrSchema, "dataset.Column", "column %q not found", name)
	}
	return d.ColumnAt(j), nil
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.rows[i]))
	copy(out, d.rows[i])
	return out
}

// Cell returns the value at row i, column j.
func (d *Dataset) Cell(i, j int) string { return d.rows[i][j] }
