package table

import (
	"fmt"
	"slices"
)

// Column is a named vector of cells.
type Column struct {
	Name   string
	Values []Value
}

// Repeat returns a column holding v n times.
func Repeat(name string, v Value, n int) Column {
	values := make([]Value, n)
	for i := range values {
		values[i] = v
	}
	return Column{Name: name, Values: values}
}

// Table is an immutable, column-oriented table with uniquely named columns.
//
// A Table takes ownership of the value slices it is built from; callers must
// not modify them afterwards. Every operation returns a new Table and leaves
// its receiver untouched, so tables can be shared freely between goroutines.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns of equal length.
func New(columns ...Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0].Values)
	}
	return build(rows, columns)
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(fmt.Errorf("table: %w", err))
	}
	return t
}

// Empty returns a table with the given number of rows and no columns.
func Empty(rows int) *Table {
	return &Table{index: map[string]int{}, rows: rows}
}

func build(rows int, columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrEmptySpec, i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if len(c.Values) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, c.Name, len(c.Values), rows)
		}
		t.index[c.Name] = i
		t.columns[i] = c
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The slice must be treated as read-only.
func (t *Table) Column(name string) ([]Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i].Values, true
}

// Columns returns the columns in order. Value slices must be treated as read-only.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// At returns the cell at the given row of the named column, or Null if the
// column does not exist.
func (t *Table) At(row int, name string) Value {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return Null()
	}
	return t.columns[i].Values[row]
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, columnNotFound(name)
		}
		cols = append(cols, t.columns[i])
	}
	return build(t.rows, cols)
}

// Drop returns a table without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	cols := make([]Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !slices.Contains(names, c.Name) {
			cols = append(cols, c)
		}
	}
	out, _ := build(t.rows, cols)
	return out
}

// Rename returns a table with column oldName renamed to newName.
func (t *Table) Rename(oldName, newName string) (*Table, error) {
	i, ok := t.index[oldName]
	if !ok {
		return nil, columnNotFound(oldName)
	}
	if oldName == newName {
		return t, nil
	}
	if t.Has(newName) {
		return nil, columnExists(newName)
	}
	cols := slices.Clone(t.columns)
	cols[i] = Column{Name: newName, Values: cols[i].Values}
	return build(t.rows, cols)
}

// Take returns a table made of the given rows, in the given order. Rows may repeat.
func (t *Table) Take(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, fmt.Errorf("%w: %d", ErrInvalidRow, r)
		}
	}
	return t.take(rows), nil
}

func (t *Table) take(rows []int) *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		values := make([]Value, len(rows))
		for j, r := range rows {
			values[j] = c.Values[r]
		}
		cols[i] = Column{Name: c.Name, Values: values}
	}
	return &Table{columns: cols, index: t.index, rows: len(rows)}
}

// With returns a table with the given columns appended.
func (t *Table) With(cols ...Column) (*Table, error) {
	return t.Insert(len(t.columns), cols...)
}

// Insert returns a table with the given columns inserted before position pos.
func (t *Table) Insert(pos int, cols ...Column) (*Table, error) {
	if pos < 0 || pos > len(t.columns) {
		pos = len(t.columns)
	}
	for _, c := range cols {
		if t.Has(c.Name) {
			return nil, columnExists(c.Name)
		}
	}
	out := make([]Column, 0, len(t.columns)+len(cols))
	out = append(out, t.columns[:pos]...)
	out = append(out, cols...)
	out = append(out, t.columns[pos:]...)
	return build(t.rows, out)
}

// Replace returns a table where the column with the same name as col is replaced.
func (t *Table) Replace(col Column) (*Table, error) {
	i, ok := t.index[col.Name]
	if !ok {
		return nil, columnNotFound(col.Name)
	}
	cols := slices.Clone(t.columns)
	cols[i] = col
	return build(t.rows, cols)
}

// indexOf returns the position of a column or -1.
func (t *Table) indexOf(name string) int {
	i, ok := t.index[name]
	if !ok {
		return -1
	}
	return i
}

// BindRows stacks tables on top of each other. The result carries the union
// of all columns in first-appearance order; cells a table does not provide are Null.
func BindRows(tables ...*Table) (*Table, error) {
	var names []string
	seen := map[string]bool{}
	total := 0
	for _, t := range tables {
		for _, c := range t.columns {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
		total += t.rows
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		values := make([]Value, 0, total)
		for _, t := range tables {
			if src, ok := t.Column(name); ok {
				values = append(values, src...)
				continue
			}
			for range t.rows {
				values = append(values, Null())
			}
		}
		cols[i] = Column{Name: name, Values: values}
	}
	return build(total, cols)
}

// Group is a set of rows sharing the same values in the grouping columns.
type Group struct {
	// Rows holds the row indices in table order. Rows[0] is the group's representative.
	Rows []int
}

// GroupBy partitions the rows of t by the values of the key columns.
// Groups are returned in order of first appearance.
func GroupBy(t *Table, keys ...string) ([]Group, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no grouping columns", ErrEmptySpec)
	}
	cols := make([][]Value, len(keys))
	for i, k := range keys {
		values, ok := t.Column(k)
		if !ok {
			return nil, columnNotFound(k)
		}
		cols[i] = values
	}

	var groups []Group
	lookup := map[string]int{}
	for r := 0; r < t.rows; r++ {
		key := rowKey(cols, r)
		g, ok := lookup[key]
		if !ok {
			g = len(groups)
			lookup[key] = g
			groups = append(groups, Group{})
		}
		groups[g].Rows = append(groups[g].Rows, r)
	}
	return groups, nil
}

func rowKey(cols [][]Value, row int) string {
	if len(cols) == 1 {
		return cols[0][row].Key()
	}
	key := ""
	for i, c := range cols {
		if i > 0 {
			key += "\x1e"
		}
		key += c[row].Key()
	}
	return key
}
