package table

import (
	"fmt"
	"slices"
)

// PivotLongerSpec configures PivotLonger.
type PivotLongerSpec struct {
	// Cols are the columns turned into (name, value) rows.
	Cols []string
	// NamesTo receives the former column names. Defaults to "name".
	NamesTo string
	// ValuesTo receives the cell values. Defaults to "value".
	ValuesTo string
	// ValuesDropNA drops the rows whose value is Null.
	ValuesDropNA bool
}

// PivotLonger lengthens t: every row becomes len(Cols) rows, one per pivoted column.
func PivotLonger(t *Table, spec PivotLongerSpec) (*Table, error) {
	if len(spec.Cols) == 0 {
		return nil, fmt.Errorf("pivot longer: %w: no columns", ErrEmptySpec)
	}
	if spec.NamesTo == "" {
		spec.NamesTo = "name"
	}
	if spec.ValuesTo == "" {
		spec.ValuesTo = "value"
	}

	pivot := make([][]Value, len(spec.Cols))
	for i, name := range spec.Cols {
		values, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("pivot longer: %w", columnNotFound(name))
		}
		pivot[i] = values
	}
	ids := t.Drop(spec.Cols...)
	for _, name := range []string{spec.NamesTo, spec.ValuesTo} {
		if ids.Has(name) {
			return nil, fmt.Errorf("pivot longer: %w", columnExists(name))
		}
	}

	n := t.rows * len(spec.Cols)
	rows := make([]int, 0, n)
	names := make([]Value, 0, n)
	values := make([]Value, 0, n)
	for r := 0; r < t.rows; r++ {
		for i, name := range spec.Cols {
			rows = append(rows, r)
			names = append(names, String(name))
			values = append(values, pivot[i][r])
		}
	}

	out, err := ids.take(rows).With(
		Column{Name: spec.NamesTo, Values: names},
		Column{Name: spec.ValuesTo, Values: values},
	)
	if err != nil {
		return nil, err
	}
	if !spec.ValuesDropNA {
		return out, nil
	}

	keep := AllRows(out.rows)
	for r, v := range values {
		if v.IsNull() {
			keep.Remove(r)
		}
	}
	return out.Subset(keep), nil
}

// PivotWiderSpec configures PivotWider.
type PivotWiderSpec struct {
	// NamesFrom holds the values that become column names.
	NamesFrom string
	// ValuesFrom holds the cells of the new columns.
	ValuesFrom string
	// IDCols identify an output row. Defaults to every other column.
	IDCols []string
}

// PivotWider widens t: one row per distinct combination of IDCols and one
// column per distinct NamesFrom value, both in order of first appearance.
//
// A (id, name) pair seen twice is a DuplicateKeyError; values are never aggregated.
func PivotWider(t *Table, spec PivotWiderSpec) (*Table, error) {
	namesFrom, ok := t.Column(spec.NamesFrom)
	if !ok {
		return nil, fmt.Errorf("pivot wider: %w", columnNotFound(spec.NamesFrom))
	}
	valuesFrom, ok := t.Column(spec.ValuesFrom)
	if !ok {
		return nil, fmt.Errorf("pivot wider: %w", columnNotFound(spec.ValuesFrom))
	}

	idCols := spec.IDCols
	if idCols == nil {
		for _, c := range t.columns {
			if c.Name != spec.NamesFrom && c.Name != spec.ValuesFrom {
				idCols = append(idCols, c.Name)
			}
		}
	}
	ids, err := t.Select(idCols...)
	if err != nil {
		return nil, fmt.Errorf("pivot wider: %w", err)
	}

	var newNames []string
	nameIndex := map[string]int{}
	for _, v := range namesFrom {
		name := v.Format()
		if _, seen := nameIndex[name]; seen {
			continue
		}
		if slices.Contains(idCols, name) {
			return nil, fmt.Errorf("pivot wider: %w", columnExists(name))
		}
		nameIndex[name] = len(newNames)
		newNames = append(newNames, name)
	}

	var groups []Group
	if len(idCols) > 0 {
		groups, err = GroupBy(ids, idCols...)
		if err != nil {
			return nil, err
		}
	} else if t.rows > 0 {
		groups = []Group{{Rows: AllRowsSlice(t.rows)}}
	}

	cells := make([][]Value, len(newNames))
	for i := range cells {
		cells[i] = make([]Value, len(groups))
		for g := range cells[i] {
			cells[i][g] = Null()
		}
	}
	firstRows := make([]int, len(groups))
	for g, grp := range groups {
		firstRows[g] = grp.Rows[0]
		filled := make([]bool, len(newNames))
		for _, r := range grp.Rows {
			c := nameIndex[namesFrom[r].Format()]
			if filled[c] {
				return nil, &DuplicateKeyError{Row: r, Name: newNames[c]}
			}
			filled[c] = true
			cells[c][g] = valuesFrom[r]
		}
	}

	out := ids.take(firstRows).columns
	for i, name := range newNames {
		out = append(out, Column{Name: name, Values: cells[i]})
	}
	return build(len(groups), out)
}

// AllRowsSlice returns the row indices [0, n).
func AllRowsSlice(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
