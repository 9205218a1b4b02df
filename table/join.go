package table

import "fmt"

// LeftJoin returns every row of left joined with the matching rows of right
// on the key column.
//
// Left row order is preserved. A left row with several matches is repeated
// once per match, in right order; a left row with no match gets Null for all
// right columns. Any non-key column present on both sides is a
// NameConflictError: names are never suffixed.
func LeftJoin(left, right *Table, key string) (*Table, error) {
	lkeys, ok := left.Column(key)
	if !ok {
		return nil, fmt.Errorf("left join: %w", columnNotFound(key))
	}
	rkeys, ok := right.Column(key)
	if !ok {
		return nil, fmt.Errorf("left join: %w", columnNotFound(key))
	}

	var conflicts []string
	rightCols := make([]Column, 0, len(right.columns))
	for _, c := range right.columns {
		if c.Name == key {
			continue
		}
		if left.Has(c.Name) {
			conflicts = append(conflicts, c.Name)
			continue
		}
		rightCols = append(rightCols, c)
	}
	if len(conflicts) > 0 {
		return nil, &NameConflictError{Columns: conflicts}
	}

	matches := make(map[string][]int, len(rkeys))
	for r, v := range rkeys {
		k := v.Key()
		matches[k] = append(matches[k], r)
	}

	leftRows := make([]int, 0, len(lkeys))
	rightRows := make([]int, 0, len(lkeys))
	for l, v := range lkeys {
		m := matches[v.Key()]
		if len(m) == 0 {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, -1)
			continue
		}
		for _, r := range m {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, r)
		}
	}

	out := left.take(leftRows).columns
	for _, c := range rightCols {
		values := make([]Value, len(rightRows))
		for i, r := range rightRows {
			if r < 0 {
				values[i] = Null()
				continue
			}
			values[i] = c.Values[r]
		}
		out = append(out, Column{Name: c.Name, Values: values})
	}
	return build(len(leftRows), out)
}
