package table

import "strings"

// Operator represents a comparison operator for filtering.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpIn represents the in list operator.
	OpIn Operator = "in"
	// OpContains represents the contains substring operator.
	OpContains Operator = "contains"
)

// Filter represents a single row condition on one column.
type Filter struct {
	Column   string
	Operator Operator
	Value    Value
}

// Eq returns an equality filter.
func Eq(column string, v Value) Filter { return Filter{Column: column, Operator: OpEqual, Value: v} }

// Neq returns an inequality filter.
func Neq(column string, v Value) Filter { return Filter{Column: column, Operator: OpNotEqual, Value: v} }

// Gt returns a greater-than filter.
func Gt(column string, v Value) Filter { return Filter{Column: column, Operator: OpGreaterThan, Value: v} }

// Gte returns a greater-or-equal filter.
func Gte(column string, v Value) Filter {
	return Filter{Column: column, Operator: OpGreaterEqual, Value: v}
}

// Lt returns a less-than filter.
func Lt(column string, v Value) Filter { return Filter{Column: column, Operator: OpLessThan, Value: v} }

// Lte returns a less-or-equal filter.
func Lte(column string, v Value) Filter { return Filter{Column: column, Operator: OpLessEqual, Value: v} }

// In returns a set-membership filter.
func In(column string, vs ...Value) Filter {
	return Filter{Column: column, Operator: OpIn, Value: Array(vs)}
}

// Contains returns a substring filter.
func Contains(column string, substr string) Filter {
	return Filter{Column: column, Operator: OpContains, Value: String(substr)}
}

// Matches checks if a cell value satisfies this filter.
func (f *Filter) Matches(value Value) bool {
	switch f.Operator {
	case OpEqual:
		return compareEqual(value, f.Value)
	case OpNotEqual:
		return !compareEqual(value, f.Value)
	case OpGreaterThan:
		return compareGreater(value, f.Value)
	case OpGreaterEqual:
		return compareGreater(value, f.Value) || compareEqual(value, f.Value)
	case OpLessThan:
		return compareLess(value, f.Value)
	case OpLessEqual:
		return compareLess(value, f.Value) || compareEqual(value, f.Value)
	case OpIn:
		return compareIn(value, f.Value)
	case OpContains:
		return compareContains(value, f.Value)
	default:
		return false
	}
}

// Match returns the rows of t satisfying every filter.
func Match(t *Table, filters ...Filter) (*RowSet, error) {
	rows := AllRows(t.rows)
	for i := range filters {
		f := &filters[i]
		values, ok := t.Column(f.Column)
		if !ok {
			return nil, columnNotFound(f.Column)
		}
		for r := range rows.Clone().Rows() {
			if !f.Matches(values[r]) {
				rows.Remove(r)
			}
		}
	}
	return rows, nil
}

// Where returns the rows of t satisfying every filter.
func Where(t *Table, filters ...Filter) (*Table, error) {
	rows, err := Match(t, filters...)
	if err != nil {
		return nil, err
	}
	return t.Subset(rows), nil
}

func compareEqual(a, b Value) bool {
	if a.IsNull() && b.IsNull() {
		return true
	}
	if a.IsNull() || b.IsNull() {
		return false
	}

	if a.IsNumeric() && b.IsNumeric() {
		// Prefer exact int compare when possible.
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.B == b.B
	case KindArray:
		if len(a.A) != len(b.A) {
			return false
		}
		for i := range a.A {
			if !compareEqual(a.A[i], b.A[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func compareGreater(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return asFloat64(a) > asFloat64(b)
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.s.Value() > b.s.Value()
	}
	return false
}

func compareLess(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return asFloat64(a) < asFloat64(b)
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.s.Value() < b.s.Value()
	}
	return false
}

func compareIn(a, b Value) bool {
	if b.Kind != KindArray {
		return false
	}
	for _, item := range b.A {
		if compareEqual(a, item) {
			return true
		}
	}
	return false
}

func compareContains(a, b Value) bool {
	if a.Kind != KindString || b.Kind != KindString {
		return false
	}
	return strings.Contains(a.s.Value(), b.s.Value())
}

func asFloat64(v Value) float64 {
	f, _ := v.AsFloat64()
	return f
}
