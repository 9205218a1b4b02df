package table

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowType picks the Arrow type of a column from the kinds of its non-null
// cells. Ints widen to float64 when mixed with floats; an all-null column
// becomes a string column of nulls.
func arrowType(c Column) (arrow.DataType, error) {
	kind := KindNull
	for _, v := range c.Values {
		switch {
		case v.IsNull():
			continue
		case kind == KindNull:
			kind = v.Kind
		case kind == v.Kind:
		case v.IsNumeric() && (kind == KindInt || kind == KindFloat):
			kind = KindFloat
		default:
			return nil, fmt.Errorf("%w: column %q mixes %s and %s", ErrUnsupportedType, c.Name, kind, v.Kind)
		}
	}

	switch kind {
	case KindInt:
		return arrow.PrimitiveTypes.Int64, nil
	case KindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case KindString, KindNull:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("%w: column %q holds %s values", ErrUnsupportedType, c.Name, kind)
	}
}

// Record converts t into an Arrow record. The caller must Release it.
func (t *Table) Record(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fields := make([]arrow.Field, len(t.columns))
	for i, c := range t.columns {
		dt, err := arrowType(c)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: true}
	}

	b := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer b.Release()

	for i, c := range t.columns {
		switch fb := b.Field(i).(type) {
		case *array.Int64Builder:
			for _, v := range c.Values {
				if n, ok := v.AsInt64(); ok {
					fb.Append(n)
				} else {
					fb.AppendNull()
				}
			}
		case *array.Float64Builder:
			for _, v := range c.Values {
				if f, ok := v.AsFloat64(); ok {
					fb.Append(f)
				} else {
					fb.AppendNull()
				}
			}
		case *array.BooleanBuilder:
			for _, v := range c.Values {
				if x, ok := v.AsBool(); ok {
					fb.Append(x)
				} else {
					fb.AppendNull()
				}
			}
		case *array.StringBuilder:
			for _, v := range c.Values {
				if s, ok := v.AsString(); ok {
					fb.Append(s)
				} else {
					fb.AppendNull()
				}
			}
		}
	}
	return b.NewRecord(), nil
}

// FromRecord copies an Arrow record into a table. Integer, floating point,
// boolean and string columns are supported; null slots become Null.
func FromRecord(rec arrow.Record) (*Table, error) {
	rows := int(rec.NumRows())
	cols := make([]Column, rec.NumCols())
	for i := range cols {
		arr := rec.Column(i)
		name := rec.ColumnName(i)
		values := make([]Value, rows)
		for r := range rows {
			if arr.IsNull(r) {
				values[r] = Null()
				continue
			}
			switch a := arr.(type) {
			case *array.Int64:
				values[r] = Int(a.Value(r))
			case *array.Int32:
				values[r] = Int(int64(a.Value(r)))
			case *array.Float64:
				values[r] = Float(a.Value(r))
			case *array.Float32:
				values[r] = Float(float64(a.Value(r)))
			case *array.Boolean:
				values[r] = Bool(a.Value(r))
			case *array.String:
				values[r] = String(a.Value(r))
			case *array.LargeString:
				values[r] = String(a.Value(r))
			default:
				return nil, fmt.Errorf("%w: column %q has Arrow type %s", ErrUnsupportedType, name, arr.DataType())
			}
		}
		cols[i] = Column{Name: name, Values: values}
	}
	return build(rows, cols)
}
