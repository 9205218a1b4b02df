package table

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// RowSet is a set of row indices backed by a 32-bit Roaring Bitmap.
// Verbs that select rows (Filter, PivotLonger with ValuesDropNA) build one
// and materialize it with Table.Subset.
type RowSet struct {
	rb *roaring.Bitmap
}

// NewRowSet creates a new empty row set.
func NewRowSet() *RowSet {
	return &RowSet{rb: roaring.New()}
}

// AllRows returns a row set holding [0, n).
func AllRows(n int) *RowSet {
	rs := NewRowSet()
	rs.rb.AddRange(0, uint64(n))
	return rs
}

// Add adds a row to the set.
func (s *RowSet) Add(row int) {
	s.rb.Add(uint32(row))
}

// Remove removes a row from the set.
func (s *RowSet) Remove(row int) {
	s.rb.Remove(uint32(row))
}

// Contains checks if a row is in the set.
func (s *RowSet) Contains(row int) bool {
	return s.rb.Contains(uint32(row))
}

// IsEmpty returns true if the set is empty.
func (s *RowSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of rows in the set.
func (s *RowSet) Cardinality() int {
	return int(s.rb.GetCardinality())
}

// Clone returns a deep copy of the set.
func (s *RowSet) Clone() *RowSet {
	return &RowSet{rb: s.rb.Clone()}
}

// And intersects the set with other in place.
func (s *RowSet) And(other *RowSet) {
	s.rb.And(other.rb)
}

// Or unions the set with other in place.
func (s *RowSet) Or(other *RowSet) {
	s.rb.Or(other.rb)
}

// Rows iterates the rows in ascending order.
func (s *RowSet) Rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Subset returns the rows of t contained in rows, in table order.
func (t *Table) Subset(rows *RowSet) *Table {
	idx := make([]int, 0, rows.Cardinality())
	for r := range rows.Rows() {
		if r < t.rows {
			idx = append(idx, r)
		}
	}
	return t.take(idx)
}
