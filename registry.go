package tidyse

import (
	"maps"
	"slices"

	"github.com/hupe1980/tidyse/experiment"
)

// ColumnSet is a set of column names.
type ColumnSet map[string]struct{}

// NewColumnSet returns a set holding names.
func NewColumnSet(names ...string) ColumnSet {
	s := make(ColumnSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s ColumnSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set members in sorted order.
func (s ColumnSet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// ProtectedColumns returns the columns a verb may read but never remove from
// the long form of e: both keys, every sample and feature metadata column
// and the range columns. Metadata columns that the flattener renames are
// protected under both names.
//
// The result is a snapshot; later changes to e are not reflected.
func ProtectedColumns(e *experiment.Experiment) ColumnSet {
	s := NewColumnSet(experiment.SampleKey, experiment.FeatureKey)
	for _, names := range [][]string{e.SampleData().Names(), e.FeatureData().Names()} {
		for _, n := range names {
			s[n] = struct{}{}
			if isReserved(n) {
				s[renamed(n)] = struct{}{}
			}
		}
	}
	if e.HasRanges() {
		for _, n := range experiment.RangeColumns {
			s[n] = struct{}{}
		}
	}
	return s
}

// AssertMutable fails with a ProtectedColumnError when removal is requested
// and any target is protected. Reading a protected column is always allowed.
func AssertMutable(targets []string, protected ColumnSet, removal bool) error {
	if !removal {
		return nil
	}
	hit := ColumnSet{}
	for _, t := range targets {
		if protected.Contains(t) {
			hit[t] = struct{}{}
		}
	}
	if len(hit) == 0 {
		return nil
	}
	return &ProtectedColumnError{Columns: hit.Names()}
}

func isReserved(name string) bool {
	return name == experiment.SampleKey || name == experiment.FeatureKey
}

func renamed(name string) string { return name + ".original" }
