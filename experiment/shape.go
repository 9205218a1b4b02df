package experiment

import "slices"

// Shape records where every column of a long table came from. The
// reconstructor uses it to decide which block a column goes back to.
type Shape struct {
	SampleColumns  []string
	FeatureColumns []string
	Assays         []string
	RangeColumns   []string
}

// IsSampleColumn reports whether name came from the sample metadata.
func (s Shape) IsSampleColumn(name string) bool { return slices.Contains(s.SampleColumns, name) }

// IsFeatureColumn reports whether name came from the feature metadata.
func (s Shape) IsFeatureColumn(name string) bool { return slices.Contains(s.FeatureColumns, name) }

// IsAssay reports whether name is an assay value column.
func (s Shape) IsAssay(name string) bool { return slices.Contains(s.Assays, name) }

// IsRangeColumn reports whether name came from the feature ranges.
func (s Shape) IsRangeColumn(name string) bool { return slices.Contains(s.RangeColumns, name) }

// HasRanges reports whether the shape carries range columns.
func (s Shape) HasRanges() bool { return len(s.RangeColumns) > 0 }
