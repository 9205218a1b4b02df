// Package experiment provides the SummarizedExperiment container: sample
// metadata, feature metadata and one or more assay matrices, all kept
// positionally aligned.
//
// An Experiment is immutable. New validates the alignment invariant and
// copies its inputs; every selection returns a new Experiment.
package experiment

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/tidyse/table"
)

// Reserved key column names of the long representation.
const (
	SampleKey  = "sample"
	FeatureKey = "transcript"
)

// Assay is a named features × samples matrix. NaN cells are missing values.
type Assay struct {
	Name   string
	Values mat.Matrix
}

// Config holds the parts an Experiment is built from.
type Config struct {
	SampleIDs []string
	// SampleData has one row per sample id. Nil means no sample metadata.
	SampleData *table.Table
	FeatureIDs []string
	// FeatureData has one row per feature id. Nil means no feature metadata.
	FeatureData *table.Table
	Assays      []Assay
	// Ranges is optional.
	Ranges *Ranges
}

// Experiment is a matrix of measurements annotated on both axes.
type Experiment struct {
	sampleIDs   []string
	sampleData  *table.Table
	featureIDs  []string
	featureData *table.Table
	assays      []Assay
	dense       []*mat.Dense
	ranges      *Ranges
}

// New validates cfg and builds an Experiment from a copy of it.
func New(cfg Config) (*Experiment, error) {
	ns, nf := len(cfg.SampleIDs), len(cfg.FeatureIDs)
	if ns == 0 || nf == 0 {
		return nil, ErrEmpty
	}
	if err := checkIDs("sample", cfg.SampleIDs); err != nil {
		return nil, err
	}
	if err := checkIDs("feature", cfg.FeatureIDs); err != nil {
		return nil, err
	}

	sampleData, err := alignMetadata("sample", cfg.SampleData, ns)
	if err != nil {
		return nil, err
	}
	featureData, err := alignMetadata("feature", cfg.FeatureData, nf)
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		sampleIDs:   slices.Clone(cfg.SampleIDs),
		sampleData:  sampleData,
		featureIDs:  slices.Clone(cfg.FeatureIDs),
		featureData: featureData,
	}

	seen := map[string]bool{}
	for _, a := range cfg.Assays {
		if a.Name == "" || seen[a.Name] {
			return nil, fmt.Errorf("%w: name %q is empty or repeated", ErrInvalidAssay, a.Name)
		}
		seen[a.Name] = true
		if a.Values == nil {
			return nil, fmt.Errorf("%w: %q has no values", ErrInvalidAssay, a.Name)
		}
		r, c := a.Values.Dims()
		if r != nf || c != ns {
			return nil, &ErrDimensionMismatch{Assay: a.Name, Rows: r, Cols: c, WantRows: nf, WantCols: ns}
		}
		d := mat.DenseCopyOf(a.Values)
		e.dense = append(e.dense, d)
		e.assays = append(e.assays, Assay{Name: a.Name, Values: d})
	}

	if cfg.Ranges != nil {
		if err := cfg.Ranges.validate(nf); err != nil {
			return nil, err
		}
		e.ranges = cfg.Ranges.clone()
	}
	return e, nil
}

func checkIDs(axis string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: %s %d is empty", ErrDuplicateID, axis, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s %q", ErrDuplicateID, axis, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func alignMetadata(axis string, t *table.Table, n int) (*table.Table, error) {
	if t == nil {
		return table.Empty(n), nil
	}
	if t.NumRows() != n {
		return nil, fmt.Errorf("%w: %s metadata has %d rows, expected %d", ErrLengthMismatch, axis, t.NumRows(), n)
	}
	return t, nil
}

// NumSamples returns the number of samples (matrix columns).
func (e *Experiment) NumSamples() int { return len(e.sampleIDs) }

// NumFeatures returns the number of features (matrix rows).
func (e *Experiment) NumFeatures() int { return len(e.featureIDs) }

// SampleIDs returns the sample ids in matrix column order.
func (e *Experiment) SampleIDs() []string { return slices.Clone(e.sampleIDs) }

// FeatureIDs returns the feature ids in matrix row order.
func (e *Experiment) FeatureIDs() []string { return slices.Clone(e.featureIDs) }

// SampleData returns the sample metadata, one row per sample.
func (e *Experiment) SampleData() *table.Table { return e.sampleData }

// FeatureData returns the feature metadata, one row per feature.
func (e *Experiment) FeatureData() *table.Table { return e.featureData }

// Ranges returns the feature ranges, or nil.
func (e *Experiment) Ranges() *Ranges {
	if e.ranges == nil {
		return nil
	}
	return e.ranges.clone()
}

// HasRanges reports whether the experiment carries feature ranges.
func (e *Experiment) HasRanges() bool { return e.ranges != nil }

// AssayNames returns the assay names in order.
func (e *Experiment) AssayNames() []string {
	names := make([]string, len(e.assays))
	for i, a := range e.assays {
		names[i] = a.Name
	}
	return names
}

// Assay returns a copy of the named assay.
func (e *Experiment) Assay(name string) (*mat.Dense, bool) {
	for i, a := range e.assays {
		if a.Name == name {
			return mat.DenseCopyOf(e.dense[i]), true
		}
	}
	return nil, false
}

// At returns the value of the named assay for feature row f and sample column s.
func (e *Experiment) At(name string, f, s int) (float64, bool) {
	for i, a := range e.assays {
		if a.Name == name {
			return e.dense[i].At(f, s), true
		}
	}
	return 0, false
}

// Shape returns the column provenance of the experiment's long representation.
func (e *Experiment) Shape() Shape {
	s := Shape{
		SampleColumns:  e.sampleData.Names(),
		FeatureColumns: e.featureData.Names(),
		Assays:         e.AssayNames(),
	}
	if e.ranges != nil {
		s.RangeColumns = slices.Clone(RangeColumns)
	}
	return s
}

// SelectSamples returns the experiment restricted to the given sample
// positions, in the given order.
func (e *Experiment) SelectSamples(idx []int) (*Experiment, error) {
	if err := checkIndex(idx, len(e.sampleIDs)); err != nil {
		return nil, err
	}
	cfg := e.config()
	cfg.SampleIDs = pick(e.sampleIDs, idx)
	cfg.SampleData, _ = e.sampleData.Take(idx)
	for i, d := range e.dense {
		cfg.Assays[i].Values = columns(d, idx)
	}
	return New(cfg)
}

// SelectFeatures returns the experiment restricted to the given feature
// positions, in the given order.
func (e *Experiment) SelectFeatures(idx []int) (*Experiment, error) {
	if err := checkIndex(idx, len(e.featureIDs)); err != nil {
		return nil, err
	}
	cfg := e.config()
	cfg.FeatureIDs = pick(e.featureIDs, idx)
	cfg.FeatureData, _ = e.featureData.Take(idx)
	for i, d := range e.dense {
		cfg.Assays[i].Values = rows(d, idx)
	}
	if e.ranges != nil {
		cfg.Ranges = e.ranges.take(idx)
	}
	return New(cfg)
}

// DropSampleColumns returns the experiment without the named sample metadata columns.
func (e *Experiment) DropSampleColumns(names ...string) (*Experiment, error) {
	cfg := e.config()
	cfg.SampleData = e.sampleData.Drop(names...)
	return New(cfg)
}

// DropFeatureColumns returns the experiment without the named feature metadata columns.
func (e *Experiment) DropFeatureColumns(names ...string) (*Experiment, error) {
	cfg := e.config()
	cfg.FeatureData = e.featureData.Drop(names...)
	return New(cfg)
}

func (e *Experiment) config() Config {
	return Config{
		SampleIDs:   e.sampleIDs,
		SampleData:  e.sampleData,
		FeatureIDs:  e.featureIDs,
		FeatureData: e.featureData,
		Assays:      slices.Clone(e.assays),
		Ranges:      e.ranges,
	}
}

func checkIndex(idx []int, n int) error {
	if len(idx) == 0 {
		return ErrEmpty
	}
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, n)
		}
	}
	return nil
}

func pick(ids []string, idx []int) []string {
	out := make([]string, len(idx))
	for j, i := range idx {
		out[j] = ids[i]
	}
	return out
}

func columns(d *mat.Dense, idx []int) *mat.Dense {
	r, _ := d.Dims()
	out := mat.NewDense(r, len(idx), nil)
	for j, c := range idx {
		for i := 0; i < r; i++ {
			out.Set(i, j, d.At(i, c))
		}
	}
	return out
}

func rows(d *mat.Dense, idx []int) *mat.Dense {
	_, c := d.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for j, r := range idx {
		out.SetRow(j, d.RawRowView(r))
	}
	return out
}
