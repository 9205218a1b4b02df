package experiment

import (
	"fmt"

	"github.com/hupe1980/tidyse/table"
)

// Range column names, in the order they appear in a long table.
const (
	ColSeqnames = "seqnames"
	ColStart    = "start"
	ColEnd      = "end"
	ColWidth    = "width"
	ColStrand   = "strand"
)

// RangeColumns lists the columns a Ranges contributes to a long table.
var RangeColumns = []string{ColSeqnames, ColStart, ColEnd, ColWidth, ColStrand}

// Ranges holds one genomic interval per feature, aligned with the feature ids.
// Coordinates are 1-based and inclusive.
type Ranges struct {
	Seqnames []string
	Start    []int64
	End      []int64
	// Strand is "+", "-" or "*". Empty entries mean "*".
	Strand []string
}

// Len returns the number of intervals.
func (r *Ranges) Len() int { return len(r.Seqnames) }

func (r *Ranges) validate(features int) error {
	n := r.Len()
	if n != features || len(r.Start) != n || len(r.End) != n || len(r.Strand) != n {
		return fmt.Errorf("%w: %d seqnames, %d starts, %d ends, %d strands for %d features",
			ErrInvalidRanges, n, len(r.Start), len(r.End), len(r.Strand), features)
	}
	for i := range n {
		if r.End[i] < r.Start[i]-1 {
			return fmt.Errorf("%w: interval %d ends before it starts", ErrInvalidRanges, i)
		}
		switch r.Strand[i] {
		case "+", "-", "*", "":
		default:
			return fmt.Errorf("%w: interval %d has strand %q", ErrInvalidRanges, i, r.Strand[i])
		}
	}
	return nil
}

func (r *Ranges) clone() *Ranges {
	out := &Ranges{
		Seqnames: append([]string(nil), r.Seqnames...),
		Start:    append([]int64(nil), r.Start...),
		End:      append([]int64(nil), r.End...),
		Strand:   make([]string, len(r.Strand)),
	}
	for i, s := range r.Strand {
		if s == "" {
			s = "*"
		}
		out.Strand[i] = s
	}
	return out
}

func (r *Ranges) take(idx []int) *Ranges {
	out := &Ranges{
		Seqnames: make([]string, len(idx)),
		Start:    make([]int64, len(idx)),
		End:      make([]int64, len(idx)),
		Strand:   make([]string, len(idx)),
	}
	for j, i := range idx {
		out.Seqnames[j] = r.Seqnames[i]
		out.Start[j] = r.Start[i]
		out.End[j] = r.End[i]
		out.Strand[j] = r.Strand[i]
	}
	return out
}

// Table renders the ranges as a table with the RangeColumns, one row per feature.
func (r *Ranges) Table() *table.Table {
	n := r.Len()
	width := make([]int64, n)
	for i := range n {
		width[i] = r.End[i] - r.Start[i] + 1
	}
	return table.MustNew(
		table.Column{Name: ColSeqnames, Values: table.Strings(r.Seqnames...)},
		table.Column{Name: ColStart, Values: table.Ints(r.Start...)},
		table.Column{Name: ColEnd, Values: table.Ints(r.End...)},
		table.Column{Name: ColWidth, Values: table.Ints(width...)},
		table.Column{Name: ColStrand, Values: table.Strings(r.Strand...)},
	)
}

// RangesFromTable rebuilds ranges from the seqnames, start, end and strand
// columns of t. Width is derived, so a width column is ignored.
func RangesFromTable(t *table.Table) (*Ranges, error) {
	seqnames, err := stringColumn(t, ColSeqnames)
	if err != nil {
		return nil, err
	}
	start, err := intColumn(t, ColStart)
	if err != nil {
		return nil, err
	}
	end, err := intColumn(t, ColEnd)
	if err != nil {
		return nil, err
	}
	strand, err := stringColumn(t, ColStrand)
	if err != nil {
		return nil, err
	}
	r := &Ranges{Seqnames: seqnames, Start: start, End: end, Strand: strand}
	if err := r.validate(t.NumRows()); err != nil {
		return nil, err
	}
	return r, nil
}

func stringColumn(t *table.Table, name string) ([]string, error) {
	values, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRanges, name)
	}
	out := make([]string, len(values))
	for i, v := range values {
		s, ok := v.AsString()
		if !ok {
			return nil, fmt.Errorf("%w: %q row %d is %s", ErrInvalidRanges, name, i, v.Kind)
		}
		out[i] = s
	}
	return out, nil
}

func intColumn(t *table.Table, name string) ([]int64, error) {
	values, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRanges, name)
	}
	out := make([]int64, len(values))
	for i, v := range values {
		n, ok := v.AsInt64()
		if !ok {
			return nil, fmt.Errorf("%w: %q row %d is %s", ErrInvalidRanges, name, i, v.Kind)
		}
		out[i] = n
	}
	return out, nil
}
