package tidyse

import (
	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

// Kind tags the variant held by a Data value.
type Kind uint8

const (
	// KindInvalid is the zero Data, holding neither variant.
	KindInvalid Kind = iota
	// KindTable holds a plain table.
	KindTable
	// KindExperiment holds an experiment.
	KindExperiment
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindExperiment:
		return "experiment"
	default:
		return "invalid"
	}
}

// Data is either a plain table or an experiment. Every verb branches once on
// its kind: tables go straight to the table verbs, experiments are guarded,
// flattened and reconstructed around them.
//
// The zero value is invalid.
type Data struct {
	tbl *table.Table
	exp *experiment.Experiment
}

// FromTable wraps a table. A nil table yields an invalid Data.
func FromTable(t *table.Table) Data { return Data{tbl: t} }

// FromExperiment wraps an experiment. A nil experiment yields an invalid Data.
func FromExperiment(e *experiment.Experiment) Data { return Data{exp: e} }

// Kind returns the variant held by d.
func (d Data) Kind() Kind {
	switch {
	case d.exp != nil:
		return KindExperiment
	case d.tbl != nil:
		return KindTable
	default:
		return KindInvalid
	}
}

// Table returns the table held by d.
func (d Data) Table() (*table.Table, bool) { return d.tbl, d.tbl != nil }

// Experiment returns the experiment held by d.
func (d Data) Experiment() (*experiment.Experiment, bool) { return d.exp, d.exp != nil }
