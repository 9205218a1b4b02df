package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Missing returns a mask where each entry is true with probability rate.
func (r *RNG) Missing(n int, rate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = r.rand.Float64() < rate
	}
	return mask
}

// ExperimentSpec configures a random experiment.
type ExperimentSpec struct {
	Samples  int
	Features int
	// Assays is the number of assay matrices, named assay1, assay2, ...
	Assays int
	// NaNRate is the probability that an assay cell is missing.
	NaNRate float64
	// Ranges adds random feature ranges.
	Ranges bool
}

var (
	conditions = []string{"ctrl", "trt"}
	strands    = []string{"+", "-", "*"}
)

// Experiment generates a random experiment.
//
// Samples carry a condition (string) and a batch (int) column, features a
// symbol (string) and a gc (float) column. Assay values are whole numbers
// in [0, 1000).
func (r *RNG) Experiment(spec ExperimentSpec) (*experiment.Experiment, error) {
	ns, nf := spec.Samples, spec.Features
	cfg := experiment.Config{
		SampleIDs:  make([]string, ns),
		FeatureIDs: make([]string, nf),
	}

	condition := make([]any, ns)
	batch := make([]any, ns)
	for s := range ns {
		cfg.SampleIDs[s] = fmt.Sprintf("S%03d", s+1)
		condition[s] = conditions[r.Intn(len(conditions))]
		batch[s] = 1 + r.Intn(3)
	}
	sampleData, err := metadata(map[string][]any{"condition": condition, "batch": batch}, "condition", "batch")
	if err != nil {
		return nil, err
	}
	cfg.SampleData = sampleData

	symbol := make([]any, nf)
	gc := make([]any, nf)
	for f := range nf {
		cfg.FeatureIDs[f] = fmt.Sprintf("ENST%05d", f+1)
		symbol[f] = fmt.Sprintf("G%d", f+1)
		gc[f] = math.Round(r.Float64()*100) / 100
	}
	featureData, err := metadata(map[string][]any{"symbol": symbol, "gc": gc}, "symbol", "gc")
	if err != nil {
		return nil, err
	}
	cfg.FeatureData = featureData

	for a := range spec.Assays {
		m := mat.NewDense(nf, ns, nil)
		missing := r.Missing(nf*ns, spec.NaNRate)
		for f := range nf {
			for s := range ns {
				v := float64(r.Intn(1000))
				if missing[f*ns+s] {
					v = math.NaN()
				}
				m.Set(f, s, v)
			}
		}
		cfg.Assays = append(cfg.Assays, experiment.Assay{Name: fmt.Sprintf("assay%d", a+1), Values: m})
	}

	if spec.Ranges {
		rg := &experiment.Ranges{
			Seqnames: make([]string, nf),
			Start:    make([]int64, nf),
			End:      make([]int64, nf),
			Strand:   make([]string, nf),
		}
		for f := range nf {
			rg.Seqnames[f] = fmt.Sprintf("chr%d", 1+r.Intn(3))
			rg.Start[f] = int64(1 + r.Intn(100000))
			rg.End[f] = rg.Start[f] + int64(r.Intn(5000))
			rg.Strand[f] = strands[r.Intn(len(strands))]
		}
		cfg.Ranges = rg
	}

	return experiment.New(cfg)
}

// metadata builds a table from untyped columns in the given order.
func metadata(values map[string][]any, order ...string) (*table.Table, error) {
	cols := make([]table.Column, 0, len(order))
	for _, name := range order {
		c, err := table.ColumnFromAny(name, values[name])
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return table.New(cols...)
}
