package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tidyse/table"
)

func TestExperiment(t *testing.T) {
	spec := ExperimentSpec{Samples: 3, Features: 5, Assays: 2, NaNRate: 0.2, Ranges: true}

	e, err := NewRNG(4711).Experiment(spec)
	require.NoError(t, err)
	assert.Equal(t, 3, e.NumSamples())
	assert.Equal(t, 5, e.NumFeatures())
	assert.Equal(t, []string{"assay1", "assay2"}, e.AssayNames())
	assert.Equal(t, []string{"condition", "batch"}, e.SampleData().Names())
	assert.Equal(t, []string{"symbol", "gc"}, e.FeatureData().Names())
	assert.True(t, e.HasRanges())
	assert.Equal(t, table.KindString, e.SampleData().At(0, "condition").Kind)
	assert.Equal(t, table.KindInt, e.SampleData().At(0, "batch").Kind)
	assert.Equal(t, table.KindFloat, e.FeatureData().At(0, "gc").Kind)

	again, err := NewRNG(4711).Experiment(spec)
	require.NoError(t, err)
	for f := range 5 {
		for s := range 3 {
			a, _ := e.At("assay1", f, s)
			b, _ := again.At("assay1", f, s)
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b, "same seed must give the same experiment")
		}
	}
	assert.Equal(t, e.Ranges(), again.Ranges())
}

func TestMissing(t *testing.T) {
	rng := NewRNG(4711)
	assert.NotContains(t, rng.Missing(100, 0), true)
	assert.NotContains(t, rng.Missing(100, 1), false)
	assert.Equal(t, int64(4711), rng.Seed())
}
