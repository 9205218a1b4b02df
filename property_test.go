package tidyse

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
	"github.com/hupe1980/tidyse/testutil"
)

const propertySeeds = 25

func randomExperiment(t *testing.T, rng *testutil.RNG) *experiment.Experiment {
	t.Helper()
	e, err := rng.Experiment(testutil.ExperimentSpec{
		Samples:  1 + rng.Intn(6),
		Features: 1 + rng.Intn(6),
		Assays:   1 + rng.Intn(3),
		NaNRate:  0.1,
		Ranges:   rng.Intn(2) == 0,
	})
	require.NoError(t, err)
	return e
}

func TestRoundTripProperty(t *testing.T) {
	ctx := context.Background()
	td := New(WithParallelism(2))

	for seed := range int64(propertySeeds) {
		t.Run(fmt.Sprintf("Seed%d", seed), func(t *testing.T) {
			rng := testutil.NewRNG(seed)
			e := randomExperiment(t, rng)

			lt, shape, err := td.flatten(ctx, e)
			require.NoError(t, err)
			require.Equal(t, e.NumSamples()*e.NumFeatures(), lt.NumRows())

			got, ok := td.Tidy(ctx, lt, shape).Experiment()
			require.True(t, ok)
			assertSameExperiment(t, e, got)

			perm := make([]int, lt.NumRows())
			for i := range perm {
				j := rng.Intn(i + 1)
				perm[i], perm[j] = perm[j], i
			}
			shuffled := mustTake(t, lt, perm)
			got, ok = td.Tidy(ctx, shuffled, shape).Experiment()
			require.True(t, ok)
			assertSameExperiment(t, e, got)
		})
	}
}

func TestNestUnnestProperty(t *testing.T) {
	ctx := context.Background()
	td := New()

	for seed := range int64(propertySeeds) {
		t.Run(fmt.Sprintf("Seed%d", seed), func(t *testing.T) {
			e := randomExperiment(t, testutil.NewRNG(seed))

			n, err := td.Nest(ctx, FromExperiment(e), "data", "condition", "gc")
			require.NoError(t, err)
			require.Equal(t, n.Len(), n.Outer().NumRows())

			out, err := td.Unnest(ctx, n)
			require.NoError(t, err)
			got, ok := out.Experiment()
			require.True(t, ok)
			assertSameExperiment(t, e, got)
		})
	}
}

func TestGuardProperty(t *testing.T) {
	ctx := context.Background()
	td := New()

	for seed := range int64(propertySeeds) {
		e := randomExperiment(t, testutil.NewRNG(seed))
		for _, p := range ProtectedColumns(e).Names() {
			t.Run(fmt.Sprintf("Seed%d/%s", seed, p), func(t *testing.T) {
				spec := table.SeparateSpec{Col: p, Into: []string{"x", "y"}, Remove: true}
				_, err := td.Separate(ctx, FromExperiment(e), spec)
				var pe *ProtectedColumnError
				require.ErrorAs(t, err, &pe)
				assert.Contains(t, pe.Columns, p)

				spec.Remove = false
				_, err = td.Separate(ctx, FromExperiment(e), spec)
				assert.NoError(t, err)
			})
		}
	}
}
