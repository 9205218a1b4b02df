// Package testutil provides testing utilities for tidyse.
//
// This package is intended for use in tests only. It generates random but
// reproducible experiments for property-style tests.
//
// # Random Experiments
//
//	rng := testutil.NewRNG(seed)
//	e, err := rng.Experiment(testutil.ExperimentSpec{
//	    Samples:  4,
//	    Features: 6,
//	    Assays:   2,
//	    NaNRate:  0.1,
//	    Ranges:   true,
//	})
package testutil
