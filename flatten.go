package tidyse

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

// flatten joins the blocks of e into one long table:
//
//	samples ⟕ values on sample ⟕ features on transcript [⟕ feature extras on transcript]
//
// The returned shape records where every column came from.
func (td *Tidier) flatten(ctx context.Context, e *experiment.Experiment) (lt *table.Table, shape experiment.Shape, err error) {
	if e == nil {
		return nil, shape, ErrInvalidData
	}

	start := time.Now()
	defer func() {
		rows := 0
		if lt != nil {
			rows = lt.NumRows()
		}
		td.metrics.RecordFlatten(rows, time.Since(start), err)
		td.logger.LogFlatten(ctx, e.NumSamples(), e.NumFeatures(), rows, err)
	}()

	sampleMeta, err := td.resolveReserved(ctx, "sample", e.SampleData())
	if err != nil {
		return nil, shape, err
	}
	featureMeta, err := td.resolveReserved(ctx, "feature", e.FeatureData())
	if err != nil {
		return nil, shape, err
	}
	for _, name := range e.AssayNames() {
		if isReserved(name) {
			return nil, shape, &NameCollisionError{Columns: []string{name}}
		}
	}

	samples, err := sampleMeta.Insert(0, table.Column{Name: experiment.SampleKey, Values: table.Strings(e.SampleIDs()...)})
	if err != nil {
		return nil, shape, err
	}
	features, err := featureMeta.Insert(0, featureKeyColumn(e))
	if err != nil {
		return nil, shape, err
	}
	extra, err := featureExtra(e)
	if err != nil {
		return nil, shape, err
	}
	values, err := td.valueLong(ctx, e)
	if err != nil {
		return nil, shape, err
	}

	lt, err = table.LeftJoin(samples, values, experiment.SampleKey)
	if err != nil {
		return nil, shape, translateError(err)
	}
	lt, err = table.LeftJoin(lt, features, experiment.FeatureKey)
	if err != nil {
		return nil, shape, translateError(err)
	}
	// An empty extra table would only add all-Null columns.
	if extra.NumRows() > 0 {
		lt, err = table.LeftJoin(lt, extra, experiment.FeatureKey)
		if err != nil {
			return nil, shape, translateError(err)
		}
	}

	shape = experiment.Shape{
		SampleColumns:  sampleMeta.Names(),
		FeatureColumns: featureMeta.Names(),
		Assays:         e.AssayNames(),
	}
	if e.HasRanges() {
		shape.RangeColumns = experiment.RangeColumns
	}
	return lt, shape, nil
}

// resolveReserved applies the collision policy to metadata columns named
// like a key.
func (td *Tidier) resolveReserved(ctx context.Context, block string, t *table.Table) (*table.Table, error) {
	for _, name := range []string{experiment.SampleKey, experiment.FeatureKey} {
		if !t.Has(name) {
			continue
		}
		if td.policy == CollisionReject {
			return nil, &NameCollisionError{Columns: []string{name}}
		}
		to := renamed(name)
		next, err := t.Rename(name, to)
		if err != nil {
			return nil, &NameCollisionError{Columns: []string{name, to}, cause: err}
		}
		if td.policy == CollisionWarnRename {
			td.logger.LogCollision(ctx, block, name, to)
		}
		t = next
	}
	return t, nil
}

func featureKeyColumn(e *experiment.Experiment) table.Column {
	return table.Column{Name: experiment.FeatureKey, Values: table.Strings(e.FeatureIDs()...)}
}

// featureExtra left-joins the auxiliary per-feature tables on the feature
// key. It has no rows when the experiment carries none.
func featureExtra(e *experiment.Experiment) (*table.Table, error) {
	var aux []*table.Table
	if r := e.Ranges(); r != nil {
		t, err := r.Table().Insert(0, featureKeyColumn(e))
		if err != nil {
			return nil, err
		}
		aux = append(aux, t)
	}
	if len(aux) == 0 {
		return table.Empty(0), nil
	}

	extra := aux[0]
	for _, t := range aux[1:] {
		var err error
		if extra, err = table.LeftJoin(extra, t, experiment.FeatureKey); err != nil {
			return nil, translateError(err)
		}
	}
	return extra, nil
}

// valueLong builds one row per (sample, feature) pair in sample-major order
// with one column per assay. Assays are converted concurrently.
func (td *Tidier) valueLong(ctx context.Context, e *experiment.Experiment) (*table.Table, error) {
	sampleIDs, featureIDs := e.SampleIDs(), e.FeatureIDs()
	ns, nf := len(sampleIDs), len(featureIDs)
	n := ns * nf

	names := e.AssayNames()
	cols := make([]table.Column, 2+len(names))
	sampleCol := make([]table.Value, n)
	featureCol := make([]table.Value, n)
	for s, sid := range sampleIDs {
		sv := table.String(sid)
		for f, fid := range featureIDs {
			sampleCol[s*nf+f] = sv
			featureCol[s*nf+f] = table.String(fid)
		}
	}
	cols[0] = table.Column{Name: experiment.SampleKey, Values: sampleCol}
	cols[1] = table.Column{Name: experiment.FeatureKey, Values: featureCol}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(td.parallelism)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, _ := e.Assay(name)
			values := make([]table.Value, n)
			for s := 0; s < ns; s++ {
				for f := 0; f < nf; f++ {
					values[s*nf+f] = table.Float(m.At(f, s))
				}
			}
			cols[2+i] = table.Column{Name: name, Values: values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table.New(cols...)
}
