package tidyse

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tidyse/table"
)

func TestExtract(t *testing.T) {
	ctx := context.Background()
	e := newTestExperiment(t)

	t.Run("IntoSampleKey", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		td := New(WithMetricsCollector(metrics))
		_, err := td.Extract(ctx, FromExperiment(e), table.ExtractSpec{
			Col:    "condition",
			Into:   []string{"sample"},
			Remove: true,
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"condition", "sample"}, pe.Columns)

		stats := metrics.GetStats()
		assert.Zero(t, stats.FlattenCount, "guard must run before flattening")
		assert.Equal(t, int64(1), stats.VerbErrors)
	})

	t.Run("NewSampleColumn", func(t *testing.T) {
		out, err := New().Extract(ctx, FromExperiment(e), table.ExtractSpec{
			Col:  "condition",
			Into: []string{"treatment"},
		})
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"condition", "treatment"}, got.SampleData().Names())
		assert.True(t, got.SampleData().At(1, "treatment").Equal(table.String("trt")))
		assert.Equal(t, e.AssayNames(), got.AssayNames())
		assert.True(t, got.HasRanges())
	})

	t.Run("Table", func(t *testing.T) {
		out, err := New().Extract(ctx, FromTable(testLongTable()), table.ExtractSpec{
			Col:    "condition",
			Into:   []string{"treatment", "dose"},
			Regex:  `([a-z]+)_([a-z]+)`,
			Remove: true,
		})
		require.NoError(t, err)
		got, ok := out.Table()
		require.True(t, ok)
		assert.False(t, got.Has("condition"), "plain tables are not guarded")
		assert.True(t, got.At(3, "dose").Equal(table.String("high")))
	})
}

func TestSeparate(t *testing.T) {
	ctx := context.Background()
	e := newTestExperiment(t)
	spec := table.SeparateSpec{Col: "condition", Into: []string{"treatment", "dose"}}

	t.Run("GuardedRemoval", func(t *testing.T) {
		removing := spec
		removing.Remove = true
		_, err := New().Separate(ctx, FromExperiment(e), removing)
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"condition"}, pe.Columns)
	})

	t.Run("KeepSource", func(t *testing.T) {
		out, err := New().Separate(ctx, FromExperiment(e), spec)
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"condition", "treatment", "dose"}, got.SampleData().Names())
		assert.True(t, got.SampleData().At(0, "treatment").Equal(table.String("ctrl")))
		assert.True(t, got.SampleData().At(1, "dose").Equal(table.String("high")))
	})

	t.Run("IntoProtected", func(t *testing.T) {
		_, err := New().Separate(ctx, FromExperiment(e), table.SeparateSpec{
			Col:    "symbol",
			Into:   []string{"transcript"},
			Remove: true,
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"symbol", "transcript"}, pe.Columns)
	})
}

func TestUnite(t *testing.T) {
	ctx := context.Background()
	e := newTestExperiment(t)

	t.Run("FeatureLevel", func(t *testing.T) {
		out, err := New().Unite(ctx, FromExperiment(e), table.UniteSpec{
			Col:  "locus",
			Cols: []string{"seqnames", "strand"},
		})
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"symbol", "locus"}, got.FeatureData().Names())
		assert.True(t, got.FeatureData().At(1, "locus").Equal(table.String("chr1_-")))
		assert.True(t, got.HasRanges())
	})

	t.Run("CellLevelFallsBack", func(t *testing.T) {
		out, err := New().Unite(ctx, FromExperiment(e), table.UniteSpec{
			Col:  "label",
			Cols: []string{"condition", "symbol"},
		})
		require.NoError(t, err)
		got, ok := out.Table()
		require.True(t, ok)
		assert.Equal(t, 4, got.NumRows())
		assert.True(t, got.At(1, "label").Equal(table.String("ctrl_low_BRCA1")))
	})

	t.Run("GuardedRemoval", func(t *testing.T) {
		_, err := New().Unite(ctx, FromExperiment(e), table.UniteSpec{
			Col:    "locus",
			Cols:   []string{"seqnames", "strand"},
			Remove: true,
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"seqnames", "strand"}, pe.Columns)
	})
}

func TestPivot(t *testing.T) {
	ctx := context.Background()
	e := newTestExperiment(t)

	t.Run("LongerFallsBack", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		out, err := New(WithMetricsCollector(metrics)).PivotLonger(ctx, FromExperiment(e), table.PivotLongerSpec{
			Cols: []string{"counts", "normalized"},
		})
		require.NoError(t, err)
		got, ok := out.Table()
		require.True(t, ok)
		assert.Equal(t, 8, got.NumRows())
		assert.True(t, got.Has("name"))
		assert.True(t, got.Has("value"))
		assert.Equal(t, int64(1), metrics.GetStats().ReconstructFallback)
	})

	t.Run("LongerProtected", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		_, err := New(WithMetricsCollector(metrics)).PivotLonger(ctx, FromExperiment(e), table.PivotLongerSpec{
			Cols: []string{"condition", "counts"},
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"condition"}, pe.Columns)
		assert.Zero(t, metrics.GetStats().FlattenCount)
	})

	t.Run("WiderNamesFromProtected", func(t *testing.T) {
		_, err := New().PivotWider(ctx, FromExperiment(e), table.PivotWiderSpec{
			NamesFrom:  "transcript",
			ValuesFrom: "counts",
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"transcript"}, pe.Columns)
	})

	t.Run("WiderDropsProtected", func(t *testing.T) {
		_, err := New().PivotWider(ctx, FromExperiment(e), table.PivotWiderSpec{
			NamesFrom:  "normalized",
			ValuesFrom: "counts",
			IDCols:     []string{"sample"},
		})
		var pe *ProtectedColumnError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, []string{"condition", "end", "seqnames", "start", "strand", "symbol", "transcript", "width"}, pe.Columns)
	})

	t.Run("WiderReconstructs", func(t *testing.T) {
		out, err := New().PivotWider(ctx, FromExperiment(e), table.PivotWiderSpec{
			NamesFrom:  "normalized",
			ValuesFrom: "counts",
		})
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"0.1", "0.3", "0.2", "0.4"}, got.AssayNames())
		assert.Equal(t, []string{"condition"}, got.SampleData().Names())
		assert.True(t, got.HasRanges())
		v, _ := got.At("0.1", 0, 0)
		assert.Equal(t, 1.0, v)
	})

	t.Run("WiderTable", func(t *testing.T) {
		lt, err := New().AsTibble(ctx, e)
		require.NoError(t, err)
		out, err := New().PivotWider(ctx, FromTable(lt), table.PivotWiderSpec{
			NamesFrom:  "transcript",
			ValuesFrom: "counts",
			IDCols:     []string{"sample"},
		})
		require.NoError(t, err)
		got, ok := out.Table()
		require.True(t, ok)
		assert.Equal(t, []string{"sample", "f1", "f2"}, got.Names())
		assert.True(t, got.At(0, "f2").Equal(table.Float(3)))
	})

	t.Run("WiderDuplicates", func(t *testing.T) {
		lt, err := New().AsTibble(ctx, e)
		require.NoError(t, err)
		_, err = New().PivotWider(ctx, FromTable(lt), table.PivotWiderSpec{
			NamesFrom:  "seqnames",
			ValuesFrom: "counts",
			IDCols:     []string{"condition"},
		})
		var dk *table.DuplicateKeyError
		assert.ErrorAs(t, err, &dk)
	})
}

func TestVerbLogsCarryVerb(t *testing.T) {
	var buf bytes.Buffer
	td := New(WithLogger(NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	_, err := td.Separate(context.Background(), FromExperiment(newTestExperiment(t)), table.SeparateSpec{
		Col:  "condition",
		Into: []string{"treatment", "dose"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "flatten completed")
	assert.Contains(t, lines[1], "reconstruction completed")
	assert.Contains(t, lines[2], "verb completed")
	for _, line := range lines {
		assert.Contains(t, line, "verb=separate")
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	e := newTestExperiment(t)

	t.Run("WholeSamples", func(t *testing.T) {
		out, err := New().Filter(ctx, FromExperiment(e), table.Eq("condition", table.String("ctrl_low")))
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"s1"}, got.SampleIDs())
		assert.Equal(t, []string{"f1", "f2"}, got.FeatureIDs())
		assert.True(t, got.HasRanges())
	})

	t.Run("WholeFeatures", func(t *testing.T) {
		out, err := New().Filter(ctx, FromExperiment(e), table.Gt("start", table.Int(200)))
		require.NoError(t, err)
		got, ok := out.Experiment()
		require.True(t, ok)
		assert.Equal(t, []string{"f2"}, got.FeatureIDs())
		assert.Equal(t, []int64{500}, got.Ranges().Start)
		v, _ := got.At("counts", 0, 1)
		assert.Equal(t, 4.0, v)
	})

	t.Run("PartialFallsBack", func(t *testing.T) {
		out, err := New().Filter(ctx, FromExperiment(e), table.Lt("counts", table.Float(4)))
		require.NoError(t, err)
		got, ok := out.Table()
		require.True(t, ok)
		assert.Equal(t, 3, got.NumRows())
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		_, err := New().Filter(ctx, FromExperiment(e), table.Eq("nope", table.Int(1)))
		assert.ErrorIs(t, err, table.ErrColumnNotFound)
	})
}

func TestVerbInvalidData(t *testing.T) {
	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	td := New(
		WithMetricsCollector(metrics),
		WithLogger(NewLogger(slog.NewTextHandler(&buf, nil))),
	)
	_, err := td.Unite(context.Background(), Data{}, table.UniteSpec{Col: "x", Cols: []string{"a"}})
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, buf.String(), "verb failed")
	assert.Contains(t, buf.String(), "verb=unite")

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.VerbCount)
	assert.Equal(t, int64(1), stats.VerbErrors)
}
