package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tbl := MustNew(
		Column{Name: "pre", Values: Ints(0, 0, 0, 0)},
		Column{Name: "id", Values: []Value{String("a-1"), String("b-22"), String("zzz"), Null()}},
		Column{Name: "post", Values: Ints(0, 0, 0, 0)},
	)

	t.Run("RemoveAndConvert", func(t *testing.T) {
		out, err := Extract(tbl, ExtractSpec{
			Col:     "id",
			Into:    []string{"letter", "num"},
			Regex:   `([a-z]+)-(\d+)`,
			Remove:  true,
			Convert: true,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"pre", "letter", "num", "post"}, out.Names())

		letter, _ := out.Column("letter")
		assert.Empty(t, cmp.Diff([]Value{String("a"), String("b"), Null(), Null()}, letter, valueComparer))
		num, _ := out.Column("num")
		assert.Empty(t, cmp.Diff([]Value{Int(1), Int(22), Null(), Null()}, num, valueComparer))
	})

	t.Run("KeepSourceAndSkipName", func(t *testing.T) {
		out, err := Extract(tbl, ExtractSpec{
			Col:   "id",
			Into:  []string{"", "num"},
			Regex: `([a-z]+)-(\d+)`,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"pre", "id", "num", "post"}, out.Names())
		num, _ := out.Column("num")
		assert.True(t, num[1].Equal(String("22")))
	})

	t.Run("DefaultRegex", func(t *testing.T) {
		out, err := Extract(tbl, ExtractSpec{Col: "id", Into: []string{"first"}})
		require.NoError(t, err)
		first, _ := out.Column("first")
		assert.True(t, first[0].Equal(String("a")))
		assert.True(t, first[2].Equal(String("zzz")))
	})

	t.Run("GroupCountMismatch", func(t *testing.T) {
		_, err := Extract(tbl, ExtractSpec{Col: "id", Into: []string{"a", "b"}, Regex: `(\w+)`})
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})

	t.Run("ExistingColumn", func(t *testing.T) {
		_, err := Extract(tbl, ExtractSpec{Col: "id", Into: []string{"pre"}})
		assert.ErrorIs(t, err, ErrColumnExists)
	})
}

func TestSeparate(t *testing.T) {
	tbl := MustNew(
		Column{Name: "v", Values: []Value{String("a_b_c"), String("a"), String("1-2"), Null()}},
	)

	tests := []struct {
		name  string
		spec  SeparateSpec
		left  []Value
		right []Value
	}{
		{
			name:  "DropAndFillRight",
			spec:  SeparateSpec{Col: "v", Into: []string{"l", "r"}, Remove: true},
			left:  []Value{String("a"), String("a"), String("1"), Null()},
			right: []Value{String("b"), Null(), String("2"), Null()},
		},
		{
			name:  "MergeAndFillLeft",
			spec:  SeparateSpec{Col: "v", Into: []string{"l", "r"}, Remove: true, Extra: ExtraMerge, Fill: FillLeft},
			left:  []Value{String("a"), Null(), String("1"), Null()},
			right: []Value{String("b_c"), String("a"), String("2"), Null()},
		},
		{
			name:  "Convert",
			spec:  SeparateSpec{Col: "v", Into: []string{"l", "r"}, Sep: "-", Remove: true, Convert: true},
			left:  []Value{String("a_b_c"), String("a"), Int(1), Null()},
			right: []Value{Null(), Null(), Int(2), Null()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Separate(tbl, tt.spec)
			require.NoError(t, err)
			assert.Equal(t, []string{"l", "r"}, out.Names())
			l, _ := out.Column("l")
			r, _ := out.Column("r")
			assert.Empty(t, cmp.Diff(tt.left, l, valueComparer))
			assert.Empty(t, cmp.Diff(tt.right, r, valueComparer))
		})
	}

	t.Run("BadPattern", func(t *testing.T) {
		_, err := Separate(tbl, SeparateSpec{Col: "v", Into: []string{"l"}, Sep: "("})
		assert.ErrorIs(t, err, ErrInvalidPattern)
	})
}

func TestUnite(t *testing.T) {
	tbl := MustNew(
		Column{Name: "a", Values: []Value{String("x"), Null()}},
		Column{Name: "mid", Values: Ints(0, 0)},
		Column{Name: "b", Values: Ints(1, 2)},
	)

	t.Run("Remove", func(t *testing.T) {
		out, err := Unite(tbl, UniteSpec{Col: "ab", Cols: []string{"a", "b"}, Remove: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"ab", "mid"}, out.Names())
		ab, _ := out.Column("ab")
		assert.Empty(t, cmp.Diff(Strings("x_1", "NA_2"), ab, valueComparer))
	})

	t.Run("KeepAndNARemove", func(t *testing.T) {
		out, err := Unite(tbl, UniteSpec{Col: "ab", Cols: []string{"b", "a"}, Sep: ":", NARemove: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "mid", "ab", "b"}, out.Names())
		ab, _ := out.Column("ab")
		assert.Empty(t, cmp.Diff(Strings("1:x", "2"), ab, valueComparer))
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := Unite(tbl, UniteSpec{Col: "ab"})
		assert.ErrorIs(t, err, ErrEmptySpec)
		_, err = Unite(tbl, UniteSpec{Col: "mid", Cols: []string{"a"}})
		assert.ErrorIs(t, err, ErrColumnExists)
	})
}
