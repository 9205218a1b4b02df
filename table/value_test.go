package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKey(t *testing.T) {
	assert.Equal(t, "null", Null().Key())
	assert.Equal(t, "i:42", Int(42).Key())
	assert.Equal(t, "s:x", String("x").Key())
	assert.Equal(t, "b:1", Bool(true).Key())
	assert.NotEqual(t, Int(1).Key(), Float(1).Key())
	assert.Equal(t, "a:i:1\x1fs:a", Array([]Value{Int(1), String("a")}).Key())
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "NA", Null().Format())
	assert.Equal(t, "2.5", Float(2.5).Format())
	assert.Equal(t, "TRUE", Bool(true).Format())
	assert.Equal(t, "[1, a]", Array([]Value{Int(1), String("a")}).Format())
}

func TestFloatNaNIsNull(t *testing.T) {
	assert.True(t, Float(math.NaN()).IsNull())
}

func TestGuess(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"", Null()},
		{"NA", Null()},
		{"12", Int(12)},
		{"-1.5", Float(-1.5)},
		{"TRUE", Bool(true)},
		{"false", Bool(false)},
		{"chr1", String("chr1")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Guess(tt.in)), "got %s", Guess(tt.in).Format())
		})
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(uint8(7))
	require.NoError(t, err)
	assert.True(t, v.Equal(Int(7)))

	v, err = FromAny([]any{"a", 1})
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind)

	_, err = FromAny(uint64(math.MaxUint64))
	assert.Error(t, err)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)

	col, err := ColumnFromAny("c", []any{1, nil, "x"})
	require.NoError(t, err)
	assert.Len(t, col.Values, 3)
	assert.True(t, col.Values[1].IsNull())
}
