package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "DoubleArray", Double.TypeName())
	assert.Equal(t, "StringArray", String.TypeName())

	k, err := ParseKind("boolean")
	require.NoError(t, err)
	assert.Equal(t, Byte, k)

	_, err = ParseKind("decimal")
	var uk *UnsupportedKindError
	assert.ErrorAs(t, err, &uk)
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestKindProperties(t *testing.T) {
	assert.Equal(t, []int{1, 2, 2, 4, 8, 4, 8, 0}, func() []int {
		var w []int
		for _, k := range Kinds {
			w = append(w, k.Width())
		}
		return w
	}())
	assert.Equal(t, 20, String.ElementSize())
	assert.True(t, Long.IsIntegral())
	assert.False(t, Float.IsIntegral())
	assert.True(t, Float.IsFloating())
	assert.Equal(t, float64(math.MaxInt16), Short.MissingDouble())
	assert.True(t, math.IsNaN(String.MissingDouble()))

	assert.Equal(t, Double, Widest(Long, Double))
	assert.Equal(t, String, Widest(String, Byte))
	assert.Equal(t, Char, Widest(Short, Char))
}

func TestKindFromSQL(t *testing.T) {
	assert.Equal(t, Byte, KindFromSQLType(SQLBoolean))
	assert.Equal(t, Long, KindFromSQLType(SQLBigInt))
	assert.Equal(t, Float, KindFromSQLType(SQLReal))
	assert.Equal(t, Double, KindFromSQLType(SQLTimestamp))
	assert.Equal(t, String, KindFromSQLType(SQLVarChar))

	assert.Equal(t, Int, KindFromSQLTypeName("int4"))
	assert.Equal(t, Double, KindFromSQLTypeName("numeric(10,2)"))
	assert.Equal(t, String, KindFromSQLTypeName("VARCHAR(20)"))
	assert.Equal(t, Short, KindFromSQLTypeName(" smallint "))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		v    any
		want Kind
	}{
		{int8(1), Byte},
		{[]bool{true}, Byte},
		{[]uint16{1}, Char},
		{int(1), Long},
		{float32(1), Float},
		{[]float64{1}, Double},
		{"x", String},
	}
	for _, tt := range tests {
		k, err := KindOf(tt.v)
		require.NoError(t, err)
		assert.Equal(t, tt.want, k)
	}
	_, err := KindOf(complex(1, 2))
	assert.Error(t, err)
}
