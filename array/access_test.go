package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingValuesAcrossKinds(t *testing.T) {
	missing := []Array{
		Bytes(math.MaxInt8),
		Shorts(math.MaxInt16),
		Chars(math.MaxUint16),
		Ints(math.MaxInt32),
		Longs(math.MaxInt64),
		Floats(float32(math.NaN())),
		Doubles(math.NaN()),
		Strings(""),
	}
	for _, a := range missing {
		t.Run(a.Kind().String(), func(t *testing.T) {
			assert.True(t, a.IsMissing(0))
			assert.True(t, math.IsNaN(a.GetDouble(0)))
			assert.True(t, math.IsNaN(float64(a.GetFloat(0))))
			assert.Equal(t, int64(math.MaxInt64), a.GetLong(0))
			assert.Equal(t, int32(math.MaxInt32), a.GetInt(0))
			assert.Equal(t, "", a.GetString(0))
		})
	}
}

func TestNarrowingSaturates(t *testing.T) {
	b := NewByte(0, false)
	b.AddDouble(1.5)
	b.AddDouble(-1.5)
	b.AddDouble(300)
	b.AddLong(-129)
	b.AddInt(math.MaxInt32)
	b.AddString("12")
	b.AddString("abc")
	assert.Equal(t, []int8{2, -1, math.MaxInt8, math.MaxInt8, math.MaxInt8, 12, math.MaxInt8}, b.Values())

	s := NewShort(0, false)
	s.AddDouble(40000)
	s.AddLong(-32768)
	assert.Equal(t, []int16{math.MaxInt16, math.MinInt16}, s.Values())

	i := NewInt(0, false)
	i.AddLong(math.MaxInt32 + 1)
	i.AddDouble(math.NaN())
	i.AddFloat(2.5)
	assert.Equal(t, []int32{math.MaxInt32, math.MaxInt32, 3}, i.Values())

	f := NewFloat(0, false)
	f.AddDouble(1e300)
	assert.True(t, f.IsMissing(0))
}

func TestWideningKeepsValues(t *testing.T) {
	l := Longs(math.MaxInt64-1, -5)
	assert.Equal(t, "9223372036854775806", l.GetString(0))
	assert.Equal(t, int32(math.MaxInt32), l.GetInt(0), "out of int range")
	assert.Equal(t, int32(-5), l.GetInt(1))

	f := Floats(0.1)
	assert.Equal(t, 0.1, f.GetDouble(0))
	assert.Equal(t, "0.1", f.GetString(0))

	d := Doubles(2.5, math.Inf(1))
	assert.Equal(t, int64(3), d.GetLong(0))
	assert.Equal(t, "", d.GetString(1), "non-finite values have no text form")
	assert.Equal(t, int64(math.MaxInt64), d.GetLong(1))
}

func TestCharArray(t *testing.T) {
	a, err := Constant(Char, 2, "abc")
	require.NoError(t, err)
	assert.Equal(t, "97, 97", a.String())
	assert.Equal(t, "a", a.GetString(0))
	assert.Equal(t, int32(97), a.GetInt(0))

	a.SetString(1, "")
	assert.True(t, a.IsMissing(1))
	a.SetDouble(1, 66)
	assert.Equal(t, "B", a.GetString(1))
}

func TestStringArrayParsing(t *testing.T) {
	s := Strings("1.5", " 2 ", "x", "", "0x1F")
	assert.Equal(t, 1.5, s.GetDouble(0))
	assert.Equal(t, int32(2), s.GetInt(1))
	assert.True(t, math.IsNaN(s.GetDouble(2)))
	assert.True(t, math.IsNaN(s.GetDouble(3)))
	assert.Equal(t, int32(31), s.GetInt(4))
}

func TestAddFromAndAppend(t *testing.T) {
	d := NewDouble(0, false)
	require.NoError(t, d.AddFrom(Ints(1, math.MaxInt32, 3), 1, 2))
	assert.True(t, math.IsNaN(d.Get(0)))
	assert.Equal(t, 3.0, d.Get(1))

	var re *RangeError
	assert.ErrorAs(t, d.AddFrom(Ints(1), 0, 2), &re)

	s := NewString(0, false)
	s.Append(Doubles(1, math.NaN()))
	assert.Equal(t, []string{"1.0", ""}, s.Values())

	l := NewLong(0, false)
	l.Append(Longs(math.MaxInt64-1))
	assert.Equal(t, int64(math.MaxInt64-1), l.Get(0), "same kind copies exactly")

	i := NewInt(0, false)
	i.Append(Shorts(math.MaxInt16, -3))
	assert.Equal(t, []int32{math.MaxInt32, -3}, i.Values(), "missing stays missing")

	d.SetFrom(0, Strings("7"), 0)
	assert.Equal(t, 7.0, d.Get(0))
}

func TestIndexOf(t *testing.T) {
	a := Doubles(1, math.NaN(), 3, 1)
	assert.Equal(t, 0, a.IndexOf(1, 0))
	assert.Equal(t, 3, a.IndexOf(1, 1))
	assert.Equal(t, 1, a.IndexOfString("NaN", 0))
	assert.Equal(t, 3, a.LastIndexOf(1, 10))
	assert.Equal(t, 0, a.LastIndexOf(1, 2))
	assert.Equal(t, -1, a.IndexOfString("9", 0))

	s := Strings("a", "b")
	assert.Equal(t, 1, s.IndexOfString("b", 0))
	assert.Equal(t, -1, s.LastIndexOfString("b", 0))
}

func TestInsertString(t *testing.T) {
	a := Floats(1, 3)
	require.NoError(t, a.InsertString(1, "2"))
	assert.Equal(t, "1.0, 2.0, 3.0", a.String())
}
