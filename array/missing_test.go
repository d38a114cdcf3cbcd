package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchFromTo(t *testing.T) {
	d := Doubles(1, -999, math.NaN(), -999.0000000001)
	assert.Equal(t, 2, d.SwitchFromTo("-999", ""), "almost equal values match")
	assert.Equal(t, "1.0, NaN, NaN, NaN", d.String())
	assert.Equal(t, 3, d.SwitchFromTo("", "0"))
	assert.Equal(t, "1.0, 0.0, 0.0, 0.0", d.String())
	assert.Equal(t, 0, d.SwitchFromTo("5", "5"))

	i := Ints(1, -99, math.MaxInt32)
	assert.Equal(t, 1, i.SwitchFromTo("-99", "NaN"))
	assert.Equal(t, []int32{1, math.MaxInt32, math.MaxInt32}, i.Values())

	s := Strings("a", "b", "a")
	assert.Equal(t, 2, s.SwitchFromTo("a", ""))
	assert.Equal(t, []string{"", "b", ""}, s.Values())
}

func TestFakeMissingValues(t *testing.T) {
	i := Ints(1, -99, 3, -1)
	assert.Equal(t, 2, i.ConvertToStandardMissingValues(-99, -1))
	assert.True(t, i.IsMissing(1))
	assert.True(t, i.IsMissing(3))

	assert.Equal(t, 2, i.SwitchNaNToFakeMissingValue(-9999))
	assert.Equal(t, []int32{1, -9999, 3, -9999}, i.Values())
	assert.Equal(t, 0, i.SwitchNaNToFakeMissingValue(math.NaN()))

	assert.Equal(t, 0, i.SwitchFakeMissingValueToNaN(-9999), "only Float and Double arrays hold NaN")

	f := Floats(1, -9999)
	assert.Equal(t, 1, f.SwitchFakeMissingValueToNaN(-9999))
	assert.True(t, f.IsMissing(1))

	s := Strings("-99")
	assert.Equal(t, 0, s.ConvertToStandardMissingValues(-99, math.NaN()))
}

func TestScaleAddOffset(t *testing.T) {
	s := Shorts(10, math.MaxInt16)
	s.ScaleAddOffset(2, 1)
	assert.Equal(t, []int16{21, math.MaxInt16}, s.Values(), "missing stays missing")

	d := Doubles(1, 2)
	d.AddOffsetScale(1, 10)
	assert.Equal(t, []float64{20, 30}, d.Values())

	d.ScaleAddOffset(1, 0)
	assert.Equal(t, []float64{20, 30}, d.Values())

	out, err := ScaleAddOffsetAs(Double, Shorts(10, math.MaxInt16), 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, "6.0, NaN", out.String())
}
