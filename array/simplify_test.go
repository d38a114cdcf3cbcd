package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		in   Array
		kind Kind
		want string
	}{
		{"StringsToByte", Strings("1", "", "-3"), Byte, "1, 127, -3"},
		{"StringsToShort", Strings("1", "200"), Short, "1, 200"},
		{"StringsToInt", Strings("70000"), Int, "70000"},
		{"DecimalPointMeansFloat", Strings("1.0", "2"), Float, "1.0, 2.0"},
		{"StringsToDouble", Strings("1.23456789"), Double, "1.23456789"},
		{"LeadingZeroStaysString", Strings("0153", "1"), String, "0153, 1"},
		{"TextStaysString", Strings("1", "a"), String, "1, a"},
		{"WideIntegersStayString", Strings("1", "10000000000"), String, "1, 10000000000"},
		{"NaNMarkersAreMissing", Strings("NaN", ".", "5"), Byte, "127, 127, 5"},
		{"WholeDoublesToByte", Doubles(1, 2, math.NaN()), Byte, "1, 2, 127"},
		{"WholeFloatsToByte", Floats(1, 2, 3), Byte, "1, 2, 3"},
		{"WholeDoublesToShort", Doubles(-300, 2), Short, "-300, 2"},
		{"WholeDoublesToInt", Doubles(70000, 1), Int, "70000, 1"},
		{"DoublesToFloat", Doubles(0.5, 1e10), Float, "0.5, 1.0E10"},
		{"WideWholeDoublesStayFloating", Doubles(1e10, 1, math.NaN()), Float, "1.0E10, 1.0, NaN"},
		{"WideWholeFloatsStayFloat", Floats(1e10, 1), Float, "1.0E10, 1.0"},
		{"WideWholeDoublesStayDouble", Doubles(1e15+1, 1), Double, "1.000000000000001E15, 1.0"},
		{"IntsToByte", Ints(1, math.MaxInt32), Byte, "1, 127"},
		{"ShortStaysShort", Shorts(1000), Short, "1000"},
		{"CharStaysChar", Chars(1000), Char, "1000"},
		{"LongStaysLong", Longs(1 << 40), Long, "1099511627776"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Simplify()
			assert.Equal(t, tt.kind, got.Kind())
			assert.Equal(t, tt.want, got.String())

			again := got.Simplify()
			assert.Equal(t, got.Kind(), again.Kind(), "simplify is idempotent")
			assert.Equal(t, got.String(), again.String())
		})
	}
}

func TestSimplifyReturnsReceiverWhenNothingNarrower(t *testing.T) {
	a := Doubles(1.23456789)
	assert.Same(t, a, a.Simplify())

	s := Strings("x")
	assert.Same(t, s, s.Simplify())
}
