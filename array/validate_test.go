package array

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEvenlySpaced(t *testing.T) {
	a := Doubles(10, 20, 30)
	assert.NoError(t, a.IsEvenlySpaced())

	a.Set(2, 30.1)
	err := a.IsEvenlySpaced()
	var ee *NotEvenlySpacedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, ee.Index1)
	assert.Equal(t, 1, ee.Index2)
	assert.Equal(t, "10.0", ee.Spacing)
	assert.Equal(t, "10.05", ee.Expected)
	assert.Contains(t, err.Error(), "DoubleArray isn't evenly spaced: [0]=10.0, [1]=20.0")

	assert.NoError(t, Doubles(0.1, 0.2, 0.3, 0.4).IsEvenlySpaced(), "binary noise is tolerated")
	assert.NoError(t, Floats(0.1, 0.2, 0.3).IsEvenlySpaced())
	assert.NoError(t, Ints(1, 3, 5).IsEvenlySpaced())
	assert.Error(t, Ints(1, 3, 6).IsEvenlySpaced())
	assert.NoError(t, Ints(1, 9).IsEvenlySpaced(), "two elements are always evenly spaced")
}

func TestIsAscending(t *testing.T) {
	assert.NoError(t, Doubles(1, 2, 2, 3).IsAscending())
	assert.NoError(t, NewInt(0, false).IsAscending())

	assert.EqualError(t, Doubles(1, math.NaN(), 3).IsAscending(),
		"DoubleArray isn't sorted in ascending order: [1]=NaN.")
	assert.EqualError(t, Ints(1, 3, 2).IsAscending(),
		"IntArray isn't sorted in ascending order: [1]=3 > [2]=2.")
	assert.EqualError(t, Ints(1, 2, math.MaxInt32).IsAscending(),
		"IntArray isn't sorted in ascending order: [2]=(missing value).")
	assert.EqualError(t, Strings("a", "b", "B").IsAscending(),
		`StringArray isn't sorted in ascending order: [1]="b" > [2]="B".`)

	var ae *NotAscendingError
	err := Ints(1, 3, 2).IsAscending()
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Index)
}

func TestIsDescending(t *testing.T) {
	assert.NoError(t, Ints(3, 2, 2).IsDescending())
	assert.EqualError(t, Ints(math.MaxInt32, 2, 1).IsDescending(),
		"IntArray isn't sorted in descending order: [0]=(missing value).")
	assert.EqualError(t, Floats(3, 4).IsDescending(),
		"FloatArray isn't sorted in descending order: [0]=3.0 < [1]=4.0.")
	var de *NotDescendingError
	assert.ErrorAs(t, Doubles(3, math.Inf(1)).IsDescending(), &de)
}

func TestFirstTie(t *testing.T) {
	assert.Equal(t, 1, Ints(1, 2, 2, 3).FirstTie())
	assert.Equal(t, -1, Ints(1, 2).FirstTie())
	assert.Equal(t, 0, Doubles(math.NaN(), math.NaN()).FirstTie())
}

func TestCalculateStats(t *testing.T) {
	s := Doubles(1, math.NaN(), 3, math.Inf(1)).CalculateStats()
	assert.Equal(t, Stats{N: 2, Min: 1, Max: 3, Sum: 4}, s)
	assert.Equal(t, 2.0, s.Mean())
	assert.Equal(t, "n=2 min=1.0 max=3.0", s.String())

	s = Ints(math.MaxInt32).CalculateStats()
	assert.Equal(t, 0, s.N)
	assert.True(t, math.IsNaN(s.Min))
	assert.True(t, math.IsNaN(s.Max))
	assert.True(t, math.IsNaN(s.Mean()))

	s = Strings("2", "x", "-1").CalculateStats()
	assert.Equal(t, Stats{N: 2, Min: -1, Max: 2, Sum: 1}, s)
}

func TestSmallestBiggestSpacing(t *testing.T) {
	assert.Equal(t,
		"  smallest spacing=1.0: [0]=1.0, [1]=2.0\n  biggest  spacing=2.0: [1]=2.0, [2]=4.0",
		Doubles(1, 2, 4, 5).SmallestBiggestSpacing())
	assert.Equal(t, "", Doubles(1, 2).SmallestBiggestSpacing())
}

func TestNMinMaxIndex(t *testing.T) {
	n, lo, hi := Doubles(3, math.NaN(), 1, 3, 1).NMinMaxIndex()
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, lo, "the last of tied minimums")
	assert.Equal(t, 3, hi, "the last of tied maximums")

	n, lo, hi = Strings("", "b", "a").NMinMaxIndex()
	assert.Equal(t, []int{2, 2, 1}, []int{n, lo, hi})

	n, lo, hi = Ints(math.MaxInt32).NMinMaxIndex()
	assert.Equal(t, []int{0, -1, -1}, []int{n, lo, hi})
}
