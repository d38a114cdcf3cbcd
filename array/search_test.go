package array

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFile is an in-memory io.ReaderAt and io.WriterAt.
type memFile struct {
	b []byte
}

func (f *memFile) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(f.b) {
		f.b = append(f.b, make([]byte, end-len(f.b))...)
	}
	return copy(f.b[off:], p), nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(f.b)) {
		return 0, io.EOF
	}
	n := copy(p, f.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestBinarySearch(t *testing.T) {
	a := Ints(2, 4, 6, 6, 6, 8)

	po, err := a.BinarySearch(0, 5, 6)
	require.NoError(t, err)
	assert.Contains(t, []int{2, 3, 4}, po)

	po, err = a.BinarySearch(0, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, -3, po, "-(insertion point)-1")

	po, err = a.BinarySearch(0, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, -1, po)

	po, err = a.BinarySearch(0, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, -7, po)

	_, err = a.BinarySearch(3, 2, 6)
	var re *RangeError
	assert.ErrorAs(t, err, &re)

	assert.Equal(t, 2, a.BinaryFindFirstGE(0, 5, 6))
	assert.Equal(t, 4, a.BinaryFindLastLE(0, 5, 6))
	assert.Equal(t, 2, a.BinaryFindFirstGE(0, 5, 5))
	assert.Equal(t, 1, a.BinaryFindLastLE(0, 5, 5))
	assert.Equal(t, 6, a.BinaryFindFirstGE(0, 5, 9), "hi+1 when nothing is >= v")
	assert.Equal(t, -1, a.BinaryFindLastLE(0, 5, 1), "lo-1 when nothing is <= v")
}

func TestBinaryFindAlmostEqual(t *testing.T) {
	a := Doubles(1, 2, 2.0000001, 2.0000002, 3)
	assert.Equal(t, 1, a.BinaryFindFirstGAE(0, 4, 2.0000001))
	assert.Equal(t, 3, a.BinaryFindLastLAE(0, 4, 2.0000001))
	assert.Equal(t, 2, a.BinaryFindFirstGE(0, 4, 2.0000001))
}

func TestFindClosest(t *testing.T) {
	a := Doubles(1, 3, 7)
	assert.Equal(t, 0, a.BinaryFindClosest(-5))
	assert.Equal(t, 2, a.BinaryFindClosest(100))
	assert.Equal(t, 1, a.BinaryFindClosest(3))
	assert.Equal(t, 1, a.BinaryFindClosest(4.9))
	assert.Equal(t, 2, a.BinaryFindClosest(5), "ties go to the higher neighbour")
	assert.Equal(t, -1, a.BinaryFindClosest(math.NaN()))
	assert.Equal(t, -1, NewDouble(0, false).BinaryFindClosest(1))

	u := Doubles(7, math.NaN(), 1, 3)
	assert.Equal(t, 3, u.LinearFindClosest(4))
	assert.Equal(t, 0, u.LinearFindClosest(6))
	assert.Equal(t, -1, u.LinearFindClosest(math.NaN()))
}

func TestRAFSearch(t *testing.T) {
	const off = 16
	for _, kind := range []Kind{Byte, Short, Char, Int, Long, Float, Double} {
		t.Run(kind.String(), func(t *testing.T) {
			a := MustNew(kind, 6, false)
			for _, v := range []float64{2, 4, 6, 6, 6, 8} {
				a.AddDouble(v)
			}
			f := &memFile{}
			require.NoError(t, a.WriteRAF(f, off))
			assert.Len(t, f.b, off+6*kind.Width())

			po, err := RAFBinarySearch(f, kind, off, 0, 5, 6)
			require.NoError(t, err)
			assert.Contains(t, []int64{2, 3, 4}, po)

			ge, err := RAFFindFirstGE(f, kind, off, 0, 5, 6)
			require.NoError(t, err)
			assert.Equal(t, int64(2), ge)

			le, err := RAFFindLastLE(f, kind, off, 0, 5, 6)
			require.NoError(t, err)
			assert.Equal(t, int64(4), le)

			gae, err := RAFFindFirstGAE(f, kind, off, 0, 5, 6, DefaultTolerance)
			require.NoError(t, err)
			assert.Equal(t, int64(2), gae)

			lae, err := RAFFindLastLAE(f, kind, off, 0, 5, 6, DefaultTolerance)
			require.NoError(t, err)
			assert.Equal(t, int64(4), lae)

			back, err := ReadRAF(bytes.NewReader(f.b), kind, off, 6)
			require.NoError(t, err)
			assert.True(t, a.Equal(back))
		})
	}
}

func TestRAFValues(t *testing.T) {
	f := &memFile{}
	require.NoError(t, WriteRAFValue(f, Short, 0, 0, 12.4))
	require.NoError(t, WriteRAFValue(f, Short, 0, 1, math.NaN()))

	v, err := ReadRAFValue(f, Short, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)

	v, err = ReadRAFValue(f, Short, 0, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v), "the missing value reads back as NaN")

	_, err = ReadRAFValue(f, Short, 0, 5)
	assert.Error(t, err)

	var uk *UnsupportedKindError
	_, err = RAFBinarySearch(f, String, 0, 0, 1, 1)
	assert.ErrorAs(t, err, &uk)
	assert.ErrorAs(t, Strings("a").WriteRAF(f, 0), &uk)
}
