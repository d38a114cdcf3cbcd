package array

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArrays() []Array {
	return []Array{
		Bytes(1, -2, math.MaxInt8),
		Shorts(-300, 300, math.MaxInt16),
		Chars('a', 'z', math.MaxUint16),
		Ints(-70000, 0, math.MaxInt32),
		Longs(math.MinInt64, 1<<40, math.MaxInt64),
		Floats(1.5, -0.25, float32(math.NaN())),
		Doubles(math.Pi, -1e300, math.NaN()),
		Strings("", "héllo", "a\nb"),
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, a := range sampleArrays() {
		t.Run(a.Kind().String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, a.WriteBinary(&buf))

			back := a.NewEmpty(0)
			require.NoError(t, back.ReadBinary(&buf))
			assert.True(t, a.Equal(back), "%s != %s", a, back)
			assert.Equal(t, 0, buf.Len())
		})
	}
}

func TestDODSRoundTrip(t *testing.T) {
	for _, a := range sampleArrays() {
		t.Run(a.Kind().String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, a.WriteDODS(&buf))
			assert.Equal(t, 0, buf.Len()%4, "DODS output is 4 byte aligned")

			back := a.NewEmpty(0)
			require.NoError(t, back.ReadDODS(&buf))
			assert.True(t, a.Equal(back), "%s != %s", a, back)
			assert.Equal(t, 0, buf.Len())
		})
	}
}

func TestDODSLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Bytes(1, 2, 3, 4, 5).WriteDODS(&buf))
	assert.Equal(t, []byte{
		0, 0, 0, 5, 0, 0, 0, 5,
		1, 2, 3, 4, 5, 0, 0, 0,
	}, buf.Bytes())

	buf.Reset()
	require.NoError(t, Strings("ab").WriteDODS(&buf))
	assert.Equal(t, []byte{
		0, 0, 0, 1, 0, 0, 0, 1,
		0, 0, 0, 2, 'a', 'b', 0, 0,
	}, buf.Bytes())

	buf.Reset()
	require.NoError(t, Shorts(-1).WriteDODS(&buf))
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 1, 0xff, 0xff, 0xff, 0xff}, buf.Bytes())
}

func TestBinaryLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Ints(1, -1).WriteBinary(&buf))
	assert.Equal(t, []byte{0, 0, 0, 2, 0, 0, 0, 1, 0xff, 0xff, 0xff, 0xff}, buf.Bytes())
}

func TestReadBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Doubles(1, 2).WriteBinary(&buf))
	short := bytes.NewReader(buf.Bytes()[:10])
	assert.Error(t, NewDouble(0, false).ReadBinary(short))

	assert.Error(t, NewInt(0, false).ReadBinary(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff})),
		"negative counts are rejected")
}

func TestReadCorruptCount(t *testing.T) {
	// A count of 2^27 elements backed by one byte.
	corrupt := []byte{0x08, 0, 0, 0, 0x01}

	d := NewDouble(4, false)
	require.Error(t, d.ReadBinary(bytes.NewReader(corrupt)))
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 4, d.Cap(), "capacity is not grown from the count")

	dods := append([]byte{0x08, 0, 0, 0}, corrupt...)
	i := NewInt(4, false)
	require.Error(t, i.ReadDODS(bytes.NewReader(dods)))
	assert.Equal(t, 4, i.Cap())

	// One string whose length prefix claims 2 GiB.
	s := NewString(4, false)
	require.Error(t, s.ReadBinary(bytes.NewReader([]byte{0, 0, 0, 1, 0x7f, 0xff, 0xff, 0x00, 'a'})))
	assert.Equal(t, 0, s.Len())
}

func TestReadStringsFailureLeavesArrayUnchanged(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Strings("ab", "cd").WriteBinary(&buf))
	truncated := buf.Bytes()[:buf.Len()-1]

	s := Strings("x")
	require.Error(t, s.ReadBinary(bytes.NewReader(truncated)))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "x", s.Get(0))

	buf.Reset()
	require.NoError(t, Strings("ab", "cd").WriteDODS(&buf))
	truncated = buf.Bytes()[:buf.Len()-4]
	require.Error(t, s.ReadDODS(bytes.NewReader(truncated)))
	assert.Equal(t, "x", s.String())
}

func TestReadBinaryAcrossChunks(t *testing.T) {
	src := NewInt(0, false)
	for i := range maxPrealloc + 10 {
		src.Add(int32(i))
	}
	var buf bytes.Buffer
	require.NoError(t, src.WriteBinary(&buf))
	require.NoError(t, src.WriteDODS(&buf))

	got := Ints(-1)
	require.NoError(t, got.ReadBinary(&buf))
	require.Equal(t, src.Len()+1, got.Len())
	assert.Equal(t, int32(-1), got.Get(0))
	assert.Equal(t, int32(maxPrealloc+9), got.Get(got.Len()-1))

	dods := NewInt(0, false)
	require.NoError(t, dods.ReadDODS(&buf))
	assert.True(t, src.Equal(dods))
}
