package array

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

// Array is the kind-independent view of a typed array.
//
// Index arguments out of range make the element accessors panic with an
// *IndexError. Structural mutators report bad arguments as errors instead.
// Conversions between kinds go through the narrowing rules of the receiving kind:
// half-up rounding, saturation to the missing value, and missing values of one kind
// becoming missing values of the other.
type Array interface {
	fmt.Stringer

	Kind() Kind
	Len() int
	Cap() int
	Tolerance() Tolerance

	Clear()
	TrimToSize()
	EnsureCapacity(minCapacity int) error
	Clone() Array
	NewEmpty(capacity int) Array

	AddString(s string)
	AddFloat(f float32)
	AddDouble(d float64)
	AddInt(v int32)
	AddLong(v int64)
	AddNStrings(n int, s string) error
	AddNDoubles(n int, d float64) error
	AddFrom(other Array, otherIndex, n int) error
	InsertString(index int, s string) error
	Append(other Array)

	Remove(index int) error
	RemoveRange(from, to int) error
	Move(first, last, destination int) error
	JustKeep(keep *roaring.Bitmap)
	Copy(from, to int)
	Reorder(rank []int) error
	Reverse()
	Subset(start, stride, stop int) (Array, error)

	GetString(i int) string
	GetFloat(i int) float32
	GetDouble(i int) float64
	GetInt(i int) int32
	GetLong(i int) int64
	SetString(i int, s string)
	SetFloat(i int, f float32)
	SetDouble(i int, d float64)
	SetInt(i int, v int32)
	SetLong(i int, v int64)
	SetFrom(i int, other Array, otherIndex int)
	IsMissing(i int) bool

	IndexOfString(s string, from int) int
	LastIndexOfString(s string, from int) int
	BinarySearch(lo, hi int, v float64) (int, error)
	BinaryFindFirstGE(lo, hi int, v float64) int
	BinaryFindLastLE(lo, hi int, v float64) int
	BinaryFindFirstGAE(lo, hi int, v float64) int
	BinaryFindLastLAE(lo, hi int, v float64) int
	BinaryFindClosest(v float64) int
	LinearFindClosest(v float64) int

	Compare(i, j int) int
	CompareIgnoreCase(i, j int) int
	Sort()
	SortIgnoreCase()

	Simplify() Array
	MakeIndices(indices *IntArray) Array
	RemoveDuplicates() int
	RemoveDuplicatesAE() (int, error)
	InCommon(other Array)

	SwitchFromTo(from, to string) int
	ConvertToStandardMissingValues(fakeFill, fakeMissing float64) int
	SwitchNaNToFakeMissingValue(fakeMissing float64) int
	SwitchFakeMissingValueToNaN(fakeMissing float64) int
	ScaleAddOffset(scale, offset float64)
	AddOffsetScale(offset, scale float64)
	ApplyConstraint(keep *roaring.Bitmap, op, value string, patterns *PatternCache) (int, error)

	IsAscending() error
	IsDescending() error
	IsEvenlySpaced() error
	FirstTie() int
	CalculateStats() Stats
	SmallestBiggestSpacing() string
	NMinMaxIndex() (n, minIndex, maxIndex int)

	Equal(other Array) bool
	Diff(other Array) error
	DiffIndex(other Array) int
	AlmostEqual(other Array) error

	WriteBinary(w io.Writer) error
	ReadBinary(r io.Reader) error
	WriteDODS(w io.Writer) error
	ReadDODS(r io.Reader) error
	WriteRAF(w io.WriterAt, off int64) error

	JSONCSVString() string
	SQLTypeString(stringLengthFactor float64) string
}

var (
	_ Array = (*ByteArray)(nil)
	_ Array = (*ShortArray)(nil)
	_ Array = (*CharArray)(nil)
	_ Array = (*IntArray)(nil)
	_ Array = (*LongArray)(nil)
	_ Array = (*FloatArray)(nil)
	_ Array = (*DoubleArray)(nil)
	_ Array = (*StringArray)(nil)
)
