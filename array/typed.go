package array

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	// DefaultCapacity is the capacity of arrays created without an explicit one.
	DefaultCapacity = 8
	// MaxCapacity is the largest number of elements an array can hold.
	MaxCapacity = math.MaxInt32 - 1
)

// Typed is a growable array of one element kind.
//
// The logical size is len(data) and the capacity is cap(data). Capacity only grows
// (doubling, or exactly to the requested size when that is larger) until TrimToSize
// is called. Typed is not safe for concurrent use.
type Typed[T Element] struct {
	data []T
	tr   *traits[T]
	tol  Tolerance
}

// Concrete array types.
type (
	ByteArray   = Typed[int8]
	ShortArray  = Typed[int16]
	CharArray   = Typed[uint16]
	IntArray    = Typed[int32]
	LongArray   = Typed[int64]
	FloatArray  = Typed[float32]
	DoubleArray = Typed[float64]
	StringArray = Typed[string]
)

// NewTyped returns an array with the given capacity. If active is true the size is
// set to capacity and every element holds the zero value.
func NewTyped[T Element](capacity int, active bool, opts ...Option) *Typed[T] {
	o := applyOptions(opts)
	capacity = max(capacity, 0)
	a := &Typed[T]{tr: traitsOf[T](), tol: o.tolerance}
	if active {
		a.data = make([]T, capacity)
	} else {
		a.data = make([]T, 0, capacity)
	}
	return a
}

// FromSlice wraps values without copying. The array takes ownership of the slice.
func FromSlice[T Element](values []T, opts ...Option) *Typed[T] {
	o := applyOptions(opts)
	if values == nil {
		values = []T{}
	}
	return &Typed[T]{data: values, tr: traitsOf[T](), tol: o.tolerance}
}

// NewByte returns a ByteArray; see NewTyped.
func NewByte(capacity int, active bool, opts ...Option) *ByteArray {
	return NewTyped[int8](capacity, active, opts...)
}

// NewShort returns a ShortArray; see NewTyped.
func NewShort(capacity int, active bool, opts ...Option) *ShortArray {
	return NewTyped[int16](capacity, active, opts...)
}

// NewChar returns a CharArray; see NewTyped.
func NewChar(capacity int, active bool, opts ...Option) *CharArray {
	return NewTyped[uint16](capacity, active, opts...)
}

// NewInt returns an IntArray; see NewTyped.
func NewInt(capacity int, active bool, opts ...Option) *IntArray {
	return NewTyped[int32](capacity, active, opts...)
}

// NewLong returns a LongArray; see NewTyped.
func NewLong(capacity int, active bool, opts ...Option) *LongArray {
	return NewTyped[int64](capacity, active, opts...)
}

// NewFloat returns a FloatArray; see NewTyped.
func NewFloat(capacity int, active bool, opts ...Option) *FloatArray {
	return NewTyped[float32](capacity, active, opts...)
}

// NewDouble returns a DoubleArray; see NewTyped.
func NewDouble(capacity int, active bool, opts ...Option) *DoubleArray {
	return NewTyped[float64](capacity, active, opts...)
}

// NewString returns a StringArray; see NewTyped.
func NewString(capacity int, active bool, opts ...Option) *StringArray {
	return NewTyped[string](capacity, active, opts...)
}

// Bytes returns a ByteArray holding values.
func Bytes(values ...int8) *ByteArray { return FromSlice(values) }

// Shorts returns a ShortArray holding values.
func Shorts(values ...int16) *ShortArray { return FromSlice(values) }

// Chars returns a CharArray holding values.
func Chars(values ...uint16) *CharArray { return FromSlice(values) }

// Ints returns an IntArray holding values.
func Ints(values ...int32) *IntArray { return FromSlice(values) }

// Longs returns a LongArray holding values.
func Longs(values ...int64) *LongArray { return FromSlice(values) }

// Floats returns a FloatArray holding values.
func Floats(values ...float32) *FloatArray { return FromSlice(values) }

// Doubles returns a DoubleArray holding values.
func Doubles(values ...float64) *DoubleArray { return FromSlice(values) }

// Strings returns a StringArray holding values.
func Strings(values ...string) *StringArray { return FromSlice(values) }

// Kind returns the element kind.
func (a *Typed[T]) Kind() Kind { return a.tr.kind }

// Len returns the number of elements.
func (a *Typed[T]) Len() int { return len(a.data) }

// Cap returns the capacity.
func (a *Typed[T]) Cap() int { return cap(a.data) }

// Tolerance returns the almost-equal tolerance of the array.
func (a *Typed[T]) Tolerance() Tolerance { return a.tol }

// SetTolerance replaces the almost-equal tolerance.
func (a *Typed[T]) SetTolerance(t Tolerance) { a.tol = t }

// Missing returns the value that marks a missing element.
func (a *Typed[T]) Missing() T { return a.tr.missing }

// Values returns the elements. The slice aliases the array and is invalidated by
// any mutation that changes the capacity.
func (a *Typed[T]) Values() []T { return a.data }

// Clear sets the size to 0 and keeps the capacity.
func (a *Typed[T]) Clear() {
	clear(a.data)
	a.data = a.data[:0]
}

// TrimToSize shrinks the capacity to the size.
func (a *Typed[T]) TrimToSize() {
	if cap(a.data) != len(a.data) {
		a.data = slices.Clip(slices.Clone(a.data))
	}
}

// EnsureCapacity grows the capacity to at least minCapacity. It fails with a
// *CapacityError, leaving the array unchanged, when minCapacity exceeds MaxCapacity.
func (a *Typed[T]) EnsureCapacity(minCapacity int) error {
	if cap(a.data) >= minCapacity {
		return nil
	}
	if int64(minCapacity) > MaxCapacity {
		return &CapacityError{Kind: a.tr.kind, Requested: int64(minCapacity), Limit: MaxCapacity}
	}
	newCap := int(min(int64(MaxCapacity), 2*int64(cap(a.data))))
	newCap = max(newCap, minCapacity)
	data := make([]T, len(a.data), newCap)
	copy(data, a.data)
	a.data = data
	return nil
}

func (a *Typed[T]) grow(n int) {
	if len(a.data)+n <= cap(a.data) {
		return
	}
	if err := a.EnsureCapacity(len(a.data) + n); err != nil {
		panic(err)
	}
}

func (a *Typed[T]) checkIndex(op string, i int) {
	if i < 0 || i >= len(a.data) {
		panic(&IndexError{Op: op, Kind: a.tr.kind, Index: i, Size: len(a.data)})
	}
}

// Get returns element i. It panics with an *IndexError if i is out of range.
func (a *Typed[T]) Get(i int) T {
	a.checkIndex("get", i)
	return a.data[i]
}

// Set replaces element i. It panics with an *IndexError if i is out of range.
func (a *Typed[T]) Set(i int, v T) {
	a.checkIndex("set", i)
	a.data[i] = v
}

// IsMissing reports whether element i holds the missing value.
func (a *Typed[T]) IsMissing(i int) bool {
	return a.tr.isMissing(a.Get(i))
}

// Add appends v. Growing past MaxCapacity panics with a *CapacityError.
func (a *Typed[T]) Add(v T) {
	a.grow(1)
	a.data = append(a.data, v)
}

// AddAll appends every value.
func (a *Typed[T]) AddAll(values ...T) {
	a.grow(len(values))
	a.data = append(a.data, values...)
}

// AddN appends n copies of v.
func (a *Typed[T]) AddN(n int, v T) error {
	if n < 0 {
		return &NegativeCountError{Kind: a.tr.kind, N: n}
	}
	if n == 0 {
		return nil
	}
	if err := a.EnsureCapacity(len(a.data) + n); err != nil {
		return err
	}
	for range n {
		a.data = append(a.data, v)
	}
	return nil
}

// Insert inserts v at index, shifting later elements up.
func (a *Typed[T]) Insert(index int, v T) error {
	if index < 0 || index > len(a.data) {
		return &IndexError{Op: "add", Kind: a.tr.kind, Index: index, Size: len(a.data)}
	}
	if len(a.data) == cap(a.data) {
		if err := a.EnsureCapacity(len(a.data) + 1); err != nil {
			return err
		}
	}
	a.data = slices.Insert(a.data, index, v)
	return nil
}

// Remove deletes element index.
func (a *Typed[T]) Remove(index int) error {
	if index < 0 || index >= len(a.data) {
		return &IndexError{Op: "remove", Kind: a.tr.kind, Index: index, Size: len(a.data)}
	}
	return a.RemoveRange(index, index+1)
}

// RemoveRange deletes elements [from, to).
func (a *Typed[T]) RemoveRange(from, to int) error {
	n := len(a.data)
	switch {
	case to > n:
		return &RangeError{Op: "removeRange", Kind: a.tr.kind, Detail: fmt.Sprintf("to (%d) > size (%d).", to, n)}
	case from < 0:
		return &RangeError{Op: "removeRange", Kind: a.tr.kind, Detail: fmt.Sprintf("from (%d) < 0.", from)}
	case from > to:
		return &RangeError{Op: "removeRange", Kind: a.tr.kind, Detail: fmt.Sprintf("from (%d) > to (%d).", from, to)}
	case from == to:
		return nil
	}
	a.data = slices.Delete(a.data, from, to)
	return nil
}

// Move relocates elements [first, last) so that they start at destination
// (destination is an index into the array before the move). A destination strictly
// inside (first, last) is rejected.
func (a *Typed[T]) Move(first, last, destination int) error {
	size := len(a.data)
	fail := func(format string, args ...any) error {
		return &RangeError{Op: "move", Kind: a.tr.kind, Detail: fmt.Sprintf(format, args...)}
	}
	switch {
	case first < 0:
		return fail("first (%d) must be >= 0.", first)
	case last < first || last > size:
		return fail("last (%d) must be >= first (%d) and <= size (%d).", last, first, size)
	case destination < 0 || destination > size:
		return fail("destination (%d) must be between 0 and size (%d).", destination, size)
	case destination > first && destination < last:
		return fail("destination (%d) must be <= first (%d) or >= last (%d).", destination, first, last)
	}
	if first == last || destination == first || destination == last {
		return nil
	}
	n := last - first
	moved := slices.Clone(a.data[first:last])
	if destination < first {
		copy(a.data[destination+n:], a.data[destination:first])
		copy(a.data[destination:], moved)
	} else {
		copy(a.data[first:], a.data[last:destination])
		copy(a.data[destination-n:], moved)
	}
	return nil
}

// JustKeep compacts the array in place, keeping only the rows set in keep.
func (a *Typed[T]) JustKeep(keep *roaring.Bitmap) {
	n := 0
	for row, v := range a.data {
		if keep.Contains(uint32(row)) {
			a.data[n] = v
			n++
		}
	}
	a.truncate(n)
}

func (a *Typed[T]) truncate(n int) {
	clear(a.data[n:])
	a.data = a.data[:n]
}

// Copy copies element from to element to.
func (a *Typed[T]) Copy(from, to int) {
	a.Set(to, a.Get(from))
}

// Reorder rearranges the elements so that new[i] = old[rank[i]]. rank must be a
// permutation of [0, Len()).
func (a *Typed[T]) Reorder(rank []int) error {
	if len(rank) != len(a.data) {
		return &RangeError{Op: "reorder", Kind: a.tr.kind,
			Detail: fmt.Sprintf("rank length (%d) != size (%d).", len(rank), len(a.data))}
	}
	data := make([]T, len(a.data), cap(a.data))
	for i, r := range rank {
		if r < 0 || r >= len(a.data) {
			return &IndexError{Op: "reorder", Kind: a.tr.kind, Index: r, Size: len(a.data)}
		}
		data[i] = a.data[r]
	}
	a.data = data
	return nil
}

// Reverse reverses the order of the elements.
func (a *Typed[T]) Reverse() {
	slices.Reverse(a.data)
}

// Clone returns a deep copy whose capacity equals its size.
func (a *Typed[T]) Clone() Array {
	return a.CloneTyped()
}

// CloneTyped is Clone without the interface conversion.
func (a *Typed[T]) CloneTyped() *Typed[T] {
	return &Typed[T]{data: slices.Clip(slices.Clone(a.data)), tr: a.tr, tol: a.tol}
}

// NewEmpty returns an empty array of the same kind and tolerance.
func (a *Typed[T]) NewEmpty(capacity int) Array {
	return NewTyped[T](capacity, false, WithTolerance(a.tol))
}

// Subset returns a new array with the elements start, start+stride, ... up to and
// including stop. stop is clamped to Len()-1; stop < start yields an empty array.
func (a *Typed[T]) Subset(start, stride, stop int) (Array, error) {
	if start < 0 {
		return nil, &RangeError{Op: "subset", Kind: a.tr.kind, Detail: fmt.Sprintf("startIndex=%d must be at least 0.", start)}
	}
	if stride < 1 {
		return nil, &RangeError{Op: "subset", Kind: a.tr.kind, Detail: fmt.Sprintf("stride=%d must greater than 0.", stride)}
	}
	stop = min(stop, len(a.data)-1)
	if stop < start {
		return FromSlice([]T{}, WithTolerance(a.tol)), nil
	}
	out := make([]T, 0, StrideWillFind(stop-start+1, stride))
	for i := start; i <= stop; i += stride {
		out = append(out, a.data[i])
	}
	return FromSlice(out, WithTolerance(a.tol)), nil
}

// StrideWillFind returns how many of n consecutive elements a stride visits.
func StrideWillFind(n, stride int) int {
	return 1 + (n-1)/stride
}
