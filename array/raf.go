package array

import (
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/colarray/internal/iox"
)

// Random access layout: the elements of one column are stored contiguously from a
// byte offset, element k at offset + k*Kind.Width(), big-endian. String columns have
// no fixed width and are not supported by these helpers.
//
// All helpers read and write through io.ReaderAt and io.WriterAt with explicit
// offsets, so concurrent readers of the same file are safe.

func rafWidth(op string, kind Kind) (int64, error) {
	w := kind.Width()
	if w == 0 || !kind.Valid() {
		return 0, &UnsupportedKindError{Op: op, Kind: kind}
	}
	return int64(w), nil
}

func decodeDouble[T Element](tr *traits[T], b []byte) float64 {
	return tr.toDouble(tr.decode(b))
}

func encodeDouble[T Element](tr *traits[T], b []byte, d float64) {
	tr.encode(b, tr.fromDouble(d))
}

// kindDecoder returns a function decoding one element of kind as a double; the
// kind's missing value decodes as NaN.
func kindDecoder(kind Kind) func([]byte) float64 {
	switch kind {
	case Byte:
		return func(b []byte) float64 { return decodeDouble(byteTraits, b) }
	case Short:
		return func(b []byte) float64 { return decodeDouble(shortTraits, b) }
	case Char:
		return func(b []byte) float64 { return decodeDouble(charTraits, b) }
	case Int:
		return func(b []byte) float64 { return decodeDouble(intTraits, b) }
	case Long:
		return func(b []byte) float64 { return decodeDouble(longTraits, b) }
	case Float:
		return func(b []byte) float64 { return decodeDouble(floatTraits, b) }
	case Double:
		return func(b []byte) float64 { return decodeDouble(doubleTraits, b) }
	}
	return nil
}

// kindEncoder returns a function encoding a double as one element of kind, using
// the kind's narrowing rule.
func kindEncoder(kind Kind) func([]byte, float64) {
	switch kind {
	case Byte:
		return func(b []byte, d float64) { encodeDouble(byteTraits, b, d) }
	case Short:
		return func(b []byte, d float64) { encodeDouble(shortTraits, b, d) }
	case Char:
		return func(b []byte, d float64) { encodeDouble(charTraits, b, d) }
	case Int:
		return func(b []byte, d float64) { encodeDouble(intTraits, b, d) }
	case Long:
		return func(b []byte, d float64) { encodeDouble(longTraits, b, d) }
	case Float:
		return func(b []byte, d float64) { encodeDouble(floatTraits, b, d) }
	case Double:
		return func(b []byte, d float64) { encodeDouble(doubleTraits, b, d) }
	}
	return nil
}

func rafReader(op string, r io.ReaderAt, kind Kind, off int64) (valueAt, error) {
	width, err := rafWidth(op, kind)
	if err != nil {
		return nil, err
	}
	decode := kindDecoder(kind)
	buf := make([]byte, width)
	return func(i int64) (float64, error) {
		if err := iox.ReadFullAt(r, buf, off+i*width); err != nil {
			return math.NaN(), fmt.Errorf("%s: read element %d: %w", op, i, err)
		}
		return decode(buf), nil
	}, nil
}

// ReadRAFValue reads element index of a column of kind stored at off.
func ReadRAFValue(r io.ReaderAt, kind Kind, off, index int64) (float64, error) {
	get, err := rafReader("ReadRAFValue", r, kind, off)
	if err != nil {
		return math.NaN(), err
	}
	return get(index)
}

// WriteRAFValue narrows v to kind and writes it as element index of the column at off.
func WriteRAFValue(w io.WriterAt, kind Kind, off, index int64, v float64) error {
	width, err := rafWidth("WriteRAFValue", kind)
	if err != nil {
		return err
	}
	buf := make([]byte, width)
	kindEncoder(kind)(buf, v)
	_, err = w.WriteAt(buf, off+index*width)
	return err
}

// ReadRAF reads n elements of a column of kind stored at off.
func ReadRAF(r io.ReaderAt, kind Kind, off int64, n int) (Array, error) {
	width, err := rafWidth("ReadRAF", kind)
	if err != nil {
		return nil, err
	}
	if n < 0 || int64(n) > MaxCapacity {
		return nil, &CapacityError{Kind: kind, Requested: int64(n), Limit: MaxCapacity}
	}
	buf := make([]byte, int64(n)*width)
	if n > 0 {
		if err := iox.ReadFullAt(r, buf, off); err != nil {
			return nil, fmt.Errorf("ReadRAF: read %d %s elements: %w", n, kind, err)
		}
	}
	switch kind {
	case Byte:
		return decodeAll(byteTraits, buf, n), nil
	case Short:
		return decodeAll(shortTraits, buf, n), nil
	case Char:
		return decodeAll(charTraits, buf, n), nil
	case Int:
		return decodeAll(intTraits, buf, n), nil
	case Long:
		return decodeAll(longTraits, buf, n), nil
	case Float:
		return decodeAll(floatTraits, buf, n), nil
	case Double:
		return decodeAll(doubleTraits, buf, n), nil
	}
	return nil, &UnsupportedKindError{Op: "ReadRAF", Kind: kind}
}

func decodeAll[T Element](tr *traits[T], buf []byte, n int) *Typed[T] {
	out := make([]T, n)
	for i := range out {
		out[i] = tr.decode(buf[i*tr.width:])
	}
	return FromSlice(out)
}

// WriteRAF writes every element in the random access layout starting at off.
func (a *Typed[T]) WriteRAF(w io.WriterAt, off int64) error {
	width, err := rafWidth("WriteRAF", a.tr.kind)
	if err != nil {
		return err
	}
	buf := make([]byte, int64(len(a.data))*width)
	for i, v := range a.data {
		a.tr.encode(buf[int64(i)*width:], v)
	}
	_, err = w.WriteAt(buf, off)
	return err
}

// RAFBinarySearch is BinarySearch over elements [lo, hi] of a file resident column.
func RAFBinarySearch(r io.ReaderAt, kind Kind, off, lo, hi int64, v float64) (int64, error) {
	if lo > hi {
		return 0, &RangeError{Op: "rafBinarySearch", Kind: kind,
			Detail: fmt.Sprintf("lowPo (%d) > highPo (%d).", lo, hi)}
	}
	get, err := rafReader("RAFBinarySearch", r, kind, off)
	if err != nil {
		return 0, err
	}
	return binarySearch(get, lo, hi, v)
}

// RAFFindFirstGE is BinaryFindFirstGE over a file resident column.
func RAFFindFirstGE(r io.ReaderAt, kind Kind, off, lo, hi int64, v float64) (int64, error) {
	get, err := rafReader("RAFFindFirstGE", r, kind, off)
	if err != nil {
		return 0, err
	}
	return findFirstGE(get, lo, hi, v)
}

// RAFFindLastLE is BinaryFindLastLE over a file resident column.
func RAFFindLastLE(r io.ReaderAt, kind Kind, off, lo, hi int64, v float64) (int64, error) {
	get, err := rafReader("RAFFindLastLE", r, kind, off)
	if err != nil {
		return 0, err
	}
	return findLastLE(get, lo, hi, v)
}

// RAFFindFirstGAE is BinaryFindFirstGAE over a file resident column, comparing to
// tol.Loose significant digits.
func RAFFindFirstGAE(r io.ReaderAt, kind Kind, off, lo, hi int64, v float64, tol Tolerance) (int64, error) {
	get, err := rafReader("RAFFindFirstGAE", r, kind, off)
	if err != nil {
		return 0, err
	}
	return findFirstGAE(get, lo, hi, v, tol.Loose)
}

// RAFFindLastLAE is BinaryFindLastLAE over a file resident column, comparing to
// tol.Loose significant digits.
func RAFFindLastLAE(r io.ReaderAt, kind Kind, off, lo, hi int64, v float64, tol Tolerance) (int64, error) {
	get, err := rafReader("RAFFindLastLAE", r, kind, off)
	if err != nil {
		return 0, err
	}
	return findLastLAE(get, lo, hi, v, tol.Loose)
}
