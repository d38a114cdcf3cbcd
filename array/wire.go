package array

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// The binary form of an array is a big-endian int32 element count followed by the
// elements: fixed width for numeric kinds, and an int32 byte length plus the UTF-8
// bytes for each String.
//
// The DODS form writes the count twice. Byte elements are packed and padded with
// zeros to a multiple of 4, Short and Char elements are widened to int32, and each
// String is an int32 length, its bytes and zero padding to a multiple of 4.

// WriteBinary writes the array in binary form.
func (a *Typed[T]) WriteBinary(w io.Writer) error {
	if err := writeInt32(w, len(a.data)); err != nil {
		return err
	}
	if a.tr.kind == String {
		for _, v := range a.data {
			if err := writeString(w, any(v).(string), false); err != nil {
				return err
			}
		}
		return nil
	}
	buf := make([]byte, len(a.data)*a.tr.width)
	for i, v := range a.data {
		a.tr.encode(buf[i*a.tr.width:], v)
	}
	_, err := w.Write(buf)
	return err
}

// ReadBinary reads an array in binary form and appends its elements. On error
// the array is unchanged.
func (a *Typed[T]) ReadBinary(r io.Reader) error {
	n, err := readCount(r)
	if err != nil {
		return err
	}
	var vals []T
	if a.tr.kind == String {
		vals, err = a.readStrings(r, n, false)
	} else {
		vals, err = a.readFixed(r, n, a.tr.width, a.tr.decode)
	}
	if err != nil {
		return err
	}
	return a.appendDecoded(vals)
}

// maxPrealloc bounds the elements allocated ahead of the bytes that hold them, so
// a corrupt count cannot allocate more than the input backs.
const maxPrealloc = 1 << 16

func (a *Typed[T]) appendDecoded(vals []T) error {
	if err := a.EnsureCapacity(len(a.data) + len(vals)); err != nil {
		return err
	}
	a.data = append(a.data, vals...)
	return nil
}

func (a *Typed[T]) readFixed(r io.Reader, n, width int, decode func([]byte) T) ([]T, error) {
	vals := make([]T, 0, min(n, maxPrealloc))
	buf := make([]byte, min(n, maxPrealloc)*width)
	for len(vals) < n {
		chunk := buf[:min(n-len(vals), maxPrealloc)*width]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("%s: read %d elements: %w", a.tr.kind.TypeName(), n, err)
		}
		for i := 0; i < len(chunk); i += width {
			vals = append(vals, decode(chunk[i:]))
		}
	}
	return vals, nil
}

func (a *Typed[T]) readStrings(r io.Reader, n int, padded bool) ([]T, error) {
	vals := make([]T, 0, min(n, maxPrealloc))
	for range n {
		s, err := readString(r, padded)
		if err != nil {
			return nil, fmt.Errorf("%s: read element %d of %d: %w", a.tr.kind.TypeName(), len(vals), n, err)
		}
		vals = append(vals, any(s).(T))
	}
	return vals, nil
}

// WriteDODS writes the array in DODS form.
func (a *Typed[T]) WriteDODS(w io.Writer) error {
	for range 2 {
		if err := writeInt32(w, len(a.data)); err != nil {
			return err
		}
	}
	switch a.tr.kind {
	case String:
		for _, v := range a.data {
			if err := writeString(w, any(v).(string), true); err != nil {
				return err
			}
		}
		return nil
	case Short, Char:
		buf := make([]byte, 4*len(a.data))
		for i := range a.data {
			binary.BigEndian.PutUint32(buf[4*i:], uint32(a.dodsInt(i)))
		}
		_, err := w.Write(buf)
		return err
	case Byte:
		buf := make([]byte, pad4(len(a.data)))
		for i, v := range a.data {
			a.tr.encode(buf[i:], v)
		}
		_, err := w.Write(buf)
		return err
	case Int, Long, Float, Double:
		buf := make([]byte, len(a.data)*a.tr.width)
		for i, v := range a.data {
			a.tr.encode(buf[i*a.tr.width:], v)
		}
		_, err := w.Write(buf)
		return err
	}
	return &UnsupportedKindError{Op: "WriteDODS", Kind: a.tr.kind}
}

func (a *Typed[T]) dodsInt(i int) int32 {
	switch v := any(a.data[i]).(type) {
	case int16:
		return int32(v)
	case uint16:
		return int32(v)
	}
	return 0
}

// ReadDODS reads an array in DODS form and appends its elements. On error the
// array is unchanged.
func (a *Typed[T]) ReadDODS(r io.Reader) error {
	n, err := readCount(r)
	if err != nil {
		return err
	}
	if _, err := readCount(r); err != nil {
		return err
	}
	var vals []T
	switch a.tr.kind {
	case String:
		vals, err = a.readStrings(r, n, true)
	case Short, Char:
		vals, err = a.readFixed(r, n, 4, func(b []byte) T {
			return a.tr.fromLong(int64(int32(binary.BigEndian.Uint32(b))))
		})
	case Byte:
		if vals, err = a.readFixed(r, n, 1, a.tr.decode); err == nil {
			_, err = io.CopyN(io.Discard, r, int64(pad4(n)-n))
		}
	case Int, Long, Float, Double:
		vals, err = a.readFixed(r, n, a.tr.width, a.tr.decode)
	default:
		return &UnsupportedKindError{Op: "ReadDODS", Kind: a.tr.kind}
	}
	if err != nil {
		return err
	}
	return a.appendDecoded(vals)
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func writeInt32(w io.Writer, n int) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(int32(n)))
	_, err := w.Write(b[:])
	return err
}

func readCount(r io.Reader) (int, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	n := int32(binary.BigEndian.Uint32(b[:]))
	if n < 0 || int64(n) > MaxCapacity {
		return 0, fmt.Errorf("invalid element count %d", n)
	}
	return int(n), nil
}

func writeString(w io.Writer, s string, padded bool) error {
	if len(s) > math.MaxInt32 {
		return fmt.Errorf("string of %d bytes is too long", len(s))
	}
	n := len(s)
	size := n
	if padded {
		size = pad4(n)
	}
	buf := make([]byte, 4+size)
	binary.BigEndian.PutUint32(buf, uint32(n))
	copy(buf[4:], s)
	_, err := w.Write(buf)
	return err
}

// readString reads a length-prefixed string. The bytes are read as they arrive
// rather than allocated from the untrusted length.
func readString(r io.Reader, padded bool) (string, error) {
	n, err := readCount(r)
	if err != nil {
		return "", err
	}
	size := n
	if padded {
		size = pad4(n)
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return "", err
	}
	if len(buf) < size {
		return "", io.ErrUnexpectedEOF
	}
	return string(buf[:n]), nil
}
