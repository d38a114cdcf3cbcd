package array

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingValue is wrapped by errors that report a missing value where a real
	// one was required.
	ErrMissingValue = errors.New("missing value")
	// ErrNotFloating is returned by operations defined only for Float and Double arrays.
	ErrNotFloating = errors.New("operation requires a floating point array")
)

// IndexError reports an index outside [0, size).
//
// Element accessors panic with an *IndexError, the same way slice indexing panics;
// structural mutators return it.
type IndexError struct {
	Op    string
	Kind  Kind
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s.%s: index (%d) >= size (%d)", e.Kind.TypeName(), e.Op, e.Index, e.Size)
}

// NegativeCountError reports a negative repeat count passed to an AddN method.
type NegativeCountError struct {
	Kind Kind
	N    int
}

func (e *NegativeCountError) Error() string {
	return fmt.Sprintf("in %s.addN: n (%d) < 0.", e.Kind.TypeName(), e.N)
}

// RangeError reports malformed range arguments (remove, move, subset, search bounds).
type RangeError struct {
	Op     string
	Kind   Kind
	Detail string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Kind.TypeName(), e.Op, e.Detail)
}

// CapacityError reports a requested capacity beyond the per-array element limit.
// It is returned before any mutation takes place.
type CapacityError struct {
	Kind      Kind
	Requested int64
	Limit     int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: requested capacity %d exceeds the limit of %d elements", e.Kind.TypeName(), e.Requested, e.Limit)
}

// UnsupportedKindError reports a kind (or a Go value) that an operation cannot handle.
type UnsupportedKindError struct {
	Op    string
	Kind  Kind
	Name  string
	Value any
}

func (e *UnsupportedKindError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s: unsupported element type %q", e.Op, e.Name)
	case e.Value != nil:
		return fmt.Sprintf("%s: unsupported value type %T", e.Op, e.Value)
	default:
		return fmt.Sprintf("%s: element type %s is not supported", e.Op, e.Kind)
	}
}

// NotAscendingError reports the first place where an array is not sorted ascending.
type NotAscendingError struct {
	Kind   Kind
	Index  int
	Detail string
}

func (e *NotAscendingError) Error() string {
	return fmt.Sprintf("%s isn't sorted in ascending order: %s.", e.Kind.TypeName(), e.Detail)
}

// NotDescendingError reports the first place where an array is not sorted descending.
type NotDescendingError struct {
	Kind   Kind
	Index  int
	Detail string
}

func (e *NotDescendingError) Error() string {
	return fmt.Sprintf("%s isn't sorted in descending order: %s.", e.Kind.TypeName(), e.Detail)
}

// NotEvenlySpacedError reports the first pair of elements whose spacing differs
// from the average spacing.
type NotEvenlySpacedError struct {
	Kind     Kind
	Index1   int
	Value1   string
	Index2   int
	Value2   string
	Spacing  string
	Expected string
}

func (e *NotEvenlySpacedError) Error() string {
	return fmt.Sprintf("%s isn't evenly spaced: [%d]=%s, [%d]=%s, spacing=%s, expected spacing=%s.",
		e.Kind.TypeName(), e.Index1, e.Value1, e.Index2, e.Value2, e.Spacing, e.Expected)
}

// DifferentSizeError reports two arrays of different length.
type DifferentSizeError struct {
	Size, OtherSize int
}

func (e *DifferentSizeError) Error() string {
	return fmt.Sprintf("The two arrays have different sizes: %d != %d.", e.Size, e.OtherSize)
}

// DifferentValueError reports the first differing element of two arrays.
type DifferentValueError struct {
	Index       int
	Value, Other string
}

func (e *DifferentValueError) Error() string {
	return fmt.Sprintf("The two arrays aren't equal: [%d]=%s != %s.", e.Index, e.Value, e.Other)
}

// DifferentKindError reports two arrays of different element types.
type DifferentKindError struct {
	Kind, Other Kind
}

func (e *DifferentKindError) Error() string {
	return fmt.Sprintf("The two arrays have different element types: %s != %s.", e.Kind, e.Other)
}
