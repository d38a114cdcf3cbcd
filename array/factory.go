package array

import (
	"fmt"

	"github.com/hupe1980/colarray/internal/text"
)

// New returns an empty array of kind with room for capacity elements. If active is
// true the array instead holds capacity zero values.
func New(kind Kind, capacity int, active bool, opts ...Option) (Array, error) {
	if capacity < 0 || int64(capacity) > MaxCapacity {
		return nil, &CapacityError{Kind: kind, Requested: int64(capacity), Limit: MaxCapacity}
	}
	switch kind {
	case Byte:
		return NewByte(capacity, active, opts...), nil
	case Short:
		return NewShort(capacity, active, opts...), nil
	case Char:
		return NewChar(capacity, active, opts...), nil
	case Int:
		return NewInt(capacity, active, opts...), nil
	case Long:
		return NewLong(capacity, active, opts...), nil
	case Float:
		return NewFloat(capacity, active, opts...), nil
	case Double:
		return NewDouble(capacity, active, opts...), nil
	case String:
		return NewString(capacity, active, opts...), nil
	}
	return nil, &UnsupportedKindError{Op: "New", Kind: kind}
}

// MustNew is New for kinds and capacities known to be valid.
func MustNew(kind Kind, capacity int, active bool, opts ...Option) Array {
	a, err := New(kind, capacity, active, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Constant returns an array of kind holding n copies of value parsed into that kind.
// Char arrays take the first character of value.
func Constant(kind Kind, n int, value string, opts ...Option) (Array, error) {
	a, err := New(kind, n, false, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.AddNStrings(n, value); err != nil {
		return nil, err
	}
	return a, nil
}

// FromArray returns other converted to kind. If other already has that kind it is
// returned as is.
func FromArray(kind Kind, other Array, opts ...Option) (Array, error) {
	if other.Kind() == kind {
		return other, nil
	}
	a, err := New(kind, other.Len(), false, opts...)
	if err != nil {
		return nil, err
	}
	a.Append(other)
	return a, nil
}

// FromStrings returns an array of kind holding values parsed into that kind.
func FromStrings(kind Kind, values []string, opts ...Option) (Array, error) {
	if kind == String {
		return FromSlice(values, opts...), nil
	}
	a, err := New(kind, len(values), false, opts...)
	if err != nil {
		return nil, err
	}
	for _, s := range values {
		a.AddString(s)
	}
	return a, nil
}

// FromCSV returns an array of kind holding the comma separated values of csv.
// Quoted values may contain commas.
func FromCSV(kind Kind, csv string, opts ...Option) (Array, error) {
	return FromStrings(kind, text.SplitCSV(csv), opts...)
}

// FromSSV returns an array of kind holding the space separated words and quoted
// phrases of ssv.
func FromSSV(kind Kind, ssv string, opts ...Option) (Array, error) {
	return FromStrings(kind, text.WordsAndQuotedPhrases(ssv), opts...)
}

// FromValues wraps a Go slice (or a single value) in the array of the matching kind.
// []int becomes a LongArray and []bool a ByteArray of 0 and 1; []any becomes a
// StringArray of the values' default formatting.
func FromValues(v any, opts ...Option) (Array, error) {
	switch vs := v.(type) {
	case Array:
		return vs, nil
	case []int8:
		return FromSlice(vs, opts...), nil
	case []int16:
		return FromSlice(vs, opts...), nil
	case []uint16:
		return FromSlice(vs, opts...), nil
	case []int32:
		return FromSlice(vs, opts...), nil
	case []int64:
		return FromSlice(vs, opts...), nil
	case []float32:
		return FromSlice(vs, opts...), nil
	case []float64:
		return FromSlice(vs, opts...), nil
	case []string:
		return FromSlice(vs, opts...), nil
	case []int:
		a := NewLong(len(vs), false, opts...)
		for _, x := range vs {
			a.Add(int64(x))
		}
		return a, nil
	case []bool:
		a := NewByte(len(vs), false, opts...)
		for _, b := range vs {
			a.Add(boolByte(b))
		}
		return a, nil
	case []any:
		a := NewString(len(vs), false, opts...)
		for _, x := range vs {
			a.Add(fmt.Sprint(x))
		}
		return a, nil
	case int8:
		return FromSlice([]int8{vs}, opts...), nil
	case int16:
		return FromSlice([]int16{vs}, opts...), nil
	case uint16:
		return FromSlice([]uint16{vs}, opts...), nil
	case int32:
		return FromSlice([]int32{vs}, opts...), nil
	case int64:
		return FromSlice([]int64{vs}, opts...), nil
	case int:
		return FromSlice([]int64{int64(vs)}, opts...), nil
	case bool:
		return FromSlice([]int8{boolByte(vs)}, opts...), nil
	case float32:
		return FromSlice([]float32{vs}, opts...), nil
	case float64:
		return FromSlice([]float64{vs}, opts...), nil
	case string:
		return FromSlice([]string{vs}, opts...), nil
	}
	return nil, &UnsupportedKindError{Op: "FromValues", Value: v}
}

func boolByte(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
