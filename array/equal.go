package array

import (
	"math"

	"github.com/hupe1980/colarray/internal/num"
	"github.com/hupe1980/colarray/internal/text"
)

// CheckEqual returns nil if other has the same kind and the same elements (missing
// values equal each other), and an error describing the first difference otherwise.
func (a *Typed[T]) CheckEqual(other Array) error {
	o, ok := other.(*Typed[T])
	if !ok {
		return &DifferentKindError{Kind: a.tr.kind, Other: other.Kind()}
	}
	if len(o.data) != len(a.data) {
		return &DifferentSizeError{Size: len(a.data), OtherSize: len(o.data)}
	}
	for i, v := range a.data {
		if a.tr.compare(v, o.data[i]) != 0 {
			return &DifferentValueError{Index: i, Value: a.tr.format(v), Other: a.tr.format(o.data[i])}
		}
	}
	return nil
}

// Equal reports whether other has the same kind and the same elements.
func (a *Typed[T]) Equal(other Array) bool {
	return a.CheckEqual(other) == nil
}

// DiffIndex returns the first index where the text values of the two arrays differ,
// the shorter length if one is a prefix of the other, or -1 if they are the same.
func (a *Typed[T]) DiffIndex(other Array) int {
	n, on := len(a.data), other.Len()
	for i := 0; ; i++ {
		if i == n && n == on {
			return -1
		}
		if i == n || i == on {
			return i
		}
		if a.GetString(i) != other.GetString(i) {
			return i
		}
	}
}

// Diff returns nil if the text values of the two arrays are the same, and a
// *DifferentValueError for the first difference otherwise.
func (a *Typed[T]) Diff(other Array) error {
	i := a.DiffIndex(other)
	if i < 0 {
		return nil
	}
	e := &DifferentValueError{Index: i}
	if i < len(a.data) {
		e.Value = a.GetString(i)
	}
	if i < other.Len() {
		e.Other = other.GetString(i)
	}
	return e
}

// AlmostEqual compares the values of two arrays of possibly different kinds in the
// widest common form: text if either is String, longs if both are Long, doubles
// (Tolerance().Strict digits) if either is Double or Long, floats (Tolerance().Loose
// digits) if either is Float, ints otherwise. Missing values equal each other.
func (a *Typed[T]) AlmostEqual(other Array) error {
	n := len(a.data)
	if n != other.Len() {
		return &DifferentSizeError{Size: n, OtherSize: other.Len()}
	}
	k1, k2 := a.tr.kind, other.Kind()
	either := func(k Kind) bool { return k1 == k || k2 == k }
	for i := range n {
		var same bool
		var v1, v2 string
		switch {
		case either(String):
			v1, v2 = a.GetString(i), other.GetString(i)
			same = v1 == v2
			v1, v2 = text.ToJSON(v1), text.ToJSON(v2)
		case k1 == Long && k2 == Long:
			l1, l2 := a.GetLong(i), other.GetLong(i)
			same = l1 == l2
			v1, v2 = num.FormatDouble(float64(l1)), num.FormatDouble(float64(l2))
		case either(Double) || either(Long):
			d1, d2 := a.GetDouble(i), other.GetDouble(i)
			same = almostEqualOrBothNaN(a.tol.Strict, d1, d2)
			v1, v2 = num.FormatDouble(d1), num.FormatDouble(d2)
		case either(Float):
			f1, f2 := a.GetFloat(i), other.GetFloat(i)
			same = almostEqualOrBothNaN(a.tol.Loose, float64(f1), float64(f2))
			v1, v2 = num.FormatFloat(f1), num.FormatFloat(f2)
		default:
			i1, i2 := a.GetInt(i), other.GetInt(i)
			same = i1 == i2
			v1, v2 = num.FormatDouble(float64(i1)), num.FormatDouble(float64(i2))
		}
		if !same {
			return &DifferentValueError{Index: i, Value: v1, Other: v2}
		}
	}
	return nil
}

func almostEqualOrBothNaN(digits int, d1, d2 float64) bool {
	if math.IsNaN(d1) || math.IsNaN(d2) {
		return math.IsNaN(d1) && math.IsNaN(d2)
	}
	return d1 == d2 || num.AlmostEqual(digits, d1, d2)
}
