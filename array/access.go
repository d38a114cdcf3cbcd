package array

import "fmt"

// GetString returns element i as text; missing values become "".
func (a *Typed[T]) GetString(i int) string { return a.tr.toString(a.Get(i)) }

// GetFloat returns element i as a float32; missing values become NaN.
func (a *Typed[T]) GetFloat(i int) float32 { return a.tr.toFloat(a.Get(i)) }

// GetDouble returns element i as a float64; missing values become NaN.
func (a *Typed[T]) GetDouble(i int) float64 { return a.tr.toDouble(a.Get(i)) }

// GetInt returns element i as an int32; missing or out of range values become MaxInt32.
func (a *Typed[T]) GetInt(i int) int32 { return a.tr.toInt(a.Get(i)) }

// GetLong returns element i as an int64; missing or out of range values become MaxInt64.
func (a *Typed[T]) GetLong(i int) int64 { return a.tr.toLong(a.Get(i)) }

// SetString parses s into element i; unparseable text becomes the missing value.
func (a *Typed[T]) SetString(i int, s string) { a.Set(i, a.tr.fromString(s)) }

// SetFloat narrows f into element i.
func (a *Typed[T]) SetFloat(i int, f float32) { a.Set(i, a.tr.fromFloat(f)) }

// SetDouble narrows d into element i.
func (a *Typed[T]) SetDouble(i int, d float64) { a.Set(i, a.tr.fromDouble(d)) }

// SetInt narrows v into element i.
func (a *Typed[T]) SetInt(i int, v int32) { a.Set(i, a.tr.fromInt(v)) }

// SetLong narrows v into element i.
func (a *Typed[T]) SetLong(i int, v int64) { a.Set(i, a.tr.fromLong(v)) }

// SetFrom sets element i from element otherIndex of other.
func (a *Typed[T]) SetFrom(i int, other Array, otherIndex int) {
	a.Set(i, a.convertAt(other, otherIndex))
}

// AddString appends the parsed value of s.
func (a *Typed[T]) AddString(s string) { a.Add(a.tr.fromString(s)) }

// AddFloat appends f, narrowed to the element kind.
func (a *Typed[T]) AddFloat(f float32) { a.Add(a.tr.fromFloat(f)) }

// AddDouble appends d, narrowed to the element kind.
func (a *Typed[T]) AddDouble(d float64) { a.Add(a.tr.fromDouble(d)) }

// AddInt appends v, narrowed to the element kind.
func (a *Typed[T]) AddInt(v int32) { a.Add(a.tr.fromInt(v)) }

// AddLong appends v, narrowed to the element kind.
func (a *Typed[T]) AddLong(v int64) { a.Add(a.tr.fromLong(v)) }

// AddNStrings appends n copies of the parsed value of s.
func (a *Typed[T]) AddNStrings(n int, s string) error { return a.AddN(n, a.tr.fromString(s)) }

// AddNDoubles appends n copies of d, narrowed to the element kind.
func (a *Typed[T]) AddNDoubles(n int, d float64) error { return a.AddN(n, a.tr.fromDouble(d)) }

// InsertString inserts the parsed value of s at index.
func (a *Typed[T]) InsertString(index int, s string) error {
	return a.Insert(index, a.tr.fromString(s))
}

// AddFrom appends n elements of other starting at otherIndex.
func (a *Typed[T]) AddFrom(other Array, otherIndex, n int) error {
	if n < 0 {
		return &NegativeCountError{Kind: a.tr.kind, N: n}
	}
	if otherIndex < 0 || otherIndex+n > other.Len() {
		return &RangeError{Op: "addFrom", Kind: a.tr.kind,
			Detail: fmt.Sprintf("otherIndex (%d) + n (%d) > other size (%d).", otherIndex, n, other.Len())}
	}
	if err := a.EnsureCapacity(len(a.data) + n); err != nil {
		return err
	}
	if o, ok := other.(*Typed[T]); ok {
		a.data = append(a.data, o.data[otherIndex:otherIndex+n]...)
		return nil
	}
	for i := otherIndex; i < otherIndex+n; i++ {
		a.data = append(a.data, a.convertAt(other, i))
	}
	return nil
}

// Append adds every element of other, narrowed to this array's kind.
func (a *Typed[T]) Append(other Array) {
	n := other.Len()
	if err := a.AddFrom(other, 0, n); err != nil {
		panic(err)
	}
}

// convertAt reads element i of other in the form that converts best into T: text for
// String arrays, exact longs between integer kinds, doubles otherwise.
func (a *Typed[T]) convertAt(other Array, i int) T {
	switch {
	case a.tr.kind == String:
		return a.tr.fromString(other.GetString(i))
	case a.tr.kind.IsIntegral() && other.Kind().IsIntegral():
		return a.tr.fromLong(other.GetLong(i))
	default:
		return a.tr.fromDouble(other.GetDouble(i))
	}
}

// IndexOf returns the first index >= from holding v, or -1.
func (a *Typed[T]) IndexOf(v T, from int) int {
	for i := max(from, 0); i < len(a.data); i++ {
		if a.tr.compare(a.data[i], v) == 0 {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the last index <= from holding v, or -1.
func (a *Typed[T]) LastIndexOf(v T, from int) int {
	for i := min(from, len(a.data)-1); i >= 0; i-- {
		if a.tr.compare(a.data[i], v) == 0 {
			return i
		}
	}
	return -1
}

// IndexOfString is IndexOf for the parsed value of s.
func (a *Typed[T]) IndexOfString(s string, from int) int {
	return a.IndexOf(a.tr.fromString(s), from)
}

// LastIndexOfString is LastIndexOf for the parsed value of s.
func (a *Typed[T]) LastIndexOfString(s string, from int) int {
	return a.LastIndexOf(a.tr.fromString(s), from)
}
