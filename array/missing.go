package array

import (
	"math"

	"github.com/hupe1980/colarray/internal/num"
)

// SwitchFromTo replaces every element equal to from with to and returns the number
// of replacements. from and to are parsed into the element kind, so "" (or "NaN")
// denotes the missing value. Float and Double elements match from when almost equal
// to it (Tolerance().Loose digits for Float, Tolerance().Strict for Double).
func (a *Typed[T]) SwitchFromTo(from, to string) int {
	switch a.tr.kind {
	case Float, Double:
		f, t := num.ParseDouble(from), num.ParseDouble(to)
		if (math.IsNaN(f) && math.IsNaN(t)) || f == t {
			return 0
		}
		digits := a.tol.Strict
		if a.tr.kind == Float {
			digits = a.tol.Loose
		}
		tv := a.tr.fromDouble(t)
		count := 0
		for i, v := range a.data {
			d := a.tr.toDouble(v)
			var match bool
			if math.IsNaN(f) {
				match = math.IsNaN(d)
			} else {
				match = num.AlmostEqual(digits, d, f)
			}
			if match {
				a.data[i] = tv
				count++
			}
		}
		return count
	case String:
		return a.replaceAll(a.tr.fromString(from), a.tr.fromString(to))
	default:
		return a.replaceAll(a.tr.fromDouble(num.ParseDouble(from)), a.tr.fromDouble(num.ParseDouble(to)))
	}
}

func (a *Typed[T]) replaceAll(from, to T) int {
	if from == to {
		return 0
	}
	count := 0
	for i, v := range a.data {
		if v == from {
			a.data[i] = to
			count++
		}
	}
	return count
}

// ConvertToStandardMissingValues replaces the fake fill and missing values used by
// external sources with the kind's missing value. NaN arguments are ignored and
// String arrays are left alone.
func (a *Typed[T]) ConvertToStandardMissingValues(fakeFill, fakeMissing float64) int {
	if a.tr.kind == String {
		return 0
	}
	n := 0
	if !math.IsNaN(fakeFill) {
		n += a.SwitchFromTo(num.FormatDouble(fakeFill), "")
	}
	if !math.IsNaN(fakeMissing) && fakeMissing != fakeFill {
		n += a.SwitchFromTo(num.FormatDouble(fakeMissing), "")
	}
	return n
}

// SwitchNaNToFakeMissingValue replaces missing values with fakeMissing, which must be
// finite. String arrays are left alone.
func (a *Typed[T]) SwitchNaNToFakeMissingValue(fakeMissing float64) int {
	if !num.IsFinite(fakeMissing) || a.tr.kind == String {
		return 0
	}
	return a.SwitchFromTo("", num.FormatDouble(fakeMissing))
}

// SwitchFakeMissingValueToNaN replaces fakeMissing with NaN in Float and Double arrays.
func (a *Typed[T]) SwitchFakeMissingValueToNaN(fakeMissing float64) int {
	if !num.IsFinite(fakeMissing) || !a.tr.kind.IsFloating() {
		return 0
	}
	return a.SwitchFromTo(num.FormatDouble(fakeMissing), "")
}

// ScaleAddOffset sets every element to value*scale + offset. Missing values stay
// missing.
func (a *Typed[T]) ScaleAddOffset(scale, offset float64) {
	if scale == 1 && offset == 0 {
		return
	}
	for i := range a.data {
		a.SetDouble(i, a.GetDouble(i)*scale+offset)
	}
}

// AddOffsetScale sets every element to (value + offset)*scale. Missing values stay
// missing.
func (a *Typed[T]) AddOffsetScale(offset, scale float64) {
	if scale == 1 && offset == 0 {
		return
	}
	for i := range a.data {
		a.SetDouble(i, (a.GetDouble(i)+offset)*scale)
	}
}

// ScaleAddOffsetAs returns a new array of kind holding value*scale + offset for every
// element of src, the usual way packed integers are unpacked into floats.
func ScaleAddOffsetAs(kind Kind, src Array, scale, offset float64) (Array, error) {
	dst, err := New(kind, src.Len(), true)
	if err != nil {
		return nil, err
	}
	for i := range src.Len() {
		dst.SetDouble(i, src.GetDouble(i)*scale+offset)
	}
	return dst, nil
}
