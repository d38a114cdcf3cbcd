package array

import (
	"math"
	"strings"

	"github.com/hupe1980/colarray/internal/num"
)

// Simplify returns the narrowest array that holds the same values: byte, short,
// int, float or double. The rules, in order of precedence:
//   - a String element with a leading zero followed by a digit ("0153") is an
//     identifier, so the array stays String;
//   - a String element that is not a number (other than "", "." and "NaN") keeps the
//     array String;
//   - a String element containing '.' forces at least float;
//   - whole numbers beyond the int range become String, not long, because such
//     values are usually identifiers.
//
// Float and Double arrays of whole values narrow to integer kinds like any other
// array, but whole values beyond the int range keep them floating (float when
// every value survives float32).
//
// The result may be the receiver itself when no narrower kind applies. Simplify is
// idempotent.
func (a *Typed[T]) Simplify() Array {
	const (
		toByte = iota
		toShort
		toInt
		toLong
		toFloat
		toDouble
	)
	kind := a.tr.kind
	isString := kind == String
	n := len(a.data)
	dar := make([]float64, n)
	floating := kind.IsFloating()
	target := toByte
	for i := range n {
		d := a.GetDouble(i)
		dar[i] = d
		if isString {
			s := a.GetString(i)
			if s == "" || s == "." || s == "NaN" {
				continue
			}
			if len(s) >= 2 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
				return a
			}
			if math.IsNaN(d) {
				return a
			}
			if strings.IndexByte(s, '.') >= 0 {
				target = max(target, toFloat)
			}
		}
		if math.IsNaN(d) {
			continue
		}
		whole := d == math.RoundToEven(d)
		if target == toByte && (!whole || d < math.MinInt8 || d > math.MaxInt8) {
			target++
			if kind == Char || kind == Short {
				return a
			}
		}
		if target == toShort && (!whole || d < math.MinInt16 || d > math.MaxInt16) {
			target++
			if kind == Int {
				return a
			}
		}
		if target == toInt && (!whole || d < math.MinInt32 || d > math.MaxInt32) {
			target++
			if kind == Long {
				return a
			}
		}
		if target == toLong && (floating || d != math.Floor(d+0.5) || d < math.MinInt64 || d > math.MaxInt64) {
			target++
			if kind == Float {
				return a
			}
		}
		if target == toFloat && (d < -math.MaxFloat32 || d > math.MaxFloat32 || d != num.NiceDouble(d, 7)) {
			target++
			if kind == Double {
				return a
			}
		}
	}

	switch target {
	case toByte:
		return FromSlice(mapDoubles(dar, num.RoundToByte), WithTolerance(a.tol))
	case toShort:
		return FromSlice(mapDoubles(dar, num.RoundToShort), WithTolerance(a.tol))
	case toInt:
		return FromSlice(mapDoubles(dar, num.RoundToInt), WithTolerance(a.tol))
	case toLong:
		// Only text reaches here; wide integers stay text.
		return a
	case toFloat:
		if kind == Float {
			return a
		}
		return FromSlice(mapDoubles(dar, func(d float64) float32 { return float32(d) }), WithTolerance(a.tol))
	default:
		return FromSlice(dar, WithTolerance(a.tol))
	}
}

func mapDoubles[T Element](dar []float64, fn func(float64) T) []T {
	out := make([]T, len(dar))
	for i, d := range dar {
		out[i] = fn(d)
	}
	return out
}
