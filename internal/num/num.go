// Package num holds the numeric helpers shared by the typed arrays: tolerant
// equality, "nice" rounding, saturating narrowing conversions and lenient parsing.
package num

import "math"

const (
	// FloatEpsilon is the near-zero threshold used for comparisons with fewer than 6 digits.
	FloatEpsilon = 1e-5
	// DoubleEpsilon is the near-zero threshold used for comparisons with 6 or more digits.
	DoubleEpsilon = 1e-13
)

var tens = func() [19]float64 {
	var t [19]float64
	v := 1.0
	for i := range t {
		t[i] = v
		v *= 10
	}
	return t
}()

// Ten returns 10^n.
func Ten(n int) float64 {
	if n >= 0 && n < len(tens) {
		return tens[n]
	}
	return math.Pow(10, float64(n))
}

// AlmostEqual reports whether d1 and d2 are equal to at least n significant digits,
// or are both almost 0. NaN and infinite values are never almost equal.
func AlmostEqual(n int, d1, d2 float64) bool {
	eps := FloatEpsilon
	if n >= 6 {
		eps = DoubleEpsilon
	}
	t := Ten(n)
	if math.Abs(d2) < eps {
		if math.Abs(d1) < eps {
			return true
		}
		return math.RoundToEven(d2/d1*t) == t
	}
	return math.RoundToEven(d1/d2*t) == t
}

// IsFinite reports whether d is neither NaN nor infinite.
func IsFinite(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}

// IntExponent returns the base-10 exponent of |d|, e.g. 1234 -> 3.
func IntExponent(d float64) int {
	return int(math.Floor(math.Log10(math.Abs(d))))
}

// NiceDouble un-bruises d to nDigits significant digits (8.9999999 -> 9).
func NiceDouble(d float64, nDigits int) float64 {
	if !IsFinite(d) {
		return d
	}
	if d == 0 {
		return 0
	}
	t := Ten(nDigits - IntExponent(d) - 1)
	return math.Floor(d*t+0.5) / t
}

// FloatToDouble widens a float32 value without binary noise (0.1f -> 0.1).
func FloatToDouble(f float32) float64 {
	return NiceDouble(float64(f), 7)
}

// DoubleToFloatNaN narrows d to float32; non-finite or out of range values become NaN.
func DoubleToFloatNaN(d float64) float32 {
	if IsFinite(d) && math.Abs(d) <= math.MaxFloat32 {
		return float32(d)
	}
	return float32(math.NaN())
}

// javaRound rounds half up, the way Math.round does.
func javaRound(d float64) float64 {
	return math.Floor(d + 0.5)
}

// RoundToByte rounds d to an int8; out of range or non-finite values become MaxInt8.
func RoundToByte(d float64) int8 {
	if d > math.MaxInt8 || d <= math.MinInt8-0.5 || !IsFinite(d) {
		return math.MaxInt8
	}
	return int8(javaRound(d))
}

// RoundToShort rounds d to an int16; out of range or non-finite values become MaxInt16.
func RoundToShort(d float64) int16 {
	if d > math.MaxInt16 || d <= math.MinInt16-0.5 || !IsFinite(d) {
		return math.MaxInt16
	}
	return int16(javaRound(d))
}

// RoundToChar rounds d to a uint16; out of range or non-finite values become MaxUint16.
func RoundToChar(d float64) uint16 {
	if d > math.MaxUint16 || d <= -0.5 || !IsFinite(d) {
		return math.MaxUint16
	}
	return uint16(javaRound(d))
}

// RoundToInt rounds d to an int32; out of range or non-finite values become MaxInt32.
func RoundToInt(d float64) int32 {
	if d > math.MaxInt32 || d <= math.MinInt32-0.5 || !IsFinite(d) {
		return math.MaxInt32
	}
	return int32(javaRound(d))
}

// RoundToLong rounds d to an int64; out of range or non-finite values become MaxInt64.
func RoundToLong(d float64) int64 {
	if !IsFinite(d) || d <= math.MinInt64-0.5 {
		return math.MaxInt64
	}
	r := javaRound(d)
	if r >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(r)
}

// NarrowLong maps a long into [lo, hi], returning missing when it does not fit or is
// the long sentinel.
func NarrowLong(v, lo, hi, missing int64) int64 {
	if v == math.MaxInt64 || v < lo || v > hi {
		return missing
	}
	return v
}
