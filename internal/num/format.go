package num

import (
	"math"
	"strconv"
	"strings"
)

// FormatDouble renders d in the canonical text form used by the arrays: the shortest
// representation that round-trips, always with a fractional part ("3.0"), switching to
// "1.5E10" notation outside [1e-3, 1e7).
func FormatDouble(d float64) string {
	return formatCanonical(d, 64)
}

// FormatFloat is FormatDouble for float32 values; the digits are the shortest that
// round-trip through float32.
func FormatFloat(f float32) string {
	return formatCanonical(float64(f), 32)
}

func formatCanonical(d float64, bitSize int) string {
	switch {
	case math.IsNaN(d):
		return "NaN"
	case math.IsInf(d, 1):
		return "Infinity"
	case math.IsInf(d, -1):
		return "-Infinity"
	case d == 0:
		if math.Signbit(d) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(d)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(d, 'f', -1, bitSize)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(d, 'E', -1, bitSize)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.ContainsRune(mant, '.') {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}
