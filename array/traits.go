package array

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/hupe1980/colarray/internal/num"
	"github.com/hupe1980/colarray/internal/text"
)

// Element is the set of Go types an array can hold.
type Element interface {
	int8 | int16 | uint16 | int32 | int64 | float32 | float64 | string
}

// traits is the per-kind policy of a Typed array: its sentinel, the narrowing and
// widening rules that map values (and their missing markers) between kinds, the
// ordering, and the fixed-width big-endian codec.
type traits[T Element] struct {
	kind    Kind
	missing T
	width   int

	isMissing func(T) bool

	fromDouble func(float64) T
	fromFloat  func(float32) T
	fromLong   func(int64) T
	fromInt    func(int32) T
	fromString func(string) T

	toDouble func(T) float64
	toFloat  func(T) float32
	toLong   func(T) int64
	toInt    func(T) int32
	toString func(T) string

	// format renders one element for String().
	format func(T) string

	compare func(a, b T) int

	encode func(b []byte, v T)
	decode func(b []byte) T
}

var (
	byteTraits   = integerTraits[int8](Byte, math.MinInt8, math.MaxInt8, num.RoundToByte)
	shortTraits  = integerTraits[int16](Short, math.MinInt16, math.MaxInt16, num.RoundToShort)
	charTraits   = newCharTraits()
	intTraits    = integerTraits[int32](Int, math.MinInt32, math.MaxInt32, num.RoundToInt)
	longTraits   = newLongTraits()
	floatTraits  = newFloatTraits()
	doubleTraits = newDoubleTraits()
	stringTraits = newStringTraits()
)

func traitsOf[T Element]() *traits[T] {
	var zero T
	var tr any
	switch any(zero).(type) {
	case int8:
		tr = byteTraits
	case int16:
		tr = shortTraits
	case uint16:
		tr = charTraits
	case int32:
		tr = intTraits
	case int64:
		tr = longTraits
	case float32:
		tr = floatTraits
	case float64:
		tr = doubleTraits
	case string:
		tr = stringTraits
	}
	return tr.(*traits[T])
}

func putUint(b []byte, u uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
}

func getUint(b []byte, width int) uint64 {
	var u uint64
	for i := 0; i < width; i++ {
		u = u<<8 | uint64(b[i])
	}
	return u
}

func integerTraits[T int8 | int16 | uint16 | int32 | int64](k Kind, lo, hi int64, round func(float64) T) *traits[T] {
	missing := T(hi)
	width := k.Width()
	tr := &traits[T]{kind: k, missing: missing, width: width}

	tr.isMissing = func(v T) bool { return v == missing }
	tr.fromDouble = round
	tr.fromFloat = func(f float32) T { return round(float64(f)) }
	tr.fromLong = func(v int64) T { return T(num.NarrowLong(v, lo, hi, hi)) }
	tr.fromInt = func(v int32) T {
		if v == math.MaxInt32 {
			return missing
		}
		return tr.fromLong(int64(v))
	}
	tr.fromString = func(s string) T { return tr.fromInt(num.ParseInt(s)) }

	tr.toDouble = func(v T) float64 {
		if v == missing {
			return math.NaN()
		}
		return float64(v)
	}
	tr.toFloat = func(v T) float32 {
		if v == missing {
			return float32(math.NaN())
		}
		return float32(v)
	}
	tr.toLong = func(v T) int64 {
		if v == missing {
			return math.MaxInt64
		}
		return int64(v)
	}
	tr.toInt = func(v T) int32 {
		if v == missing {
			return math.MaxInt32
		}
		return int32(num.NarrowLong(int64(v), math.MinInt32, math.MaxInt32, math.MaxInt32))
	}
	tr.toString = func(v T) string {
		if v == missing {
			return ""
		}
		return strconv.FormatInt(int64(v), 10)
	}
	tr.format = func(v T) string { return strconv.FormatInt(int64(v), 10) }
	tr.compare = cmp.Compare[T]

	tr.encode = func(b []byte, v T) { putUint(b, uint64(int64(v)), width) }
	tr.decode = func(b []byte) T { return T(getUint(b, width)) }
	return tr
}

// Char elements read and write text as the character itself, while the numeric
// accessors see the UTF-16 code unit.
func newCharTraits() *traits[uint16] {
	tr := integerTraits[uint16](Char, 0, math.MaxUint16, num.RoundToChar)
	tr.fromString = func(s string) uint16 {
		if s == "" {
			return math.MaxUint16
		}
		return utf16.Encode([]rune(s))[0]
	}
	tr.toString = func(v uint16) string {
		if v == math.MaxUint16 {
			return ""
		}
		return string(utf16.Decode([]uint16{v}))
	}
	return tr
}

func newLongTraits() *traits[int64] {
	tr := integerTraits[int64](Long, math.MinInt64, math.MaxInt64, num.RoundToLong)
	tr.fromString = num.ParseLong
	tr.toDouble = func(v int64) float64 {
		if v == math.MaxInt64 {
			return math.NaN()
		}
		return float64(v)
	}
	return tr
}

func compareFloat[T float32 | float64](a, b T) int {
	an, bn := a != a, b != b
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return cmp.Compare(a, b)
}

func newFloatTraits() *traits[float32] {
	nan := float32(math.NaN())
	return &traits[float32]{
		kind:      Float,
		missing:   nan,
		width:     4,
		isMissing: func(v float32) bool { return v != v },

		fromDouble: num.DoubleToFloatNaN,
		fromFloat:  func(f float32) float32 { return f },
		fromLong: func(v int64) float32 {
			if v == math.MaxInt64 {
				return nan
			}
			return float32(v)
		},
		fromInt: func(v int32) float32 {
			if v == math.MaxInt32 {
				return nan
			}
			return float32(v)
		},
		fromString: func(s string) float32 { return num.DoubleToFloatNaN(num.ParseDouble(s)) },

		toDouble: num.FloatToDouble,
		toFloat:  func(v float32) float32 { return v },
		toLong:   func(v float32) int64 { return num.RoundToLong(float64(v)) },
		toInt:    func(v float32) int32 { return num.RoundToInt(float64(v)) },
		toString: func(v float32) string {
			if !num.IsFinite(float64(v)) {
				return ""
			}
			return num.FormatFloat(v)
		},
		format:  num.FormatFloat,
		compare: compareFloat[float32],

		encode: func(b []byte, v float32) { putUint(b, uint64(math.Float32bits(v)), 4) },
		decode: func(b []byte) float32 { return math.Float32frombits(uint32(getUint(b, 4))) },
	}
}

func newDoubleTraits() *traits[float64] {
	nan := math.NaN()
	return &traits[float64]{
		kind:      Double,
		missing:   nan,
		width:     8,
		isMissing: math.IsNaN,

		fromDouble: func(d float64) float64 { return d },
		fromFloat:  func(f float32) float64 { return float64(f) },
		fromLong: func(v int64) float64 {
			if v == math.MaxInt64 {
				return nan
			}
			return float64(v)
		},
		fromInt: func(v int32) float64 {
			if v == math.MaxInt32 {
				return nan
			}
			return float64(v)
		},
		fromString: num.ParseDouble,

		toDouble: func(v float64) float64 { return v },
		toFloat:  num.DoubleToFloatNaN,
		toLong:   num.RoundToLong,
		toInt:    num.RoundToInt,
		toString: func(v float64) string {
			if !num.IsFinite(v) {
				return ""
			}
			return num.FormatDouble(v)
		},
		format:  num.FormatDouble,
		compare: compareFloat[float64],

		encode: func(b []byte, v float64) { putUint(b, math.Float64bits(v), 8) },
		decode: func(b []byte) float64 { return math.Float64frombits(getUint(b, 8)) },
	}
}

func newStringTraits() *traits[string] {
	return &traits[string]{
		kind:      String,
		missing:   "",
		isMissing: func(v string) bool { return v == "" },

		fromDouble: func(d float64) string {
			if !num.IsFinite(d) {
				return ""
			}
			return num.FormatDouble(d)
		},
		fromFloat: func(f float32) string {
			if !num.IsFinite(float64(f)) {
				return ""
			}
			return num.FormatFloat(f)
		},
		fromLong: func(v int64) string {
			if v == math.MaxInt64 {
				return ""
			}
			return strconv.FormatInt(v, 10)
		},
		fromInt: func(v int32) string {
			if v == math.MaxInt32 {
				return ""
			}
			return strconv.FormatInt(int64(v), 10)
		},
		fromString: func(s string) string { return s },

		toDouble: num.ParseDouble,
		toFloat:  func(v string) float32 { return num.DoubleToFloatNaN(num.ParseDouble(v)) },
		toLong:   num.ParseLong,
		toInt:    num.ParseInt,
		toString: func(v string) string { return v },
		format:   text.QuoteCSV,
		compare:  strings.Compare,
	}
}
