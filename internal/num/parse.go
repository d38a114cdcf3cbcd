package num

import (
	"math"
	"strconv"
	"strings"
)

func numericStart(ch byte, allowDot bool) bool {
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' || (allowDot && ch == '.')
}

// ParseDouble leniently parses s. Surrounding whitespace is ignored, "0x" prefixes are
// read as hexadecimal integers and anything unparsable yields NaN.
func ParseDouble(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || !numericStart(s[0], true) {
		return math.NaN()
	}
	if strings.HasPrefix(s, "0x") {
		i, err := strconv.ParseInt(s[2:], 16, 32)
		if err != nil {
			return math.NaN()
		}
		return float64(i)
	}
	d, err := parseFloatLiteral(s)
	if err != nil {
		return math.NaN()
	}
	return d
}

// parseFloatLiteral accepts the forms Go understands plus a trailing d/D/f/F type
// suffix and the spelled out "Infinity".
func parseFloatLiteral(s string) (float64, error) {
	if n := len(s); n > 1 {
		switch s[n-1] {
		case 'd', 'D', 'f', 'F':
			s = s[:n-1]
		}
	}
	if strings.ContainsAny(s, "_xXpP") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

// ParseInt leniently parses s as an int32; floating point text is rounded and
// anything unparsable yields MaxInt32.
func ParseInt(s string) int32 {
	s = strings.TrimSpace(s)
	if s == "" || !numericStart(s[0], true) {
		return math.MaxInt32
	}
	if strings.HasPrefix(s, "0x") {
		i, err := strconv.ParseInt(s[2:], 16, 32)
		if err != nil {
			return math.MaxInt32
		}
		return int32(i)
	}
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(i)
	}
	d, err := parseFloatLiteral(s)
	if err != nil {
		return math.MaxInt32
	}
	return RoundToInt(d)
}

// ParseLong parses s as an int64 without rounding; anything else yields MaxInt64.
func ParseLong(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || !numericStart(s[0], false) {
		return math.MaxInt64
	}
	if strings.HasPrefix(s, "0x") {
		i, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return math.MaxInt64
		}
		return i
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return i
}
