package array

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/colarray/internal/num"
	"github.com/hupe1980/colarray/internal/text"
)

// String renders the elements as comma separated values. Numbers use their canonical
// form (missing integers show their sentinel, missing floats show NaN); strings are
// quoted when they need to be.
func (a *Typed[T]) String() string {
	var sb strings.Builder
	for i, v := range a.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.tr.format(v))
	}
	return sb.String()
}

// JSONCSVString is String with every String element rendered as a JSON string.
func (a *Typed[T]) JSONCSVString() string {
	if a.tr.kind != String {
		return a.String()
	}
	var sb strings.Builder
	for i, v := range a.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(text.ToJSON(any(v).(string)))
	}
	return sb.String()
}

var ncEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// NCString renders the elements the way netCDF headers show attribute values:
// strings double quoted with \ and " escaped, floats with an f suffix.
func (a *Typed[T]) NCString() string {
	switch a.tr.kind {
	case String, Float:
	default:
		return a.String()
	}
	var sb strings.Builder
	for i, v := range a.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := any(v).(string); ok {
			sb.WriteString(`"` + ncEscaper.Replace(s) + `"`)
			continue
		}
		sb.WriteString(a.tr.format(v) + "f")
	}
	return sb.String()
}

// MaxStringLength returns the length in characters of the longest text value.
func (a *Typed[T]) MaxStringLength() int {
	longest := 0
	for i := range a.data {
		longest = max(longest, utf8.RuneCountInString(a.GetString(i)))
	}
	return longest
}

// SQLTypeString returns the SQL column type that holds the array's values. String
// arrays become varchar sized to their longest value; a stringLengthFactor above 1
// scales that size and rounds it up to a multiple of 10.
func (a *Typed[T]) SQLTypeString(stringLengthFactor float64) string {
	switch a.tr.kind {
	case Double:
		return "double precision"
	case Float:
		return "real"
	case Long:
		return "bigint"
	case Int:
		return "integer"
	case Short, Byte:
		return "smallint"
	case Char:
		return "char(1)"
	}
	n := max(1, a.MaxStringLength())
	if stringLengthFactor > 1 {
		n = int(num.RoundToInt(float64(n) * stringLengthFactor))
		n = (n + 9) / 10 * 10
	}
	return fmt.Sprintf("varchar(%d)", n)
}
