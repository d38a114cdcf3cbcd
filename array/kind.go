package array

import (
	"math"
	"strings"
)

// Kind identifies the element type of an Array.
//
// The constants are declared in width order; ClassIndex exposes that order and is
// what type promotion during table appends is based on.
type Kind uint8

const (
	// Byte is a signed 8-bit integer (missing value 127).
	Byte Kind = iota
	// Short is a signed 16-bit integer (missing value 32767).
	Short
	// Char is an unsigned 16-bit character code (missing value 65535).
	Char
	// Int is a signed 32-bit integer (missing value MaxInt32).
	Int
	// Long is a signed 64-bit integer (missing value MaxInt64).
	Long
	// Float is a 32-bit IEEE 754 float (missing value NaN).
	Float
	// Double is a 64-bit IEEE 754 float (missing value NaN).
	Double
	// String is variable length text (missing value "").
	String

	numKinds = int(String) + 1
)

// Kinds lists every supported kind in width order.
var Kinds = []Kind{Byte, Short, Char, Int, Long, Float, Double, String}

var kindNames = [numKinds]string{"byte", "short", "char", "int", "long", "float", "double", "String"}

// String returns the canonical element type name, e.g. "double" or "String".
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "Unknown"
}

// TypeName returns the name of the array type holding elements of kind k, e.g.
// "DoubleArray".
func (k Kind) TypeName() string {
	if !k.Valid() {
		return "UnknownArray"
	}
	n := kindNames[k]
	return strings.ToUpper(n[:1]) + n[1:] + "Array"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return int(k) < numKinds
}

// ClassIndex returns the position of k in the width order
// byte < short < char < int < long < float < double < String.
func (k Kind) ClassIndex() int {
	return int(k)
}

// IsIntegral reports whether k stores whole numbers.
func (k Kind) IsIntegral() bool {
	return k <= Long
}

// IsFloating reports whether k is Float or Double.
func (k Kind) IsFloating() bool {
	return k == Float || k == Double
}

// ElementSize returns the approximate number of bytes an element occupies in memory.
// For String it is a rough estimate.
func (k Kind) ElementSize() int {
	switch k {
	case Byte:
		return 1
	case Short, Char:
		return 2
	case Int, Float:
		return 4
	case Long, Double:
		return 8
	case String:
		return 20
	}
	return 0
}

// Width returns the fixed on-disk width of one element, or 0 for String which has no
// fixed width.
func (k Kind) Width() int {
	if k == String {
		return 0
	}
	return k.ElementSize()
}

// MissingDouble returns the kind's missing value as a float64: the sentinel for
// integer kinds and NaN otherwise.
func (k Kind) MissingDouble() float64 {
	switch k {
	case Byte:
		return math.MaxInt8
	case Short:
		return math.MaxInt16
	case Char:
		return math.MaxUint16
	case Int:
		return math.MaxInt32
	case Long:
		return math.MaxInt64
	}
	return math.NaN()
}

// ParseKind returns the Kind for a type name as produced by Kind.String.
// "boolean" maps to Byte and the lower case "string" is accepted as well.
func ParseKind(name string) (Kind, error) {
	switch strings.TrimSpace(name) {
	case "byte", "boolean":
		return Byte, nil
	case "short":
		return Short, nil
	case "char":
		return Char, nil
	case "int":
		return Int, nil
	case "long":
		return Long, nil
	case "float":
		return Float, nil
	case "double":
		return Double, nil
	case "String", "string":
		return String, nil
	}
	return 0, &UnsupportedKindError{Op: "ParseKind", Name: name}
}

// Widest returns the kind with the larger ClassIndex.
func Widest(a, b Kind) Kind {
	if b.ClassIndex() > a.ClassIndex() {
		return b
	}
	return a
}

// SQL type codes as defined by java.sql.Types, the numbering most drivers and
// catalogs report.
const (
	SQLBit       = -7
	SQLTinyInt   = -6
	SQLSmallInt  = 5
	SQLInteger   = 4
	SQLBigInt    = -5
	SQLFloat     = 6
	SQLReal      = 7
	SQLDouble    = 8
	SQLNumeric   = 2
	SQLDecimal   = 3
	SQLChar      = 1
	SQLVarChar   = 12
	SQLDate      = 91
	SQLTime      = 92
	SQLTimestamp = 93
	SQLBoolean   = 16
)

// KindFromSQLType maps a java.sql.Types style type code to the Kind used to store it.
// Dates and timestamps become Double (epoch seconds); unknown codes become String.
func KindFromSQLType(sqlType int) Kind {
	switch sqlType {
	case SQLBit, SQLBoolean, SQLTinyInt:
		return Byte
	case SQLSmallInt:
		return Short
	case SQLInteger:
		return Int
	case SQLBigInt:
		return Long
	case SQLReal:
		return Float
	case SQLFloat, SQLDouble, SQLDecimal, SQLNumeric, SQLDate, SQLTimestamp:
		return Double
	default:
		return String
	}
}

// KindFromSQLTypeName maps a database type name (as reported by
// database/sql.ColumnType.DatabaseTypeName) to a Kind.
func KindFromSQLTypeName(name string) Kind {
	n := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = n[:i]
	}
	switch n {
	case "BIT", "BOOL", "BOOLEAN", "TINYINT", "INT1":
		return Byte
	case "SMALLINT", "INT2", "SMALLSERIAL":
		return Short
	case "INT", "INTEGER", "INT4", "MEDIUMINT", "SERIAL":
		return Int
	case "BIGINT", "INT8", "BIGSERIAL":
		return Long
	case "REAL", "FLOAT4":
		return Float
	case "FLOAT", "FLOAT8", "DOUBLE", "DOUBLE PRECISION", "DECIMAL", "NUMERIC",
		"DATE", "TIMESTAMP", "TIMESTAMPTZ", "DATETIME":
		return Double
	default:
		return String
	}
}

// KindOf returns the Kind matching a Go value or slice of values.
func KindOf(v any) (Kind, error) {
	switch v.(type) {
	case int8, []int8, bool, []bool:
		return Byte, nil
	case int16, []int16:
		return Short, nil
	case uint16, []uint16:
		return Char, nil
	case int32, []int32:
		return Int, nil
	case int64, []int64, int, []int:
		return Long, nil
	case float32, []float32:
		return Float, nil
	case float64, []float64:
		return Double, nil
	case string, []string:
		return String, nil
	}
	return 0, &UnsupportedKindError{Op: "KindOf", Value: v}
}
