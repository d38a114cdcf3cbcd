package array

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/grafana/regexp"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/colarray/internal/num"
)

// Constraint operators understood by ApplyConstraint.
const (
	OpEqual        = "="
	OpNotEqual     = "!="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpRegex        = "=~"
)

// Operators lists every constraint operator.
var Operators = []string{OpNotEqual, OpRegex, OpLessEqual, OpGreaterEqual, OpEqual, OpLess, OpGreater}

// ErrUnknownOperator is wrapped by the error ApplyConstraint returns for an operator
// not in Operators.
var ErrUnknownOperator = errors.New("unknown operator")

// floatConstraintDigits is the number of significant digits Float values must share
// to satisfy =, <= and >=.
const floatConstraintDigits = 6

// PatternCache keeps compiled =~ patterns. It is safe for concurrent use.
type PatternCache struct {
	cache *lru.Cache[string, *regexp.Regexp]
}

// DefaultPatternCacheSize is the number of patterns NewPatternCache keeps when given a
// non-positive size.
const DefaultPatternCacheSize = 128

// NewPatternCache returns a cache holding up to size compiled patterns.
func NewPatternCache(size int) (*PatternCache, error) {
	if size <= 0 {
		size = DefaultPatternCacheSize
	}
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		return nil, err
	}
	return &PatternCache{cache: c}, nil
}

// Compile returns the compiled form of pattern, anchored so that it must match a
// whole value. A nil cache compiles without caching.
func (c *PatternCache) Compile(pattern string) (*regexp.Regexp, error) {
	if c != nil {
		if re, ok := c.cache.Get(pattern); ok {
			return re, nil
		}
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("query error: invalid regex %q: %w", pattern, err)
	}
	if c != nil {
		c.cache.Add(pattern, re)
	}
	return re, nil
}

// Len returns the number of cached patterns.
func (c *PatternCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}

func checkOperator(op string) error {
	for _, o := range Operators {
		if o == op {
			return nil
		}
	}
	return fmt.Errorf("query error: %w=%q", ErrUnknownOperator, op)
}

// ApplyConstraint tests "element op value" for every row set in keep, clears the rows
// that fail and returns the number of rows still set. Rows at or beyond Len are
// cleared.
//
// String arrays compare text (<, <=, > and >= ignore case). Integer arrays compare
// longs when value is an integer, with the missing value equal only to itself.
// Float and Double arrays compare with a small tolerance for =, <= and >=; NaN equals
// NaN and fails every ordering test. =~ matches the text of each element against a
// regular expression compiled through patterns, which may be nil.
func (a *Typed[T]) ApplyConstraint(keep *roaring.Bitmap, op, value string, patterns *PatternCache) (int, error) {
	if err := checkOperator(op); err != nil {
		return 0, err
	}

	var test func(row int) bool
	switch {
	case op == OpRegex:
		re, err := patterns.Compile(value)
		if err != nil {
			return 0, err
		}
		test = func(row int) bool { return re.MatchString(a.GetString(row)) }
	case a.tr.kind == String:
		test = func(row int) bool { return testString(a.GetString(row), op, value) }
	case a.tr.kind.IsIntegral() && num.ParseLong(value) != math.MaxInt64:
		v := num.ParseLong(value)
		test = func(row int) bool { return testLong(a.GetLong(row), op, v) }
	case a.tr.kind == Float:
		v := float64(num.DoubleToFloatNaN(num.ParseDouble(value)))
		test = func(row int) bool {
			return testDouble(float64(a.GetFloat(row)), op, v, floatConstraintDigits)
		}
	default:
		v := num.ParseDouble(value)
		test = func(row int) bool { return testDouble(a.GetDouble(row), op, v, a.tol.Strict) }
	}

	n := len(a.data)
	failed := roaring.New()
	it := keep.Iterator()
	for it.HasNext() {
		row := int(it.Next())
		if row >= n || !test(row) {
			failed.Add(uint32(row))
		}
	}
	keep.AndNot(failed)
	return int(keep.GetCardinality()), nil
}

func testString(v1, op, v2 string) bool {
	switch op {
	case OpEqual:
		return v1 == v2
	case OpNotEqual:
		return v1 != v2
	}
	t := strings.Compare(strings.ToLower(v1), strings.ToLower(v2))
	switch op {
	case OpLessEqual:
		return t <= 0
	case OpGreaterEqual:
		return t >= 0
	case OpLess:
		return t < 0
	default:
		return t > 0
	}
}

func testLong(v1 int64, op string, v2 int64) bool {
	switch op {
	case OpEqual:
		return v1 == v2
	case OpNotEqual:
		return v1 != v2
	}
	if v1 == math.MaxInt64 || v2 == math.MaxInt64 {
		return false
	}
	switch op {
	case OpLessEqual:
		return v1 <= v2
	case OpGreaterEqual:
		return v1 >= v2
	case OpLess:
		return v1 < v2
	default:
		return v1 > v2
	}
}

func testDouble(v1 float64, op string, v2 float64, digits int) bool {
	bothNaN := math.IsNaN(v1) && math.IsNaN(v2)
	switch op {
	case OpEqual:
		return bothNaN || num.AlmostEqual(digits, v1, v2)
	case OpNotEqual:
		return !bothNaN && v1 != v2
	case OpLessEqual:
		return v1 <= v2 || num.AlmostEqual(digits, v1, v2)
	case OpGreaterEqual:
		return v1 >= v2 || num.AlmostEqual(digits, v1, v2)
	case OpLess:
		return v1 < v2
	default:
		return v1 > v2
	}
}
