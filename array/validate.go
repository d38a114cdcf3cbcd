package array

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/colarray/internal/num"
	"github.com/hupe1980/colarray/internal/text"
)

// describe renders element i for diagnostics.
func (a *Typed[T]) describe(i int) string {
	v := a.data[i]
	if a.tr.kind == String {
		return fmt.Sprintf("[%d]=%s", i, text.ToJSON(any(v).(string)))
	}
	if a.tr.kind.IsIntegral() && a.tr.isMissing(v) {
		return fmt.Sprintf("[%d]=(%s)", i, ErrMissingValue)
	}
	return fmt.Sprintf("[%d]=%s", i, a.tr.format(v))
}

func (a *Typed[T]) finiteAt(i int) bool {
	return num.IsFinite(a.tr.toDouble(a.data[i]))
}

// IsAscending returns nil if the elements are sorted ascending, and a
// *NotAscendingError naming the first offending element otherwise. A missing value
// at the end (or anywhere, for Float and Double) is an error.
func (a *Typed[T]) IsAscending() error {
	n := len(a.data)
	if n == 0 {
		return nil
	}
	fail := func(i int, detail string) error {
		return &NotAscendingError{Kind: a.tr.kind, Index: i, Detail: detail}
	}
	floating := a.tr.kind.IsFloating()
	for i := range n {
		if floating && !a.finiteAt(i) {
			return fail(i, a.describe(i))
		}
		if i > 0 && a.tr.compare(a.data[i-1], a.data[i]) > 0 {
			return fail(i, a.describe(i-1)+" > "+a.describe(i))
		}
	}
	if a.tr.kind.IsIntegral() && a.tr.isMissing(a.data[n-1]) {
		return fail(n-1, a.describe(n-1))
	}
	return nil
}

// IsDescending is IsAscending for descending order; a missing value at the start
// (or anywhere, for Float and Double) is an error.
func (a *Typed[T]) IsDescending() error {
	n := len(a.data)
	if n == 0 {
		return nil
	}
	fail := func(i int, detail string) error {
		return &NotDescendingError{Kind: a.tr.kind, Index: i, Detail: detail}
	}
	if a.tr.kind.IsIntegral() && a.tr.isMissing(a.data[0]) {
		return fail(0, a.describe(0))
	}
	floating := a.tr.kind.IsFloating()
	for i := range n {
		if floating && !a.finiteAt(i) {
			return fail(i, a.describe(i))
		}
		if i > 0 && a.tr.compare(a.data[i-1], a.data[i]) < 0 {
			return fail(i, a.describe(i-1)+" < "+a.describe(i))
		}
	}
	return nil
}

// FirstTie returns the index of the first element equal to its successor, or -1.
func (a *Typed[T]) FirstTie() int {
	for i := 1; i < len(a.data); i++ {
		if a.tr.compare(a.data[i-1], a.data[i]) == 0 {
			return i - 1
		}
	}
	return -1
}

// IsEvenlySpaced returns nil if consecutive elements differ by the same amount, and
// a *NotEvenlySpacedError describing the first pair that does not otherwise.
// Integer kinds must be exactly evenly spaced; floating kinds are compared with a
// tolerance.
func (a *Typed[T]) IsEvenlySpaced() error {
	n := len(a.data)
	if n <= 2 {
		return nil
	}
	first, last := a.GetDouble(0), a.GetDouble(n-1)
	expected := (last - first) / float64(n-1)
	for i := 1; i < n; i++ {
		d0, d1 := a.GetDouble(i-1), a.GetDouble(i)
		spacing := d1 - d0
		var ok bool
		switch {
		case a.tr.kind.IsIntegral():
			ok = spacing == expected
		case a.tr.kind == String:
			ok = num.AlmostEqual(a.tol.Strict, spacing, expected)
		default:
			digits := a.tol.Strict
			if a.tr.kind == Float {
				digits = a.tol.Loose
			}
			ok = num.AlmostEqual(digits, spacing*1e7, expected*1e7) ||
				(num.AlmostEqual(12, d0+expected, d1) && num.AlmostEqual(2, spacing*1e7, expected*1e7))
		}
		if !ok {
			return &NotEvenlySpacedError{
				Kind:     a.tr.kind,
				Index1:   i - 1,
				Value1:   num.FormatDouble(d0),
				Index2:   i,
				Value2:   num.FormatDouble(d1),
				Spacing:  num.FormatDouble(spacing),
				Expected: num.FormatDouble(expected),
			}
		}
	}
	return nil
}

// Stats summarises the finite values of an array.
type Stats struct {
	N   int
	Min float64
	Max float64
	Sum float64
}

// Mean returns Sum/N, or NaN when N is 0.
func (s Stats) Mean() float64 {
	if s.N == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.N)
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d min=%s max=%s", s.N, num.FormatDouble(s.Min), num.FormatDouble(s.Max))
}

// CalculateStats returns the count, minimum, maximum and sum of the finite values.
// Missing values are excluded; with no finite values Min and Max are NaN.
func (a *Typed[T]) CalculateStats() Stats {
	s := Stats{Min: math.MaxFloat64, Max: -math.MaxFloat64}
	for i := range a.data {
		d := a.GetDouble(i)
		if !num.IsFinite(d) {
			continue
		}
		s.N++
		s.Min = math.Min(s.Min, d)
		s.Max = math.Max(s.Max, d)
		s.Sum += d
	}
	if s.N == 0 {
		s.Min, s.Max = math.NaN(), math.NaN()
	}
	return s
}

// SmallestBiggestSpacing describes the smallest and the biggest difference between
// consecutive elements. It returns "" for fewer than 3 elements.
func (a *Typed[T]) SmallestBiggestSpacing() string {
	n := len(a.data)
	if n <= 2 {
		return ""
	}
	smallI, bigI := 1, 1
	small := a.GetDouble(1) - a.GetDouble(0)
	big := small
	for i := 2; i < n; i++ {
		diff := a.GetDouble(i) - a.GetDouble(i-1)
		if diff < small {
			smallI, small = i, diff
		} else if diff > big {
			bigI, big = i, diff
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "  smallest spacing=%s: [%d]=%s, [%d]=%s\n", num.FormatDouble(small),
		smallI-1, num.FormatDouble(a.GetDouble(smallI-1)), smallI, num.FormatDouble(a.GetDouble(smallI)))
	fmt.Fprintf(&sb, "  biggest  spacing=%s: [%d]=%s, [%d]=%s", num.FormatDouble(big),
		bigI-1, num.FormatDouble(a.GetDouble(bigI-1)), bigI, num.FormatDouble(a.GetDouble(bigI)))
	return sb.String()
}

// NMinMaxIndex returns the number of non-missing elements and the indices of the
// (last) smallest and the (last) biggest of them, -1 when there are none.
func (a *Typed[T]) NMinMaxIndex() (n, minIndex, maxIndex int) {
	minIndex, maxIndex = -1, -1
	floating := a.tr.kind.IsFloating()
	for i, v := range a.data {
		if a.tr.isMissing(v) || (floating && !a.finiteAt(i)) {
			continue
		}
		n++
		if minIndex < 0 || a.tr.compare(v, a.data[minIndex]) <= 0 {
			minIndex = i
		}
		if maxIndex < 0 || a.tr.compare(v, a.data[maxIndex]) >= 0 {
			maxIndex = i
		}
	}
	return n, minIndex, maxIndex
}
