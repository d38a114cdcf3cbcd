package array

import (
	"fmt"
	"math"

	"github.com/hupe1980/colarray/internal/num"
)

// valueAt reads element i as a double. The in-memory arrays never fail; file
// resident columns return read errors.
type valueAt func(i int64) (float64, error)

// binarySearch looks for v in the sorted range [lo, hi] (lo <= hi). It returns the
// index of a match, or -(insertionPoint)-1.
func binarySearch(get valueAt, lo, hi int64, v float64) (int64, error) {
	t, err := get(lo)
	if err != nil {
		return 0, err
	}
	if t == v {
		return lo, nil
	}
	if t > v {
		return -lo - 1, nil
	}
	if t, err = get(hi); err != nil {
		return 0, err
	}
	if t == v {
		return hi, nil
	}
	if t < v {
		return -(hi + 1) - 1, nil
	}
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if t, err = get(mid); err != nil {
			return 0, err
		}
		if t == v {
			return mid, nil
		}
		if t < v {
			lo = mid
		} else {
			hi = mid
		}
	}
	return -hi - 1, nil
}

// findFirstGE returns the first index in [lo, hi] whose value is >= v, hi+1 if there
// is none.
func findFirstGE(get valueAt, lo, hi int64, v float64) (int64, error) {
	if lo > hi {
		return hi + 1, nil
	}
	po, err := binarySearch(get, lo, hi, v)
	if err != nil {
		return 0, err
	}
	if po < 0 {
		return -po - 1, nil
	}
	for po > lo {
		t, err := get(po - 1)
		if err != nil {
			return 0, err
		}
		if t != v {
			break
		}
		po--
	}
	return po, nil
}

// findFirstGAE is findFirstGE where values almost equal to v (to digits significant
// digits) count as matches.
func findFirstGAE(get valueAt, lo, hi int64, v float64, digits int) (int64, error) {
	if lo > hi {
		return hi + 1, nil
	}
	po, err := binarySearch(get, lo, hi, v)
	if err != nil {
		return 0, err
	}
	if po < 0 {
		po = -po - 1
	}
	for po > lo {
		t, err := get(po - 1)
		if err != nil {
			return 0, err
		}
		if !num.AlmostEqual(digits, t, v) {
			break
		}
		po--
	}
	return po, nil
}

// findLastLE returns the last index in [lo, hi] whose value is <= v, or lo-1 if
// there is none (-1 for an empty range).
func findLastLE(get valueAt, lo, hi int64, v float64) (int64, error) {
	if lo > hi {
		return -1, nil
	}
	po, err := binarySearch(get, lo, hi, v)
	if err != nil {
		return 0, err
	}
	if po < 0 {
		return -po - 2, nil
	}
	for po < hi {
		t, err := get(po + 1)
		if err != nil {
			return 0, err
		}
		if t != v {
			break
		}
		po++
	}
	return po, nil
}

// findLastLAE is findLastLE where values almost equal to v count as matches.
func findLastLAE(get valueAt, lo, hi int64, v float64, digits int) (int64, error) {
	if lo > hi {
		return -1, nil
	}
	po, err := binarySearch(get, lo, hi, v)
	if err != nil {
		return 0, err
	}
	if po < 0 {
		po = -po - 2
	}
	for po < hi {
		t, err := get(po + 1)
		if err != nil {
			return 0, err
		}
		if !num.AlmostEqual(digits, t, v) {
			break
		}
		po++
	}
	return po, nil
}

func (a *Typed[T]) valueAt(i int64) (float64, error) {
	return a.tr.toDouble(a.data[i]), nil
}

func (a *Typed[T]) checkRange(op string, lo, hi int) {
	if lo < 0 || hi >= len(a.data) {
		bad := lo
		if lo >= 0 {
			bad = hi
		}
		panic(&IndexError{Op: op, Kind: a.tr.kind, Index: bad, Size: len(a.data)})
	}
}

// BinarySearch finds v in the ascending range [lo, hi]. It returns the index of a
// match, or -(insertionPoint)-1 when there is none. lo > hi is an error.
func (a *Typed[T]) BinarySearch(lo, hi int, v float64) (int, error) {
	if lo > hi {
		return 0, &RangeError{Op: "binarySearch", Kind: a.tr.kind,
			Detail: fmt.Sprintf("lowPo (%d) > highPo (%d).", lo, hi)}
	}
	a.checkRange("binarySearch", lo, hi)
	po, _ := binarySearch(a.valueAt, int64(lo), int64(hi), v)
	return int(po), nil
}

// BinaryFindFirstGE returns the first index in the ascending range [lo, hi] whose
// value is >= v, or hi+1 if there is none.
func (a *Typed[T]) BinaryFindFirstGE(lo, hi int, v float64) int {
	if lo <= hi {
		a.checkRange("binaryFindFirstGE", lo, hi)
	}
	po, _ := findFirstGE(a.valueAt, int64(lo), int64(hi), v)
	return int(po)
}

// BinaryFindLastLE returns the last index in the ascending range [lo, hi] whose
// value is <= v, or lo-1 if there is none.
func (a *Typed[T]) BinaryFindLastLE(lo, hi int, v float64) int {
	if lo <= hi {
		a.checkRange("binaryFindLastLE", lo, hi)
	}
	po, _ := findLastLE(a.valueAt, int64(lo), int64(hi), v)
	return int(po)
}

// BinaryFindFirstGAE is BinaryFindFirstGE where values almost equal to v (to
// Tolerance().Loose digits) are treated as equal.
func (a *Typed[T]) BinaryFindFirstGAE(lo, hi int, v float64) int {
	if lo <= hi {
		a.checkRange("binaryFindFirstGAE", lo, hi)
	}
	po, _ := findFirstGAE(a.valueAt, int64(lo), int64(hi), v, a.tol.Loose)
	return int(po)
}

// BinaryFindLastLAE is BinaryFindLastLE where values almost equal to v (to
// Tolerance().Loose digits) are treated as equal.
func (a *Typed[T]) BinaryFindLastLAE(lo, hi int, v float64) int {
	if lo <= hi {
		a.checkRange("binaryFindLastLAE", lo, hi)
	}
	po, _ := findLastLAE(a.valueAt, int64(lo), int64(hi), v, a.tol.Loose)
	return int(po)
}

// BinaryFindClosest returns the index of the element of an ascending array closest
// to v, preferring the higher neighbour on a tie. It returns -1 for NaN or an empty
// array.
func (a *Typed[T]) BinaryFindClosest(v float64) int {
	n := len(a.data)
	if math.IsNaN(v) || n == 0 {
		return -1
	}
	po, _ := binarySearch(a.valueAt, 0, int64(n-1), v)
	i := int(po)
	if i >= 0 {
		return i
	}
	i = -i - 1
	switch {
	case i == 0:
		return 0
	case i >= n:
		return n - 1
	}
	if math.Abs(a.GetDouble(i-1)-v) < math.Abs(a.GetDouble(i)-v) {
		return i - 1
	}
	return i
}

// LinearFindClosest returns the index of the element closest to v in an unsorted
// array (the first one on ties), or -1 for NaN or when no element is finite.
func (a *Typed[T]) LinearFindClosest(v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	best, bestDiff := -1, math.Inf(1)
	for i := range a.data {
		diff := math.Abs(a.GetDouble(i) - v)
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}
