package array

import (
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dolthub/swiss"

	"github.com/hupe1980/colarray/internal/num"
)

// MakeIndices returns the sorted distinct values of the array and fills indices with
// the rank of every element among them, so that tied elements share a rank.
// An array that is already strictly ascending is returned as is, with identity
// indices.
func (a *Typed[T]) MakeIndices(indices *IntArray) Array {
	indices.Clear()
	n := len(a.data)
	if n == 0 {
		return NewTyped[T](0, false, WithTolerance(a.tol))
	}

	// NaN never equals itself, so it is tracked apart from the map.
	isNaN := func(v T) bool { return v != v }
	seen := swiss.NewMap[T, int32](uint32(n))
	hasNaN := false
	put := func(v T) {
		if isNaN(v) {
			hasNaN = true
			return
		}
		seen.Put(v, -1)
	}

	sorted := true
	last := a.data[0]
	put(last)
	for _, v := range a.data[1:] {
		c := a.tr.compare(v, last)
		if c == 0 {
			continue
		}
		if c < 0 {
			sorted = false
		}
		last = v
		put(v)
	}

	nUnique := seen.Count()
	if hasNaN {
		nUnique++
	}
	if nUnique == n && sorted {
		_ = indices.EnsureCapacity(n)
		for i := range n {
			indices.Add(int32(i))
		}
		return a
	}

	unique := make([]T, 0, nUnique)
	seen.Iter(func(k T, _ int32) bool {
		unique = append(unique, k)
		return false
	})
	slices.SortFunc(unique, a.tr.compare)
	for i, v := range unique {
		seen.Put(v, int32(i))
	}
	nanRank := int32(len(unique))
	if hasNaN {
		unique = append(unique, a.tr.missing)
	}

	ranks := make([]int32, n)
	for i, v := range a.data {
		if isNaN(v) {
			ranks[i] = nanRank
			continue
		}
		ranks[i], _ = seen.Get(v)
	}
	indices.AddAll(ranks...)
	return FromSlice(unique, WithTolerance(a.tol))
}

// RemoveDuplicates removes adjacent equal elements of a sorted array and returns how
// many were removed.
func (a *Typed[T]) RemoveDuplicates() int {
	n := len(a.data)
	if n <= 1 {
		return 0
	}
	unique := 1
	for row := 1; row < n; row++ {
		if a.tr.compare(a.data[row-1], a.data[row]) != 0 {
			a.data[unique] = a.data[row]
			unique++
		}
	}
	a.truncate(unique)
	return n - unique
}

// RemoveDuplicatesAE removes adjacent elements almost equal (to Tolerance().Loose
// digits) to the last kept one. It only applies to Float and Double arrays.
func (a *Typed[T]) RemoveDuplicatesAE() (int, error) {
	if !a.tr.kind.IsFloating() {
		return 0, &UnsupportedKindError{Op: "RemoveDuplicatesAE", Kind: a.tr.kind}
	}
	n := len(a.data)
	if n <= 1 {
		return 0, nil
	}
	valid := 1
	for i := 1; i < n; i++ {
		if !num.AlmostEqual(a.tol.Loose, a.GetDouble(i), a.GetDouble(valid-1)) {
			a.data[valid] = a.data[i]
			valid++
		}
	}
	a.truncate(valid)
	return n - valid, nil
}

// InCommon keeps only the elements that also occur in other. Both arrays must be
// sorted ascending. Numeric arrays are matched by value with missing values sorting
// high; when either side is String the values are matched as text.
func (a *Typed[T]) InCommon(other Array) {
	size1, size2 := len(a.data), other.Len()
	keep := roaring.New()
	numeric := a.tr.kind != String && other.Kind() != String
	po1, po2 := 0, 0
	for po1 < size1 && po2 < size2 {
		var c int
		if numeric {
			c = compareFloat(a.GetDouble(po1), other.GetDouble(po2))
		} else {
			s1, s2 := a.GetString(po1), other.GetString(po2)
			if a.tr.kind != String && s1 == "" {
				s1 = "NaN"
			}
			if other.Kind() != String && s2 == "" {
				s2 = "NaN"
			}
			c = strings.Compare(s1, s2)
		}
		switch {
		case c < 0:
			po1++
		case c > 0:
			po2++
		default:
			keep.Add(uint32(po1))
			po1++
			po2++
		}
	}
	a.JustKeep(keep)
}
