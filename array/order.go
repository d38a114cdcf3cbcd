package array

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compare compares elements i and j. Numbers compare numerically with missing values
// (sentinels and NaN) sorting high; strings compare lexically.
func (a *Typed[T]) Compare(i, j int) int {
	return a.tr.compare(a.Get(i), a.Get(j))
}

// CompareIgnoreCase is Compare with strings compared case-insensitively first and
// case-sensitively as the tie breaker.
func (a *Typed[T]) CompareIgnoreCase(i, j int) int {
	if a.tr.kind != String {
		return a.Compare(i, j)
	}
	return compareStringsIgnoreCase(any(a.Get(i)).(string), any(a.Get(j)).(string))
}

// Sort sorts the elements ascending; missing numeric values end up last.
func (a *Typed[T]) Sort() {
	slices.SortStableFunc(a.data, a.tr.compare)
}

// SortIgnoreCase sorts strings case-insensitively; other kinds sort as Sort.
func (a *Typed[T]) SortIgnoreCase() {
	if a.tr.kind != String {
		a.Sort()
		return
	}
	slices.SortStableFunc(a.data, func(x, y T) int {
		return compareStringsIgnoreCase(any(x).(string), any(y).(string))
	})
}

// Rank returns the permutation that sorts the array (stable; ties keep their order)
// without modifying it.
func (a *Typed[T]) Rank(ascending bool) []int {
	rank := make([]int, len(a.data))
	for i := range rank {
		rank[i] = i
	}
	slices.SortStableFunc(rank, func(x, y int) int {
		c := a.tr.compare(a.data[x], a.data[y])
		if !ascending {
			return -c
		}
		return c
	})
	return rank
}

// compareStringsIgnoreCase orders s1 and s2 by their case-folded characters and
// breaks ties with a case-sensitive comparison.
func compareStringsIgnoreCase(s1, s2 string) int {
	if c := compareFold(s1, s2); c != 0 {
		return c
	}
	return strings.Compare(s1, s2)
}

func compareFold(s1, s2 string) int {
	for s1 != "" && s2 != "" {
		r1, n1 := utf8.DecodeRuneInString(s1)
		r2, n2 := utf8.DecodeRuneInString(s2)
		s1, s2 = s1[n1:], s2[n2:]
		if r1 == r2 {
			continue
		}
		f1 := unicode.ToLower(unicode.ToUpper(r1))
		f2 := unicode.ToLower(unicode.ToUpper(r2))
		if f1 != f2 {
			if f1 < f2 {
				return -1
			}
			return 1
		}
	}
	switch {
	case s1 == "" && s2 == "":
		return 0
	case s1 == "":
		return -1
	}
	return 1
}
