package table

import (
	"fmt"
	"slices"

	"github.com/hupe1980/colarray/array"
)

// KeyError is returned for a key column outside the table.
type KeyError struct {
	Key      int
	NColumns int
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key column %d is out of range [0, %d)", e.Key, e.NColumns)
}

// RowComparator orders the rows of a table by a list of key columns. The first
// key decides, later keys only break ties. Missing values sort high.
//
// A RowComparator reads the table without synchronization.
type RowComparator struct {
	t          Table
	keys       []int
	ascending  []bool
	ignoreCase bool
}

// NewRowComparator returns a comparator for t. ascending[k] gives the direction
// of keys[k].
func NewRowComparator(t Table, keys []int, ascending []bool) (*RowComparator, error) {
	return newRowComparator(t, keys, ascending, false)
}

// NewRowComparatorIgnoreCase is like NewRowComparator, but String columns compare
// case-insensitively.
func NewRowComparatorIgnoreCase(t Table, keys []int, ascending []bool) (*RowComparator, error) {
	return newRowComparator(t, keys, ascending, true)
}

func newRowComparator(t Table, keys []int, ascending []bool, ignoreCase bool) (*RowComparator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(keys) != len(ascending) {
		return nil, fmt.Errorf("keys (%d) and ascending (%d) differ in length", len(keys), len(ascending))
	}
	for _, k := range keys {
		if k < 0 || k >= len(t) {
			return nil, &KeyError{Key: k, NColumns: len(t)}
		}
	}
	return &RowComparator{
		t:          t,
		keys:       slices.Clone(keys),
		ascending:  slices.Clone(ascending),
		ignoreCase: ignoreCase,
	}, nil
}

// Compare returns -1, 0 or 1 as row1 sorts before, with or after row2.
func (c *RowComparator) Compare(row1, row2 int) int {
	for k, key := range c.keys {
		col := c.t[key]
		var r int
		if c.ignoreCase && col.Kind() == array.String {
			r = col.CompareIgnoreCase(row1, row2)
		} else {
			r = col.Compare(row1, row2)
		}
		if r != 0 {
			if !c.ascending[k] {
				return -r
			}
			return r
		}
	}
	return 0
}

// Rank returns the stable sort permutation of the rows.
func (c *RowComparator) Rank() []int {
	rank := make([]int, c.t.NRows())
	for i := range rank {
		rank[i] = i
	}
	slices.SortStableFunc(rank, c.Compare)
	return rank
}
