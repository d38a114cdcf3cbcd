// Package table implements row operations on tables of typed arrays.
//
// A Table is an ordered list of columns of equal length. Row i is the tuple of
// the i-th elements of all columns. Rows are identified by their values only.
package table

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/internal/num"
)

var (
	// ErrNoColumns is returned by row operations on a table without columns.
	ErrNoColumns = errors.New("the table has no columns")

	// ErrNilColumn is returned when a column of a table is nil.
	ErrNilColumn = errors.New("nil column")
)

// ColumnCountError is returned when two tables that must have the same number of
// columns do not.
type ColumnCountError struct {
	Op    string
	Left  int
	Right int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("%s: the tables have a different number of columns (%d != %d).", e.Op, e.Left, e.Right)
}

// RaggedError is returned when a column's length differs from the first column's.
type RaggedError struct {
	Column int
	Len    int
	Want   int
}

func (e *RaggedError) Error() string {
	return fmt.Sprintf("column %d has %d rows, column 0 has %d", e.Column, e.Len, e.Want)
}

// Table is an ordered list of columns.
type Table []array.Array

// New returns a table of the given columns.
func New(columns ...array.Array) Table {
	return Table(columns)
}

// NColumns returns the number of columns.
func (t Table) NColumns() int { return len(t) }

// NRows returns the length of the first column, or 0 for a table without columns.
func (t Table) NRows() int {
	if len(t) == 0 || t[0] == nil {
		return 0
	}
	return t[0].Len()
}

// Validate checks that the table has columns, none of them nil and all of the
// same length.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrNoColumns
	}
	for i, c := range t {
		if c == nil {
			return fmt.Errorf("%w %d", ErrNilColumn, i)
		}
	}
	n := t[0].Len()
	for i, c := range t[1:] {
		if c.Len() != n {
			return &RaggedError{Column: i + 1, Len: c.Len(), Want: n}
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for i, col := range t {
		if col != nil {
			c[i] = col.Clone()
		}
	}
	return c
}

// Row returns the elements of row i as text.
func (t Table) Row(i int) []string {
	row := make([]string, len(t))
	for col, c := range t {
		row[col] = c.GetString(i)
	}
	return row
}

// Rank returns the permutation that sorts the rows by keys without modifying
// the table: rank[k] is the row that sorts to position k. Ties keep their order.
func (t Table) Rank(keys []int, ascending []bool) ([]int, error) {
	c, err := NewRowComparator(t, keys, ascending)
	if err != nil {
		return nil, err
	}
	return c.Rank(), nil
}

// RankIgnoreCase is like Rank, but String columns compare case-insensitively.
func (t Table) RankIgnoreCase(keys []int, ascending []bool) ([]int, error) {
	c, err := NewRowComparatorIgnoreCase(t, keys, ascending)
	if err != nil {
		return nil, err
	}
	return c.Rank(), nil
}

// Sort sorts the rows of the table by keys. The sort is stable.
func (t Table) Sort(keys []int, ascending []bool) error {
	rank, err := t.Rank(keys, ascending)
	if err != nil {
		return err
	}
	return t.Reorder(rank)
}

// SortIgnoreCase is like Sort, but String columns compare case-insensitively.
func (t Table) SortIgnoreCase(keys []int, ascending []bool) error {
	rank, err := t.RankIgnoreCase(keys, ascending)
	if err != nil {
		return err
	}
	return t.Reorder(rank)
}

// Reorder rearranges the rows so that new row i is old row rank[i]. Columns are
// reordered concurrently.
func (t Table) Reorder(rank []int) error {
	if err := t.Validate(); err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, c := range t {
		g.Go(func() error {
			return c.Reorder(rank)
		})
	}
	return g.Wait()
}

// CopyRow copies row from to row to in every column.
func (t Table) CopyRow(from, to int) {
	for _, c := range t {
		c.Copy(from, to)
	}
}

func (t Table) truncate(n int) error {
	for _, c := range t {
		if err := c.RemoveRange(n, c.Len()); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDuplicates removes rows identical to the row above, so a sorted table
// ends up with unique rows. It returns the number of rows removed.
func (t Table) RemoveDuplicates() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	nRows := t.NRows()
	if nRows <= 1 {
		return 0, nil
	}
	nUnique := 1
	for row := 1; row < nRows; row++ {
		equal := true
		for _, c := range t {
			if c.Compare(row-1, row) != 0 {
				equal = false
				break
			}
		}
		if equal {
			continue
		}
		if row != nUnique {
			t.CopyRow(row, nUnique)
		}
		nUnique++
	}
	if err := t.truncate(nUnique); err != nil {
		return 0, err
	}
	return nRows - nUnique, nil
}

// EnsureAscending removes the rows whose value in column is less than the value
// of the last kept row, missing, or at least 1e300. It returns the number of rows
// removed. A single erroneously large value removes all rows after it.
func (t Table) EnsureAscending(column int) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if column < 0 || column >= len(t) {
		return 0, &KeyError{Key: column, NColumns: len(t)}
	}
	c := t[column]
	nRows := c.Len()
	nGood := 0
	lastGood := -math.MaxFloat64
	for row := range nRows {
		d := c.GetDouble(row)
		if !num.IsFinite(d) || d >= 1e300 || d < lastGood {
			continue
		}
		if row != nGood {
			t.CopyRow(row, nGood)
		}
		nGood++
		lastGood = d
	}
	if err := t.truncate(nGood); err != nil {
		return 0, err
	}
	return nRows - nGood, nil
}

// Append appends the rows of src to t. A column of t whose kind is narrower than
// the corresponding column of src is first replaced by a copy of the src kind, so
// the wider kind always wins. src is not modified.
func (t Table) Append(src Table) error {
	if len(t) != len(src) {
		return &ColumnCountError{Op: "append", Left: len(t), Right: len(src)}
	}
	for col, s := range src {
		if t[col] == nil || s == nil {
			return fmt.Errorf("%w %d", ErrNilColumn, col)
		}
		if s.Kind().ClassIndex() > t[col].Kind().ClassIndex() {
			wider, err := array.New(s.Kind(), t[col].Len()+s.Len(), false)
			if err != nil {
				return err
			}
			wider.Append(t[col])
			t[col] = wider
		}
		t[col].Append(s)
	}
	return nil
}

// Merge appends src to t, sorts by keys and, if removeDuplicates is set, removes
// identical rows.
func (t Table) Merge(src Table, keys []int, ascending []bool, removeDuplicates bool) error {
	if err := t.Append(src); err != nil {
		return err
	}
	if err := t.Sort(keys, ascending); err != nil {
		return err
	}
	if removeDuplicates {
		_, err := t.RemoveDuplicates()
		return err
	}
	return nil
}

// JustKeep removes the rows not in keep.
func (t Table) JustKeep(keep *roaring.Bitmap) {
	for _, c := range t {
		c.JustKeep(keep)
	}
}

// Subset returns a copy of the rows in keep.
func (t Table) Subset(keep *roaring.Bitmap) Table {
	sub := make(Table, len(t))
	for i, c := range t {
		sub[i] = c.Clone()
		sub[i].JustKeep(keep)
	}
	return sub
}

// Where returns the rows for which every constraint holds. Constraints apply
// array.ApplyConstraint to their column.
func (t Table) Where(patterns *array.PatternCache, constraints ...Constraint) (*roaring.Bitmap, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	keep := roaring.New()
	keep.AddRange(0, uint64(t.NRows()))
	for _, c := range constraints {
		if c.Column < 0 || c.Column >= len(t) {
			return nil, &KeyError{Key: c.Column, NColumns: len(t)}
		}
		n, err := t[c.Column].ApplyConstraint(keep, c.Op, c.Value, patterns)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c.Column, err)
		}
		if n == 0 {
			break
		}
	}
	return keep, nil
}

// Constraint is a column test such as "depth > 10".
type Constraint struct {
	Column int
	Op     string
	Value  string
}
