package colfile

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/blobstore"
)

// elements returns a reader positioned so that element k of column col is at
// off + k*width.
func (r *Reader) elements(ctx context.Context, col int) (io.ReaderAt, array.Kind, int64, int64, error) {
	info, err := r.info(col)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	kind, err := array.ParseKind(info.Kind)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("%w: column %q: %w", ErrCorrupt, info.Name, err)
	}
	if kind.Width() == 0 {
		return nil, 0, 0, 0, &array.UnsupportedKindError{Op: "search " + info.Name, Kind: kind}
	}
	n := int64(info.Count)
	if info.RandomAccess() {
		if err := checkBlockSize(info, kind, int(info.Length)); err != nil {
			return nil, 0, 0, 0, err
		}
		return blobstore.ReaderAt(ctx, r.blob), kind, r.dataStart + info.Offset + countLen, n, nil
	}

	r.mu.Lock()
	raw, ok := r.decoded[col]
	r.mu.Unlock()
	if !ok {
		if raw, err = r.block(ctx, info); err != nil {
			return nil, 0, 0, 0, err
		}
		if err := checkBlockSize(info, kind, len(raw)); err != nil {
			return nil, 0, 0, 0, err
		}
		r.mu.Lock()
		r.decoded[col] = raw
		r.mu.Unlock()
	}
	return bytes.NewReader(raw), kind, countLen, n, nil
}

// Value returns element row of numeric column col as a double; missing
// values are NaN.
func (r *Reader) Value(ctx context.Context, col, row int) (float64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	if row < 0 || int64(row) >= n {
		return 0, &array.IndexError{Op: "Value", Kind: kind, Index: row, Size: int(n)}
	}
	return array.ReadRAFValue(ra, kind, off, int64(row))
}

// Search binary searches the ascending numeric column col for v. It returns
// the index of a match or -(insertionPoint)-1.
func (r *Reader) Search(ctx context.Context, col int, v float64) (int64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return -1, nil
	}
	return array.RAFBinarySearch(ra, kind, off, 0, n-1, v)
}

// FindFirstGE returns the first row of the ascending column col whose value
// is >= v, or Rows() if there is none.
func (r *Reader) FindFirstGE(ctx context.Context, col int, v float64) (int64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	return array.RAFFindFirstGE(ra, kind, off, 0, n-1, v)
}

// FindLastLE returns the last row of the ascending column col whose value is
// <= v, or -1 if there is none.
func (r *Reader) FindLastLE(ctx context.Context, col int, v float64) (int64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	return array.RAFFindLastLE(ra, kind, off, 0, n-1, v)
}

// FindFirstGAE is FindFirstGE where values almost equal to v are treated as
// equal.
func (r *Reader) FindFirstGAE(ctx context.Context, col int, v float64, tol array.Tolerance) (int64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	return array.RAFFindFirstGAE(ra, kind, off, 0, n-1, v, tol)
}

// FindLastLAE is FindLastLE where values almost equal to v are treated as
// equal.
func (r *Reader) FindLastLAE(ctx context.Context, col int, v float64, tol array.Tolerance) (int64, error) {
	ra, kind, off, n, err := r.elements(ctx, col)
	if err != nil {
		return 0, err
	}
	return array.RAFFindLastLAE(ra, kind, off, 0, n-1, v, tol)
}
