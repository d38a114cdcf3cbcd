package colarray

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/table"
)

var (
	// ErrNotFound is returned for a table that is not in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrTableExists is returned by Create for a name that is already taken.
	ErrTableExists = errors.New("table already exists")

	// ErrInvalidTable is returned when a table cannot be stored: no columns,
	// nil or ragged columns, or duplicate column names.
	ErrInvalidTable = errors.New("invalid table")

	// ErrCorrupt is returned when a stored file or manifest cannot be decoded.
	ErrCorrupt = errors.New("corrupt catalog data")

	// ErrClosed is returned by operations on a closed catalog.
	ErrClosed = errors.New("catalog is closed")
)

// ColumnNotFoundError is returned for a column name that is not in a table.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("table %q has no column %q", e.Table, e.Column)
}

// Is reports ErrNotFound as a match.
func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrNotFound }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTable) || errors.Is(err, ErrCorrupt) {
		return err
	}

	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var re *table.RaggedError
	if errors.Is(err, table.ErrNoColumns) || errors.Is(err, table.ErrNilColumn) ||
		errors.Is(err, colfile.ErrDuplicateColumn) || errors.As(err, &re) {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	var uv *colfile.UnsupportedVersionError
	var uc *colfile.UnknownCodecError
	if errors.Is(err, colfile.ErrBadMagic) || errors.Is(err, colfile.ErrCorrupt) ||
		errors.As(err, &uv) || errors.As(err, &uc) {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return err
}
