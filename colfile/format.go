package colfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/table"
)

const (
	// Magic starts every column file.
	Magic = "CARR"
	// Version is the format version written by this package.
	Version uint16 = 1

	maxHeaderLen = 64 << 20
	countLen     = 4
)

var (
	// ErrBadMagic is returned for blobs that are not column files.
	ErrBadMagic = errors.New("colfile: not a column file")
	// ErrCorrupt is returned when a file fails a consistency or checksum check.
	ErrCorrupt = errors.New("colfile: corrupt file")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("colfile: duplicate column name")
)

// UnsupportedVersionError is returned for files written by a newer format.
type UnsupportedVersionError struct {
	Version uint16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("colfile: unsupported version %d (max %d)", e.Version, Version)
}

// UnknownCodecError is returned when the header codec is not built in.
type UnknownCodecError struct {
	Name string
}

func (e *UnknownCodecError) Error() string {
	return fmt.Sprintf("colfile: unknown codec %q", e.Name)
}

// Compression selects how column blocks are compressed.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionZstd   Compression = "zstd"
	CompressionLZ4    Compression = "lz4"
	CompressionSnappy Compression = "snappy"
)

// ParseCompression parses a compression name; "" means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4, CompressionSnappy:
		return c, nil
	default:
		return "", fmt.Errorf("colfile: unknown compression %q", s)
	}
}

// Header describes the contents of a column file.
type Header struct {
	Rows       int          `json:"rows"`
	Columns    []ColumnInfo `json:"columns"`
	Attributes []byte       `json:"attributes,omitempty"`
}

// ColumnInfo locates one column block.
type ColumnInfo struct {
	Name        string      `json:"name"`
	Kind        string      `json:"kind"`
	Count       int         `json:"count"`
	Offset      int64       `json:"offset"`
	Length      int64       `json:"length"`
	RawLength   int64       `json:"raw_length"`
	Compression Compression `json:"compression"`
	Checksum    uint32      `json:"crc32c"`
	Attributes  []byte      `json:"attributes,omitempty"`
}

// RandomAccess reports whether the block can be searched in place.
func (c ColumnInfo) RandomAccess() bool {
	k, err := array.ParseKind(c.Kind)
	return err == nil && k.Width() > 0 && c.Compression == CompressionNone
}

// Column is a named array with its attributes.
type Column struct {
	Name       string
	Data       array.Array
	Attributes *attributes.Store
}

// File is the decoded content of a column file.
type File struct {
	Attributes *attributes.Store
	Columns    []Column
}

// Table returns the column arrays. They are shared, not copied.
func (f *File) Table() table.Table {
	t := make(table.Table, len(f.Columns))
	for i, c := range f.Columns {
		t[i] = c.Data
	}
	return t
}

// ColumnIndex returns the index of the named column, or -1.
func (f *File) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that the columns form a valid table with unique names.
func (f *File) Validate() error {
	if err := f.Table().Validate(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(f.Columns))
	for _, c := range f.Columns {
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
