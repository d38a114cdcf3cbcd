package colfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/codec"
	"github.com/hupe1980/colarray/internal/hash"
	"github.com/hupe1980/colarray/internal/iox"
)

// Reader reads a column file from a blob. Columns are loaded on demand. It is
// safe for concurrent use.
type Reader struct {
	blob      blobstore.Blob
	owned     bool
	codec     codec.Codec
	header    Header
	dataStart int64

	mu      sync.Mutex
	decoded map[int][]byte // decompressed blocks, for searches
}

// Open opens the named column file. Close releases the blob.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (*Reader, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(ctx, b)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	r.owned = true
	return r, nil
}

// NewReader reads the header of a column file. The caller keeps ownership of b.
func NewReader(ctx context.Context, b blobstore.Blob) (*Reader, error) {
	ra := blobstore.ReaderAt(ctx, b)

	fixed := make([]byte, len(Magic)+2+1)
	if err := iox.ReadFullAt(ra, fixed, 0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagic, err)
	}
	if string(fixed[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	if v := binary.BigEndian.Uint16(fixed[len(Magic):]); v == 0 || v > Version {
		return nil, &UnsupportedVersionError{Version: v}
	}
	nameLen := int64(fixed[len(fixed)-1])
	off := int64(len(fixed))

	rest := make([]byte, nameLen+4)
	if err := iox.ReadFullAt(ra, rest, off); err != nil {
		return nil, fmt.Errorf("%w: codec name: %w", ErrCorrupt, err)
	}
	name := string(rest[:nameLen])
	c, ok := codec.ByName(name)
	if !ok {
		return nil, &UnknownCodecError{Name: name}
	}
	headerLen := int64(binary.BigEndian.Uint32(rest[nameLen:]))
	off += int64(len(rest))
	if headerLen > maxHeaderLen || off+headerLen > b.Size() {
		return nil, fmt.Errorf("%w: header length %d", ErrCorrupt, headerLen)
	}

	raw := make([]byte, headerLen)
	if err := iox.ReadFullAt(ra, raw, off); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	var h Header
	if err := c.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}

	r := &Reader{
		blob:      b,
		codec:     c,
		header:    h,
		dataStart: off + headerLen,
		decoded:   make(map[int][]byte),
	}
	if err := r.checkHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) checkHeader() error {
	size := r.blob.Size() - r.dataStart
	for i, c := range r.header.Columns {
		if _, err := array.ParseKind(c.Kind); err != nil {
			return fmt.Errorf("%w: column %d: %w", ErrCorrupt, i, err)
		}
		if c.Offset < 0 || c.Length < countLen || c.RawLength < countLen || c.Offset+c.Length > size {
			return fmt.Errorf("%w: column %q block [%d, %d) outside data of %d bytes",
				ErrCorrupt, c.Name, c.Offset, c.Offset+c.Length, size)
		}
		if c.Count != r.header.Rows {
			return fmt.Errorf("%w: column %q has %d rows, header says %d", ErrCorrupt, c.Name, c.Count, r.header.Rows)
		}
	}
	return nil
}

// Close closes the blob if the Reader opened it.
func (r *Reader) Close() error {
	if r.owned {
		return r.blob.Close()
	}
	return nil
}

// Header returns the decoded header.
func (r *Reader) Header() Header { return r.header }

// Codec returns the codec the header was written with.
func (r *Reader) Codec() codec.Codec { return r.codec }

// Rows returns the number of rows.
func (r *Reader) Rows() int { return r.header.Rows }

// NumColumns returns the number of columns.
func (r *Reader) NumColumns() int { return len(r.header.Columns) }

// ColumnIndex returns the index of the named column, or -1.
func (r *Reader) ColumnIndex(name string) int {
	for i, c := range r.header.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (r *Reader) info(col int) (ColumnInfo, error) {
	if col < 0 || col >= len(r.header.Columns) {
		return ColumnInfo{}, fmt.Errorf("colfile: column %d out of range [0, %d)", col, len(r.header.Columns))
	}
	return r.header.Columns[col], nil
}

// Attributes returns the file-level attributes.
func (r *Reader) Attributes() (*attributes.Store, error) {
	return decodeAttributes(r.header.Attributes)
}

// ColumnAttributes returns the attributes of column col.
func (r *Reader) ColumnAttributes(col int) (*attributes.Store, error) {
	info, err := r.info(col)
	if err != nil {
		return nil, err
	}
	return decodeAttributes(info.Attributes)
}

func decodeAttributes(data []byte) (*attributes.Store, error) {
	s := attributes.New()
	if len(data) == 0 {
		return s, nil
	}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

// block returns the uncompressed binary form of column col.
func (r *Reader) block(ctx context.Context, info ColumnInfo) ([]byte, error) {
	stored := make([]byte, info.Length)
	if err := iox.ReadFullAt(blobstore.ReaderAt(ctx, r.blob), stored, r.dataStart+info.Offset); err != nil {
		return nil, fmt.Errorf("column %q: %w", info.Name, err)
	}
	if sum := hash.CRC32C(stored); sum != info.Checksum {
		return nil, fmt.Errorf("%w: column %q checksum %08x, want %08x", ErrCorrupt, info.Name, sum, info.Checksum)
	}
	raw, err := decompressBlock(stored, info.Compression, info.RawLength)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", info.Name, err)
	}
	return raw, nil
}

// Column loads column col.
func (r *Reader) Column(ctx context.Context, col int) (array.Array, error) {
	info, err := r.info(col)
	if err != nil {
		return nil, err
	}
	kind, err := array.ParseKind(info.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q: %w", ErrCorrupt, info.Name, err)
	}
	raw, err := r.block(ctx, info)
	if err != nil {
		return nil, err
	}
	if err := checkBlockSize(info, kind, len(raw)); err != nil {
		return nil, err
	}
	a, err := array.New(kind, info.Count, false)
	if err != nil {
		return nil, err
	}
	if err := a.ReadBinary(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: column %q: %w", ErrCorrupt, info.Name, err)
	}
	if a.Len() != info.Count {
		return nil, fmt.Errorf("%w: column %q has %d elements, want %d", ErrCorrupt, info.Name, a.Len(), info.Count)
	}
	return a, nil
}

// checkBlockSize verifies that a binary block of rawLen bytes can hold
// info.Count elements of kind before anything is allocated for them. Each
// String element takes at least its length prefix.
func checkBlockSize(info ColumnInfo, kind array.Kind, rawLen int) error {
	width := int64(kind.Width())
	if width == 0 {
		width = countLen
	}
	if info.Count < 0 || int64(info.Count)*width > int64(rawLen)-countLen {
		return fmt.Errorf("%w: column %q: %d bytes cannot hold %d %s elements",
			ErrCorrupt, info.Name, rawLen, info.Count, kind)
	}
	return nil
}

// ReadFile loads every column and all attributes.
func (r *Reader) ReadFile(ctx context.Context) (*File, error) {
	f := &File{Columns: make([]Column, r.NumColumns())}
	var err error
	if f.Attributes, err = r.Attributes(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, info := range r.header.Columns {
		g.Go(func() error {
			data, err := r.Column(gctx, i)
			if err != nil {
				return err
			}
			attrs, err := r.ColumnAttributes(i)
			if err != nil {
				return fmt.Errorf("column %q attributes: %w", info.Name, err)
			}
			f.Columns[i] = Column{Name: info.Name, Data: data, Attributes: attrs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// Read opens, reads and closes the named column file.
func Read(ctx context.Context, store blobstore.BlobStore, name string) (*File, error) {
	r, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadFile(ctx)
}
