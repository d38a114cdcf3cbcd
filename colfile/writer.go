package colfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/codec"
	"github.com/hupe1980/colarray/internal/hash"
	"github.com/hupe1980/colarray/internal/resource"
)

type options struct {
	codec       codec.Codec
	compression Compression
	rc          *resource.Controller
}

// Option configures writing.
type Option func(*options)

// WithCodec sets the header codec. The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithCompression sets the block compression. The default is none.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithResourceController limits encode workers, buffered block memory and
// write bandwidth.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) { o.rc = rc }
}

func applyOptions(opts []Option) options {
	o := options{codec: codec.Default, compression: CompressionNone}
	for _, fn := range opts {
		fn(&o)
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	return o
}

func encodeAttributes(s *attributes.Store) ([]byte, error) {
	if s == nil || s.Len() == 0 {
		return nil, nil
	}
	return s.MarshalBinary()
}

// Encode writes f to w and returns the number of bytes written.
func Encode(ctx context.Context, w io.Writer, f *File, opts ...Option) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	o := applyOptions(opts)

	blocks := make([][]byte, len(f.Columns))
	infos := make([]ColumnInfo, len(f.Columns))

	workers := o.rc.Workers()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range f.Columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var raw bytes.Buffer
			if err := c.Data.WriteBinary(&raw); err != nil {
				return fmt.Errorf("column %q: %w", c.Name, err)
			}
			block, comp, err := compressBlock(raw.Bytes(), o.compression)
			if err != nil {
				return fmt.Errorf("column %q: %w", c.Name, err)
			}
			attrs, err := encodeAttributes(c.Attributes)
			if err != nil {
				return fmt.Errorf("column %q attributes: %w", c.Name, err)
			}
			blocks[i] = block
			infos[i] = ColumnInfo{
				Name:        c.Name,
				Kind:        c.Data.Kind().String(),
				Count:       c.Data.Len(),
				Length:      int64(len(block)),
				RawLength:   int64(raw.Len()),
				Compression: comp,
				Checksum:    hash.CRC32C(block),
				Attributes:  attrs,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var off int64
	for i := range infos {
		infos[i].Offset = off
		off += infos[i].Length
	}
	if err := o.rc.AcquireMemory(ctx, off); err != nil {
		return 0, err
	}
	defer o.rc.ReleaseMemory(off)

	global, err := encodeAttributes(f.Attributes)
	if err != nil {
		return 0, fmt.Errorf("file attributes: %w", err)
	}
	header, err := o.codec.Marshal(Header{
		Rows:       f.Table().NRows(),
		Columns:    infos,
		Attributes: global,
	})
	if err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}
	name := o.codec.Name()
	if len(name) > 255 {
		return 0, &UnknownCodecError{Name: name}
	}

	prefix := make([]byte, 0, len(Magic)+2+1+len(name)+4)
	prefix = append(prefix, Magic...)
	prefix = binary.BigEndian.AppendUint16(prefix, Version)
	prefix = append(prefix, byte(len(name)))
	prefix = append(prefix, name...)
	prefix = binary.BigEndian.AppendUint32(prefix, uint32(len(header)))

	if o.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, w, o.rc)
	}
	var total int64
	for _, p := range append([][]byte{prefix, header}, blocks...) {
		n, err := w.Write(p)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write encodes f into the named blob.
func Write(ctx context.Context, store blobstore.BlobStore, name string, f *File, opts ...Option) (int64, error) {
	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	n, err := Encode(ctx, w, f, opts...)
	if err != nil {
		_ = w.Close()
		_ = store.Delete(ctx, name)
		return n, err
	}
	if err := w.Sync(); err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}
