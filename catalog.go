package colarray

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/colfile"
)

// Catalog stores named tables with their attributes as column files on a
// BlobStore. A manifest lists the tables; CURRENT names the active manifest.
//
// A Catalog is safe for concurrent use. Several processes may read the same
// store, but only one may write to it unless the store arbitrates CURRENT (as
// s3.DDBCommitStore does).
type Catalog struct {
	store blobstore.BlobStore // manifests and CURRENT
	data  blobstore.BlobStore // column files, possibly cached
	opts  options

	mu       sync.RWMutex
	manifest *Manifest
	current  string
	closed   bool

	readersMu sync.Mutex
	readers   map[string]*colfile.Reader
}

// Open opens the catalog stored on store. A store without a catalog yields
// an empty one; nothing is written until the first Save.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Catalog, error) {
	o := applyOptions(optFns)
	c := &Catalog{
		store:   store,
		data:    store,
		opts:    o,
		readers: make(map[string]*colfile.Reader),
	}
	if o.blockCache != nil {
		bs := o.blockSize
		if bs <= 0 {
			bs = blobstore.DefaultBlockSize
		}
		c.data = blobstore.NewCachingStore(store, o.blockCache, bs)
	}

	m, name, err := loadManifest(ctx, store, o.codec)
	if err != nil {
		return nil, translateError(err)
	}
	c.manifest, c.current = m, name
	o.logger.InfoContext(ctx, "catalog opened",
		"manifest", name,
		"tables", len(m.Tables),
	)
	return c, nil
}

// Reload re-reads CURRENT, picking up commits by other processes.
func (c *Catalog) Reload(ctx context.Context) error {
	m, name, err := loadManifest(ctx, c.store, c.opts.codec)
	if err != nil {
		return translateError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	live := make(map[string]struct{}, len(m.Tables))
	for _, ti := range m.Tables {
		live[ti.File] = struct{}{}
	}
	c.readersMu.Lock()
	for file, r := range c.readers {
		if _, ok := live[file]; !ok {
			_ = r.Close()
			delete(c.readers, file)
		}
	}
	c.readersMu.Unlock()
	c.manifest, c.current = m, name
	return nil
}

// Create stores f under name. It fails with ErrTableExists if the name is
// taken.
func (c *Catalog) Create(ctx context.Context, name string, f *colfile.File) error {
	return c.save(ctx, name, f, false)
}

// Save stores f under name, replacing any table of that name.
func (c *Catalog) Save(ctx context.Context, name string, f *colfile.File) error {
	return c.save(ctx, name, f, true)
}

func (c *Catalog) save(ctx context.Context, name string, f *colfile.File, replace bool) (err error) {
	start := time.Now()
	rows, size := 0, int64(0)
	defer func() {
		c.opts.metricsCollector.RecordSave(rows, size, time.Since(start), err)
		c.opts.logger.LogSave(ctx, name, rows, size, err)
	}()

	if err := checkName(name); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: nil file", ErrInvalidTable)
	}
	if err := f.Validate(); err != nil {
		return translateError(err)
	}
	if c.isClosed() {
		return ErrClosed
	}
	if !replace {
		if _, err := c.Stat(name); err == nil {
			return fmt.Errorf("%w: %q", ErrTableExists, name)
		}
	}

	file := newFileName()
	n, err := colfile.Write(ctx, c.data, file, f, c.opts.fileOptions()...)
	if err != nil {
		return translateError(err)
	}

	info := TableInfo{
		Name:        name,
		File:        file,
		Rows:        f.Table().NRows(),
		Columns:     make([]string, len(f.Columns)),
		Kinds:       make([]string, len(f.Columns)),
		Size:        n,
		Compression: string(c.opts.compression),
		CreatedAt:   time.Now().UTC(),
	}
	for i, col := range f.Columns {
		info.Columns[i] = col.Name
		info.Kinds[i] = col.Data.Kind().String()
	}

	old, err := c.commit(ctx, func(m *Manifest) (TableInfo, error) {
		prev, ok := m.Tables[name]
		if ok && !replace {
			return prev, fmt.Errorf("%w: %q", ErrTableExists, name)
		}
		m.Tables[name] = info
		return prev, nil
	})
	if err != nil {
		_ = c.data.Delete(ctx, file)
		return err
	}
	if old.File != "" {
		c.dropFile(ctx, old.File)
	}
	rows, size = info.Rows, n
	return nil
}

// commit applies update to a copy of the manifest and makes the copy current.
// It returns what update returned for the replaced entry.
func (c *Catalog) commit(ctx context.Context, update func(m *Manifest) (TableInfo, error)) (TableInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return TableInfo{}, ErrClosed
	}

	m := c.manifest.clone()
	old, err := update(m)
	if err != nil {
		return old, err
	}
	name, err := commitManifest(ctx, c.store, c.opts.codec, m)
	c.opts.logger.LogCommit(ctx, name, len(m.Tables), err)
	if err != nil {
		return old, err
	}

	prev := c.current
	c.manifest, c.current = m, name
	if prev != "" {
		if err := c.store.Delete(ctx, prev); err != nil {
			c.opts.logger.WarnContext(ctx, "failed to delete old manifest", "manifest", prev, "error", err)
		}
	}
	if old.File != "" {
		c.closeReader(old.File)
	}
	return old, nil
}

func (c *Catalog) dropFile(ctx context.Context, file string) {
	if err := c.data.Delete(ctx, file); err != nil {
		c.opts.logger.WarnContext(ctx, "failed to delete column file", "file", file, "error", err)
	}
}

// Load reads the named table.
func (c *Catalog) Load(ctx context.Context, name string) (f *colfile.File, err error) {
	start := time.Now()
	rows := 0
	defer func() {
		c.opts.metricsCollector.RecordLoad(rows, time.Since(start), err)
		c.opts.logger.LogLoad(ctx, name, rows, err)
	}()

	c.mu.RLock()
	defer c.mu.RUnlock()
	info, err := c.statLocked(name)
	if err != nil {
		return nil, err
	}
	f, err = colfile.Read(ctx, c.data, info.File)
	if err != nil {
		return nil, translateError(err)
	}
	rows = f.Table().NRows()
	return f, nil
}

// Stat describes the named table.
func (c *Catalog) Stat(name string) (TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statLocked(name)
}

func (c *Catalog) statLocked(name string) (TableInfo, error) {
	if c.closed {
		return TableInfo{}, ErrClosed
	}
	info, ok := c.manifest.Tables[name]
	if !ok {
		return TableInfo{}, fmt.Errorf("%w: table %q", ErrNotFound, name)
	}
	return info, nil
}

// List describes all tables, sorted by name.
func (c *Catalog) List() []TableInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := c.manifest.Names()
	infos := make([]TableInfo, len(names))
	for i, name := range names {
		infos[i] = c.manifest.Tables[name]
	}
	return infos
}

// Delete removes the named table.
func (c *Catalog) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() {
		c.opts.metricsCollector.RecordDelete(time.Since(start), err)
		c.opts.logger.LogDelete(ctx, name, err)
	}()

	old, err := c.commit(ctx, func(m *Manifest) (TableInfo, error) {
		prev, ok := m.Tables[name]
		if !ok {
			return prev, fmt.Errorf("%w: table %q", ErrNotFound, name)
		}
		delete(m.Tables, name)
		return prev, nil
	})
	if err != nil {
		return err
	}
	c.dropFile(ctx, old.File)
	return nil
}

// Search binary searches the ascending numeric column of the named table for
// value. It returns the row if found, else -(insertionPoint) - 1. The search
// reads the stored file in place; the table is not loaded.
func (c *Catalog) Search(ctx context.Context, name, column string, value float64) (row int64, err error) {
	err = c.withColumn(ctx, name, column, func(r *colfile.Reader, col int) error {
		row, err = r.Search(ctx, col, value)
		return err
	})
	c.opts.logger.LogSearch(ctx, name, column, row, err)
	return row, err
}

// Range returns the first and last rows of the ascending numeric column whose
// values lie in [lo, hi]. first > last means no row does.
func (c *Catalog) Range(ctx context.Context, name, column string, lo, hi float64) (first, last int64, err error) {
	err = c.withColumn(ctx, name, column, func(r *colfile.Reader, col int) error {
		if first, err = r.FindFirstGE(ctx, col, lo); err != nil {
			return err
		}
		last, err = r.FindLastLE(ctx, col, hi)
		return err
	})
	c.opts.logger.LogSearch(ctx, name, column, first, err)
	return first, last, err
}

// Value returns the element at row of the named numeric column as a double.
func (c *Catalog) Value(ctx context.Context, name, column string, row int) (v float64, err error) {
	err = c.withColumn(ctx, name, column, func(r *colfile.Reader, col int) error {
		v, err = r.Value(ctx, col, row)
		return err
	})
	return v, err
}

func (c *Catalog) withColumn(ctx context.Context, name, column string, fn func(r *colfile.Reader, col int) error) (err error) {
	start := time.Now()
	defer func() {
		c.opts.metricsCollector.RecordSearch(time.Since(start), err)
	}()

	c.mu.RLock()
	defer c.mu.RUnlock()
	info, err := c.statLocked(name)
	if err != nil {
		return err
	}
	col := info.ColumnIndex(column)
	if col < 0 {
		return &ColumnNotFoundError{Table: name, Column: column}
	}
	r, err := c.reader(ctx, info.File)
	if err != nil {
		return translateError(err)
	}
	return translateError(fn(r, col))
}

// reader returns the cached reader of file. The caller holds c.mu.
func (c *Catalog) reader(ctx context.Context, file string) (*colfile.Reader, error) {
	c.readersMu.Lock()
	defer c.readersMu.Unlock()
	if r, ok := c.readers[file]; ok {
		return r, nil
	}
	r, err := colfile.Open(ctx, c.data, file)
	if err != nil {
		return nil, err
	}
	c.readers[file] = r
	return r, nil
}

// closeReader closes the cached reader of file. The caller holds c.mu for
// writing.
func (c *Catalog) closeReader(file string) {
	c.readersMu.Lock()
	defer c.readersMu.Unlock()
	if r, ok := c.readers[file]; ok {
		_ = r.Close()
		delete(c.readers, file)
	}
}

// Vacuum deletes column files and manifests that the current manifest does
// not reference, such as those left by interrupted saves. It returns the
// number of blobs deleted. It must not run while another process writes.
func (c *Catalog) Vacuum(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}

	live := map[string]struct{}{c.current: {}}
	for _, ti := range c.manifest.Tables {
		live[ti.File] = struct{}{}
	}
	deleted := 0
	for _, prefix := range []string{DataPrefix, ManifestPrefix} {
		names, err := c.store.List(ctx, prefix)
		if err != nil {
			return deleted, err
		}
		for _, name := range names {
			if _, ok := live[name]; ok {
				continue
			}
			if err := c.data.Delete(ctx, name); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	if deleted > 0 {
		c.opts.logger.InfoContext(ctx, "vacuum completed", "deleted", deleted)
	}
	return deleted, nil
}

// Close releases the open readers. Close is idempotent.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.readersMu.Lock()
	defer c.readersMu.Unlock()
	var firstErr error
	for file, r := range c.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.readers, file)
	}
	return firstErr
}

func (c *Catalog) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty table name", ErrInvalidTable)
	}
	return nil
}
