package colarray

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/codec"
)

const (
	// CurrentFileName is the blob naming the active manifest.
	CurrentFileName = "CURRENT"

	// ManifestPrefix starts the name of every manifest blob.
	ManifestPrefix = "manifest-"

	// DataPrefix starts the name of every column file blob.
	DataPrefix = "data/"

	// ManifestVersion is the version of the manifest format.
	ManifestVersion = 1
)

// Manifest lists the tables of a catalog at one commit.
type Manifest struct {
	Version   int                  `json:"version"`
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Tables    map[string]TableInfo `json:"tables"`
}

// TableInfo describes a stored table.
type TableInfo struct {
	Name        string    `json:"name"`
	File        string    `json:"file"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Kinds       []string  `json:"kinds"`
	Size        int64     `json:"size"`
	Compression string    `json:"compression"`
	CreatedAt   time.Time `json:"created_at"`
}

// ColumnIndex returns the index of the named column, or -1.
func (ti TableInfo) ColumnIndex(name string) int {
	return slices.Index(ti.Columns, name)
}

func newManifest() *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		Tables:  make(map[string]TableInfo),
	}
}

func (m *Manifest) clone() *Manifest {
	c := *m
	c.Tables = maps.Clone(m.Tables)
	if c.Tables == nil {
		c.Tables = make(map[string]TableInfo)
	}
	return &c
}

// Names returns the table names in sorted order.
func (m *Manifest) Names() []string {
	return slices.Sorted(maps.Keys(m.Tables))
}

func manifestName(id string) string {
	return ManifestPrefix + id + ".json"
}

func newFileName() string {
	return DataPrefix + ulid.Make().String() + ".col"
}

// loadManifest reads the manifest CURRENT points to. A store without CURRENT
// holds an empty catalog; the returned name is then "".
func loadManifest(ctx context.Context, store blobstore.BlobStore, c codec.Codec) (*Manifest, string, error) {
	current, err := blobstore.Get(ctx, store, CurrentFileName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return newManifest(), "", nil
		}
		return nil, "", err
	}
	name := strings.TrimSpace(string(current))
	data, err := blobstore.Get(ctx, store, name)
	if err != nil {
		return nil, "", fmt.Errorf("manifest %s: %w", name, err)
	}
	m := newManifest()
	if err := c.Unmarshal(data, m); err != nil {
		return nil, "", fmt.Errorf("%w: manifest %s: %w", ErrCorrupt, name, err)
	}
	if m.Version != ManifestVersion {
		return nil, "", fmt.Errorf("%w: manifest %s has version %d", ErrCorrupt, name, m.Version)
	}
	if m.Tables == nil {
		m.Tables = make(map[string]TableInfo)
	}
	return m, name, nil
}

// commitManifest writes m under a fresh id and points CURRENT at it. The
// manifest blob is removed again if CURRENT cannot be updated.
func commitManifest(ctx context.Context, store blobstore.BlobStore, c codec.Codec, m *Manifest) (string, error) {
	m.Version = ManifestVersion
	m.ID = ulid.Make().String()
	m.CreatedAt = time.Now().UTC()

	data, err := c.Marshal(m)
	if err != nil {
		return "", err
	}
	name := manifestName(m.ID)
	if err := store.Put(ctx, name, data); err != nil {
		return "", err
	}
	if err := store.Put(ctx, CurrentFileName, []byte(name)); err != nil {
		_ = store.Delete(ctx, name)
		return "", err
	}
	return name, nil
}
