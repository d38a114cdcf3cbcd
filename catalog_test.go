package colarray

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/internal/cache"
)

func stationFile() *colfile.File {
	times := make([]float64, 100)
	for i := range times {
		times[i] = float64(i) * 0.5
	}
	temps := make([]float32, 100)
	for i := range temps {
		temps[i] = 10 + float32(i%7)
	}
	return &colfile.File{
		Attributes: attributes.New().AddString("title", "Station 1"),
		Columns: []colfile.Column{
			{Name: "time", Data: array.Doubles(times...), Attributes: attributes.New().AddString("units", "s")},
			{Name: "temp", Data: array.Floats(temps...)},
			{Name: "id", Data: array.NewString(100, true)},
		},
	}
}

func openCatalog(t *testing.T, store blobstore.BlobStore, opts ...Option) *Catalog {
	t.Helper()
	cat, err := Open(context.Background(), store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveAndLoad", func(t *testing.T) {
		for _, c := range []colfile.Compression{colfile.CompressionNone, colfile.CompressionZstd} {
			t.Run(string(c), func(t *testing.T) {
				cat := openCatalog(t, blobstore.NewMemoryStore(), WithCompression(c))
				f := stationFile()
				require.NoError(t, cat.Save(ctx, "station", f))

				back, err := cat.Load(ctx, "station")
				require.NoError(t, err)
				require.Len(t, back.Columns, 3)
				for i, col := range f.Columns {
					assert.Equal(t, col.Name, back.Columns[i].Name)
					assert.True(t, col.Data.Equal(back.Columns[i].Data), col.Name)
				}
				assert.Equal(t, "Station 1", back.Attributes.GetString("title"))
				assert.Equal(t, "s", back.Columns[0].Attributes.GetString("units"))

				info, err := cat.Stat("station")
				require.NoError(t, err)
				assert.Equal(t, 100, info.Rows)
				assert.Equal(t, []string{"time", "temp", "id"}, info.Columns)
				assert.Equal(t, []string{"double", "float", "String"}, info.Kinds)
				assert.Equal(t, string(c), info.Compression)
				assert.Positive(t, info.Size)
			})
		}
	})

	t.Run("Reopen", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		cat := openCatalog(t, store)
		require.NoError(t, cat.Save(ctx, "b", stationFile()))
		require.NoError(t, cat.Save(ctx, "a", stationFile()))
		require.NoError(t, cat.Close())

		again := openCatalog(t, store)
		infos := again.List()
		require.Len(t, infos, 2)
		assert.Equal(t, "a", infos[0].Name)
		assert.Equal(t, "b", infos[1].Name)

		manifests, err := store.List(ctx, ManifestPrefix)
		require.NoError(t, err)
		assert.Len(t, manifests, 1, "superseded manifests are removed")
	})

	t.Run("CreateRejectsExisting", func(t *testing.T) {
		cat := openCatalog(t, blobstore.NewMemoryStore())
		require.NoError(t, cat.Create(ctx, "t", stationFile()))
		assert.ErrorIs(t, cat.Create(ctx, "t", stationFile()), ErrTableExists)
	})

	t.Run("ReplaceDeletesOldFile", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		cat := openCatalog(t, store)
		require.NoError(t, cat.Save(ctx, "t", stationFile()))
		_, err := cat.Search(ctx, "t", "time", 1)
		require.NoError(t, err)

		f := stationFile()
		f.Columns = f.Columns[:1]
		require.NoError(t, cat.Save(ctx, "t", f))

		files, err := store.List(ctx, DataPrefix)
		require.NoError(t, err)
		assert.Len(t, files, 1)

		_, err = cat.Search(ctx, "t", "temp", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		cat := openCatalog(t, store)
		require.NoError(t, cat.Save(ctx, "t", stationFile()))
		require.NoError(t, cat.Delete(ctx, "t"))

		_, err := cat.Load(ctx, "t")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, cat.Delete(ctx, "t"), ErrNotFound)
		assert.Empty(t, cat.List())

		files, err := store.List(ctx, DataPrefix)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("InvalidTable", func(t *testing.T) {
		cat := openCatalog(t, blobstore.NewMemoryStore())

		ragged := &colfile.File{Columns: []colfile.Column{
			{Name: "a", Data: array.Ints(1, 2)},
			{Name: "b", Data: array.Ints(1)},
		}}
		assert.ErrorIs(t, cat.Save(ctx, "r", ragged), ErrInvalidTable)

		dup := &colfile.File{Columns: []colfile.Column{
			{Name: "a", Data: array.Ints(1)},
			{Name: "a", Data: array.Ints(2)},
		}}
		assert.ErrorIs(t, cat.Save(ctx, "d", dup), ErrInvalidTable)
		assert.ErrorIs(t, cat.Save(ctx, "d", &colfile.File{}), ErrInvalidTable)
		assert.ErrorIs(t, cat.Save(ctx, " ", stationFile()), ErrInvalidTable)
		assert.ErrorIs(t, cat.Save(ctx, "n", nil), ErrInvalidTable)
	})

	t.Run("Closed", func(t *testing.T) {
		cat := openCatalog(t, blobstore.NewMemoryStore())
		require.NoError(t, cat.Close())
		require.NoError(t, cat.Close())

		assert.ErrorIs(t, cat.Save(ctx, "t", stationFile()), ErrClosed)
		_, err := cat.Load(ctx, "t")
		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()

	for _, c := range []colfile.Compression{colfile.CompressionNone, colfile.CompressionLZ4} {
		t.Run(string(c), func(t *testing.T) {
			cat := openCatalog(t, blobstore.NewMemoryStore(), WithCompression(c))
			require.NoError(t, cat.Save(ctx, "s", stationFile()))

			row, err := cat.Search(ctx, "s", "time", 10)
			require.NoError(t, err)
			assert.Equal(t, int64(20), row)

			row, err = cat.Search(ctx, "s", "time", 10.25)
			require.NoError(t, err)
			assert.Equal(t, int64(-22), row)

			first, last, err := cat.Range(ctx, "s", "time", 1, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(2), first)
			assert.Equal(t, int64(4), last)

			v, err := cat.Value(ctx, "s", "time", 3)
			require.NoError(t, err)
			assert.Equal(t, 1.5, v)
		})
	}

	t.Run("Errors", func(t *testing.T) {
		cat := openCatalog(t, blobstore.NewMemoryStore())
		require.NoError(t, cat.Save(ctx, "s", stationFile()))

		_, err := cat.Search(ctx, "missing", "time", 1)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = cat.Search(ctx, "s", "depth", 1)
		var cnf *ColumnNotFoundError
		require.ErrorAs(t, err, &cnf)
		assert.Equal(t, "depth", cnf.Column)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = cat.Search(ctx, "s", "id", 1)
		var uk *array.UnsupportedKindError
		assert.ErrorAs(t, err, &uk)

		_, err = cat.Value(ctx, "s", "time", 100)
		var ie *array.IndexError
		assert.ErrorAs(t, err, &ie)
	})

	t.Run("BlockCache", func(t *testing.T) {
		bc := cache.NewLRUBlockCache(1<<20, nil)
		defer bc.Close()
		cat := openCatalog(t, blobstore.NewMemoryStore(), WithBlockCache(bc, 256))
		require.NoError(t, cat.Save(ctx, "s", stationFile()))

		for range 2 {
			row, err := cat.Search(ctx, "s", "time", 49.5)
			require.NoError(t, err)
			assert.Equal(t, int64(99), row)
		}
		hits, _ := bc.Stats()
		assert.Positive(t, hits)
	})
}

func TestCatalogReload(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	writer := openCatalog(t, store)
	reader := openCatalog(t, store)

	require.NoError(t, writer.Save(ctx, "t", stationFile()))
	_, err := reader.Stat("t")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, reader.Reload(ctx))
	row, err := reader.Search(ctx, "t", "time", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row)

	require.NoError(t, writer.Delete(ctx, "t"))
	require.NoError(t, reader.Reload(ctx))
	assert.Empty(t, reader.List())
}

func TestCatalogVacuum(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	cat := openCatalog(t, store)
	require.NoError(t, cat.Save(ctx, "t", stationFile()))
	require.NoError(t, store.Put(ctx, DataPrefix+"orphan.col", []byte("x")))
	require.NoError(t, store.Put(ctx, ManifestPrefix+"old.json", []byte("{}")))

	n, err := cat.Vacuum(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = cat.Load(ctx, "t")
	require.NoError(t, err)
}

func TestCatalogCorruptManifest(t *testing.T) {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, CurrentFileName, []byte("manifest-x.json")))
	require.NoError(t, store.Put(ctx, "manifest-x.json", []byte("not json")))
	_, err := Open(ctx, store)
	assert.ErrorIs(t, err, ErrCorrupt)

	store = blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, CurrentFileName, []byte("manifest-gone.json")))
	_, err = Open(ctx, store)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogMetricsAndLogging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	cat := openCatalog(t, blobstore.NewMemoryStore(),
		WithMetricsCollector(metrics),
		WithLogger(NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)

	require.NoError(t, cat.Save(ctx, "t", stationFile()))
	assert.Error(t, cat.Save(ctx, "", stationFile()))
	_, err := cat.Load(ctx, "t")
	require.NoError(t, err)
	_, err = cat.Search(ctx, "t", "time", 3)
	require.NoError(t, err)
	require.NoError(t, cat.Delete(ctx, "t"))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.SaveCount)
	assert.Equal(t, int64(1), stats.SaveErrors)
	assert.Equal(t, int64(100), stats.SaveRows)
	assert.Positive(t, stats.SaveBytes)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(100), stats.LoadRows)
	assert.Equal(t, int64(1), stats.SearchCount)
	assert.Equal(t, int64(1), stats.DeleteCount)

	out := buf.String()
	assert.Contains(t, out, `"msg":"table saved"`)
	assert.Contains(t, out, `"msg":"save failed"`)
	assert.Contains(t, out, `"msg":"table deleted"`)
	assert.Contains(t, out, `"table":"t"`)
}
