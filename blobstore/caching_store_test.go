package blobstore

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colarray/internal/cache"
)

type countingBlob struct {
	Blob
	mu        sync.Mutex
	reads     int
	readBytes int
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := b.Blob.ReadAt(ctx, p, off)
	b.mu.Lock()
	b.reads++
	b.readBytes += n
	b.mu.Unlock()
	return n, err
}

type countingStore struct {
	BlobStore
	blobs map[string]*countingBlob
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	cb := &countingBlob{Blob: b}
	s.blobs[name] = cb
	return cb, nil
}

func newCountingStore(t *testing.T, name string, data []byte) *countingStore {
	t.Helper()
	mem := NewMemoryStore()
	require.NoError(t, mem.Put(context.Background(), name, data))
	return &countingStore{BlobStore: mem, blobs: map[string]*countingBlob{}}
}

func TestCachingStore_ReadAt(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	ctx := context.Background()
	inner := newCountingStore(t, "col", data)
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1<<20, nil), 256)

	blob, err := store.Open(ctx, "col")
	require.NoError(t, err)
	defer blob.Close()
	counted := inner.blobs["col"]

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[:100], buf)
	assert.Equal(t, 1, counted.reads)
	assert.Equal(t, 256, counted.readBytes, "whole block 0 is read")

	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, counted.reads, "cache hit")

	n, err = blob.ReadAt(ctx, buf, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[200:300], buf)
	assert.Equal(t, 2, counted.reads, "only block 1 is fetched")
	assert.Equal(t, 512, counted.readBytes)

	big := make([]byte, 700)
	n, err = blob.ReadAt(ctx, big, 300)
	require.NoError(t, err)
	assert.Equal(t, 700, n)
	assert.Equal(t, data[300:1000], big)
	assert.Equal(t, 3, counted.reads, "blocks 2 and 3 are fetched as one run")
}

func TestCachingStore_ShortRead(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, "small", []byte("hello"))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 256)

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = blob.ReadAt(ctx, buf, 5)
	assert.ErrorIs(t, err, io.EOF)

	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCachingStore_PutInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, "v", []byte("old"))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 0)

	got, err := Get(ctx, store, "v")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	require.NoError(t, store.Put(ctx, "v", []byte("new!")))
	got, err = Get(ctx, store, "v")
	require.NoError(t, err)
	assert.Equal(t, "new!", string(got))

	require.NoError(t, store.Delete(ctx, "v"))
	_, err = store.Open(ctx, "v")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore_ReadRange(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, "r", []byte("0123456789"))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 4)

	blob, err := store.Open(ctx, "r")
	require.NoError(t, err)
	rc, err := blob.ReadRange(ctx, 3, 5)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "34567", string(got))
	require.NoError(t, rc.Close())
}

func TestCachingStore_Canceled(t *testing.T) {
	inner := newCountingStore(t, "c", []byte("abc"))
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 0)
	blob, err := store.Open(context.Background(), "c")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = blob.ReadAt(ctx, make([]byte, 1), 0)
	assert.ErrorIs(t, err, context.Canceled)
}
