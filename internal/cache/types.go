package cache

import "context"

// Key identifies one block of one blob.
type Key struct {
	Path  string
	Block int64
}

// BlockCache caches immutable blocks. Returned slices are read-only.
type BlockCache interface {
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes the entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	Stats() (hits, misses int64)
	Close() error
}
