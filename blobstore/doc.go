// Package blobstore provides the storage abstraction for column files and
// catalog manifests.
//
// Blobs are immutable once written. Implementations must be safe for concurrent
// use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, reads through mmap
//   - MemoryStore: in-process, for tests
//   - CachingStore: block cache in front of another store
//   - s3.Store and s3.DDBCommitStore: Amazon S3, optionally with DynamoDB commits
//   - minio.Store: MinIO and other S3-compatible services
//
// Use ReaderAt to run io.ReaderAt based code, such as the array package's RAF
// searches, directly on a Blob.
package blobstore
