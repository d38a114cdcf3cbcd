// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("tables/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	cat, err := colarray.Open(ctx, store)
//
// Column files are read with ranged GETs so a binary search on a sorted column
// only fetches the elements it visits. Writes stream through the multipart
// uploader.
//
// S3 has no compare-and-swap, so concurrent writers of one catalog should wrap
// the store in a DDBCommitStore, which keeps the CURRENT manifest pointer in
// DynamoDB.
package s3
