// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph, Garage
// and SeaweedFS without pulling in the AWS SDK.
//
//	store, err := minio.Dial(ctx, "localhost:9000", "minioadmin", "minioadmin", false, "tables", "sst/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cat, err := colarray.Open(ctx, store)
package minio
