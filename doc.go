// Package colarray stores tables of typed columnar arrays on a blob store.
//
// The array package holds the column types, attributes holds name/value
// metadata and table the row operations. This package adds the Catalog, which
// persists named tables as column files (see colfile) on any
// blobstore.BlobStore: the local file system, memory, S3 or MinIO.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//	cat, _ := colarray.Open(ctx, store, colarray.WithCompression(colfile.CompressionZstd))
//	defer cat.Close()
//
//	f := &colfile.File{Columns: []colfile.Column{
//	    {Name: "time", Data: array.Doubles(0, 60, 120)},
//	    {Name: "temp", Data: array.Floats(11.5, 11.7, 12.1)},
//	}}
//	_ = cat.Save(ctx, "station-1", f)
//
//	row, _ := cat.Search(ctx, "station-1", "time", 60) // 1, read in place
//	back, _ := cat.Load(ctx, "station-1")
//
// # Commits
//
// Every Save, Create and Delete writes a new manifest-<ulid>.json and then
// points CURRENT at it. On a LocalStore both writes are atomic renames; on S3
// CURRENT can be kept in DynamoDB with s3.DDBCommitStore, which rejects
// concurrent commits.
//
// # Observability
//
// Operations log through a Logger (log/slog) and report to a MetricsCollector;
// promcollector exports the metrics to Prometheus.
package colarray
