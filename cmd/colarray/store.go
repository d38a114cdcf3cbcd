package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupe1980/colarray/blobstore"
	"github.com/hupe1980/colarray/blobstore/minio"
	"github.com/hupe1980/colarray/blobstore/s3"
	"github.com/hupe1980/colarray/codec"
)

// storeLocation is a parsed --store value.
type storeLocation struct {
	scheme   string // "", "s3" or "minio"
	host     string // minio endpoint
	bucket   string
	prefix   string
	localDir string
}

func parseStoreLocation(s string) (storeLocation, error) {
	if !strings.Contains(s, "://") {
		if s == "" {
			return storeLocation{}, fmt.Errorf("store: empty location")
		}
		return storeLocation{localDir: s}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return storeLocation{}, fmt.Errorf("store: %w", err)
	}
	p := strings.Trim(u.Path, "/")
	switch u.Scheme {
	case "file":
		return storeLocation{localDir: u.Path}, nil
	case "s3":
		if u.Host == "" {
			return storeLocation{}, fmt.Errorf("store %q: missing bucket", s)
		}
		return storeLocation{scheme: "s3", bucket: u.Host, prefix: p}, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(p, "/")
		if u.Host == "" || bucket == "" {
			return storeLocation{}, fmt.Errorf("store %q: want minio://host/bucket[/prefix]", s)
		}
		return storeLocation{scheme: "minio", host: u.Host, bucket: bucket, prefix: prefix}, nil
	default:
		return storeLocation{}, fmt.Errorf("store %q: unsupported scheme %q", s, u.Scheme)
	}
}

func isRemote(s string) bool {
	loc, err := parseStoreLocation(s)
	return err == nil && loc.scheme != ""
}

func openStore(ctx context.Context, v *viper.Viper) (blobstore.BlobStore, error) {
	loc, err := parseStoreLocation(v.GetString("store"))
	if err != nil {
		return nil, err
	}
	switch loc.scheme {
	case "s3":
		var opts []s3.Option
		if loc.prefix != "" {
			opts = append(opts, s3.WithPrefix(loc.prefix))
		}
		if r := v.GetString("region"); r != "" {
			opts = append(opts, s3.WithRegion(r))
		}
		if e := v.GetString("endpoint"); e != "" {
			opts = append(opts, s3.WithEndpoint(e))
		}
		if table := v.GetString("ddb-table"); table != "" {
			return s3.NewWithDDBCommits(ctx, loc.bucket, table, opts...)
		}
		return s3.New(ctx, loc.bucket, opts...)
	case "minio":
		return minio.Dial(ctx, loc.host, v.GetString("access-key"), v.GetString("secret-key"),
			!v.GetBool("insecure"), loc.bucket, loc.prefix)
	default:
		return blobstore.NewLocalStore(loc.localDir), nil
	}
}

func parseCodec(name string) (codec.Codec, error) {
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q (want one of %s)", name, strings.Join(codec.Names(), ", "))
	}
	return c, nil
}
