package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/colarray"
	"github.com/hupe1980/colarray/colfile"
	"github.com/hupe1980/colarray/internal/cache"
	"github.com/hupe1980/colarray/internal/resource"
	"github.com/hupe1980/colarray/promcollector"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	logger *colarray.Logger
	reg    *prometheus.Registry
	cat    *colarray.Catalog
	cache  *cache.LRUBlockCache
}

func newApp() *app {
	return &app{v: viper.New()}
}

// newRootCmd builds the command tree. The caller closes a after Execute.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "colarray",
		Short: "Store and query tables of typed columnar arrays",
		Long: `colarray keeps named tables as column files on a local directory, S3 or MinIO.

Every flag can also be set through the environment (COLARRAY_STORE,
COLARRAY_LOG_LEVEL, ...) or a config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("store", "./colarray-data", "catalog location: a directory, s3://bucket/prefix or minio://host[:port]/bucket/prefix")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.String("compression", "zstd", "block compression of saved tables (none, zstd, lz4, snappy)")
	pf.String("codec", "go-json", "header codec (json, go-json)")
	pf.String("cache-size", "64MB", "block cache size for remote reads; 0 disables the cache")
	pf.String("memory-limit", "0", "memory limit for encoding tables; 0 means unlimited")
	pf.String("io-limit", "0", "write bandwidth limit per second; 0 means unlimited")
	pf.Int("workers", runtime.GOMAXPROCS(0), "maximum parallel column encoders")
	pf.String("region", "", "AWS region for s3:// stores")
	pf.String("endpoint", "", "custom S3 endpoint")
	pf.String("ddb-table", "", "DynamoDB table arbitrating catalog commits on s3:// stores")
	pf.String("access-key", "", "MinIO access key")
	pf.String("secret-key", "", "MinIO secret key")
	pf.Bool("insecure", false, "connect to MinIO without TLS")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	a.v.SetEnvPrefix("COLARRAY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "colarray v%s\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
		newListCmd(a),
		newInspectCmd(a),
		newHeadCmd(a),
		newSearchCmd(a),
		newRangeCmd(a),
		newDeleteCmd(a),
		newVacuumCmd(a),
		newImportCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) init() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	switch a.v.GetString("log-format") {
	case "json":
		a.logger = colarray.NewJSONLogger(level)
	default:
		a.logger = colarray.NewTextLogger(level)
	}
	a.reg = prometheus.NewRegistry()
	return nil
}

// catalog opens the catalog on first use.
func (a *app) catalog(ctx context.Context) (*colarray.Catalog, error) {
	if a.cat != nil {
		return a.cat, nil
	}
	opts, err := a.catalogOptions()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, a.v)
	if err != nil {
		return nil, err
	}
	cat, err := colarray.Open(ctx, store, opts...)
	if err != nil {
		return nil, err
	}
	a.cat = cat
	return cat, nil
}

func (a *app) catalogOptions() ([]colarray.Option, error) {
	compression, err := colfile.ParseCompression(a.v.GetString("compression"))
	if err != nil {
		return nil, err
	}
	c, err := parseCodec(a.v.GetString("codec"))
	if err != nil {
		return nil, err
	}
	memLimit, err := parseBytes("memory-limit", a.v.GetString("memory-limit"))
	if err != nil {
		return nil, err
	}
	ioLimit, err := parseBytes("io-limit", a.v.GetString("io-limit"))
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseBytes("cache-size", a.v.GetString("cache-size"))
	if err != nil {
		return nil, err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   int64(memLimit),
		MaxWorkers:         int64(a.v.GetInt("workers")),
		IOLimitBytesPerSec: int64(ioLimit),
	})
	opts := []colarray.Option{
		colarray.WithLogger(a.logger),
		colarray.WithCodec(c),
		colarray.WithCompression(compression),
		colarray.WithResourceController(rc),
		colarray.WithMetricsCollector(promcollector.New(a.reg, "colarray")),
	}
	if cacheSize > 0 && isRemote(a.v.GetString("store")) {
		a.cache = cache.NewLRUBlockCache(int64(cacheSize), rc)
		opts = append(opts, colarray.WithBlockCache(a.cache, 0))
	}
	return opts, nil
}

func (a *app) close() error {
	var firstErr error
	if a.cat != nil {
		firstErr = a.cat.Close()
		a.cat = nil
	}
	if a.cache != nil {
		hits, misses := a.cache.Stats()
		a.logger.Debug("block cache", "hits", hits, "misses", misses, "bytes", humanize.IBytes(uint64(a.cache.Size())))
		_ = a.cache.Close()
		a.cache = nil
	}
	if path := a.v.GetString("metrics-file"); path != "" && a.reg != nil {
		if err := prometheus.WriteToTextfile(path, a.reg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func parseBytes(flag, s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", flag, err)
	}
	return n, nil
}
