package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colarray"
)

const stationsCSV = `time,temp,station
0,10.5,"A, north"
1,11.25,B
2,,C
3,12,D
`

// run executes one colarray invocation against the catalog in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	a := newApp()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--store", dir, "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return out.String(), err
}

func TestParseStoreLocation(t *testing.T) {
	tests := []struct {
		in   string
		want storeLocation
	}{
		{"./data", storeLocation{localDir: "./data"}},
		{"file:///var/lib/colarray", storeLocation{localDir: "/var/lib/colarray"}},
		{"s3://bucket", storeLocation{scheme: "s3", bucket: "bucket"}},
		{"s3://bucket/a/b/", storeLocation{scheme: "s3", bucket: "bucket", prefix: "a/b"}},
		{"minio://localhost:9000/bucket", storeLocation{scheme: "minio", host: "localhost:9000", bucket: "bucket"}},
		{"minio://localhost:9000/bucket/tables", storeLocation{scheme: "minio", host: "localhost:9000", bucket: "bucket", prefix: "tables"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStoreLocation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "s3://", "minio://localhost:9000", "gs://bucket"} {
		_, err := parseStoreLocation(bad)
		assert.Error(t, err, bad)
	}

	assert.True(t, isRemote("s3://bucket"))
	assert.False(t, isRemote("./data"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "colarray v"+version)
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, stationsCSV, "import", "csv", "-", "--name", "stations", "--attr", "title=CTD stations")
	require.NoError(t, err)

	t.Run("List", func(t *testing.T) {
		out, err := run(t, dir, "", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "stations")
		assert.Contains(t, out, "zstd")
	})

	t.Run("Inspect", func(t *testing.T) {
		out, err := run(t, dir, "", "inspect", "stations")
		require.NoError(t, err)
		assert.Contains(t, out, "stations: 4 rows")
		assert.Contains(t, out, "title = ")
		assert.Contains(t, out, "byte")
		assert.Contains(t, out, "float")
		assert.Contains(t, out, "String")
	})

	t.Run("Head", func(t *testing.T) {
		out, err := run(t, dir, "", "head", "stations", "-n", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "A, north")
		assert.Contains(t, out, "B")
		assert.NotContains(t, out, "D")
	})

	t.Run("Search", func(t *testing.T) {
		out, err := run(t, dir, "", "search", "stations", "time", "2")
		require.NoError(t, err)
		assert.Equal(t, "2\n", out)

		out, err = run(t, dir, "", "search", "stations", "time", "2.5")
		require.NoError(t, err)
		assert.Equal(t, "-4\n", out)

		_, err = run(t, dir, "", "search", "stations", "time", "abc")
		assert.Error(t, err)
	})

	t.Run("Range", func(t *testing.T) {
		out, err := run(t, dir, "", "range", "stations", "time", "0.5", "2")
		require.NoError(t, err)
		assert.Equal(t, "1 2\n", out)

		out, err = run(t, dir, "", "range", "stations", "time", "10", "20")
		require.NoError(t, err)
		assert.Equal(t, "no rows\n", out)
	})

	t.Run("ExportCSV", func(t *testing.T) {
		out, err := run(t, dir, "", "export", "csv", "stations")
		require.NoError(t, err)
		assert.Equal(t, "time,temp,station\n0,10.5,\"A, north\"\n1,11.25,B\n2,,C\n3,12.0,D\n", out)
	})

	t.Run("CreateRejectsExisting", func(t *testing.T) {
		_, err := run(t, dir, stationsCSV, "import", "csv", "-", "--name", "stations")
		require.ErrorIs(t, err, colarray.ErrTableExists)

		_, err = run(t, dir, stationsCSV, "import", "csv", "-", "--name", "stations", "--replace")
		require.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		_, err := run(t, dir, stationsCSV, "import", "csv", "-", "--name", "scratch")
		require.NoError(t, err)
		_, err = run(t, dir, "", "delete", "scratch")
		require.NoError(t, err)

		_, err = run(t, dir, "", "head", "scratch")
		require.ErrorIs(t, err, colarray.ErrNotFound)

		out, err := run(t, dir, "", "vacuum")
		require.NoError(t, err)
		assert.Contains(t, out, "deleted")
	})
}

func TestImportCSVSortBy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casts.csv")
	require.NoError(t, os.WriteFile(path, []byte("depth,cast\n30,b\n10,a\n20,c\n"), 0o600))

	_, err := run(t, dir, "", "import", "csv", path, "--sort-by", "depth")
	require.NoError(t, err)

	out, err := run(t, dir, "", "export", "csv", "casts")
	require.NoError(t, err)
	assert.Equal(t, "depth,cast\n10,a\n20,c\n30,b\n", out)

	_, err = run(t, dir, "", "import", "csv", path, "--name", "other", "--sort-by", "nope")
	assert.Error(t, err)
}

func TestImportCSVErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "import", "csv", "-", "--name", "empty")
	assert.Error(t, err)

	_, err = run(t, dir, "a,b\n1,2,3\n", "import", "csv", "-", "--name", "ragged")
	assert.ErrorContains(t, err, "line 2")

	_, err = run(t, dir, "a\n1\n", "import", "csv", "-", "--name", "attr", "--attr", "novalue")
	assert.Error(t, err)
}

func TestArrowRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, stationsCSV, "import", "csv", "-", "--name", "stations")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stations.arrow")
	_, err = run(t, dir, "", "export", "arrow", "stations", path)
	require.NoError(t, err)

	_, err = run(t, dir, "", "import", "arrow", path, "--name", "copy")
	require.NoError(t, err)

	want, err := run(t, dir, "", "export", "csv", "stations")
	require.NoError(t, err)
	got, err := run(t, dir, "", "export", "csv", "copy")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := run(t, dir, stationsCSV, "--metrics-file", path, "import", "csv", "-", "--name", "stations")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `colarray_catalog_requests_total{operation="save",status="success"} 1`)
}

func TestConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COLARRAY_COMPRESSION", "lz4")

	_, err := run(t, dir, stationsCSV, "import", "csv", "-", "--name", "stations")
	require.NoError(t, err)

	out, err := run(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lz4")

	t.Setenv("COLARRAY_COMPRESSION", "brotli")
	_, err = run(t, dir, "", "list")
	assert.Error(t, err)
}
