package sqlsource

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/colfile"
)

func TestQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := mock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT4", int64(0)),
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("score").OfType("FLOAT8", float64(0)).Nullable(true),
		sqlmock.NewColumn("active").OfType("BOOL", false),
		sqlmock.NewColumn("ts").OfType("TIMESTAMP", time.Time{}),
		sqlmock.NewColumn("big").OfType("BIGINT", int64(0)),
	).
		AddRow(int64(1), "a", 1.5, true, time.Unix(10, 0), int64(1)<<40).
		AddRow(int64(2), nil, nil, false, nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM readings").WithArgs(5).WillReturnRows(rows)

	f, err := Query(context.Background(), db, "SELECT * FROM readings WHERE station = ?", []any{5})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, f.Columns, 6)
	kinds := make([]array.Kind, len(f.Columns))
	for i, c := range f.Columns {
		kinds[i] = c.Data.Kind()
	}
	assert.Equal(t, []array.Kind{array.Int, array.String, array.Double, array.Byte, array.Double, array.Long}, kinds)

	assert.Equal(t, "1, 2", f.Columns[0].Data.String())
	assert.Equal(t, "a", f.Columns[1].Data.GetString(0))
	assert.True(t, f.Columns[1].Data.IsMissing(1))
	assert.Equal(t, 1.5, f.Columns[2].Data.GetDouble(0))
	assert.True(t, math.IsNaN(f.Columns[2].Data.GetDouble(1)))
	assert.Equal(t, "1, 0", f.Columns[3].Data.String())
	assert.Equal(t, 10.0, f.Columns[4].Data.GetDouble(0))
	assert.True(t, f.Columns[4].Data.IsMissing(1))
	assert.Equal(t, int64(1)<<40, f.Columns[5].Data.GetLong(0))
	assert.True(t, f.Columns[5].Data.IsMissing(1))

	assert.Equal(t, "FLOAT8", f.Columns[2].Attributes.GetString(SQLTypeAttribute))
}

func TestReadRowsMaxRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := mock.NewRowsWithColumnDefinition(sqlmock.NewColumn("n").OfType("SMALLINT", int64(0))).
		AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	f, err := Query(context.Background(), db, "SELECT n FROM t", nil, WithMaxRows(2))
	require.NoError(t, err)
	assert.Equal(t, array.Short, f.Columns[0].Data.Kind())
	assert.Equal(t, "1, 2", f.Columns[0].Data.String())
}

func TestQueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	mock.ExpectQuery("SELECT").WillReturnError(boom)
	_, err = Query(context.Background(), db, "SELECT 1", nil)
	assert.ErrorIs(t, err, boom)

	rows := sqlmock.NewRows([]string{"a"}).AddRow(1).RowError(0, boom)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	_, err = Query(context.Background(), db, "SELECT a", nil)
	assert.ErrorIs(t, err, boom)
}

func TestCreateTableSQL(t *testing.T) {
	f := &colfile.File{Columns: []colfile.Column{
		{Name: "id", Data: array.Ints(1)},
		{Name: `we"ird`, Data: array.Strings("abcde")},
		{Name: "t", Data: array.Doubles(0)},
	}}
	assert.Equal(t, `CREATE TABLE "obs" ("id" integer, "we""ird" varchar(5), "t" double precision)`, CreateTableSQL("obs", f))
	assert.Equal(t, `CREATE TABLE "obs" ("id" integer, "we""ird" varchar(10), "t" double precision)`,
		CreateTableSQL("obs", f, WithStringLengthFactor(1.5)))
}

func TestInsertSQL(t *testing.T) {
	f := &colfile.File{Columns: []colfile.Column{
		{Name: "a", Data: array.Ints(1, 2)},
		{Name: "b", Data: array.Ints(1, 2)},
	}}
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES (?, ?), (?, ?)`, InsertSQL("t", f, 2))
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES ($1, $2), ($3, $4)`, InsertSQL("t", f, 2, WithPlaceholder(Dollar)))
}

func TestWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f := &colfile.File{Columns: []colfile.Column{
		{Name: "id", Data: array.Ints(1, math.MaxInt32, 3)},
		{Name: "name", Data: array.Strings("a", "", "b")},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "t" ("id" integer, "name" varchar(1))`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "t" ("id", "name") VALUES (?, ?), (?, ?)`)).
		WithArgs(int64(1), "a", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "t" ("id", "name") VALUES (?, ?)`)).
		WithArgs(int64(3), "b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Write(context.Background(), db, "t", f, WithBatchSize(2)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f := &colfile.File{Columns: []colfile.Column{{Name: "id", Data: array.Ints(1)}}}
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("exists"))
	mock.ExpectRollback()

	assert.Error(t, Write(context.Background(), db, "t", f))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParsePlaceholder(t *testing.T) {
	p, err := ParsePlaceholder("dollar")
	require.NoError(t, err)
	assert.Equal(t, Dollar, p)
	p, err = ParsePlaceholder("")
	require.NoError(t, err)
	assert.Equal(t, Question, p)
	_, err = ParsePlaceholder("colon")
	assert.Error(t, err)
}
