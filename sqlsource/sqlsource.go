// Package sqlsource moves tables between column files and SQL databases
// through database/sql.
//
// Column kinds follow the database type names (see
// array.KindFromSQLTypeName). NULL reads as the missing value of the column's
// kind, and missing values are written as NULL.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/colfile"
)

// SQLTypeAttribute is the column attribute recording the database type name.
const SQLTypeAttribute = "sql_type"

// ErrNoColumns is returned for a result set without columns.
var ErrNoColumns = errors.New("sqlsource: result has no columns")

type options struct {
	maxRows           int
	placeholder       Placeholder
	stringLengthScale float64
	batchSize         int
}

// Option configures reading and writing.
type Option func(*options)

// WithMaxRows stops reading after n rows. n <= 0 means no limit.
func WithMaxRows(n int) Option {
	return func(o *options) { o.maxRows = n }
}

// WithPlaceholder sets the bind parameter style of generated statements.
func WithPlaceholder(p Placeholder) Option {
	return func(o *options) { o.placeholder = p }
}

// WithStringLengthFactor scales the varchar length of String columns in
// CREATE TABLE statements, leaving room for longer values later.
func WithStringLengthFactor(f float64) Option {
	return func(o *options) { o.stringLengthScale = f }
}

// WithBatchSize sets the number of rows per INSERT statement.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{placeholder: Question, stringLengthScale: 1, batchSize: 500}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Placeholder is a bind parameter style.
type Placeholder int

const (
	// Question uses ? (MySQL, SQLite).
	Question Placeholder = iota
	// Dollar uses $1, $2, ... (PostgreSQL).
	Dollar
)

func (p Placeholder) param(i int) string {
	if p == Dollar {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// ParsePlaceholder parses "question" or "dollar".
func ParsePlaceholder(s string) (Placeholder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "question", "?":
		return Question, nil
	case "dollar", "$":
		return Dollar, nil
	default:
		return 0, fmt.Errorf("sqlsource: unknown placeholder style %q", s)
	}
}

// Query runs query on db and reads the result.
func Query(ctx context.Context, db *sql.DB, query string, args []any, opts ...Option) (*colfile.File, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return ReadRows(rows, opts...)
}

type scanner interface {
	dest() any
	add(a array.Array)
}

type intScanner struct{ v sql.NullInt64 }

func (s *intScanner) dest() any { return &s.v }
func (s *intScanner) add(a array.Array) {
	if !s.v.Valid {
		a.AddLong(math.MaxInt64)
		return
	}
	a.AddLong(s.v.Int64)
}

type boolScanner struct{ v sql.NullBool }

func (s *boolScanner) dest() any { return &s.v }
func (s *boolScanner) add(a array.Array) {
	switch {
	case !s.v.Valid:
		a.AddLong(math.MaxInt64)
	case s.v.Bool:
		a.AddLong(1)
	default:
		a.AddLong(0)
	}
}

type floatScanner struct{ v sql.NullFloat64 }

func (s *floatScanner) dest() any { return &s.v }
func (s *floatScanner) add(a array.Array) {
	if !s.v.Valid {
		a.AddDouble(math.NaN())
		return
	}
	a.AddDouble(s.v.Float64)
}

// timeScanner stores epoch seconds.
type timeScanner struct{ v sql.NullTime }

func (s *timeScanner) dest() any { return &s.v }
func (s *timeScanner) add(a array.Array) {
	if !s.v.Valid {
		a.AddDouble(math.NaN())
		return
	}
	a.AddDouble(float64(s.v.Time.UnixNano()) / float64(time.Second))
}

type stringScanner struct{ v sql.NullString }

func (s *stringScanner) dest() any { return &s.v }
func (s *stringScanner) add(a array.Array) {
	if !s.v.Valid {
		a.AddString("")
		return
	}
	a.AddString(s.v.String)
}

func newScanner(kind array.Kind, typeName string) scanner {
	n := strings.ToUpper(strings.TrimSpace(typeName))
	switch {
	case n == "BOOL" || n == "BOOLEAN":
		return &boolScanner{}
	case n == "DATE" || strings.HasPrefix(n, "TIMESTAMP") || n == "DATETIME":
		return &timeScanner{}
	}
	switch kind {
	case array.Byte, array.Short, array.Int, array.Long:
		return &intScanner{}
	case array.Float, array.Double:
		return &floatScanner{}
	default:
		return &stringScanner{}
	}
}

// ReadRows reads all remaining rows. Each column records its database type
// name in the SQLTypeAttribute attribute. rows is not closed.
func ReadRows(rows *sql.Rows, opts ...Option) (*colfile.File, error) {
	o := applyOptions(opts)
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, ErrNoColumns
	}

	f := &colfile.File{Attributes: attributes.New(), Columns: make([]colfile.Column, len(types))}
	scanners := make([]scanner, len(types))
	dest := make([]any, len(types))
	for i, ct := range types {
		typeName := ct.DatabaseTypeName()
		kind := array.KindFromSQLTypeName(typeName)
		data, err := array.New(kind, 16, false)
		if err != nil {
			return nil, err
		}
		attrs := attributes.New()
		if typeName != "" {
			attrs.SetString(SQLTypeAttribute, typeName)
		}
		f.Columns[i] = colfile.Column{Name: ct.Name(), Data: data, Attributes: attrs}
		scanners[i] = newScanner(kind, typeName)
		dest[i] = scanners[i].dest()
	}

	for n := 0; o.maxRows <= 0 || n < o.maxRows; n++ {
		if !rows.Next() {
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlsource: row %d: %w", n, err)
		}
		for i, s := range scanners {
			s.add(f.Columns[i].Data)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateTableSQL returns a CREATE TABLE statement for f. Column names are
// quoted with double quotes.
func CreateTableSQL(name string, f *colfile.File, opts ...Option) string {
	o := applyOptions(opts)
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (", quoteIdent(name))
	for i, c := range f.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", quoteIdent(c.Name), c.Data.SQLTypeString(o.stringLengthScale))
	}
	b.WriteString(")")
	return b.String()
}

// InsertSQL returns an INSERT statement for n rows of f.
func InsertSQL(name string, f *colfile.File, n int, opts ...Option) string {
	o := applyOptions(opts)
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (", quoteIdent(name))
	for i, c := range f.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c.Name))
	}
	b.WriteString(") VALUES ")
	p := 1
	for row := range n {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for i := range f.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(o.placeholder.param(p))
			p++
		}
		b.WriteByte(')')
	}
	return b.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func value(a array.Array, row int) any {
	if a.IsMissing(row) {
		return nil
	}
	switch a.Kind() {
	case array.Byte, array.Short, array.Int, array.Long:
		return a.GetLong(row)
	case array.Float, array.Double:
		return a.GetDouble(row)
	default:
		return a.GetString(row)
	}
}

// Write creates the table name and inserts the rows of f in one transaction.
func Write(ctx context.Context, db *sql.DB, name string, f *colfile.File, opts ...Option) error {
	if err := f.Validate(); err != nil {
		return err
	}
	o := applyOptions(opts)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, CreateTableSQL(name, f, opts...)); err != nil {
		return fmt.Errorf("sqlsource: create table %s: %w", name, err)
	}

	nRows := f.Table().NRows()
	args := make([]any, 0, o.batchSize*len(f.Columns))
	for start := 0; start < nRows; start += o.batchSize {
		end := min(start+o.batchSize, nRows)
		args = args[:0]
		for row := start; row < end; row++ {
			for _, c := range f.Columns {
				args = append(args, value(c.Data, row))
			}
		}
		if _, err := tx.ExecContext(ctx, InsertSQL(name, f, end-start, opts...), args...); err != nil {
			return fmt.Errorf("sqlsource: insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return tx.Commit()
}
