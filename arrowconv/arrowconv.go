// Package arrowconv converts column files to and from Apache Arrow record
// batches. Missing values become nulls and nulls become missing values.
//
// The kind of every column is kept in the field metadata under KindKey, and
// attributes are kept as JSON under AttributesKey, so a round trip through
// Arrow is lossless.
package arrowconv

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	arrowarray "github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/attributes"
	"github.com/hupe1980/colarray/codec"
	"github.com/hupe1980/colarray/colfile"
)

const (
	// KindKey is the field metadata key holding the element kind name.
	KindKey = "colarray.kind"

	// AttributesKey is the schema or field metadata key holding attributes as JSON.
	AttributesKey = "colarray.attributes"
)

// UnsupportedTypeError is returned for an Arrow column type without a Kind.
type UnsupportedTypeError struct {
	Column string
	Type   arrow.DataType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("arrowconv: column %q has unsupported type %s", e.Column, e.Type)
}

// ArrowType returns the Arrow type a kind is stored as.
func ArrowType(k array.Kind) (arrow.DataType, error) {
	switch k {
	case array.Byte:
		return arrow.PrimitiveTypes.Int8, nil
	case array.Short:
		return arrow.PrimitiveTypes.Int16, nil
	case array.Char:
		return arrow.PrimitiveTypes.Uint16, nil
	case array.Int:
		return arrow.PrimitiveTypes.Int32, nil
	case array.Long:
		return arrow.PrimitiveTypes.Int64, nil
	case array.Float:
		return arrow.PrimitiveTypes.Float32, nil
	case array.Double:
		return arrow.PrimitiveTypes.Float64, nil
	case array.String:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, &array.UnsupportedKindError{Op: "arrow type", Kind: k}
	}
}

// Schema returns the Arrow schema of f.
func Schema(f *colfile.File) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(f.Columns))
	for i, c := range f.Columns {
		dt, err := ArrowType(c.Data.Kind())
		if err != nil {
			return nil, err
		}
		keys := []string{KindKey}
		values := []string{c.Data.Kind().String()}
		if c.Attributes != nil && c.Attributes.Len() > 0 {
			js, err := codec.Default.Marshal(c.Attributes)
			if err != nil {
				return nil, fmt.Errorf("column %q attributes: %w", c.Name, err)
			}
			keys = append(keys, AttributesKey)
			values = append(values, string(js))
		}
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     dt,
			Nullable: true,
			Metadata: arrow.NewMetadata(keys, values),
		}
	}
	if f.Attributes == nil || f.Attributes.Len() == 0 {
		return arrow.NewSchema(fields, nil), nil
	}
	js, err := codec.Default.Marshal(f.Attributes)
	if err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	md := arrow.NewMetadata([]string{AttributesKey}, []string{string(js)})
	return arrow.NewSchema(fields, &md), nil
}

// ToRecordBatch converts f to a record batch allocated from mem. A nil mem
// selects memory.DefaultAllocator. The caller releases the result.
func ToRecordBatch(f *colfile.File, mem memory.Allocator) (arrow.RecordBatch, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema, err := Schema(f)
	if err != nil {
		return nil, err
	}

	cols := make([]arrow.Array, 0, len(f.Columns))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for _, c := range f.Columns {
		arr, err := toArrow(c.Data, mem)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		cols = append(cols, arr)
	}
	return arrowarray.NewRecordBatch(schema, cols, int64(f.Table().NRows())), nil
}

type builder[T any] interface {
	arrowarray.Builder
	Append(T)
}

func build[T array.Element, B builder[T]](b B, src *array.Typed[T]) arrow.Array {
	defer b.Release()
	b.Reserve(src.Len())
	for i, v := range src.Values() {
		if src.IsMissing(i) {
			b.AppendNull()
		} else {
			b.Append(v)
		}
	}
	return b.NewArray()
}

func toArrow(a array.Array, mem memory.Allocator) (arrow.Array, error) {
	switch src := a.(type) {
	case *array.ByteArray:
		return build(arrowarray.NewInt8Builder(mem), src), nil
	case *array.ShortArray:
		return build(arrowarray.NewInt16Builder(mem), src), nil
	case *array.CharArray:
		return build(arrowarray.NewUint16Builder(mem), src), nil
	case *array.IntArray:
		return build(arrowarray.NewInt32Builder(mem), src), nil
	case *array.LongArray:
		return build(arrowarray.NewInt64Builder(mem), src), nil
	case *array.FloatArray:
		return build(arrowarray.NewFloat32Builder(mem), src), nil
	case *array.DoubleArray:
		return build(arrowarray.NewFloat64Builder(mem), src), nil
	case *array.StringArray:
		return build(arrowarray.NewStringBuilder(mem), src), nil
	default:
		return nil, &array.UnsupportedKindError{Op: "to arrow", Kind: a.Kind()}
	}
}

// FromRecordBatch converts rec to a column file. Besides the types ArrowType
// produces, bool and uint8 columns are read as Byte and Short, uint32 as Long,
// and large strings as String.
func FromRecordBatch(rec arrow.RecordBatch) (*colfile.File, error) {
	schema := rec.Schema()
	f := &colfile.File{Columns: make([]colfile.Column, rec.NumCols())}

	attrs, err := decodeAttributes(schema.Metadata())
	if err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	f.Attributes = attrs

	for i := range f.Columns {
		field := schema.Field(i)
		data, err := fromArrow(field.Name, rec.Column(i))
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttributes(field.Metadata)
		if err != nil {
			return nil, fmt.Errorf("column %q attributes: %w", field.Name, err)
		}
		f.Columns[i] = colfile.Column{Name: field.Name, Data: data, Attributes: attrs}
	}
	return f, nil
}

func decodeAttributes(md arrow.Metadata) (*attributes.Store, error) {
	s := attributes.New()
	if i := md.FindKey(AttributesKey); i >= 0 {
		if err := codec.Default.Unmarshal([]byte(md.Values()[i]), s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type valuer[T any] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) T
}

func collect[T array.Element, V valuer[T]](src V) *array.Typed[T] {
	dst := array.NewTyped[T](src.Len(), false)
	missing := dst.Missing()
	for i := range src.Len() {
		if src.IsNull(i) {
			dst.Add(missing)
		} else {
			dst.Add(src.Value(i))
		}
	}
	return dst
}

func collectAs[S any, T array.Element, V valuer[S]](src V, conv func(S) T) *array.Typed[T] {
	dst := array.NewTyped[T](src.Len(), false)
	missing := dst.Missing()
	for i := range src.Len() {
		if src.IsNull(i) {
			dst.Add(missing)
		} else {
			dst.Add(conv(src.Value(i)))
		}
	}
	return dst
}

func fromArrow(name string, a arrow.Array) (array.Array, error) {
	switch src := a.(type) {
	case *arrowarray.Int8:
		return collect[int8](src), nil
	case *arrowarray.Int16:
		return collect[int16](src), nil
	case *arrowarray.Uint16:
		return collect[uint16](src), nil
	case *arrowarray.Int32:
		return collect[int32](src), nil
	case *arrowarray.Int64:
		return collect[int64](src), nil
	case *arrowarray.Float32:
		return collect[float32](src), nil
	case *arrowarray.Float64:
		return collect[float64](src), nil
	case *arrowarray.String:
		return collect[string](src), nil
	case *arrowarray.LargeString:
		return collect[string](src), nil
	case *arrowarray.Boolean:
		return collectAs(src, func(b bool) int8 {
			if b {
				return 1
			}
			return 0
		}), nil
	case *arrowarray.Uint8:
		return collectAs(src, func(v uint8) int16 { return int16(v) }), nil
	case *arrowarray.Uint32:
		return collectAs(src, func(v uint32) int64 { return int64(v) }), nil
	default:
		return nil, &UnsupportedTypeError{Column: name, Type: a.DataType()}
	}
}

// ErrNilRecord is returned by FromRecordBatches for a nil batch.
var ErrNilRecord = errors.New("arrowconv: nil record batch")

// FromRecordBatches converts and appends the batches into one column file.
// The schema and attributes come from the first batch.
func FromRecordBatches(recs ...arrow.RecordBatch) (*colfile.File, error) {
	var f *colfile.File
	for _, rec := range recs {
		if rec == nil {
			return nil, ErrNilRecord
		}
		next, err := FromRecordBatch(rec)
		if err != nil {
			return nil, err
		}
		if f == nil {
			f = next
			continue
		}
		if len(next.Columns) != len(f.Columns) {
			return nil, fmt.Errorf("arrowconv: record batch has %d columns, want %d", len(next.Columns), len(f.Columns))
		}
		for i, c := range next.Columns {
			if c.Name != f.Columns[i].Name {
				return nil, fmt.Errorf("arrowconv: column %d is %q, want %q", i, c.Name, f.Columns[i].Name)
			}
		}
		tbl := f.Table()
		if err := tbl.Append(next.Table()); err != nil {
			return nil, err
		}
		// Append may replace a column by a wider one.
		for i := range f.Columns {
			f.Columns[i].Data = tbl[i]
		}
	}
	if f == nil {
		return &colfile.File{Attributes: attributes.New()}, nil
	}
	return f, nil
}
