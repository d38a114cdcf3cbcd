// Package colfile reads and writes column files: a table of typed arrays with
// per-column and file-level attributes, stored in one immutable blob.
//
// # Layout
//
//	"CARR" | version uint16 | codec name (uint8 length + bytes) |
//	header length uint32 | header | column blocks...
//
// All integers are big-endian. The header is encoded with the named codec and
// lists every column block by offset (relative to the first block), length,
// compression and CRC32C.
//
// Each block holds the column in array binary form (int32 count, elements),
// optionally compressed. An uncompressed numeric block is therefore in the
// array random access layout once the 4-byte count is skipped, and Reader.Search
// binary searches it with ranged reads on the blob instead of loading it.
package colfile
