// Package hash provides the CRC32-Castagnoli checksums stored in column files.
//
// CRC32C uses hardware instructions where available (SSE4.2, ARM CRC).
//
//	sum := hash.CRC32C(block)
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(body)
//	sum := h.Sum32()
package hash
