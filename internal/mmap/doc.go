// Package mmap maps column files into memory read-only.
//
// A Mapping serves io.ReaderAt straight from the mapped pages, so a sorted
// numeric column can be binary searched in place without reading the file.
//
//	m, err := mmap.Open("stations.carr")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessRandom)
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// Bytes must not be used after Close returns.
package mmap
