// Package iox holds small io helpers shared by the array and colfile packages.
package iox

import (
	"errors"
	"io"
)

// ReadFullAt fills buf from off. io.ReaderAt may report io.EOF together with a
// full read at the end of the input; that is not an error here.
func ReadFullAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return err
	}
	return nil
}
