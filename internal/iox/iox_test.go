package iox

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFullAt(t *testing.T) {
	r := bytes.NewReader([]byte("abcdef"))

	buf := make([]byte, 2)
	require.NoError(t, ReadFullAt(r, buf, 4), "full read ending at EOF")
	assert.Equal(t, "ef", string(buf))

	buf = make([]byte, 3)
	assert.ErrorIs(t, ReadFullAt(r, buf, 4), io.EOF)

	assert.Error(t, ReadFullAt(r, buf, -1))
}
