package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	// xxhash64 of the empty input.
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 0))
	assert.Equal(t, "ef46db37", ContentHash(nil, 8))
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 64))

	assert.Len(t, ContentHash([]byte("wirthmage"), 16), 16)
	assert.NotEqual(t, ContentHash([]byte("a"), 16), ContentHash([]byte("b"), 16))
}

func TestContentHashReaderMatches(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000)
	got, err := ContentHashReader(bytes.NewReader(data), 16)
	require.NoError(t, err)
	assert.Equal(t, ContentHash(data, 16), got)
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.bin")
	data := []byte("source image bytes")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := FileHash(path, 8)
	require.NoError(t, err)
	assert.Equal(t, ContentHash(data, 8), got)

	_, err = FileHash(filepath.Join(t.TempDir(), "missing"), 8)
	assert.Error(t, err)
}
