package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.PNG"))
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "sub", "c.tif"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, ".cache", "hidden.png"))

	extra := filepath.Join(t.TempDir(), "single.v2.webp")
	touch(t, extra)

	sources, err := ScanImages(dir, extra, filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)

	var rel []string
	for _, s := range sources {
		rel = append(rel, s.RelPath)
	}
	assert.Equal(t, []string{"a.jpg", "b.PNG", "sub/c.tif", "single.v2.webp"}, rel)

	assert.Equal(t, "a", sources[0].BaseName)
	assert.Equal(t, "jpeg", sources[0].Format)
	assert.Equal(t, "png", sources[1].Format)
	assert.Equal(t, "tiff", sources[2].Format)
	assert.Equal(t, "single.v2", sources[3].BaseName)
	assert.Equal(t, int64(1), sources[3].Size)
	assert.True(t, filepath.IsAbs(sources[0].AbsPath))
}

func TestScanImagesOrdersByPath(t *testing.T) {
	dir := t.TempDir()
	z := filepath.Join(dir, "z.png")
	a := filepath.Join(dir, "a.png")
	m := filepath.Join(dir, "m", "m.png")
	touch(t, z)
	touch(t, a)
	touch(t, m)

	sources, err := ScanImages(z, filepath.Join(dir, "m"), a)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, a, sources[0].AbsPath)
	assert.Equal(t, m, sources[1].AbsPath)
	assert.Equal(t, z, sources[2].AbsPath)
}

func TestScanImagesMissingInput(t *testing.T) {
	_, err := ScanImages(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
