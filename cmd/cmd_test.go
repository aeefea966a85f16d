package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/wirthmage-cli/internal/hasher"
	"github.com/AnyUserName/wirthmage-cli/internal/manifest"
	"github.com/AnyUserName/wirthmage-cli/internal/setting"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	bindConvertFlags(f)
	require.NoError(t, f.Parse(args))
	return f
}

func TestResolveSettingsLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), setting.FileName)
	require.NoError(t, setting.Save(path, setting.Settings{
		OutputSize: "YADO", OutputType: "PNG", Colors: 64, Mask: true, Outline: "白",
	}))

	// File only.
	s, err := resolveSettings(path, "", convertFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "YADO", s.OutputSize)
	assert.Equal(t, 64, s.Colors)

	// Explicit flags win over the file; unset flags keep file values.
	s, err = resolveSettings(path, "", convertFlags(t, "--colors", "8", "--type", "jpg"))
	require.NoError(t, err)
	assert.Equal(t, 8, s.Colors)
	assert.Equal(t, "JPEG", s.OutputType)
	assert.True(t, s.Mask)
	assert.Equal(t, "白", s.Outline)

	// A preset replaces the file, flags still apply on top.
	s, err = resolveSettings(path, "card", convertFlags(t, "--x2"))
	require.NoError(t, err)
	assert.Equal(t, "CARD", s.OutputSize)
	assert.Equal(t, "BMP", s.OutputType)
	assert.True(t, s.ScaleX2)

	// Custom outline colors pass through to the conversion options.
	s, err = resolveSettings(path, "", convertFlags(t, "--outline", "outer=#00ff00"))
	require.NoError(t, err)
	opts, err := s.Options(1)
	require.NoError(t, err)
	require.NotNil(t, opts.Outline.Outer)
	assert.Equal(t, uint8(255), opts.Outline.Outer.G)
	assert.Nil(t, opts.Outline.Inner)
}

func TestResolveSettingsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), setting.FileName)

	_, err := resolveSettings(path, "poster", convertFlags(t))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = resolveSettings(path, "", convertFlags(t, "--size", "HUGE"))
	assert.Error(t, err)

	_, err = resolveSettings(path, "", convertFlags(t, "--outline", "dashed"))
	assert.Error(t, err)
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()
	data := []byte("BM fake bitmap")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chara.bmp"), data, 0o644))

	m := manifest.New(setting.Default())
	m.Items["chara"] = manifest.Item{
		Source: manifest.SourceInfo{Path: "chara.png", Width: 400, Height: 400, Format: "png", Size: 1000},
		Outputs: []manifest.Output{{
			Format: "bmp", Scale: 1, Width: 74, Height: 94, BitDepth: 4,
			Size: int64(len(data)), Hash: hasher.ContentHash(data, 16), Path: "chara.bmp",
		}},
	}
	m.ComputeStats()
	assert.Empty(t, validateManifest(m, dir))

	// Same size, different bytes.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chara.bmp"), []byte("BM fake bitmaq"), 0o644))
	errs := validateManifest(m, dir)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "hash mismatch")

	require.NoError(t, os.Remove(filepath.Join(dir, "chara.bmp")))
	errs = validateManifest(m, dir)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "file not found")

	m.Version = 7
	m.Stats.TotalOutputs = 3
	errs = validateManifest(m, dir)
	joined := strings.Join(errs, "\n")
	assert.Contains(t, joined, "unsupported manifest version")
	assert.Contains(t, joined, "stats.total_outputs mismatch")
}
