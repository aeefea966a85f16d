package quantize

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/AnyUserName/wirthmage-cli/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *raster.Raster {
	r := raster.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) * 127 / max(w+h-2, 1)),
				A: 255,
			})
		}
	}
	return r
}

func noise(w, h int, seed int64) *raster.Raster {
	rng := rand.New(rand.NewSource(seed))
	r := raster.New(w, h)
	pix := r.Pix()
	rng.Read(pix)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	return r
}

func distinct(r *raster.Raster) map[raster.RGB]bool {
	set := map[raster.RGB]bool{}
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			set[r.RGBAt(x, y)] = true
		}
	}
	return set
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(-3))
	assert.Equal(t, 2, Clamp(1))
	assert.Equal(t, 16, Clamp(16))
	assert.Equal(t, 256, Clamp(1000))
}

func TestBuildPaletteSize(t *testing.T) {
	img := noise(64, 64, 1)
	for _, k := range []int{2, 4, 16, 64, 256} {
		p := BuildPalette(img, k)
		assert.Len(t, p, k, "k=%d", k)
	}
}

func TestBuildPaletteFewColors(t *testing.T) {
	r := raster.New(4, 4)
	r.Transform(func(color.NRGBA) color.NRGBA { return color.NRGBA{R: 200, G: 10, B: 10, A: 255} })
	r.Set(0, 0, color.NRGBA{B: 255, A: 255})

	p := BuildPalette(r, 16)
	require.Len(t, p, 2)
	assert.Contains(t, p, raster.RGB{R: 200, G: 10, B: 10})
	assert.Contains(t, p, raster.RGB{B: 255})
}

func TestBuildPaletteSeparatesClusters(t *testing.T) {
	r := raster.New(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{R: 250, G: 5, B: 5, A: 255}
			if x >= 5 {
				c = color.NRGBA{R: 5, G: 5, B: 250, A: 255}
			}
			if y >= 5 {
				c.G = 250
			}
			r.Set(x, y, c)
		}
	}
	p := BuildPalette(r, 4)
	require.Len(t, p, 4)
	for _, want := range []raster.RGB{{R: 250, G: 5, B: 5}, {R: 5, G: 5, B: 250}, {R: 250, G: 250, B: 5}, {R: 5, G: 250, B: 250}} {
		assert.Contains(t, p, want)
	}
}

func TestQuantizeLimitsColors(t *testing.T) {
	for _, k := range []int{2, 8, 16, 256} {
		img := gradient(80, 60)
		p := Quantize(img, k)
		require.LessOrEqual(t, len(p), k)

		used := distinct(img)
		assert.LessOrEqual(t, len(used), k, "k=%d", k)
		for c := range used {
			assert.GreaterOrEqual(t, p.Index(c), 0, "color %v not in palette", c)
		}
	}
}

func TestDitherSpreadsError(t *testing.T) {
	// A flat mid gray between black and white dithers into a mix of both.
	r := raster.New(16, 16)
	r.Transform(func(color.NRGBA) color.NRGBA { return color.NRGBA{R: 128, G: 128, B: 128, A: 255} })
	Dither(r, Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}})

	var whites int
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if r.RGBAt(x, y) == (raster.RGB{R: 255, G: 255, B: 255}) {
				whites++
			}
		}
	}
	assert.InDelta(t, 128, whites, 16)
}

func TestDitherKeepsTransparentOutOfDiffusion(t *testing.T) {
	r := raster.New(8, 1)
	r.Transform(func(color.NRGBA) color.NRGBA { return color.NRGBA{R: 100, G: 100, B: 100, A: 0} })
	r.Set(4, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	r.Set(5, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	Dither(r, Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}})

	// Transparent 100-gray is nearest to black and stays transparent; its
	// error does not turn the visible pixels' neighbors dark.
	assert.Equal(t, color.NRGBA{A: 0}, r.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, r.At(4, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, r.At(5, 0))
}

func TestRemapNearest(t *testing.T) {
	r := raster.New(3, 1)
	r.Set(0, 0, color.NRGBA{R: 10, A: 255})
	r.Set(1, 0, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
	r.Set(2, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	idx := Remap(r, Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}, {R: 0, G: 0, B: 0}})
	assert.Equal(t, []uint8{0, 1, 1}, idx)
}

func TestFinalizePinsBackground(t *testing.T) {
	img := gradient(50, 40)
	img.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	for _, k := range []int{2, 4, 16, 256} {
		ix := Finalize(img, k)
		require.NotNil(t, ix.Palette)
		assert.LessOrEqual(t, len(ix.Palette), k)
		assert.Equal(t, raster.RGB{R: 1, G: 2, B: 3}, ix.Palette[0])
		assert.Equal(t, uint8(0), ix.Pix[0])
		assert.Len(t, ix.Pix, 50*40)
		for _, i := range ix.Pix {
			require.Less(t, int(i), len(ix.Palette))
		}
		assert.Equal(t, ix.Palette[0], ix.ColorAt(0, 0))
		for i, c := range ix.Palette {
			assert.Equal(t, i, ix.Palette.Index(c), "entry %d repeats", i)
		}
	}
}

func TestFinalizeDirectColor(t *testing.T) {
	img := gradient(10, 10)
	ix := Finalize(img, 0)
	assert.False(t, ix.Paletted())
	assert.Nil(t, ix.Pix)
	assert.Same(t, img, ix.Raster)
	assert.Equal(t, img.RGBAt(3, 4), ix.ColorAt(3, 4))
}

func TestFinalizeFullPalette(t *testing.T) {
	ix := Finalize(noise(40, 40, 7), 16)
	assert.Len(t, ix.Palette, 16)
}

func TestColorPalette(t *testing.T) {
	p := Palette{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	cp := p.ColorPalette(true)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 0}, cp[0])
	assert.Equal(t, color.NRGBA{R: 4, G: 5, B: 6, A: 255}, cp[1])
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, p.ColorPalette(false)[0])
}
