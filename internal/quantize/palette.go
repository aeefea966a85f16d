// Package quantize reduces a raster to a small palette. Palettes are built
// with Wu's variance-minimizing cut over a 5-bit RGB histogram; pixels are
// mapped onto them with Floyd–Steinberg error diffusion or plain nearest
// color lookup.
package quantize

import (
	"image/color"

	"github.com/AnyUserName/wirthmage-cli/internal/raster"
)

// Palette bounds.
const (
	MinColors = 2
	MaxColors = 256
)

// Clamp limits a requested color count to [MinColors, MaxColors].
func Clamp(n int) int {
	return min(max(n, MinColors), MaxColors)
}

// Palette is an ordered list of colors; a pixel index refers to a position
// in it.
type Palette []raster.RGB

// Nearest returns the index of the entry closest to c in Euclidean RGB
// distance. Ties go to the lowest index.
func (p Palette) Nearest(c raster.RGB) int {
	return p.nearest(int32(c.R), int32(c.G), int32(c.B))
}

func (p Palette) nearest(r, g, b int32) int {
	best, bestDist := 0, int32(1<<31-1)
	for i, e := range p {
		dr := r - int32(e.R)
		dg := g - int32(e.G)
		db := b - int32(e.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// Index returns the position of an exact match, or -1.
func (p Palette) Index(c raster.RGB) int {
	for i, e := range p {
		if e == c {
			return i
		}
	}
	return -1
}

// ColorPalette converts p for use with image.Paletted. When transparentFirst
// is set, entry 0 gets alpha 0.
func (p Palette) ColorPalette(transparentFirst bool) color.Palette {
	cp := make(color.Palette, len(p))
	for i, e := range p {
		a := uint8(255)
		if i == 0 && transparentFirst {
			a = 0
		}
		cp[i] = e.NRGBA(a)
	}
	return cp
}

// matcher memoizes nearest lookups by packed RGB key.
type matcher struct {
	pal   Palette
	cache map[uint32]int
}

func newMatcher(p Palette) *matcher {
	return &matcher{pal: p, cache: make(map[uint32]int, 1024)}
}

func (m *matcher) index(c raster.RGB) int {
	k := c.Key()
	if i, ok := m.cache[k]; ok {
		return i
	}
	i := m.pal.Nearest(c)
	m.cache[k] = i
	return i
}
