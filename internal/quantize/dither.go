package quantize

import (
	"github.com/AnyUserName/wirthmage-cli/internal/raster"
)

// Floyd–Steinberg weights in sixteenths.
const (
	fsRight      = 7
	fsBelowLeft  = 3
	fsBelow      = 5
	fsBelowRight = 1
)

// Dither maps every pixel of r onto p in place with Floyd–Steinberg error
// diffusion, scanning rows left to right. Fully transparent pixels are
// mapped to their nearest entry but neither push nor receive error, so a
// keyed-out background cannot bleed into visible pixels. Alpha is kept.
func Dither(r *raster.Raster, p Palette) {
	if len(p) == 0 {
		return
	}
	w, h := r.Width(), r.Height()
	pix := r.Pix()
	m := newMatcher(p)

	// cur and next hold accumulated error (×16) for this row and the one
	// below, padded by one cell on each side.
	cur := make([][3]int32, w+2)
	next := make([][3]int32, w+2)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if pix[i+3] == 0 {
				c := raster.RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}
				e := p[m.index(c)]
				pix[i], pix[i+1], pix[i+2] = e.R, e.G, e.B
				continue
			}

			var want [3]int32
			for c := 0; c < 3; c++ {
				want[c] = clamp8(int32(pix[i+c]) + div16(cur[x+1][c]))
			}
			e := p[m.index(raster.RGB{R: uint8(want[0]), G: uint8(want[1]), B: uint8(want[2])})]
			got := [3]int32{int32(e.R), int32(e.G), int32(e.B)}
			pix[i], pix[i+1], pix[i+2] = e.R, e.G, e.B

			for c := 0; c < 3; c++ {
				d := want[c] - got[c]
				if d == 0 {
					continue
				}
				if x+1 < w && pix[i+4+3] != 0 {
					cur[x+2][c] += d * fsRight
				}
				if y+1 < h {
					below := i + w*4
					if x > 0 && pix[below-4+3] != 0 {
						next[x][c] += d * fsBelowLeft
					}
					if pix[below+3] != 0 {
						next[x+1][c] += d * fsBelow
					}
					if x+1 < w && pix[below+4+3] != 0 {
						next[x+2][c] += d * fsBelowRight
					}
				}
			}
		}
		cur, next = next, cur
		clear(next)
	}
}

// Remap assigns each pixel of r the index of its nearest palette entry
// without diffusion and returns the indices in row-major order.
func Remap(r *raster.Raster, p Palette) []uint8 {
	pix := r.Pix()
	idx := make([]uint8, len(pix)/4)
	m := newMatcher(p)
	for i := range idx {
		o := i * 4
		idx[i] = uint8(m.index(raster.RGB{R: pix[o], G: pix[o+1], B: pix[o+2]}))
	}
	return idx
}

// Quantize reduces r to at most Clamp(n) colors in place and returns the
// palette used.
func Quantize(r *raster.Raster, n int) Palette {
	p := BuildPalette(r, n)
	Dither(r, p)
	return p
}

// div16 divides by 16 rounding half away from zero.
func div16(v int32) int32 {
	if v >= 0 {
		return (v + 8) / 16
	}
	return -((-v + 8) / 16)
}

func clamp8(v int32) int32 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
