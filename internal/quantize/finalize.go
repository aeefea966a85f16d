package quantize

import "github.com/AnyUserName/wirthmage-cli/internal/raster"

// Indexed is the finalized conversion result handed to encoders. Raster
// always holds the final direct-color pixels. When Palette is non-nil, Pix
// holds one palette index per pixel and Palette[0] is the color of pixel
// (0,0).
type Indexed struct {
	Width, Height int
	Pix           []uint8
	Palette       Palette
	Raster        *raster.Raster
}

// Paletted reports whether the result carries a palette.
func (ix *Indexed) Paletted() bool {
	return ix.Palette != nil
}

// ColorAt returns the color the encoders write for (x, y).
func (ix *Indexed) ColorAt(x, y int) raster.RGB {
	if ix.Palette != nil {
		return ix.Palette[ix.Pix[y*ix.Width+x]]
	}
	return ix.Raster.RGBAt(x, y)
}

// Finalize rebuilds the palette from the final pixels of r and assigns every
// pixel its nearest entry, without dithering. The color of pixel (0,0) is
// pinned to slot 0 and entries are unique. With colors == 0 no palette is built and the result is
// direct color. r is retained, not copied.
func Finalize(r *raster.Raster, colors int) *Indexed {
	ix := &Indexed{Width: r.Width(), Height: r.Height(), Raster: r}
	if colors == 0 || ix.Width == 0 || ix.Height == 0 {
		return ix
	}
	n := Clamp(colors)

	bg := r.RGBAt(0, 0)
	pal := make(Palette, 0, n)
	pal = append(pal, bg)
	for _, c := range BuildPalette(r, n) {
		if len(pal) < n && pal.Index(c) < 0 {
			pal = append(pal, c)
		}
	}

	ix.Palette = pal
	ix.Pix = Remap(r, pal)
	return ix
}
