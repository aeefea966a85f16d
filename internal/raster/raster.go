// Package raster provides the owned, non-premultiplied RGBA pixel buffer that
// every conversion stage reads and writes.
package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns c with the given alpha.
func (c RGB) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Key packs c into 0xRRGGBB.
func (c RGB) Key() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Raster is a width × height NRGBA buffer anchored at (0,0).
// Stages mutate it in place; a Raster is never shared between goroutines.
type Raster struct {
	img *image.NRGBA
}

// New allocates a transparent w × h raster.
func New(w, h int) *Raster {
	return &Raster{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// FromImage copies img into a fresh raster.
func FromImage(img image.Image) *Raster {
	return &Raster{img: imaging.Clone(img)}
}

// Wrap takes ownership of img. img must be anchored at (0,0).
func Wrap(img *image.NRGBA) *Raster {
	return &Raster{img: img}
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Bounds returns the raster rectangle.
func (r *Raster) Bounds() image.Rectangle { return r.img.Rect }

// Image exposes the backing image. Writes through it are visible to r.
func (r *Raster) Image() *image.NRGBA { return r.img }

// Pix returns the backing bytes, four per pixel in row-major order.
func (r *Raster) Pix() []uint8 { return r.img.Pix }

// At returns the pixel at (x, y).
func (r *Raster) At(x, y int) color.NRGBA {
	return r.img.NRGBAAt(x, y)
}

// Set writes the pixel at (x, y).
func (r *Raster) Set(x, y int, c color.NRGBA) {
	r.img.SetNRGBA(x, y, c)
}

// RGBAt returns the color channels at (x, y), ignoring alpha.
func (r *Raster) RGBAt(x, y int) RGB {
	c := r.img.NRGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Transform replaces every pixel with fn(pixel).
func (r *Raster) Transform(fn func(c color.NRGBA) color.NRGBA) {
	pix := r.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		c := fn(color.NRGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]})
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Copy returns a new raster holding the part of r inside rect.
func (r *Raster) Copy(rect image.Rectangle) *Raster {
	return &Raster{img: imaging.Crop(r.img, rect)}
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	img := image.NewNRGBA(r.img.Rect)
	copy(img.Pix, r.img.Pix)
	return &Raster{img: img}
}

// Equal reports whether a and b hold identical pixels.
func Equal(a, b *Raster) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	pa, pb := a.Pix(), b.Pix()
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}
