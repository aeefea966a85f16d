// Package mask derives binary transparency from a background color key,
// synthesizes 1px outlines along the resulting boundary and flattens the
// background back in before encoding.
package mask

import (
	"image/color"

	"github.com/AnyUserName/wirthmage-cli/internal/raster"
)

// alphaThreshold splits alpha into transparent (<) and opaque (>=).
const alphaThreshold = 128

func binarize(a uint8) uint8 {
	if a < alphaThreshold {
		return 0
	}
	return 255
}

// Apply keys out the background. The color of pixel (0,0) is the key: pixels
// matching it exactly become transparent, every other pixel has its alpha
// binarized. The key is returned so the background can be flattened later.
func Apply(r *raster.Raster) raster.RGB {
	bg := r.RGBAt(0, 0)
	r.Transform(func(c color.NRGBA) color.NRGBA {
		if c.R == bg.R && c.G == bg.G && c.B == bg.B {
			c.A = 0
		} else {
			c.A = binarize(c.A)
		}
		return c
	})
	return bg
}

// ApplyBinaryAlpha snaps alpha to 0 or 255. Resampling blurs mask edges, so
// this runs after every resize of a masked raster.
func ApplyBinaryAlpha(r *raster.Raster) {
	pix := r.Pix()
	for i := 3; i < len(pix); i += 4 {
		pix[i] = binarize(pix[i])
	}
}

// Flatten composites r over an opaque background color. Every pixel of the
// result is opaque.
func Flatten(r *raster.Raster, bg raster.RGB) {
	r.Transform(func(c color.NRGBA) color.NRGBA {
		switch c.A {
		case 255:
			return c
		case 0:
			return bg.NRGBA(255)
		}
		a := uint32(c.A)
		return color.NRGBA{
			R: blend(c.R, bg.R, a),
			G: blend(c.G, bg.G, a),
			B: blend(c.B, bg.B, a),
			A: 255,
		}
	})
}

func blend(fg, bg uint8, a uint32) uint8 {
	return uint8((uint32(fg)*a + uint32(bg)*(255-a) + 127) / 255)
}
