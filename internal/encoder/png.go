package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
)

// PNGEncoder writes paletted PNGs when the result has a palette and 8-bit
// NRGBA otherwise. With Optimize set, the encoded stream is passed through
// OptimizePNG.
type PNGEncoder struct {
	Optimize bool
}

func (e *PNGEncoder) Kind() Kind { return KindPNG }

func (e *PNGEncoder) Encode(img *quantize.Indexed, f Format) ([]byte, int, error) {
	var (
		src   image.Image = img.Raster.Image()
		depth             = 32
	)
	if src.(*image.NRGBA).Opaque() {
		depth = 24
	}
	if img.Paletted() {
		p := &image.Paletted{
			Pix:     img.Pix,
			Stride:  img.Width,
			Rect:    image.Rect(0, 0, img.Width, img.Height),
			Palette: img.Palette.ColorPalette(f.WithAlpha),
		}
		src, depth = p, pngIndexDepth(len(img.Palette))
	}

	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, src); err != nil {
		return nil, 0, err
	}

	data := buf.Bytes()
	if e.Optimize {
		if opt, err := OptimizePNG(data); err == nil {
			data = opt
		}
	}
	return data, depth, nil
}

// pngIndexDepth mirrors the bit depth image/png picks for a palette size.
func pngIndexDepth(n int) int {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	}
	return 8
}
