package encoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
)

// JPEGEncoder encodes the direct-color pixels of a result as baseline JPEG
// using Go's standard library. Alpha is discarded, not composited.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Kind() Kind { return KindJPEG }

func (e *JPEGEncoder) Encode(img *quantize.Indexed, f Format) ([]byte, int, error) {
	quality := f.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	// Force opacity so transparent pixels keep their color instead of
	// being premultiplied to black.
	src := img.Raster.Image()
	opaque := image.NewNRGBA(src.Rect)
	copy(opaque.Pix, src.Pix)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 255
	}

	var buf bytes.Buffer
	buf.Grow(64 * 1024)

	if err := jpeg.Encode(&buf, opaque, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), 24, nil
}
