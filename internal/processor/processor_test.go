package processor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/AnyUserName/wirthmage-cli/internal/encoder"
	"github.com/AnyUserName/wirthmage-cli/internal/mask"
	"github.com/AnyUserName/wirthmage-cli/internal/raster"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// sprite returns a size × size opaque white canvas with a disc whose hue
// turns with the angle and whose value falls off with the radius.
func sprite(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	radius := float64(size) * 3 / 8
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c+0.5, float64(y)-c+0.5
			d := math.Hypot(dx, dy)
			if d > radius {
				img.SetNRGBA(x, y, white)
				continue
			}
			hue := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360, 360)
			r, g, b := colorful.Hsv(hue, 0.9, 1-0.6*d/radius).RGB255()
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func innerBlack(t *testing.T) mask.OutlineStyle {
	t.Helper()
	style, err := mask.OutlineStyleByName("黒")
	require.NoError(t, err)
	return style
}

func TestProcessCardBMP(t *testing.T) {
	res, err := Process(sprite(400), Options{
		ImageSize: "CARD",
		Scale:     1,
		Colors:    16,
		Mask:      true,
		Outline:   innerBlack(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 74, res.Width())
	assert.Equal(t, 94, res.Height())
	require.Equal(t, 16, res.Colors())
	assert.Equal(t, raster.RGB{R: 255, G: 255, B: 255}, res.Image.Palette[0])

	out, err := res.Encode(encoder.BMP())
	require.NoError(t, err)
	assert.Equal(t, 4, out.BitDepth)
	assert.Len(t, out.Data, 14+40+16*4+40*94)
	assert.Len(t, out.Data, 3878)
}

func TestProcessPaletteProperties(t *testing.T) {
	for _, colors := range []int{2, 4, 8, 16, 32, 64} {
		res, err := Process(sprite(120), Options{ImageSize: "YADO", Colors: colors, Mask: true})
		require.NoError(t, err)

		ix := res.Image
		require.LessOrEqual(t, len(ix.Palette), colors)
		assert.Equal(t, ix.Raster.RGBAt(0, 0), ix.Palette[0], "colors=%d", colors)
		for y := 0; y < ix.Height; y++ {
			for x := 0; x < ix.Width; x++ {
				require.Less(t, int(ix.Pix[y*ix.Width+x]), len(ix.Palette))
			}
		}
	}
}

func TestProcessASISKeepsSource(t *testing.T) {
	src := sprite(24)
	res, err := Process(src, Options{ImageSize: "ASIS", Scale: 4})
	require.NoError(t, err)
	assert.Equal(t, 24, res.Width())
	assert.Equal(t, 24, res.Height())
	assert.Zero(t, res.Colors())
	assert.Nil(t, res.Background)
	assert.True(t, raster.Equal(raster.Wrap(src), res.Image.Raster))
}

func TestProcessDoesNotModifySource(t *testing.T) {
	src := sprite(40)
	before := append([]uint8(nil), src.Pix...)
	_, err := Process(src, Options{ImageSize: "CARD", Colors: 8, Mask: true, Outline: innerBlack(t)})
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestProcessScale(t *testing.T) {
	for scale, want := range map[int]image.Point{0: {74, 94}, 1: {74, 94}, 2: {148, 188}, 4: {296, 376}} {
		res, err := Process(sprite(64), Options{ImageSize: "card", Scale: scale})
		require.NoError(t, err)
		assert.Equal(t, want, image.Pt(res.Width(), res.Height()), "scale %d", scale)
	}
}

func TestProcessMaskFlattensBackground(t *testing.T) {
	src := solid(8, 8, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(3, 3, color.NRGBA{R: 254, A: 255})
	src.SetNRGBA(4, 4, color.NRGBA{G: 200, A: 60})

	res, err := Process(src, Options{Mask: true})
	require.NoError(t, err)
	require.NotNil(t, res.Background)
	assert.Equal(t, raster.RGB{R: 255}, *res.Background)

	out := res.Image.Raster
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, uint8(255), out.At(x, y).A)
		}
	}
	assert.Equal(t, color.NRGBA{R: 254, A: 255}, out.At(3, 3))
	// Alpha 60 binarizes to transparent and flattens to the key color.
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.At(4, 4))
}

func TestProcessOutline(t *testing.T) {
	src := solid(9, 9, white)
	for y := 2; y < 7; y++ {
		for x := 2; x < 7; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	style := innerBlack(t)

	res, err := Process(src, Options{Mask: true, Outline: style})
	require.NoError(t, err)
	out := res.Image.Raster
	assert.Equal(t, color.NRGBA{A: 255}, out.At(2, 2))
	assert.Equal(t, color.NRGBA{A: 255}, out.At(6, 4))
	assert.Equal(t, color.NRGBA{R: 200, G: 40, B: 40, A: 255}, out.At(4, 4))
	assert.Equal(t, white, out.At(1, 4))

	// Without a mask the outline is not drawn.
	res, err = Process(src, Options{Outline: style})
	require.NoError(t, err)
	assert.True(t, raster.Equal(raster.Wrap(src), res.Image.Raster))
}

func TestProcessPNGTransparentBackground(t *testing.T) {
	res, err := Process(sprite(100), Options{ImageSize: "CARD", Colors: 16, Mask: true})
	require.NoError(t, err)

	out, err := res.Encode(encoder.PNG(true))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	_, _, _, a = img.At(37, 47).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestProcessInvalidOptions(t *testing.T) {
	cases := map[string]Options{
		"negative colors": {Colors: -1},
		"negative scale":  {ImageSize: "CARD", Scale: -2},
		"unknown preset":  {ImageSize: "POSTER"},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Process(sprite(8), opts)
			assert.True(t, errors.Is(err, ErrInvalidOptions), "got %v", err)
		})
	}

	_, err := Process(nil, Options{})
	assert.True(t, errors.Is(err, ErrInvalidOptions))
	_, err = Process(image.NewNRGBA(image.Rect(0, 0, 0, 5)), Options{})
	assert.True(t, errors.Is(err, ErrInvalidOptions))
}

func TestProcessClampsColors(t *testing.T) {
	res, err := Process(sprite(32), Options{Colors: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Colors())

	res, err = Process(sprite(32), Options{Colors: 1000})
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Colors(), 256)
}

func TestProcessorStates(t *testing.T) {
	p := New()
	assert.Nil(t, p.Result())

	_, err := p.EncodeBMP()
	assert.True(t, errors.Is(err, encoder.ErrNoProcessedData))
	_, err = p.EncodePNG(true)
	assert.True(t, errors.Is(err, encoder.ErrNoProcessedData))
	_, err = p.EncodeJPEG(85)
	assert.True(t, errors.Is(err, encoder.ErrNoProcessedData))

	res, err := p.Process(sprite(50), Options{ImageSize: "CARD", Colors: 16})
	require.NoError(t, err)
	assert.Same(t, res, p.Result())

	bmp, err := p.EncodeBMP()
	require.NoError(t, err)
	assert.Equal(t, "image/bmp", bmp.MIME)
	jpg, err := p.EncodeJPEG(85)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", jpg.MIME)
	assert.Same(t, res, p.Result(), "encoding keeps the state")

	// A failed Process still discards the previous result.
	_, err = p.Process(sprite(50), Options{Colors: -4})
	require.Error(t, err)
	assert.Nil(t, p.Result())
	_, err = p.EncodeBMP()
	assert.True(t, errors.Is(err, encoder.ErrNoProcessedData))

	_, err = p.Process(sprite(50), Options{})
	require.NoError(t, err)
	p.Reset()
	assert.Nil(t, p.Result())
}
