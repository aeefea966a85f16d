// Package resize fits a raster to a target Dimension: center-crop to the
// target aspect ratio, Lanczos resample, then a light unsharp mask.
package resize

import (
	"image"
	"math"

	"github.com/AnyUserName/wirthmage-cli/internal/dimension"
	"github.com/AnyUserName/wirthmage-cli/internal/raster"
	"github.com/disintegration/imaging"
)

// Unsharp parameters applied after resampling.
const (
	UnsharpAmount    = 0.5
	UnsharpRadius    = 0.6
	UnsharpThreshold = 2
)

// CropRect is a sub-pixel crop window in source coordinates.
type CropRect struct {
	X, Y, Width, Height float64
}

// CenterCrop returns the largest window of the source with the target aspect
// ratio, centered on the axis that gets trimmed.
func CenterCrop(srcW, srcH, dstW, dstH int) CropRect {
	targetRatio := float64(dstW) / float64(dstH)
	sourceRatio := float64(srcW) / float64(srcH)

	if sourceRatio > targetRatio {
		w := float64(srcH) * targetRatio
		return CropRect{X: (float64(srcW) - w) / 2, Y: 0, Width: w, Height: float64(srcH)}
	}
	h := float64(srcW) / targetRatio
	return CropRect{X: 0, Y: (float64(srcH) - h) / 2, Width: float64(srcW), Height: h}
}

// snapEpsilon absorbs float error from ratio round trips such as
// 148 / (74/94).
const snapEpsilon = 1e-6

// Rect snaps c to whole pixels: sizes are floored, offsets rounded.
func (c CropRect) Rect() image.Rectangle {
	w := max(int(math.Floor(c.Width+snapEpsilon)), 1)
	h := max(int(math.Floor(c.Height+snapEpsilon)), 1)
	x := int(math.Round(c.X))
	y := int(math.Round(c.Y))
	return image.Rect(x, y, x+w, y+h)
}

// Resize crops r to the aspect ratio of d and resamples it to exactly d.
// The result is a new raster. Alpha comes out soft at mask edges; masked
// callers re-binarize it.
func Resize(r *raster.Raster, d dimension.Dimension) *raster.Raster {
	rect := CenterCrop(r.Width(), r.Height(), d.Width, d.Height).Rect()
	cropped := imaging.Crop(r.Image(), rect)
	resized := imaging.Resize(cropped, d.Width, d.Height, imaging.Lanczos)
	return raster.Wrap(Unsharp(resized, UnsharpAmount, UnsharpRadius, UnsharpThreshold))
}

// Unsharp sharpens the color channels of img in place and returns it. A
// channel moves by amount × (source − blurred) when that difference is at
// least threshold; fully transparent pixels and alpha are left alone.
func Unsharp(img *image.NRGBA, amount, radius float64, threshold int) *image.NRGBA {
	if amount == 0 || radius <= 0 {
		return img
	}
	// imaging weights colors by alpha and returns straight NRGBA.
	blurred := imaging.Blur(img, radius)

	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		bl := blurred.Pix[y*blurred.Stride : y*blurred.Stride+w*4]
		for i := 0; i < len(src); i += 4 {
			if src[i+3] == 0 || bl[i+3] == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				orig := int(src[i+c])
				diff := orig - int(bl[i+c])
				if abs(diff) < threshold {
					continue
				}
				src[i+c] = clamp(orig + int(math.Round(amount*float64(diff))))
			}
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
