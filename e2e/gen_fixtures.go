//go:build ignore

// gen_fixtures creates small source images for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "extra"), 0o755)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	magenta := color.NRGBA{R: 255, G: 0, B: 255, A: 255}

	// Character sprites on flat backgrounds (PNG, 400x400).
	writePNG(filepath.Join(dir, "chara.png"), sprite(400, white))
	writePNG(filepath.Join(dir, "monster.png"), sprite(320, magenta))

	// Same base name in a subdirectory, to exercise name collisions.
	writePNG(filepath.Join(dir, "extra", "chara.png"), sprite(360, white))

	// Inn scene (JPEG, 800x520).
	writeJPEG(filepath.Join(dir, "inn.jpg"), scene(800, 520))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 4 fixtures in %s\n", dir)
}

// sprite paints a shaded disc on a flat background color.
func sprite(size int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r := float64(size) * 3 / 8
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d := math.Hypot(dx, dy)
			if d > r {
				img.SetNRGBA(x, y, bg)
				continue
			}
			shade := 1 - 0.7*d/r
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + 200*shade*(0.5+0.5*dx/r)),
				G: uint8(60 + 150*shade),
				B: uint8(40 + 200*shade*(0.5+0.5*dy/r)),
				A: 255,
			})
		}
	}
	return img
}

func scene(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func writePNG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
}
