// Package dimension holds the width/height value type used to describe
// conversion targets and the fixed preset table.
package dimension

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ASIS is the pseudo-preset that keeps the source size.
const ASIS = "ASIS"

// Dimension is an immutable width × height pair.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// New returns a Dimension of w × h.
func New(w, h int) Dimension {
	return Dimension{Width: w, Height: h}
}

// Pixels returns the pixel count.
func (d Dimension) Pixels() int {
	return d.Width * d.Height
}

// AspectRatio returns width / height.
func (d Dimension) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Empty reports whether d has no area.
func (d Dimension) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Scale multiplies both sides by factor and floors each independently.
// A zero factor produces an empty Dimension; callers must not ask for one.
func (d Dimension) Scale(factor float64) Dimension {
	return Dimension{
		Width:  int(math.Floor(float64(d.Width) * factor)),
		Height: int(math.Floor(float64(d.Height) * factor)),
	}
}

// LimitPixels returns d unchanged when it has at most maxPixels pixels,
// otherwise the largest floor-rounded Dimension of the same aspect ratio
// whose area fits.
func (d Dimension) LimitPixels(maxPixels int) Dimension {
	if d.Pixels() <= maxPixels {
		return d
	}
	ratio := d.AspectRatio()
	h := math.Sqrt(float64(maxPixels) / ratio)
	w := h * ratio
	return Dimension{Width: int(math.Floor(w)), Height: int(math.Floor(h))}
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Built-in target sizes.
var presets = map[string]Dimension{
	"FULL": {Width: 632, Height: 420},
	"YADO": {Width: 400, Height: 260},
	"CARD": {Width: 74, Height: 94},
}

// Preset looks up a preset by name (case-insensitive).
func Preset(name string) (Dimension, bool) {
	d, ok := presets[strings.ToUpper(name)]
	return d, ok
}

// PresetNames returns the preset names in ascending pixel order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return presets[names[i]].Pixels() < presets[names[j]].Pixels()
	})
	return names
}
