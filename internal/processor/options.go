package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/dimension"
	"github.com/AnyUserName/wirthmage-cli/internal/mask"
)

// ErrInvalidOptions is returned for conversion requests that cannot be
// carried out: negative color counts, scale factors below one, unknown size
// presets, or sources and targets without area.
var ErrInvalidOptions = errors.New("invalid conversion options")

// Options controls one conversion. The zero value keeps the source size,
// keeps all colors and applies no mask.
type Options struct {
	// ImageSize is a dimension preset name or dimension.ASIS. Empty means
	// ASIS.
	ImageSize string

	// Scale multiplies the preset dimension. Zero means 1. It is ignored for
	// ASIS.
	Scale int

	// Colors is the palette size; 0 keeps direct color. Values of 1 and
	// above 256 are clamped into [2,256].
	Colors int

	// Mask keys out the color of pixel (0,0).
	Mask bool

	// Outline is drawn only when Mask is set.
	Outline mask.OutlineStyle
}

// Validate reports the first precondition the options violate.
func (o Options) Validate() error {
	if o.Colors < 0 {
		return fmt.Errorf("%w: colors %d", ErrInvalidOptions, o.Colors)
	}
	if o.Scale < 0 {
		return fmt.Errorf("%w: scale %d", ErrInvalidOptions, o.Scale)
	}
	if _, _, err := o.Target(); err != nil {
		return err
	}
	return nil
}

// Target returns the output dimension. ok is false for ASIS, which keeps the
// source size.
func (o Options) Target() (d dimension.Dimension, ok bool, err error) {
	name := strings.TrimSpace(o.ImageSize)
	if name == "" || strings.EqualFold(name, dimension.ASIS) {
		return dimension.Dimension{}, false, nil
	}
	preset, found := dimension.Preset(name)
	if !found {
		return dimension.Dimension{}, false, fmt.Errorf("%w: unknown image size %q", ErrInvalidOptions, o.ImageSize)
	}
	d = preset.Scale(float64(o.scale()))
	if d.Empty() {
		return dimension.Dimension{}, false, fmt.Errorf("%w: empty target %s", ErrInvalidOptions, d)
	}
	return d, true, nil
}

func (o Options) scale() int {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// outlined reports whether an outline pass runs.
func (o Options) outlined() bool {
	return o.Mask && !o.Outline.IsZero()
}
