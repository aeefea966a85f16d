// Package processor runs the fixed conversion pipeline: mask, resize,
// outline, quantize, flatten and finalize. Process is a pure function over
// its input; Processor wraps it for callers that encode the last result
// several times.
package processor

import (
	"fmt"
	"image"

	"github.com/AnyUserName/wirthmage-cli/internal/encoder"
	"github.com/AnyUserName/wirthmage-cli/internal/mask"
	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
	"github.com/AnyUserName/wirthmage-cli/internal/raster"
	"github.com/AnyUserName/wirthmage-cli/internal/resize"
)

// Result is a finished conversion. It owns its pixels.
type Result struct {
	// Image is the finalized raster handed to the encoders.
	Image *quantize.Indexed

	// Background is the keyed color when masking was applied.
	Background *raster.RGB

	Options Options
}

// Width returns the output width.
func (r *Result) Width() int { return r.Image.Width }

// Height returns the output height.
func (r *Result) Height() int { return r.Image.Height }

// Colors returns the palette size, or 0 for direct color.
func (r *Result) Colors() int { return len(r.Image.Palette) }

// Encode serializes the result.
func (r *Result) Encode(f encoder.Format) (*encoder.Output, error) {
	if r == nil {
		return nil, encoder.ErrNoProcessedData
	}
	return encoder.Encode(r.Image, f)
}

// Process converts src according to opts. src is not modified.
func Process(src image.Image, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty source image", ErrInvalidOptions)
	}
	target, resized, err := opts.Target()
	if err != nil {
		return nil, err
	}

	r := raster.FromImage(src)
	res := &Result{Options: opts}

	if opts.Mask {
		bg := mask.Apply(r)
		res.Background = &bg
	}

	if resized {
		r = resize.Resize(r, target)
		if opts.Mask {
			mask.ApplyBinaryAlpha(r)
		}
	}

	if opts.outlined() {
		r = mask.DrawOutline(r, opts.Outline)
	}

	// Quantize while the background is still transparent so it is kept out
	// of the error diffusion.
	if opts.Colors > 0 {
		quantize.Quantize(r, opts.Colors)
	}

	if res.Background != nil {
		mask.Flatten(r, *res.Background)
	}

	res.Image = quantize.Finalize(r, opts.Colors)
	return res, nil
}

// Processor holds the result of its most recent Process call. It starts
// Idle; a successful Process moves it to Processed and encoding leaves the
// state unchanged. A Processor must not be shared between goroutines.
type Processor struct {
	last *Result
}

// New returns an idle Processor.
func New() *Processor {
	return &Processor{}
}

// Process discards the previous result and converts src. On error the
// Processor is left Idle.
func (p *Processor) Process(src image.Image, opts Options) (*Result, error) {
	p.last = nil
	res, err := Process(src, opts)
	if err != nil {
		return nil, err
	}
	p.last = res
	return res, nil
}

// Result returns the last result, or nil when Idle.
func (p *Processor) Result() *Result {
	return p.last
}

// Reset returns the Processor to Idle.
func (p *Processor) Reset() {
	p.last = nil
}

// Encode serializes the last result.
func (p *Processor) Encode(f encoder.Format) (*encoder.Output, error) {
	return p.last.Encode(f)
}

func (p *Processor) EncodeBMP() (*encoder.Output, error) {
	return p.Encode(encoder.BMP())
}

// EncodePNG writes palette slot 0 transparent when withAlpha is set.
func (p *Processor) EncodePNG(withAlpha bool) (*encoder.Output, error) {
	return p.Encode(encoder.PNG(withAlpha))
}

func (p *Processor) EncodeJPEG(quality int) (*encoder.Output, error) {
	return p.Encode(encoder.JPEG(quality))
}
