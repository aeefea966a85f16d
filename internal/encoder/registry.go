package encoder

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
)

// Registry maps each output kind to its encoder.
type Registry struct {
	encoders map[Kind]Encoder
}

// NewRegistry creates a registry holding the built-in encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[Kind]Encoder),
	}

	all := []Encoder{
		&BMPEncoder{},
		&PNGEncoder{Optimize: true},
		&JPEGEncoder{},
	}
	for _, enc := range all {
		r.Register(enc)
	}

	return r
}

// Register adds or replaces the encoder for enc.Kind().
func (r *Registry) Register(enc Encoder) {
	r.encoders[enc.Kind()] = enc
}

// Get returns the encoder for kind, or nil.
func (r *Registry) Get(kind Kind) Encoder {
	return r.encoders[kind]
}

// Encode looks up the encoder for f and runs it.
func (r *Registry) Encode(img *quantize.Indexed, f Format) (*Output, error) {
	if img == nil || img.Raster == nil {
		return nil, ErrNoProcessedData
	}
	enc := r.Get(f.Kind)
	if enc == nil {
		return nil, fmt.Errorf("no encoder for %s", f.Kind)
	}
	data, depth, err := enc.Encode(img, f)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Kind, err)
	}
	return &Output{
		Data:      data,
		MIME:      f.Kind.MIME(),
		Extension: f.Kind.Extension(),
		BitDepth:  depth,
	}, nil
}

// String returns a summary of registered encoders.
func (r *Registry) String() string {
	var names []string
	for _, k := range []Kind{KindBMP, KindPNG, KindJPEG} {
		if _, ok := r.encoders[k]; ok {
			names = append(names, strings.ToLower(k.String()))
		}
	}
	if len(names) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
