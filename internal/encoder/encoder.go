package encoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
)

// ErrNoProcessedData is returned when encoding is attempted before a
// conversion has produced a result.
var ErrNoProcessedData = errors.New("no processed data")

// DefaultJPEGQuality is used when a JPEG format carries no quality.
const DefaultJPEGQuality = 85

// Kind names an output format.
type Kind int

const (
	KindBMP Kind = iota
	KindPNG
	KindJPEG
)

// ParseKind accepts BMP, PNG, JPEG or JPG in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BMP":
		return KindBMP, nil
	case "PNG":
		return KindPNG, nil
	case "JPEG", "JPG":
		return KindJPEG, nil
	}
	return 0, fmt.Errorf("unknown output type %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindBMP:
		return "BMP"
	case KindPNG:
		return "PNG"
	case KindJPEG:
		return "JPEG"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Extension returns the file extension with its dot.
func (k Kind) Extension() string {
	switch k {
	case KindPNG:
		return ".png"
	case KindJPEG:
		return ".jpg"
	}
	return ".bmp"
}

// MIME returns the media type of the format.
func (k Kind) MIME() string {
	switch k {
	case KindPNG:
		return "image/png"
	case KindJPEG:
		return "image/jpeg"
	}
	return "image/bmp"
}

// Format selects an output format and its per-format parameters. Only the
// fields belonging to Kind are read: WithAlpha for PNG, Quality for JPEG.
type Format struct {
	Kind      Kind
	WithAlpha bool
	Quality   int
}

// BMP returns the Windows bitmap format.
func BMP() Format { return Format{Kind: KindBMP} }

// PNG returns the PNG format. With withAlpha, palette slot 0 (the
// background) is written transparent.
func PNG(withAlpha bool) Format { return Format{Kind: KindPNG, WithAlpha: withAlpha} }

// JPEG returns the JPEG format at quality 1-100.
func JPEG(quality int) Format { return Format{Kind: KindJPEG, Quality: quality} }

// Output is an encoded image tagged with its media type.
type Output struct {
	Data      []byte
	MIME      string
	Extension string
	// BitDepth is the bits per pixel of the written image.
	BitDepth int
}

// Encoder writes a finalized conversion result in one format.
type Encoder interface {
	// Kind returns the format this encoder produces.
	Kind() Kind

	// Encode serializes img using the parameters in f.
	Encode(img *quantize.Indexed, f Format) ([]byte, int, error)
}

var defaultRegistry = NewRegistry()

// Encode serializes a finalized result in the requested format.
func Encode(img *quantize.Indexed, f Format) (*Output, error) {
	return defaultRegistry.Encode(img, f)
}
