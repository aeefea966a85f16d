package encoder

import (
	"encoding/binary"
	"fmt"

	"github.com/AnyUserName/wirthmage-cli/internal/quantize"
)

const (
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40
)

// BMPEncoder writes uncompressed bottom-up Windows bitmaps: 4 bits per pixel
// for palettes of up to 16 colors, 8 bits up to 256, 24-bit BGR otherwise.
type BMPEncoder struct{}

func (e *BMPEncoder) Kind() Kind { return KindBMP }

// BMPBitDepth returns the bits per pixel used for a palette of n colors;
// n == 0 means direct color.
func BMPBitDepth(n int) int {
	switch {
	case n == 0:
		return 24
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// BMPRowSize is the padded byte length of one pixel row.
func BMPRowSize(bitDepth, width int) int {
	return (bitDepth*width + 31) / 32 * 4
}

func (e *BMPEncoder) Encode(img *quantize.Indexed, _ Format) ([]byte, int, error) {
	colors := len(img.Palette)
	if colors > quantize.MaxColors {
		return nil, 0, fmt.Errorf("bmp: palette of %d colors", colors)
	}
	depth := BMPBitDepth(colors)
	w, h := img.Width, img.Height

	rowSize := BMPRowSize(depth, w)
	dataSize := rowSize * h
	offset := bmpFileHeaderLen + bmpInfoHeaderLen + colors*4
	fileSize := offset + dataSize

	buf := make([]byte, fileSize)
	le := binary.LittleEndian

	// BITMAPFILEHEADER
	buf[0], buf[1] = 'B', 'M'
	le.PutUint32(buf[2:], uint32(fileSize))
	le.PutUint32(buf[10:], uint32(offset))

	// BITMAPINFOHEADER; positive height means bottom-up rows.
	le.PutUint32(buf[14:], bmpInfoHeaderLen)
	le.PutUint32(buf[18:], uint32(int32(w)))
	le.PutUint32(buf[22:], uint32(int32(h)))
	le.PutUint16(buf[26:], 1)
	le.PutUint16(buf[28:], uint16(depth))
	le.PutUint32(buf[30:], 0)
	le.PutUint32(buf[34:], uint32(dataSize))
	le.PutUint32(buf[46:], uint32(colors))
	le.PutUint32(buf[50:], uint32(colors))

	for i, c := range img.Palette {
		p := bmpFileHeaderLen + bmpInfoHeaderLen + i*4
		buf[p], buf[p+1], buf[p+2] = c.B, c.G, c.R
	}

	for y := 0; y < h; y++ {
		row := buf[offset+(h-1-y)*rowSize : offset+(h-y)*rowSize]
		switch depth {
		case 24:
			for x := 0; x < w; x++ {
				c := img.ColorAt(x, y)
				row[x*3], row[x*3+1], row[x*3+2] = c.B, c.G, c.R
			}
		case 8:
			copy(row, img.Pix[y*w:(y+1)*w])
		case 4:
			idx := img.Pix[y*w : (y+1)*w]
			for x, v := range idx {
				if x%2 == 0 {
					row[x/2] = (v & 0x0f) << 4
				} else {
					row[x/2] |= v & 0x0f
				}
			}
		}
	}

	return buf, depth, nil
}
