package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngChunk is one length-type-data-crc record.
type pngChunk struct {
	typ  string
	data []byte
}

// OptimizePNG recompresses the image data of a PNG stream and drops
// ancillary chunks other than transparency. It is lossless; the input is
// returned unchanged when it cannot be made smaller.
func OptimizePNG(data []byte) ([]byte, error) {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return nil, err
	}

	var idat bytes.Buffer
	for _, c := range chunks {
		if c.typ == "IDAT" {
			idat.Write(c.data)
		}
	}
	zr, err := zlib.NewReader(&idat)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil, err
	}

	var packed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&packed, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(data))
	out.Write(pngSignature)
	wroteIDAT := false
	for _, c := range chunks {
		switch {
		case c.typ == "IDAT":
			if !wroteIDAT {
				writePNGChunk(&out, "IDAT", packed.Bytes())
				wroteIDAT = true
			}
		case isCriticalChunk(c.typ) || c.typ == "tRNS":
			writePNGChunk(&out, c.typ, c.data)
		}
	}

	if out.Len() >= len(data) {
		return data, nil
	}
	return out.Bytes(), nil
}

func isCriticalChunk(typ string) bool {
	return len(typ) == 4 && typ[0] >= 'A' && typ[0] <= 'Z'
}

func readPNGChunks(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("png: bad signature")
	}
	var chunks []pngChunk
	p := len(pngSignature)
	for p < len(data) {
		if len(data)-p < 12 {
			return nil, errors.New("png: truncated chunk")
		}
		n := int(binary.BigEndian.Uint32(data[p:]))
		if n < 0 || len(data)-p-12 < n {
			return nil, errors.New("png: chunk overruns stream")
		}
		typ := string(data[p+4 : p+8])
		chunks = append(chunks, pngChunk{typ: typ, data: data[p+8 : p+8+n]})
		p += 12 + n
		if typ == "IEND" {
			break
		}
	}
	return chunks, nil
}

func writePNGChunk(w *bytes.Buffer, typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)
	w.Write(hdr[:])
	w.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	w.Write(sum[:])
}
