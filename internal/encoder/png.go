package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes placeholders to PNG.  Quality ≥ 90 trades speed for
// the best deflate level.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }

func (e *PNGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
	if quality >= 90 {
		enc.CompressionLevel = png.BestCompression
	}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
