package encoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// rgbaHeaderLen is the big-endian width and height prefix of an rgba.zst
// payload.
const rgbaHeaderLen = 8

// maxRGBASide bounds each side of an rgba.zst raster, so the pixel count
// cannot overflow when checked against the payload.
const maxRGBASide = 1 << 16

// ErrBadRGBA is returned by DecodeRGBAZstd for malformed payloads.
var ErrBadRGBA = errors.New("encoder: malformed rgba.zst payload")

// RGBAZstdEncoder writes the raw RGBA raster behind an 8-byte size header,
// zstd-compressed.  Clients that upload textures directly skip image
// decoding entirely.
type RGBAZstdEncoder struct{}

func (e *RGBAZstdEncoder) Format() string    { return "rgba.zst" }
func (e *RGBAZstdEncoder) Extension() string { return "rgba.zst" }

func (e *RGBAZstdEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	rgba := toRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if w > maxRGBASide || h > maxRGBASide {
		return nil, fmt.Errorf("rgba.zst: %dx%d exceeds %d per side", w, h, maxRGBASide)
	}

	raw := make([]byte, rgbaHeaderLen, rgbaHeaderLen+w*h*4)
	binary.BigEndian.PutUint32(raw[0:4], uint32(w))
	binary.BigEndian.PutUint32(raw[4:8], uint32(h))
	for y := 0; y < h; y++ {
		off := y * rgba.Stride
		raw = append(raw, rgba.Pix[off:off+w*4]...)
	}

	pool := encoderPool(levelFor(quality))
	enc := pool.Get().(*zstd.Encoder)
	defer pool.Put(enc)
	return enc.EncodeAll(raw, nil), nil
}

// DecodeRGBAZstd reverses RGBAZstdEncoder.Encode.
func DecodeRGBAZstd(data []byte) (*image.RGBA, error) {
	dec := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(dec)

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRGBA, err)
	}
	if len(raw) < rgbaHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadRGBA, len(raw))
	}
	w := int(binary.BigEndian.Uint32(raw[0:4]))
	h := int(binary.BigEndian.Uint32(raw[4:8]))
	pix := raw[rgbaHeaderLen:]
	if w < 0 || h < 0 || w > maxRGBASide || h > maxRGBASide || len(pix) != w*h*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d pixel bytes", ErrBadRGBA, w, h, len(pix))
	}
	return &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// levelFor maps the 1-100 quality knob onto zstd's speed levels.
func levelFor(quality int) zstd.EncoderLevel {
	switch {
	case quality >= 90:
		return zstd.SpeedBestCompression
	case quality >= 60:
		return zstd.SpeedBetterCompression
	case quality > 0 && quality < 30:
		return zstd.SpeedFastest
	}
	return zstd.SpeedDefault
}

var (
	zstdEncodersMu sync.Mutex
	zstdEncoders   = map[zstd.EncoderLevel]*sync.Pool{}

	zstdDecoders = sync.Pool{
		New: func() any { return mustNewZstdDecoder() },
	}
)

func encoderPool(level zstd.EncoderLevel) *sync.Pool {
	zstdEncodersMu.Lock()
	defer zstdEncodersMu.Unlock()
	p, ok := zstdEncoders[level]
	if !ok {
		p = &sync.Pool{New: func() any { return mustNewZstdEncoder(level) }}
		zstdEncoders[level] = p
	}
	return p
}

func mustNewZstdEncoder(level zstd.EncoderLevel) *zstd.Encoder {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(level),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}
