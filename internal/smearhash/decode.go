// Package smearhash decodes smearhash strings into placeholder rasters.
//
// A hash packs an average colour and up to 80 low-frequency cosine
// coefficients into base-83 text.  Decoding evaluates the truncated 2D
// cosine series at every output pixel in linear light, then re-encodes
// to sRGB.
//
// Decoding is stateless and deterministic: identical arguments always
// produce byte-identical output, whatever the worker count.
package smearhash

import (
	"fmt"
	"image"
	"runtime"

	"github.com/AnyUserName/smearhash-cli/internal/base83"
	"github.com/AnyUserName/smearhash-cli/internal/trig"
)

// MaxDimension bounds width and height in checked decodes.
const MaxDimension = 1 << 14

// Options controls a decode.  The zero value is a valid strict,
// single-threaded decode with punch 1 and the approximate cosine.
type Options struct {
	// Punch scales AC contrast.  0 means 1.
	Punch float64
	// Kernel selects the cosine evaluation.
	Kernel trig.Kernel
	// Workers is the number of goroutines synthesising rows.  <= 1 runs
	// on the calling goroutine.
	Workers int
	// Unchecked skips all validation.  Malformed input then decodes to
	// unspecified pixels instead of an error.  Use only for trusted hashes.
	Unchecked bool
}

// DefaultOptions returns strict options using every CPU.
func DefaultOptions() Options {
	return Options{
		Punch:   1,
		Kernel:  trig.Approx,
		Workers: runtime.NumCPU(),
	}
}

// Decode renders hash as a width × height RGBA buffer (4 bytes per pixel,
// row-major, alpha 255).
func Decode(hash string, width, height int, opts Options) ([]byte, error) {
	g, err := prepare(hash, width, height, opts)
	if err != nil {
		return nil, err
	}
	return synthesize(g, width, height, opts.Kernel.Func(), opts.Workers), nil
}

// DecodeImage is Decode wrapped in an *image.RGBA.  The pixel buffer is not
// copied.
func DecodeImage(hash string, width, height int, opts Options) (*image.RGBA, error) {
	pix, err := Decode(hash, width, height, opts)
	if err != nil {
		return nil, err
	}
	width, height = max(width, 0), max(height, 0)
	if len(pix) == 0 {
		width, height = 0, 0
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// DecodeLinear returns the unclamped linear-light RGB value of every pixel,
// three float32 per pixel, before sRGB encoding.
func DecodeLinear(hash string, width, height int, opts Options) ([]float32, error) {
	g, err := prepare(hash, width, height, opts)
	if err != nil {
		return nil, err
	}
	return synthesizeLinear(g, width, height, opts.Kernel.Func(), opts.Workers), nil
}

func prepare(hash string, width, height int, opts Options) (*Grid, error) {
	if opts.Unchecked {
		return parseGridUnchecked(hash, opts.Punch), nil
	}
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d output (want 1..%d per side)",
			ErrInvalidDimensions, width, height, MaxDimension)
	}
	return ParseGrid(hash, opts.Punch)
}

// AverageColor returns the sRGB average colour of hash without
// synthesising anything.  Only the first six characters are examined.
func AverageColor(hash string) ([3]uint8, error) {
	if err := checkSymbols(hash, headerLen); err != nil {
		return [3]uint8{}, err
	}
	if _, _, err := Components(hash); err != nil {
		return [3]uint8{}, err
	}
	if len(hash) < headerLen {
		return [3]uint8{}, &HashError{
			Hash:   hash,
			Pos:    len(hash),
			Kind:   ErrTruncatedHash,
			Detail: fmt.Sprintf("need at least %d characters, have %d", headerLen, len(hash)),
		}
	}
	v, err := decodeDC(hash)
	if err != nil {
		return [3]uint8{}, err
	}
	return splitRGB(v), nil
}

// AverageColorUnchecked is AverageColor without validation.
func AverageColorUnchecked(hash string) [3]uint8 {
	return splitRGB(base83.DecodeUnchecked(hash, 2, headerLen))
}
