package smearhash

import (
	"fmt"
	"math"

	"github.com/AnyUserName/smearhash-cli/internal/base83"
	"github.com/AnyUserName/smearhash-cli/internal/colorspace"
)

// ─── hash layout ───────────────────────────────────────────────
//
//	[0]      size flag s:    numX = s%9 + 1, numY = s/9 + 1
//	[1]      quantised AC maximum q
//	[2:6]    average colour, 24-bit 0xRRGGBB
//	[4+2k : 6+2k]    AC component k (k = 1 … numX*numY-1), value v < 19³
//
// Total length is 4 + 2*numX*numY.
const (
	// MaxComponents bounds numX and numY.
	MaxComponents = 9

	headerLen = 6

	// acDivisor turns q into the AC magnitude: (q+1)/acDivisor.  It is
	// 166 * 81, with the /9 normalisation of each quantised step folded in.
	acDivisor = 13446

	acLevels = 19
	acMid    = 9

	// maxDC is the largest packed average colour.  Four digits reach
	// 83⁴-1, so larger values are rejected rather than wrapped.
	maxDC = 1<<24 - 1
)

// Grid is the decoded coefficient set of a hash.  Coeffs[i+j*NumX] holds the
// linear RGB weight of basis function (i, j); Coeffs[0] is the average colour.
type Grid struct {
	NumX, NumY int
	MaxValue   float64
	Coeffs     [][3]float64
}

// ExpectedLength is the hash length implied by a numX × numY grid.
func ExpectedLength(numX, numY int) int {
	return 4 + 2*numX*numY
}

func gridSize(flag int) (int, int) {
	return flag%MaxComponents + 1, flag/MaxComponents + 1
}

// Components reads the grid dimensions from the size flag of hash.
func Components(hash string) (numX, numY int, err error) {
	if len(hash) == 0 {
		return 0, 0, &HashError{Hash: hash, Kind: ErrTruncatedHash, Detail: "empty"}
	}
	flag, err := base83.Decode(hash, 0, 1)
	if err != nil {
		return 0, 0, &HashError{Hash: hash, Kind: err}
	}
	numX, numY = gridSize(flag)
	if numY > MaxComponents {
		return 0, 0, &HashError{
			Hash:   hash,
			Kind:   ErrInvalidDimensions,
			Detail: fmt.Sprintf("size flag %d gives a %dx%d grid", flag, numX, numY),
		}
	}
	return numX, numY, nil
}

// Validate checks hash against the alphabet and the length implied by its
// own size flag.
func Validate(hash string) error {
	if err := checkSymbols(hash, len(hash)); err != nil {
		return err
	}
	numX, numY, err := Components(hash)
	if err != nil {
		return err
	}
	need := ExpectedLength(numX, numY)
	switch {
	case len(hash) < need:
		return &HashError{
			Hash:   hash,
			Pos:    len(hash),
			Kind:   ErrTruncatedHash,
			Detail: fmt.Sprintf("%dx%d grid needs %d characters, have %d", numX, numY, need, len(hash)),
		}
	case len(hash) > need:
		return &HashError{
			Hash:   hash,
			Pos:    need,
			Kind:   ErrTrailingData,
			Detail: fmt.Sprintf("%dx%d grid needs %d characters, have %d", numX, numY, need, len(hash)),
		}
	}
	_, err = decodeDC(hash)
	return err
}

// decodeDC reads the packed average colour.  hash must hold at least
// headerLen valid symbols.
func decodeDC(hash string) (int, error) {
	v, err := base83.Decode(hash, 2, headerLen)
	if err != nil {
		return 0, &HashError{Hash: hash, Kind: err}
	}
	if v > maxDC {
		return 0, &HashError{
			Hash:   hash,
			Pos:    2,
			Kind:   ErrInvalidColor,
			Detail: fmt.Sprintf("0x%X exceeds 0xFFFFFF", v),
		}
	}
	return v, nil
}

func checkSymbols(hash string, n int) error {
	for i := 0; i < n && i < len(hash); i++ {
		if base83.Index(hash[i]) < 0 {
			return &HashError{Hash: hash, Pos: i, Kind: &base83.CharError{Char: hash[i], Pos: i}}
		}
	}
	return nil
}

// ParseGrid validates hash and decodes its coefficients.  A punch of 0
// (or NaN) means 1.
func ParseGrid(hash string, punch float64) (*Grid, error) {
	if err := Validate(hash); err != nil {
		return nil, err
	}
	return parseGridUnchecked(hash, punch), nil
}

// parseGridUnchecked never fails and never reads past the end of hash;
// missing or unknown symbols decode as zero digits.
func parseGridUnchecked(hash string, punch float64) *Grid {
	numX, numY := gridSize(base83.DecodeUnchecked(hash, 0, 1))
	q := base83.DecodeUnchecked(hash, 1, 2)

	g := &Grid{
		NumX:     numX,
		NumY:     numY,
		MaxValue: acMaximum(q, punch),
		Coeffs:   make([][3]float64, numX*numY),
	}

	rgb := splitRGB(base83.DecodeUnchecked(hash, 2, headerLen))
	g.Coeffs[0] = [3]float64{
		colorspace.LinearLUT[rgb[0]],
		colorspace.LinearLUT[rgb[1]],
		colorspace.LinearLUT[rgb[2]],
	}

	for k := 1; k < len(g.Coeffs); k++ {
		v := base83.DecodeUnchecked(hash, 4+2*k, 6+2*k)
		g.Coeffs[k] = [3]float64{
			signSqr(v/(acLevels*acLevels)-acMid) * g.MaxValue,
			signSqr((v/acLevels)%acLevels-acMid) * g.MaxValue,
			signSqr(v%acLevels-acMid) * g.MaxValue,
		}
	}
	return g
}

func acMaximum(q int, punch float64) float64 {
	if punch == 0 || math.IsNaN(punch) {
		punch = 1
	}
	return float64(q+1) / acDivisor * punch
}

// splitRGB unpacks a 0xRRGGBB value.  Bits above 24 are dropped; only
// unchecked decodes can reach it with such a value.
func splitRGB(v int) [3]uint8 {
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// signSqr squares x keeping its sign; 0 maps to +0.
func signSqr(x int) float64 {
	f := float64(x)
	if x < 0 {
		return -f * f
	}
	return f * f
}
