// Package render turns a hash into a finished placeholder image for a
// profile: decode at a small work size, scale in linear light to cover
// the output size, then center-crop.
package render

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/smearhash-cli/internal/colorspace"
	"github.com/AnyUserName/smearhash-cli/internal/profile"
	"github.com/AnyUserName/smearhash-cli/internal/smearhash"
)

// Result is a rendered placeholder plus the numbers that produced it.
type Result struct {
	Image      *image.NRGBA
	NumX, NumY int
	DecodeW    int
	DecodeH    int
	Punch      float64
}

// Render decodes hash using p.  A zero opts.Punch takes the profile's.
//
// When the output size differs from the decode size, the decode stays in
// linear light through the resample and is sRGB-encoded only at the end,
// so blends between colours keep their physical brightness.
func Render(hash string, p profile.Profile, opts smearhash.Options) (*Result, error) {
	nx, ny, err := components(hash, opts.Unchecked)
	if err != nil {
		return nil, err
	}
	if opts.Punch == 0 {
		opts.Punch = p.Punch
	}

	dw, dh := p.DecodeSize(nx, ny)
	res := &Result{NumX: nx, NumY: ny, DecodeW: dw, DecodeH: dh, Punch: opts.Punch}

	w, h := p.OutputSize(dw, dh)
	if w == dw && h == dh {
		img, err := smearhash.DecodeImage(hash, dw, dh, opts)
		if err != nil {
			return nil, fmt.Errorf("decode %dx%d: %w", dw, dh, err)
		}
		res.Image = imaging.Clone(img)
		return res, nil
	}

	filter, err := p.ResampleFilter()
	if err != nil {
		return nil, err
	}
	lin, err := smearhash.DecodeLinear(hash, dw, dh, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %dx%d: %w", dw, dh, err)
	}
	if len(lin) != dw*dh*3 {
		return nil, fmt.Errorf("decode %dx%d: got %d linear values", dw, dh, len(lin))
	}

	cw, ch := coverSize(dw, dh, w, h)
	img := toNRGBA(resample(lin, dw, dh, cw, ch, filter), cw, ch)
	if cw != w || ch != h {
		img = imaging.CropAnchor(img, w, h, imaging.Center)
	}
	res.Image = img
	return res, nil
}

// coverSize scales sw × sh, keeping its aspect ratio, to the smallest size
// that covers dw × dh.
func coverSize(sw, sh, dw, dh int) (int, int) {
	if sw*dh >= dw*sh {
		// Source is at least as wide as the target: match heights.
		return max(dw, int(float64(sw)*float64(dh)/float64(sh)+0.5)), dh
	}
	return dw, max(dh, int(float64(sh)*float64(dw)/float64(sw)+0.5))
}

// toNRGBA sRGB-encodes linear RGB triples into an opaque image.
func toNRGBA(lin []float32, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < len(lin); i, j = i+3, j+4 {
		img.Pix[j] = colorspace.ToByte(colorspace.LinearToSRGB(float64(lin[i])))
		img.Pix[j+1] = colorspace.ToByte(colorspace.LinearToSRGB(float64(lin[i+1])))
		img.Pix[j+2] = colorspace.ToByte(colorspace.LinearToSRGB(float64(lin[i+2])))
		img.Pix[j+3] = 255
	}
	return img
}

// components reads the grid size.  Unchecked renders fall back to 1x1 so
// a malformed header still yields a raster.
func components(hash string, unchecked bool) (int, int, error) {
	nx, ny, err := smearhash.Components(hash)
	if err == nil {
		return nx, ny, nil
	}
	if !unchecked {
		return 0, 0, err
	}
	return 1, 1, nil
}
