package render

import (
	"math"

	"github.com/disintegration/imaging"
)

// Linear-light resampling with imaging's filter kernels.  imaging itself
// resamples 8-bit NRGBA, which bands badly once values are linear, so the
// weights are computed the same way but applied to float32 planes.

type indexWeight struct {
	index  int
	weight float64
}

// weights returns, for every destination sample, the source samples that
// contribute to it and their normalised weights.
func weights(dstSize, srcSize int, filter imaging.ResampleFilter) [][]indexWeight {
	du := float64(srcSize) / float64(dstSize)
	out := make([][]indexWeight, dstSize)

	if filter.Support <= 0 || filter.Kernel == nil {
		for v := range out {
			u := min(int((float64(v)+0.5)*du), srcSize-1)
			out[v] = []indexWeight{{index: u, weight: 1}}
		}
		return out
	}

	scale := max(du, 1)
	ru := math.Ceil(scale * filter.Support)
	for v := range out {
		fu := (float64(v)+0.5)*du - 0.5
		begin := max(int(math.Ceil(fu-ru)), 0)
		end := min(int(math.Floor(fu+ru)), srcSize-1)

		var ws []indexWeight
		var sum float64
		for u := begin; u <= end; u++ {
			if w := filter.Kernel((float64(u) - fu) / scale); w != 0 {
				ws = append(ws, indexWeight{index: u, weight: w})
				sum += w
			}
		}
		if sum != 0 {
			for i := range ws {
				ws[i].weight /= sum
			}
		}
		out[v] = ws
	}
	return out
}

// resample scales an sw × sh raster of RGB float triples to dw × dh,
// horizontally then vertically.
func resample(src []float32, sw, sh, dw, dh int, filter imaging.ResampleFilter) []float32 {
	tmp := make([]float32, dw*sh*3)
	xw := weights(dw, sw, filter)
	for y := 0; y < sh; y++ {
		row := src[y*sw*3 : (y+1)*sw*3]
		out := tmp[y*dw*3 : (y+1)*dw*3]
		for x, ws := range xw {
			var r, g, b float64
			for _, iw := range ws {
				s := row[iw.index*3 : iw.index*3+3]
				r += float64(s[0]) * iw.weight
				g += float64(s[1]) * iw.weight
				b += float64(s[2]) * iw.weight
			}
			out[x*3] = float32(r)
			out[x*3+1] = float32(g)
			out[x*3+2] = float32(b)
		}
	}

	dst := make([]float32, dw*dh*3)
	yw := weights(dh, sh, filter)
	for y, ws := range yw {
		out := dst[y*dw*3 : (y+1)*dw*3]
		for _, iw := range ws {
			row := tmp[iw.index*dw*3 : (iw.index+1)*dw*3]
			w := float32(iw.weight)
			for i, v := range row {
				out[i] += v * w
			}
		}
	}
	return dst
}
