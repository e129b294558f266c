package smearhash

import (
	"math"
	"sync"

	"github.com/AnyUserName/smearhash-cli/internal/colorspace"
)

// parallelMinPixels is the smallest raster split across workers.  Below it
// goroutine start-up costs more than the synthesis itself.
const parallelMinPixels = 128 * 128

// maxPixels bounds every raster, checked or not.  Unchecked decodes beyond
// it return an empty buffer instead of attempting the allocation.
const maxPixels = MaxDimension * MaxDimension

// rasterFits reports whether a width × height raster is non-empty and
// within maxPixels, without overflowing.
func rasterFits(width, height int) bool {
	return width > 0 && height > 0 && width <= maxPixels/height
}

// ─── cosine tables + pool ──────────────────────────────────────
// cosX[x*numX+i] = cos(π·x·i/width), cosY[y*numY+j] = cos(π·y·j/height).
// One kernel call per (pixel column, component) instead of per pixel.
type cosTables struct {
	x []float64
	y []float64
}

var cosPool = sync.Pool{New: func() any { return new(cosTables) }}

func growF64(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

func (t *cosTables) fill(g *Grid, width, height int, cos func(float64) float64) {
	t.x = growF64(t.x, width*g.NumX)
	for x := 0; x < width; x++ {
		base := x * g.NumX
		for i := 0; i < g.NumX; i++ {
			t.x[base+i] = cos(math.Pi * float64(x) * float64(i) / float64(width))
		}
	}
	t.y = growF64(t.y, height*g.NumY)
	for y := 0; y < height; y++ {
		base := y * g.NumY
		for j := 0; j < g.NumY; j++ {
			t.y[base+j] = cos(math.Pi * float64(y) * float64(j) / float64(height))
		}
	}
}

// sumPixel evaluates the basis expansion at one pixel.  The y factor is
// hoisted out of the inner loop.
func sumPixel(g *Grid, cx, cy []float64) (r, gr, b float64) {
	nx := g.NumX
	for j, fy := range cy {
		row := g.Coeffs[j*nx : j*nx+nx]
		for i, c := range row {
			basis := cx[i] * fy
			r += c[0] * basis
			gr += c[1] * basis
			b += c[2] * basis
		}
	}
	return r, gr, b
}

// synthesize renders g into a width × height RGBA buffer.  Sizes that are
// non-positive or beyond maxPixels yield an empty buffer; the result is
// identical for any number of workers.
func synthesize(g *Grid, width, height int, cos func(float64) float64, workers int) []byte {
	if !rasterFits(width, height) || len(g.Coeffs) == 0 || len(g.Coeffs) != g.NumX*g.NumY {
		return []byte{}
	}
	pix := make([]byte, width*height*4)

	t := cosPool.Get().(*cosTables)
	defer cosPool.Put(t)
	t.fill(g, width, height, cos)

	nx, ny := g.NumX, g.NumY
	forRows(width, height, workers, func(y0, y1 int) {
		off := y0 * width * 4
		for y := y0; y < y1; y++ {
			cy := t.y[y*ny : y*ny+ny]
			for x := 0; x < width; x++ {
				r, gr, b := sumPixel(g, t.x[x*nx:x*nx+nx], cy)
				pix[off] = colorspace.ToByte(colorspace.LinearToSRGB(r))
				pix[off+1] = colorspace.ToByte(colorspace.LinearToSRGB(gr))
				pix[off+2] = colorspace.ToByte(colorspace.LinearToSRGB(b))
				pix[off+3] = 255
				off += 4
			}
		}
	})
	return pix
}

// synthesizeLinear is synthesize without the sRGB re-encoding: three
// linear-light floats per pixel, unclamped.
func synthesizeLinear(g *Grid, width, height int, cos func(float64) float64, workers int) []float32 {
	if !rasterFits(width, height) || len(g.Coeffs) == 0 || len(g.Coeffs) != g.NumX*g.NumY {
		return []float32{}
	}
	out := make([]float32, width*height*3)

	t := cosPool.Get().(*cosTables)
	defer cosPool.Put(t)
	t.fill(g, width, height, cos)

	nx, ny := g.NumX, g.NumY
	forRows(width, height, workers, func(y0, y1 int) {
		off := y0 * width * 3
		for y := y0; y < y1; y++ {
			cy := t.y[y*ny : y*ny+ny]
			for x := 0; x < width; x++ {
				r, gr, b := sumPixel(g, t.x[x*nx:x*nx+nx], cy)
				out[off] = float32(r)
				out[off+1] = float32(gr)
				out[off+2] = float32(b)
				off += 3
			}
		}
	})
	return out
}

// forRows calls fn over disjoint row bands [y0, y1) covering [0, height).
// Each band writes only its own rows, so no locking is needed.
func forRows(width, height, workers int, fn func(y0, y1 int)) {
	if workers > height {
		workers = height
	}
	if workers <= 1 || width*height < parallelMinPixels {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
