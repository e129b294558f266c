package profile

import (
	"fmt"
	"sort"

	"github.com/disintegration/imaging"
)

// Profile defines how a hash is rendered into a placeholder image.
type Profile struct {
	Name          string
	WorkSize      int     // decode budget: pixels per side at MaxComponents
	MaxComponents int     // grid size WorkSize is spread over
	Width         int     // final output width; 0 = keep decode size
	Height        int     // final output height; 0 = keep decode size
	Punch         float64 // AC contrast multiplier
	Filter        string  // resample filter for the upscale
	Formats       []string
}

// Built-in profiles.
var profiles = map[string]Profile{
	"video-poster": {
		Name:          "video-poster",
		WorkSize:      64,
		MaxComponents: 4,
		Width:         320,
		Height:        180,
		Punch:         1,
		Filter:        "linear",
		Formats:       []string{"png"},
	},
	"square": {
		Name:          "square",
		WorkSize:      64,
		MaxComponents: 4,
		Width:         128,
		Height:        128,
		Punch:         1,
		Filter:        "linear",
		Formats:       []string{"png", "jpeg"},
	},
	"native": {
		Name:          "native",
		WorkSize:      32,
		MaxComponents: 4,
		Punch:         1,
		Filter:        "nearest",
		Formats:       []string{"png"},
	},
}

// Get returns a profile by name. Falls back to video-poster if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p.clone()
	}
	p := profiles["video-poster"].clone()
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p Profile) clone() Profile {
	p.Formats = append([]string(nil), p.Formats...)
	return p
}

// DecodeSize returns the size a numX × numY hash is decoded at before any
// upscale: each component gets WorkSize/MaxComponents pixels.
func (p Profile) DecodeSize(numX, numY int) (int, int) {
	step := 1
	if p.MaxComponents > 0 && p.WorkSize >= p.MaxComponents {
		step = p.WorkSize / p.MaxComponents
	}
	return max(1, numX*step), max(1, numY*step)
}

// OutputSize returns the final raster size for a hash decoded at w × h.
func (p Profile) OutputSize(w, h int) (int, int) {
	if p.Width <= 0 || p.Height <= 0 {
		return w, h
	}
	return p.Width, p.Height
}

// ResampleFilter maps Filter to an imaging filter.
func (p Profile) ResampleFilter() (imaging.ResampleFilter, error) {
	switch p.Filter {
	case "", "linear":
		return imaging.Linear, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "lanczos":
		return imaging.Lanczos, nil
	case "gaussian":
		return imaging.Gaussian, nil
	}
	return imaging.Linear, fmt.Errorf("unknown filter %q", p.Filter)
}
