package encoder

import (
	"fmt"
	"strings"
)

// order is the priority order formats are listed and resolved in.
var order = []string{"png", "jpeg", "tiff", "bmp", "rgba.zst"}

// aliases maps alternate spellings onto registered format names.
var aliases = map[string]string{
	"jpg":  "jpeg",
	"tif":  "tiff",
	"zst":  "rgba.zst",
	"rgba": "rgba.zst",
}

// Registry holds all encoders keyed by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry holding every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&PNGEncoder{},
		&JPEGEncoder{},
		&TIFFEncoder{},
		&BMPEncoder{},
		&RGBAZstdEncoder{},
	} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Normalize lowercases a format name and resolves aliases.
func Normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// Get returns an encoder for the given format, or nil if unknown.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[Normalize(format)]
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats normalises and dedupes the requested formats, dropping
// unknown ones.  PNG is used when nothing usable remains.
func (r *Registry) ResolveFormats(requested []string) ([]string, []string) {
	var resolved, unknown []string
	seen := map[string]bool{}

	for _, f := range requested {
		n := Normalize(f)
		if _, ok := r.encoders[n]; !ok {
			unknown = append(unknown, f)
			continue
		}
		if !seen[n] {
			resolved = append(resolved, n)
			seen[n] = true
		}
	}

	if len(resolved) == 0 {
		resolved = append(resolved, "png")
	}
	return resolved, unknown
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.Available(), ", "))
}
