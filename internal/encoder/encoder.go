package encoder

import (
	"image"
)

// Encoder serialises a rendered placeholder to one output format.
type Encoder interface {
	// Format returns the format name (e.g. "png", "jpeg", "rgba.zst").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality or map it to a compression level.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extension returns the file extension without dot.
	Extension() string
}
