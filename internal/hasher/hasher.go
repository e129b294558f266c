package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxHash64 of data as hex, truncated to hexLen
// characters (0 or out of range = all 16).  Rendered placeholders are
// named by it, so identical rasters share a filename.
func ContentHash(data []byte, hexLen int) string {
	return truncHex(xxhash.Sum64(data), hexLen)
}

// ContentHashReader is ContentHash over a stream.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncHex(h.Sum64(), hexLen), nil
}

// RenderKey identifies one render of a hash: same hash, size, punch and
// kernel give the same key.  Batch runs use it to decode duplicates once.
func RenderKey(hash string, width, height int, punch float64, kernel string) uint64 {
	d := xxhash.New()
	d.WriteString(hash)
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(width))
	binary.BigEndian.PutUint32(buf[4:], uint32(height))
	d.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(punch))
	d.Write(buf[:])
	d.WriteString(kernel)
	return d.Sum64()
}

func truncHex(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
