package smearhash

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/AnyUserName/smearhash-cli/internal/trig"
	"github.com/google/go-cmp/cmp"
)

const sampleHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj" // 4x3 grid

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDecode_LengthAndAlpha(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {32, 32}, {33, 17}, {200, 120}}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		pix, err := Decode(sampleHash, w, h, DefaultOptions())
		if err != nil {
			t.Fatalf("%dx%d: %v", w, h, err)
		}
		if len(pix) != w*h*4 {
			t.Fatalf("%dx%d: got %d bytes, want %d", w, h, len(pix), w*h*4)
		}
		for i := 3; i < len(pix); i += 4 {
			if pix[i] != 255 {
				t.Fatalf("%dx%d: alpha at byte %d = %d", w, h, i, pix[i])
			}
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	p1, err := Decode(sampleHash, 64, 48, opts)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := Decode(sampleHash, 64, 48, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("non-deterministic decode (-first +second):\n%s", diff)
	}
}

func TestDecode_WorkerCountInvariant(t *testing.T) {
	// Large enough to cross parallelMinPixels.
	const w, h = 211, 157
	ref, err := Decode(sampleHash, w, h, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, workers := range []int{2, 3, 8, 64, 1000} {
		got, err := Decode(sampleHash, w, h, Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(ref, got); diff != "" {
			t.Errorf("workers=%d differs from serial decode:\n%s", workers, diff)
		}
	}
}

func TestDecode_DCOnly(t *testing.T) {
	colors := [][3]uint8{
		{0, 0, 0}, {255, 255, 255}, {128, 64, 32}, {1, 2, 3}, {17, 200, 99}, {254, 10, 11},
	}
	for _, c := range colors {
		hash := buildHash(t, 1, 1, 0, c, nil)
		if len(hash) != 6 {
			t.Fatalf("1x1 hash %q has length %d", hash, len(hash))
		}
		avg, err := AverageColor(hash)
		if err != nil {
			t.Fatal(err)
		}
		if avg != c {
			t.Fatalf("AverageColor(%q) = %v, want %v", hash, avg, c)
		}

		pix, err := Decode(hash, 5, 4, Options{})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < len(pix); i += 4 {
			for ch := 0; ch < 3; ch++ {
				if d := absDiff(pix[i+ch], avg[ch]); d > 2 {
					t.Fatalf("%v: pixel %d channel %d = %d, off by %d", c, i/4, ch, pix[i+ch], d)
				}
			}
		}
	}
}

func TestDecode_SinglePixel(t *testing.T) {
	pix, err := Decode(sampleHash, 1, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(pix) != 4 || pix[3] != 255 {
		t.Fatalf("got %v, want one opaque pixel", pix)
	}

	c := [3]uint8{90, 180, 30}
	hash := buildHash(t, 1, 1, 7, c, nil)
	pix, err = Decode(hash, 1, 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for ch := 0; ch < 3; ch++ {
		if d := absDiff(pix[ch], c[ch]); d > 2 {
			t.Errorf("channel %d = %d, want %d", ch, pix[ch], c[ch])
		}
	}
}

func TestDecode_Golden(t *testing.T) {
	pix, err := Decode(sampleHash, 32, 32, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Reference values from an independent float64 implementation of the
	// same pipeline.  ±1 absorbs fused multiply-add differences.
	golden := []struct {
		x, y int
		rgb  [3]uint8
	}{
		{0, 0, [3]uint8{135, 164, 178}},
		{31, 0, [3]uint8{137, 166, 182}},
		{0, 31, [3]uint8{136, 144, 148}},
		{16, 16, [3]uint8{158, 126, 108}},
		{31, 31, [3]uint8{133, 142, 147}},
		{7, 20, [3]uint8{139, 135, 138}},
	}
	for _, gp := range golden {
		off := (gp.y*32 + gp.x) * 4
		for ch := 0; ch < 3; ch++ {
			if d := absDiff(pix[off+ch], gp.rgb[ch]); d > 1 {
				t.Errorf("pixel (%d,%d) channel %d = %d, want %d", gp.x, gp.y, ch, pix[off+ch], gp.rgb[ch])
			}
		}
	}
}

func TestDecode_ExactKernelClose(t *testing.T) {
	approx, err := Decode(sampleHash, 48, 36, Options{Kernel: trig.Approx})
	if err != nil {
		t.Fatal(err)
	}
	exact, err := Decode(sampleHash, 48, 36, Options{Kernel: trig.Exact})
	if err != nil {
		t.Fatal(err)
	}
	for i := range approx {
		if d := absDiff(approx[i], exact[i]); d > 2 {
			t.Fatalf("byte %d: approx %d, exact %d", i, approx[i], exact[i])
		}
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		hash          string
		width, height int
		want          error
	}{
		{"bad char", sampleHash[:10] + " " + sampleHash[11:], 8, 8, ErrInvalidCharacter},
		{"one short", sampleHash[:len(sampleHash)-1], 8, 8, ErrTruncatedHash},
		{"one long", sampleHash + "0", 8, 8, ErrTrailingData},
		{"empty", "", 8, 8, ErrTruncatedHash},
		{"zero width", sampleHash, 0, 8, ErrInvalidDimensions},
		{"negative height", sampleHash, 8, -1, ErrInvalidDimensions},
		{"too large", sampleHash, MaxDimension + 1, 1, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		pix, err := Decode(tt.hash, tt.width, tt.height, Options{})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if pix != nil {
			t.Errorf("%s: got %d bytes alongside error", tt.name, len(pix))
		}
	}
}

func TestDecode_DimensionErrorKinds(t *testing.T) {
	var he *HashError

	// An output size problem is about the call, not the hash.
	_, err := Decode(sampleHash, 0, 8, Options{})
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("output size: got %v", err)
	}
	if errors.Is(err, ErrInvalidHash) || errors.As(err, &he) {
		t.Errorf("output size error %v should not be a hash error", err)
	}

	// A size flag needing a tenth row is a defect of the hash.
	_, err = Decode("}"+sampleHash[1:], 8, 8, Options{})
	if !errors.Is(err, ErrInvalidDimensions) || !errors.Is(err, ErrInvalidHash) || !errors.As(err, &he) {
		t.Errorf("size flag: got %v, want a *HashError wrapping both", err)
	}
}

func TestDecode_Unchecked(t *testing.T) {
	opts := Options{Unchecked: true}

	// Valid input decodes exactly as in strict mode.
	strict, err := Decode(sampleHash, 20, 10, Options{})
	if err != nil {
		t.Fatal(err)
	}
	loose, err := Decode(sampleHash, 20, 10, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(strict, loose); diff != "" {
		t.Errorf("unchecked decode of a valid hash differs:\n%s", diff)
	}

	// Malformed input must not fail or read out of bounds.
	for _, in := range []string{"", "~", "  ", sampleHash[:9], sampleHash + "junk", strings.Repeat("|", 40), "\xff\xfe\x00"} {
		pix, err := Decode(in, 6, 5, opts)
		if err != nil {
			t.Errorf("%q: unexpected error %v", in, err)
		}
		if len(pix) != 6*5*4 {
			t.Errorf("%q: got %d bytes", in, len(pix))
		}
	}

	for _, sz := range [][2]int{{0, 5}, {5, 0}, {-3, 4}, {-1, -1}} {
		pix, err := Decode(sampleHash, sz[0], sz[1], opts)
		if err != nil || len(pix) != 0 {
			t.Errorf("%dx%d: got %d bytes, %v; want empty buffer", sz[0], sz[1], len(pix), err)
		}
	}
}

func TestDecode_UncheckedHugeSizes(t *testing.T) {
	opts := Options{Unchecked: true, Workers: 4}
	sizes := [][2]int{
		{1, math.MaxInt},
		{math.MaxInt, 1},
		{math.MaxInt, math.MaxInt},
		{1 << 20, 1 << 20},
		{maxPixels + 1, 1},
	}
	for _, sz := range sizes {
		pix, err := Decode("000000", sz[0], sz[1], opts)
		if err != nil || len(pix) != 0 {
			t.Errorf("Decode %dx%d: got %d bytes, %v; want empty buffer", sz[0], sz[1], len(pix), err)
		}
		lin, err := DecodeLinear(sampleHash, sz[0], sz[1], opts)
		if err != nil || len(lin) != 0 {
			t.Errorf("DecodeLinear %dx%d: got %d values, %v; want none", sz[0], sz[1], len(lin), err)
		}
		img, err := DecodeImage(sampleHash, sz[0], sz[1], opts)
		if err != nil {
			t.Errorf("DecodeImage %dx%d: %v", sz[0], sz[1], err)
			continue
		}
		if !img.Bounds().Empty() {
			t.Errorf("DecodeImage %dx%d: bounds %v, want empty", sz[0], sz[1], img.Bounds())
		}
	}

	// The bound itself still decodes.
	if !rasterFits(maxPixels, 1) || !rasterFits(MaxDimension, MaxDimension) {
		t.Error("rasterFits rejects a raster at the limit")
	}
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage(sampleHash, 12, 9, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 9 {
		t.Fatalf("bounds %v", b)
	}
	pix, _ := Decode(sampleHash, 12, 9, Options{})
	if diff := cmp.Diff(pix, img.Pix); diff != "" {
		t.Errorf("image pixels differ from Decode:\n%s", diff)
	}
	c := img.RGBAAt(11, 8)
	if c.A != 255 || c.R != pix[len(pix)-4] {
		t.Errorf("RGBAAt(11,8) = %v", c)
	}

	empty, err := DecodeImage(sampleHash, -4, 3, Options{Unchecked: true})
	if err != nil {
		t.Fatal(err)
	}
	if !empty.Bounds().Empty() {
		t.Errorf("want empty bounds, got %v", empty.Bounds())
	}
}

func TestDecodeLinear(t *testing.T) {
	lin, err := DecodeLinear(sampleHash, 16, 12, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(lin) != 16*12*3 {
		t.Fatalf("got %d floats", len(lin))
	}
	for _, v := range lin {
		if v < -0.5 || v > 1.5 {
			t.Fatalf("implausible linear value %v", v)
		}
	}
	if _, err := DecodeLinear(sampleHash[:7], 4, 4, Options{}); !errors.Is(err, ErrTruncatedHash) {
		t.Errorf("got %v, want ErrTruncatedHash", err)
	}
}

func TestAverageColor(t *testing.T) {
	got, err := AverageColor(sampleHash)
	if err != nil {
		t.Fatal(err)
	}
	if want := [3]uint8{151, 150, 149}; got != want {
		t.Errorf("AverageColor = %v, want %v", got, want)
	}
	// Only the first six characters matter.
	got2, err := AverageColor(sampleHash[:6])
	if err != nil || got2 != got {
		t.Errorf("AverageColor(prefix) = %v, %v", got2, err)
	}
	if u := AverageColorUnchecked(sampleHash); u != got {
		t.Errorf("AverageColorUnchecked = %v, want %v", u, got)
	}
}

func TestAverageColor_Errors(t *testing.T) {
	tests := []struct {
		hash string
		want error
	}{
		{"LEHV6", ErrTruncatedHash},
		{"", ErrTruncatedHash},
		{"LE V6n", ErrInvalidCharacter},
		{"}EHV6n", ErrInvalidDimensions},
	}
	for _, tt := range tests {
		if _, err := AverageColor(tt.hash); !errors.Is(err, tt.want) {
			t.Errorf("AverageColor(%q): got %v, want %v", tt.hash, err, tt.want)
		}
	}
	if c := AverageColorUnchecked("x"); c != [3]uint8{} {
		t.Errorf("AverageColorUnchecked(short) = %v", c)
	}
}

func TestAverageColor_OutOfRange(t *testing.T) {
	hash := withDC(t, buildHash(t, 1, 1, 0, [3]uint8{}, nil), 0x1008040)

	if _, err := AverageColor(hash); !errors.Is(err, ErrInvalidColor) || !errors.Is(err, ErrInvalidHash) {
		t.Errorf("AverageColor: got %v, want ErrInvalidColor", err)
	}
	if _, err := Decode(hash, 1, 1, Options{}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("Decode: got %v, want ErrInvalidColor", err)
	}

	// Unchecked keeps the low 24 bits.
	if c := AverageColorUnchecked(hash); c != [3]uint8{0x00, 0x80, 0x40} {
		t.Errorf("AverageColorUnchecked = %v", c)
	}
	pix, err := Decode(hash, 1, 1, Options{Unchecked: true})
	if err != nil || len(pix) != 4 {
		t.Errorf("unchecked Decode: %d bytes, err %v", len(pix), err)
	}
}

func TestHashError_Message(t *testing.T) {
	err := Validate(sampleHash[:20])
	msg := err.Error()
	for _, want := range []string{"truncated", "4x3", "28", "20"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
}
